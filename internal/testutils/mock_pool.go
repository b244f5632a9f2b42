package testutils

import (
	"slices"
	"sync/atomic"
)

var (
	MockBlockSizes = []int{512, 2048, 8192}
)

// MockPool is a deterministic, heap-backed Pooler for tests. It counts
// rents and returns, and can simulate exhaustion.
type MockPool struct {
	getCalls  atomic.Int64
	putCalls  atomic.Int64
	exhausted atomic.Bool
}

// Sizes returns supported block sizes.
func (p *MockPool) Sizes() []int {
	return MockBlockSizes
}

func (p *MockPool) IsSupported(blockSize int) bool {
	return slices.Contains(p.Sizes(), blockSize)
}

func (p *MockPool) Get(blockSize int) []byte {
	if p.exhausted.Load() {
		return nil
	}
	p.getCalls.Add(1)
	return make([]byte, blockSize)
}

func (p *MockPool) Put(b []byte) {
	p.putCalls.Add(1)
}

func (p *MockPool) Allocate(blockSize int, numBlocks int) {}

// SetExhausted makes subsequent Get calls report pool exhaustion.
func (p *MockPool) SetExhausted(v bool) {
	p.exhausted.Store(v)
}

func (p *MockPool) GetCalls() int64 {
	return p.getCalls.Load()
}

func (p *MockPool) PutCalls() int64 {
	return p.putCalls.Load()
}

func (p *MockPool) BlocksInUse() int64 {
	return p.GetCalls() - p.PutCalls()
}

func (p *MockPool) Reset() {
	p.getCalls.Store(0)
	p.putCalls.Store(0)
	p.exhausted.Store(false)
}
