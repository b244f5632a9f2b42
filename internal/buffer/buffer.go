// Package buffer implements a tiered scratch buffer for short-lived,
// exactly-sized byte regions. A request is backed by the cheapest tier
// that fits: a caller-supplied inline scratch region, a block rented
// from a shared pool, or a plain heap allocation as the fallback.
package buffer

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeLength = errors.New("requested length cannot be negative")
	ErrReleased       = errors.New("buffer has already been released")
)

// Pooler defines the contract for a memory pool that manages fixed-size blocks.
type Pooler interface {
	Sizes() []int                          // Returns supported block sizes in ascending order.
	IsSupported(blockSize int) bool        // Checks if a block size is supported.
	Get(blockSize int) []byte              // Get rents a block of the specified size, or nil if the pool is exhausted.
	Put(b []byte)                          // Put returns a rented block to the pool.
	Allocate(blockSize int, numBlocks int) // Allocates blocks in the pool (pre-warming).
}

// Tier identifies the storage class backing a Buffer's region.
type Tier int

const (
	TierInline Tier = iota // Region aliases the caller's inline scratch.
	TierPooled             // Region is a prefix of a block rented from a Pooler.
	TierHeap               // Region is a dedicated heap allocation.
)

func (t Tier) String() string {
	switch t {
	case TierInline:
		return "inline"
	case TierPooled:
		return "pooled"
	case TierHeap:
		return "heap"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Buffer represents a contiguous writable region of an exact requested
// length, backed by one of three storage tiers.
//
// A Buffer borrows its backing memory: the inline tier aliases the
// caller's scratch region for the Buffer's lifetime, and the pooled
// tier exclusively owns a rented block between Acquire and Release.
// Callers must guarantee Release runs exactly once on every exit path,
// normally with defer immediately after a successful Acquire.
type Buffer[P Pooler] struct {
	pool     P
	region   []byte
	block    []byte // Rented backing block; non-nil iff tier == TierPooled.
	tier     Tier
	released bool
}

// Acquire returns a Buffer whose region is writable and exactly length
// bytes long. The region's contents are unspecified; callers must fully
// populate the portion they read back.
//
// Tier selection: length <= len(scratch) uses the inline tier (zero
// allocation, region aliases scratch); otherwise the smallest supported
// pool block that fits is rented; requests larger than the largest
// block size, or hitting an exhausted pool, fall back to the heap.
//
// The scratch region must not be shared with a concurrent Acquire, and
// must not be read through other aliases while the Buffer is alive.
func Acquire[P Pooler](pool P, length int, scratch []byte) (Buffer[P], error) {
	if length < 0 {
		return Buffer[P]{}, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}
	if length <= len(scratch) {
		return Buffer[P]{
			pool:   pool,
			region: scratch[:length],
			tier:   TierInline,
		}, nil
	}
	for _, size := range pool.Sizes() {
		if length > size {
			continue
		}
		if block := pool.Get(size); block != nil {
			return Buffer[P]{
				pool:   pool,
				region: block[:length],
				block:  block,
				tier:   TierPooled,
			}, nil
		}
		break // Pool is exhausted; degrade to the heap tier.
	}
	return Buffer[P]{
		pool:   pool,
		region: make([]byte, length),
		tier:   TierHeap,
	}, nil
}

// Bytes returns the writable region. It is valid until Release.
func (b *Buffer[P]) Bytes() []byte {
	return b.region
}

// Len returns the requested length of the region.
func (b *Buffer[P]) Len() int {
	return len(b.region)
}

// Tier returns the storage tier backing the region.
func (b *Buffer[P]) Tier() Tier {
	return b.tier
}

// Release returns a pooled backing block to the pool and invalidates
// the Buffer. It is a no-op for the inline and heap tiers beyond the
// invalidation. Release must be called exactly once; a second call
// returns ErrReleased and never touches the pool again.
func (b *Buffer[P]) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	if b.tier == TierPooled {
		b.pool.Put(b.block)
		b.block = nil
	}
	b.region = nil
	return nil
}
