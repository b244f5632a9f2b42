package spanify

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const blocksPerAlloc = 1

const (
	KiB = 1024

	BlockSize1K   = 1 * KiB
	BlockSize16K  = 16 * KiB
	BlockSize256K = 256 * KiB
)

// blockSizes represents supported block sizes for pooled regions ordered by smallest to largest.
//   - The smallest block size should sit just above the inline scratch capacity so that
//     barely-too-big requests don't waste a large block.
//   - The largest block size bounds the pooled tier; anything bigger goes to the heap.
var blockSizes = [3]int{
	BlockSize1K,
	BlockSize16K,
	BlockSize256K,
}

func init() {
	// Runtime assertion.
	if !sort.IntsAreSorted(blockSizes[:]) {
		panic(errors.New("block sizes must be sorted in ascending order"))
	}
}

type BlockPoolConfig struct {
	// Number of free blocks for each block size the pool can hold before starting to release memory.
	FreeThresholds [len(blockSizes)]int
}

// BlockPool is a collection of thread-safe pools for managing off-heap memory
// blocks of a pre-defined set of fixed sizes.
//
// Each rented block is exclusively owned by a single buffer between Get and
// Put; the pool itself is safe for concurrent rent/return from independent
// call sites.
type BlockPool struct {
	mu       sync.Mutex
	free1K   []*[BlockSize1K]byte
	free16K  []*[BlockSize16K]byte
	free256K []*[BlockSize256K]byte

	// freeThresholds represents the number of free blocks for each size the pool
	// can hold before starting to release memory.
	freeThresholds [len(blockSizes)]int
}

// NewBlockPool creates a new, empty collection of block pools.
func NewBlockPool(config BlockPoolConfig) *BlockPool {
	return &BlockPool{freeThresholds: config.FreeThresholds}
}

// Sizes returns a slice of supported block sizes.
func (p *BlockPool) Sizes() []int {
	return blockSizes[:]
}

func (p *BlockPool) IsSupported(blockSize int) bool {
	return slices.Contains(p.Sizes(), blockSize)
}

// Get rents a block from a pool of the specified size.
// It returns nil if the size is unsupported or backing memory cannot be
// mapped, so callers can degrade to a heap allocation instead of failing.
func (p *BlockPool) Get(blockSize int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch blockSize {
	case BlockSize1K:
		if len(p.free1K) == 0 && !p.alloc(blockSize, blocksPerAlloc) {
			return nil
		}
		n := len(p.free1K) - 1
		ptr := p.free1K[n]
		p.free1K = p.free1K[:n]
		return ptr[:]
	case BlockSize16K:
		if len(p.free16K) == 0 && !p.alloc(blockSize, blocksPerAlloc) {
			return nil
		}
		n := len(p.free16K) - 1
		ptr := p.free16K[n]
		p.free16K = p.free16K[:n]
		return ptr[:]
	case BlockSize256K:
		if len(p.free256K) == 0 && !p.alloc(blockSize, blocksPerAlloc) {
			return nil
		}
		n := len(p.free256K) - 1
		ptr := p.free256K[n]
		p.free256K = p.free256K[:n]
		return ptr[:]
	default:
		return nil
	}
}

// Put returns a byte slice to the pool.
// It does nothing if the block size is not a supported size.
func (p *BlockPool) Put(b []byte) {
	if b == nil {
		return
	}

	size := cap(b)
	b = b[:size] // Ensure the block is reset to its full capacity before returning.

	switch size {
	case BlockSize1K:
		ptr := (*[BlockSize1K]byte)(unsafe.Pointer(&b[0]))
		var blocksToUnmap []*[BlockSize1K]byte

		p.mu.Lock()
		p.free1K = append(p.free1K, ptr)
		p.free1K, blocksToUnmap = releaseBlocks(p.free1K, p.freeThresholds[0])
		p.mu.Unlock()

		// Perform unmap outside of the lock to avoid blocking other operations.
		for _, blockPtr := range blocksToUnmap {
			p.unmap(blockPtr[:])
		}

	case BlockSize16K:
		ptr := (*[BlockSize16K]byte)(unsafe.Pointer(&b[0]))
		var blocksToUnmap []*[BlockSize16K]byte

		p.mu.Lock()
		p.free16K = append(p.free16K, ptr)
		p.free16K, blocksToUnmap = releaseBlocks(p.free16K, p.freeThresholds[1])
		p.mu.Unlock()

		for _, blockPtr := range blocksToUnmap {
			p.unmap(blockPtr[:])
		}

	case BlockSize256K:
		ptr := (*[BlockSize256K]byte)(unsafe.Pointer(&b[0]))
		var blocksToUnmap []*[BlockSize256K]byte

		p.mu.Lock()
		p.free256K = append(p.free256K, ptr)
		p.free256K, blocksToUnmap = releaseBlocks(p.free256K, p.freeThresholds[2])
		p.mu.Unlock()

		for _, blockPtr := range blocksToUnmap {
			p.unmap(blockPtr[:])
		}
	}
}

// Allocate ensures that at least numBlocks are available in the pool for the
// specified size. This is useful for pre-warming a pool to a specific capacity.
// It does nothing for unsupported sizes.
func (p *BlockPool) Allocate(blockSize int, numBlocks int) {
	if numBlocks <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var n int
	switch blockSize {
	case BlockSize1K:
		n = numBlocks - len(p.free1K)
	case BlockSize16K:
		n = numBlocks - len(p.free16K)
	case BlockSize256K:
		n = numBlocks - len(p.free256K)
	default:
		return
	}
	if n > 0 {
		p.alloc(blockSize, n)
	}
}

// unmap releases the memory of a block back to the operating system.
func (p *BlockPool) unmap(b []byte) {
	if err := unix.Munmap(b); err != nil {
		slog.Error("failed to unmap block", "error", err)
	}
}

// alloc allocates the specified number of free blocks and size.
// It reports whether the allocation succeeded and assumes the caller holds the mutex.
func (p *BlockPool) alloc(blockSize int, numBlocks int) bool {
	totalAllocSize := blockSize * numBlocks

	// Use unix.Mmap to allocate virtual memory that is not part the Go heap.
	// This effectively reduces how often the GOGC has to run.
	data, err := unix.Mmap(-1, 0, totalAllocSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		slog.Error(
			"cannot map pool memory; callers will fall back to heap allocations",
			"blockSize", blockSize,
			"bytes", totalAllocSize,
			"error", fmt.Errorf("mmap: %w", err),
		)
		return false
	}

	// Slice the mmap'd region into blocks and append to the correct free list.
	for len(data) > 0 {
		blockSlice := data[:blockSize:blockSize]
		data = data[blockSize:]

		switch blockSize {
		case BlockSize1K:
			ptr := (*[BlockSize1K]byte)(unsafe.Pointer(&blockSlice[0]))
			p.free1K = append(p.free1K, ptr)
		case BlockSize16K:
			ptr := (*[BlockSize16K]byte)(unsafe.Pointer(&blockSlice[0]))
			p.free16K = append(p.free16K, ptr)
		case BlockSize256K:
			ptr := (*[BlockSize256K]byte)(unsafe.Pointer(&blockSlice[0]))
			p.free256K = append(p.free256K, ptr)
		}
	}
	return true
}

// numFree returns the number of available blocks for a given block size.
// It is primarily intended as helper method in tests.
func (p *BlockPool) numFree(size int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch size {
	case BlockSize1K:
		return len(p.free1K)
	case BlockSize16K:
		return len(p.free16K)
	case BlockSize256K:
		return len(p.free256K)
	default:
		return 0
	}
}

// releaseBlocks is a generic helper that trims the free list if it exceeds the given threshold.
// It returns the updated list and a list of any blocks that were removed and should be unmapped.
func releaseBlocks[P any](freeList []P, threshold int) (newList []P, toUnmap []P) {
	if threshold > 0 && len(freeList) > threshold {
		// Release half of the free blocks to prevent thrashing around the threshold.
		freeCount := len(freeList) / 2
		toUnmap = freeList[:freeCount]
		newList = freeList[freeCount:]
		return newList, toUnmap
	}
	return freeList, nil
}
