package buffer

import (
	"errors"
	"testing"

	"github.com/aelij/spanify/internal/testutils"
)

func TestAcquireTierSelection(t *testing.T) {
	pool := &testutils.MockPool{}
	scratch := make([]byte, 256)

	t.Run("negative length fails", func(t *testing.T) {
		_, err := Acquire(pool, -1, scratch)
		if !errors.Is(err, ErrNegativeLength) {
			t.Fatalf("expected ErrNegativeLength, got %v", err)
		}
	})

	t.Run("zero length is inline", func(t *testing.T) {
		buf, err := Acquire(pool, 0, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() != TierInline {
			t.Errorf("expected tier %v, got %v", TierInline, buf.Tier())
		}
		if buf.Len() != 0 {
			t.Errorf("expected length 0, got %d", buf.Len())
		}
	})

	t.Run("length equal to scratch capacity is inline", func(t *testing.T) {
		buf, err := Acquire(pool, len(scratch), scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() != TierInline {
			t.Errorf("expected tier %v, got %v", TierInline, buf.Tier())
		}
		if buf.Len() != len(scratch) {
			t.Errorf("expected length %d, got %d", len(scratch), buf.Len())
		}
	})

	t.Run("length one past scratch capacity leaves the inline tier", func(t *testing.T) {
		buf, err := Acquire(pool, len(scratch)+1, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() == TierInline {
			t.Errorf("expected tier other than %v for length %d", TierInline, len(scratch)+1)
		}
		if buf.Len() != len(scratch)+1 {
			t.Errorf("expected length %d, got %d", len(scratch)+1, buf.Len())
		}
	})

	t.Run("inline region aliases the scratch", func(t *testing.T) {
		buf, err := Acquire(pool, 8, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		copy(buf.Bytes(), "spanbuff")
		if got := string(scratch[:8]); got != "spanbuff" {
			t.Errorf("expected scratch to reflect writes through the region, got %q", got)
		}
	})

	t.Run("pooled request rents the smallest fitting block", func(t *testing.T) {
		pool.Reset()
		buf, err := Acquire(pool, testutils.MockBlockSizes[0]+1, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() != TierPooled {
			t.Fatalf("expected tier %v, got %v", TierPooled, buf.Tier())
		}
		if buf.Len() != testutils.MockBlockSizes[0]+1 {
			t.Errorf("expected region length %d, got %d", testutils.MockBlockSizes[0]+1, buf.Len())
		}
		if cap(buf.Bytes()) != testutils.MockBlockSizes[1] {
			t.Errorf("expected backing block of %d bytes, got %d", testutils.MockBlockSizes[1], cap(buf.Bytes()))
		}
		if pool.GetCalls() != 1 {
			t.Errorf("expected exactly 1 rent, got %d", pool.GetCalls())
		}
	})

	t.Run("request beyond the largest block size is heap", func(t *testing.T) {
		pool.Reset()
		maxBlock := testutils.MockBlockSizes[len(testutils.MockBlockSizes)-1]
		buf, err := Acquire(pool, maxBlock+1, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() != TierHeap {
			t.Errorf("expected tier %v, got %v", TierHeap, buf.Tier())
		}
		if pool.GetCalls() != 0 {
			t.Errorf("expected no rents, got %d", pool.GetCalls())
		}
	})

	t.Run("exhausted pool falls back to heap", func(t *testing.T) {
		pool.Reset()
		pool.SetExhausted(true)
		defer pool.SetExhausted(false)

		buf, err := Acquire(pool, len(scratch)+1, scratch)
		if err != nil {
			t.Fatal(err)
		}
		defer buf.Release()
		if buf.Tier() != TierHeap {
			t.Errorf("expected tier %v on exhaustion, got %v", TierHeap, buf.Tier())
		}
		if buf.Len() != len(scratch)+1 {
			t.Errorf("expected length %d, got %d", len(scratch)+1, buf.Len())
		}
	})
}

func TestRelease(t *testing.T) {
	scratch := make([]byte, 256)

	t.Run("pooled release returns exactly one block", func(t *testing.T) {
		pool := &testutils.MockPool{}
		buf, err := Acquire(pool, 300, scratch)
		if err != nil {
			t.Fatal(err)
		}
		if buf.Tier() != TierPooled {
			t.Fatalf("expected tier %v, got %v", TierPooled, buf.Tier())
		}
		if err := buf.Release(); err != nil {
			t.Fatalf("first release failed: %v", err)
		}
		if pool.PutCalls() != 1 {
			t.Errorf("expected exactly 1 return, got %d", pool.PutCalls())
		}
		if pool.BlocksInUse() != 0 {
			t.Errorf("expected no blocks in use, got %d", pool.BlocksInUse())
		}
	})

	t.Run("double release fails without touching the pool", func(t *testing.T) {
		pool := &testutils.MockPool{}
		buf, err := Acquire(pool, 300, scratch)
		if err != nil {
			t.Fatal(err)
		}
		if err := buf.Release(); err != nil {
			t.Fatalf("first release failed: %v", err)
		}
		if err := buf.Release(); !errors.Is(err, ErrReleased) {
			t.Fatalf("expected ErrReleased on second release, got %v", err)
		}
		if pool.PutCalls() != 1 {
			t.Errorf("expected pool untouched by second release, got %d returns", pool.PutCalls())
		}
	})

	t.Run("inline and heap release never touch the pool", func(t *testing.T) {
		pool := &testutils.MockPool{}
		for _, length := range []int{16, testutils.MockBlockSizes[len(testutils.MockBlockSizes)-1] + 1} {
			buf, err := Acquire(pool, length, scratch)
			if err != nil {
				t.Fatal(err)
			}
			if err := buf.Release(); err != nil {
				t.Fatalf("release failed for length %d: %v", length, err)
			}
			buf.Release() // Second release is rejected and must stay contained.
		}
		if pool.PutCalls() != 0 {
			t.Errorf("expected no pool returns, got %d", pool.PutCalls())
		}
	})

	t.Run("release invalidates the region", func(t *testing.T) {
		pool := &testutils.MockPool{}
		buf, err := Acquire(pool, 8, scratch)
		if err != nil {
			t.Fatal(err)
		}
		buf.Release()
		if buf.Bytes() != nil {
			t.Error("expected region to be nil after release")
		}
	})
}

func TestTierString(t *testing.T) {
	cases := map[Tier]string{
		TierInline: "inline",
		TierPooled: "pooled",
		TierHeap:   "heap",
		Tier(42):   "tier(42)",
	}
	for tier, want := range cases {
		if got := tier.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
