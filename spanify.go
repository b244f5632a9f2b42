// Package spanify implements low-allocation primitives for working with
// short-lived byte regions: a tiered buffer that picks the cheapest
// backing store for an exactly-sized request (caller-supplied inline
// scratch, a shared block pool, or the heap), and locale-invariant
// codecs that parse and format typed values directly in such regions.
package spanify

import (
	"errors"
	"fmt"
	"time"

	"github.com/aelij/spanify/internal/buffer"
	"github.com/aelij/spanify/internal/codec"
)

var (
	defaultBlockPool = NewBlockPool(DefaultBlockPoolConfig())

	ErrNegativeLength = buffer.ErrNegativeLength
	ErrReleased       = buffer.ErrReleased
	ErrMalformed      = codec.ErrMalformed
	ErrBufferTooSmall = codec.ErrBufferTooSmall
)

// ScratchSize is the conventional capacity for an inline scratch
// region. It covers most formatted values, so the common case stays on
// the inline tier with zero allocation.
const ScratchSize = 256

const (
	// MaxInt64Width is a conservative upper bound on the textual width
	// of a signed 64-bit integer: an optional sign plus 19 digits.
	MaxInt64Width = codec.MaxInt64Width

	// DateWidth is the exact textual width of a calendar date, YYYY-MM-DD.
	DateWidth = codec.DateWidth
)

// Tier identifiers for inspecting which storage class backs a buffer.
const (
	TierInline = buffer.TierInline
	TierPooled = buffer.TierPooled
	TierHeap   = buffer.TierHeap
)

// Acquire returns a tiered buffer of exactly length bytes backed by the
// process-default block pool. The scratch region must be exclusive to
// this call site; a separate goroutine needs its own scratch. The
// caller must release the buffer exactly once on every exit path:
//
//	var scratch [spanify.ScratchSize]byte
//	buf, err := spanify.Acquire(n, scratch[:])
//	if err != nil {
//		return err
//	}
//	defer buf.Release()
func Acquire(length int, scratch []byte) (buffer.Buffer[*BlockPool], error) {
	return buffer.Acquire(defaultBlockPool, length, scratch)
}

// ParseInt64 interprets src as the decimal encoding of a signed 64-bit
// integer. The entire region must match; see codec.ParseInt64.
func ParseInt64(src []byte) (v int64, n int, err error) {
	return codec.ParseInt64(src)
}

// ParseInt64Escaped parses a signed 64-bit integer from a source region
// that may contain backslash escape sequences, decoding them into a
// tiered scratch buffer first.
func ParseInt64Escaped(src, scratch []byte) (v int64, n int, err error) {
	return codec.ParseInt64Escaped(defaultBlockPool, src, scratch)
}

// FormatInt64 writes the decimal encoding of v into a buffer acquired
// over the caller's scratch region and returns the written prefix. The
// returned slice aliases scratch and is valid until the scratch region
// is reused. The scratch must hold at least MaxInt64Width bytes so the
// buffer stays on the inline tier and the prefix can safely outlive
// the scoped release.
func FormatInt64(v int64, scratch []byte) ([]byte, error) {
	if len(scratch) < MaxInt64Width {
		return nil, fmt.Errorf("%w: scratch must hold at least %d bytes", ErrBufferTooSmall, MaxInt64Width)
	}
	buf, err := Acquire(MaxInt64Width, scratch)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	n, err := codec.FormatInt64(v, buf.Bytes())
	if err != nil {
		return nil, err
	}
	return scratch[:n], nil
}

// FormatInt64To formats v into a pool-backed tiered buffer and hands
// the written prefix to sink before the buffer is released. The slice
// passed to sink is only valid for the duration of the call and must
// not be retained; copy it if it needs to outlive the sink. This is
// the zero-copy handoff path for feeding formatted scalars to an
// output writer.
func FormatInt64To(v int64, scratch []byte, sink func([]byte) error) error {
	buf, err := Acquire(MaxInt64Width, scratch)
	if err != nil {
		return err
	}
	defer buf.Release()

	n, err := codec.FormatInt64(v, buf.Bytes())
	if err != nil {
		return err
	}
	return sink(buf.Bytes()[:n])
}

// ParseDate interprets src as a calendar date in the fixed YYYY-MM-DD
// layout and returns midnight UTC of that date.
func ParseDate(src []byte) (t time.Time, n int, err error) {
	return codec.ParseDate(src)
}

// FormatDate writes t's calendar date into a buffer acquired over the
// caller's scratch region and returns the written prefix, which aliases
// scratch. The output width is the fixed DateWidth, so with a scratch
// of at least DateWidth bytes the size estimate can never be
// insufficient; an undersized region at this call site is an
// implementation defect and panics.
func FormatDate(t time.Time, scratch []byte) ([]byte, error) {
	if len(scratch) < DateWidth {
		return nil, fmt.Errorf("%w: scratch must hold at least %d bytes", ErrBufferTooSmall, DateWidth)
	}
	buf, err := Acquire(DateWidth, scratch)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	n, err := codec.FormatDate(t, buf.Bytes())
	if err != nil {
		if errors.Is(err, codec.ErrBufferTooSmall) {
			panic(fmt.Errorf("invariant violation: fixed-width date region undersized: %w", err))
		}
		return nil, err
	}
	return scratch[:n], nil
}
