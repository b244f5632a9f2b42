package codec

import (
	"fmt"
	"math"
	"strconv"
)

// MaxInt64Width is a conservative upper bound on the textual width of a
// signed 64-bit integer: an optional sign plus 19 digits.
const MaxInt64Width = 20

// ParseInt64 interprets src as the decimal encoding of a signed 64-bit
// integer and returns the value and the number of bytes consumed.
//
// The entire region must match: any trailing or embedded non-digit
// byte, an empty region, a bare sign, or a value outside the int64
// range fails with ErrMalformed. A prefix match is never returned, so
// on success the consumed length always equals len(src).
func ParseInt64(src []byte) (v int64, n int, err error) {
	if len(src) == 0 {
		return 0, 0, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	neg := false
	i := 0
	if src[0] == '-' {
		neg = true
		i = 1
		if len(src) == 1 {
			return 0, 0, fmt.Errorf("%w: sign without digits", ErrMalformed)
		}
	}

	// Accumulate as a negative magnitude, since |math.MinInt64| > math.MaxInt64.
	var acc int64
	for ; i < len(src); i++ {
		c := src[i]
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("%w: unexpected byte %q at offset %d", ErrMalformed, c, i)
		}
		d := int64(c - '0')
		if acc < (math.MinInt64+d)/10 {
			return 0, 0, fmt.Errorf("%w: value out of range", ErrMalformed)
		}
		acc = acc*10 - d
	}

	if neg {
		return acc, len(src), nil
	}
	if acc == math.MinInt64 {
		return 0, 0, fmt.Errorf("%w: value out of range", ErrMalformed)
	}
	return -acc, len(src), nil
}

// FormatInt64 writes the decimal encoding of v into dst starting at
// offset 0 and returns the number of bytes written. The encoding never
// exceeds MaxInt64Width bytes; a dst shorter than the encoding fails
// with ErrBufferTooSmall and writes nothing.
func FormatInt64(v int64, dst []byte) (n int, err error) {
	// The scratch array stays on the stack; AppendInt writes into it in place.
	var scratch [MaxInt64Width]byte
	text := strconv.AppendInt(scratch[:0], v, 10)
	if len(text) > len(dst) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, len(text), len(dst))
	}
	return copy(dst, text), nil
}
