// Package codec implements allocation-free parsing and formatting of
// typed values to and from byte regions. All functions are stateless:
// each call is independent and never retains a reference to the
// caller's region after returning.
//
// Formats are locale-invariant. Digits are produced and consumed as
// ASCII arithmetic, so a round trip through format and parse
// reproduces the original value exactly regardless of environment.
package codec

import "errors"

var (
	ErrMalformed      = errors.New("malformed input")
	ErrBufferTooSmall = errors.New("destination region is too small")
)
