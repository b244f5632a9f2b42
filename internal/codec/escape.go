package codec

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/aelij/spanify/internal/buffer"
)

// NeedsUnescape reports whether src contains backslash escape sequences
// that must be decoded before the region can be interpreted.
func NeedsUnescape(src []byte) bool {
	return bytes.IndexByte(src, '\\') >= 0
}

// Unescape decodes backslash escape sequences from src into dst and
// returns the number of bytes written. It supports the JSON escape set:
// \\ \" \/ \b \f \n \r \t and \uXXXX, including surrogate pairs.
//
// Decoding never expands the input, so a dst of len(src) bytes always
// suffices; a shorter dst fails with ErrBufferTooSmall. Invalid or
// truncated sequences fail with ErrMalformed. On error the contents of
// dst are unspecified.
func Unescape(dst, src []byte) (n int, err error) {
	if len(dst) < len(src) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, len(src), len(dst))
	}

	for i := 0; i < len(src); {
		c := src[i]
		if c != '\\' {
			dst[n] = c
			n++
			i++
			continue
		}
		if i+1 >= len(src) {
			return 0, fmt.Errorf("%w: truncated escape sequence at offset %d", ErrMalformed, i)
		}

		switch e := src[i+1]; e {
		case '\\', '"', '/':
			dst[n] = e
			n++
			i += 2
		case 'b':
			dst[n] = '\b'
			n++
			i += 2
		case 'f':
			dst[n] = '\f'
			n++
			i += 2
		case 'n':
			dst[n] = '\n'
			n++
			i += 2
		case 'r':
			dst[n] = '\r'
			n++
			i += 2
		case 't':
			dst[n] = '\t'
			n++
			i += 2
		case 'u':
			r, size, err := decodeUnicodeEscape(src[i:])
			if err != nil {
				return 0, fmt.Errorf("%w at offset %d", err, i)
			}
			n += utf8.EncodeRune(dst[n:], r)
			i += size
		default:
			return 0, fmt.Errorf("%w: unknown escape sequence %q at offset %d", ErrMalformed, e, i)
		}
	}
	return n, nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence (or a surrogate pair of
// two such sequences) at the start of src. It returns the decoded rune
// and the number of source bytes consumed.
func decodeUnicodeEscape(src []byte) (r rune, size int, err error) {
	r, err = parseHex4(src)
	if err != nil {
		return 0, 0, err
	}
	if !utf16.IsSurrogate(r) {
		return r, 6, nil
	}

	// A high surrogate must be followed by an escaped low surrogate.
	if len(src) < 12 || src[6] != '\\' || src[7] != 'u' {
		return 0, 0, fmt.Errorf("%w: unpaired surrogate", ErrMalformed)
	}
	r2, err := parseHex4(src[6:])
	if err != nil {
		return 0, 0, err
	}
	combined := utf16.DecodeRune(r, r2)
	if combined == utf8.RuneError {
		return 0, 0, fmt.Errorf("%w: invalid surrogate pair", ErrMalformed)
	}
	return combined, 12, nil
}

// parseHex4 decodes the four hex digits of a \uXXXX sequence.
func parseHex4(src []byte) (rune, error) {
	if len(src) < 6 {
		return 0, fmt.Errorf("%w: truncated unicode escape", ErrMalformed)
	}
	var r rune
	for _, c := range src[2:6] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, fmt.Errorf("%w: invalid hex digit %q in unicode escape", ErrMalformed, c)
		}
	}
	return r, nil
}

// ParseInt64Escaped parses a signed 64-bit integer from a source region
// that may contain escape sequences. Escaped input is first decoded
// into a tiered scratch buffer and parsed from the decoded copy; this
// is the only correct order. Parsing the raw escaped bytes directly
// would misread the value and must not be used when escapes are
// possible. Unescaped input takes the zero-copy path.
//
// The consumed length refers to the original src region.
func ParseInt64Escaped[P buffer.Pooler](pool P, src, scratch []byte) (v int64, n int, err error) {
	if !NeedsUnescape(src) {
		return ParseInt64(src)
	}

	buf, err := buffer.Acquire(pool, len(src), scratch)
	if err != nil {
		return 0, 0, err
	}
	defer buf.Release()

	decoded, err := Unescape(buf.Bytes(), src)
	if err != nil {
		return 0, 0, err
	}
	v, _, err = ParseInt64(buf.Bytes()[:decoded])
	if err != nil {
		return 0, 0, err
	}
	return v, len(src), nil
}
