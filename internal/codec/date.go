package codec

import (
	"fmt"
	"time"
)

// DateWidth is the exact textual width of a calendar date, YYYY-MM-DD.
const DateWidth = 10

// ParseDate interprets src as a calendar date in the fixed YYYY-MM-DD
// layout and returns midnight UTC of that date and the number of bytes
// consumed.
//
// The region must be exactly DateWidth bytes with digits and dashes in
// their fixed positions, a month in 1-12 and a day valid for that
// month and year. Anything else fails with ErrMalformed.
func ParseDate(src []byte) (t time.Time, n int, err error) {
	if len(src) != DateWidth {
		return time.Time{}, 0, fmt.Errorf("%w: date must be exactly %d bytes, got %d", ErrMalformed, DateWidth, len(src))
	}
	if src[4] != '-' || src[7] != '-' {
		return time.Time{}, 0, fmt.Errorf("%w: expected dashes at offsets 4 and 7", ErrMalformed)
	}

	year, err := parseDigits(src[0:4])
	if err != nil {
		return time.Time{}, 0, err
	}
	month, err := parseDigits(src[5:7])
	if err != nil {
		return time.Time{}, 0, err
	}
	day, err := parseDigits(src[8:10])
	if err != nil {
		return time.Time{}, 0, err
	}

	if month < 1 || month > 12 {
		return time.Time{}, 0, fmt.Errorf("%w: month %d out of range", ErrMalformed, month)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, 0, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrMalformed, day, year, month)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), DateWidth, nil
}

// FormatDate writes t's calendar date (in t's location) into dst in the
// fixed YYYY-MM-DD layout starting at offset 0 and returns DateWidth.
// Years outside 0-9999 do not fit the fixed layout and fail with
// ErrMalformed; a dst shorter than DateWidth fails with
// ErrBufferTooSmall and writes nothing.
func FormatDate(t time.Time, dst []byte) (n int, err error) {
	if len(dst) < DateWidth {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, DateWidth, len(dst))
	}
	year, month, day := t.Date()
	if year < 0 || year > 9999 {
		return 0, fmt.Errorf("%w: year %d does not fit a 4-digit field", ErrMalformed, year)
	}

	putDigits(dst[0:4], year)
	dst[4] = '-'
	putDigits(dst[5:7], int(month))
	dst[7] = '-'
	putDigits(dst[8:10], day)
	return DateWidth, nil
}

// parseDigits decodes a fixed-width run of ASCII digits.
func parseDigits(src []byte) (int, error) {
	v := 0
	for i, c := range src {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: unexpected byte %q at digit offset %d", ErrMalformed, c, i)
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}

// putDigits encodes v as zero-padded ASCII digits filling dst exactly.
func putDigits(dst []byte, v int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}

// daysIn returns the number of days in the given month and year.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
