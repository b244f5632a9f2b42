package codec

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInt64(t *testing.T) {
	t.Run("valid inputs consume the whole region", func(t *testing.T) {
		cases := []struct {
			in   string
			want int64
		}{
			{"0", 0},
			{"123", 123},
			{"-42", -42},
			{"007", 7},
			{"9223372036854775807", math.MaxInt64},
			{"-9223372036854775808", math.MinInt64},
		}
		for _, tc := range cases {
			t.Run(tc.in, func(t *testing.T) {
				v, n, err := ParseInt64([]byte(tc.in))
				require.NoError(t, err)
				require.Equal(t, tc.want, v)
				require.Equal(t, len(tc.in), n)
			})
		}
	})

	t.Run("malformed inputs are rejected entirely", func(t *testing.T) {
		cases := []string{
			"",
			"-",
			"+123",
			"12a",
			"123x", // A prefix match must not produce a partial result.
			"a123",
			"1 2",
			"--1",
			"9223372036854775808",  // MaxInt64 + 1.
			"-9223372036854775809", // MinInt64 - 1.
			"99999999999999999999999",
		}
		for _, in := range cases {
			t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
				v, n, err := ParseInt64([]byte(in))
				require.ErrorIs(t, err, ErrMalformed)
				require.Zero(t, v)
				require.Zero(t, n)
			})
		}
	})
}

func TestFormatInt64(t *testing.T) {
	t.Run("writes at offset zero and returns the width", func(t *testing.T) {
		dst := make([]byte, MaxInt64Width)
		n, err := FormatInt64(-42, dst)
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, "-42", string(dst[:n]))
	})

	t.Run("rejects an undersized region", func(t *testing.T) {
		dst := make([]byte, 2)
		_, err := FormatInt64(-42, dst)
		require.ErrorIs(t, err, ErrBufferTooSmall)
	})

	t.Run("extremes fit the width bound", func(t *testing.T) {
		dst := make([]byte, MaxInt64Width)
		for _, v := range []int64{math.MinInt64, math.MaxInt64} {
			n, err := FormatInt64(v, dst)
			require.NoError(t, err)
			require.LessOrEqual(t, n, MaxInt64Width)
		}
	})
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 42, -42, 1000, -1000,
		math.MaxInt64, math.MinInt64,
		math.MaxInt64 - 1, math.MinInt64 + 1,
		7, -7, 123456789, -987654321,
	}
	dst := make([]byte, MaxInt64Width)
	for _, v := range values {
		n, err := FormatInt64(v, dst)
		require.NoError(t, err)

		got, consumed, err := ParseInt64(dst[:n])
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, consumed)
	}
}
