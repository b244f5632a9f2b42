package spanify

import (
	"crypto/sha256"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Sum64 returns the 64-bit xxHash digest of b without allocating.
func Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Sum64String returns the 64-bit xxHash digest of the string's UTF-8
// bytes without copying them. Go strings are stored as UTF-8, so this
// is the portable byte representation of the string: two logically
// equal strings always hash identically, on every platform.
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Digest returns the 32-byte SHA-256 digest of b. It is deterministic
// and performs no allocation beyond the returned array.
func Digest(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DigestString returns the 32-byte SHA-256 digest of the string's
// UTF-8 bytes without copying them.
func DigestString(s string) [32]byte {
	return sha256.Sum256(stringToBytes(s))
}

// stringToBytes aliases a string's backing array as a byte slice
// without allocation. The result must never be modified and must not
// outlive the string.
func stringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
