package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint digests a request into a fixed-length hex string. Each part is
// length-prefixed so ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...[]byte) string {
	h, _ := blake2b.New256(nil) // only errors on an oversized key
	var prefix [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range prefix {
			prefix[i] = byte(n >> (8 * i))
		}
		h.Write(prefix[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SameFingerprint reports whether a stored fingerprint matches. An empty stored
// value predates fingerprinting and matches anything.
func SameFingerprint(stored, current string) bool {
	return stored == "" || stored == current
}
