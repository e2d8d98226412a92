package internal

import (
	"crypto/sha256"
	"encoding/binary"
)

// Fingerprint identifies one verification attempt's inputs: normalized
// username, presented password, and the stored SRP material. It is a one-way
// digest, so the cache it keys never holds anything reversible to the
// password, and it changes whenever the stored verifier changes, which
// implicitly drops stale cache entries after a credential reset.
type Fingerprint [sha256.Size]byte

// NewFingerprint derives the cache key for (username, password, material).
// Fields are length-prefixed so no two input triples collide by
// concatenation.
func NewFingerprint(username, password, material string) Fingerprint {
	h := sha256.New()
	var n [8]byte
	for _, field := range []string{username, password, material} {
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}
