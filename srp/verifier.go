package srp

import (
	"crypto/rand"
	"io"
	"math/big"
)

const saltBytes = 16

// NewSalt generates a random 128-bit salt.
//
// NewSalt may return an error when input validation, dependency calls, or security checks fail.
// NewSalt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSalt() (*big.Int, error) {
	raw := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// ComputeVerifier derives the verifier v = g^x mod N stored in place of the
// password. Used when provisioning accounts and by tests.
//
// ComputeVerifier may return an error when input validation, dependency calls, or security checks fail.
// ComputeVerifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ComputeVerifier(group *Group, username, password string, salt *big.Int) (*big.Int, error) {
	if group == nil {
		return nil, ErrUnknownGroup
	}
	if salt == nil {
		return nil, ErrInvalidVerifier
	}
	x := privateKey(username, password, salt)
	return new(big.Int).Exp(group.G, x, group.N), nil
}

// privateKey computes x = H(salt | H(username ":" password)).
func privateKey(username, password string, salt *big.Int) *big.Int {
	inner := hashParts([]byte(username + ":" + password))
	return hashInt(salt.Bytes(), inner)
}
