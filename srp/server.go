package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const ephemeralBytes = 32

var (
	// ErrSessionConsumed is an exported constant or variable used by the authentication engine.
	ErrSessionConsumed = errors.New("srp session already consumed")
	// ErrSessionNotCompleted is an exported constant or variable used by the authentication engine.
	ErrSessionNotCompleted = errors.New("srp session not completed")
	// ErrInvalidPublicKey is an exported constant or variable used by the authentication engine.
	ErrInvalidPublicKey = errors.New("invalid srp public key")
	// ErrInvalidVerifier is an exported constant or variable used by the authentication engine.
	ErrInvalidVerifier = errors.New("invalid srp verifier")
)

// ServerSession holds the server-side ephemeral state of one handshake.
// It is produced once per verification attempt, consumed exactly once by
// [ServerSession.Complete], and must not be shared across attempts.
type ServerSession struct {
	group    *Group
	salt     *big.Int
	verifier *big.Int
	b        *big.Int
	public   *big.Int
	key      []byte
	evidence []byte
	consumed bool
	accepted bool
}

// NewServerSession derives a fresh server ephemeral pair (b, B) for the given
// stored salt and verifier, where B = (k*v + g^b) mod N.
//
// NewServerSession may return an error when input validation, dependency calls, or security checks fail.
// NewServerSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewServerSession(group *Group, salt, verifier *big.Int) (*ServerSession, error) {
	if group == nil {
		return nil, ErrUnknownGroup
	}
	if salt == nil || verifier == nil || verifier.Sign() <= 0 || verifier.Cmp(group.N) >= 0 {
		return nil, ErrInvalidVerifier
	}

	b, err := randomEphemeral(group)
	if err != nil {
		return nil, fmt.Errorf("srp ephemeral: %w", err)
	}

	k := group.multiplier()
	kv := new(big.Int).Mul(k, verifier)
	gb := new(big.Int).Exp(group.G, b, group.N)
	public := kv.Add(kv, gb)
	public.Mod(public, group.N)
	if public.Sign() == 0 {
		return nil, ErrInvalidPublicKey
	}

	return &ServerSession{
		group:    group,
		salt:     new(big.Int).Set(salt),
		verifier: new(big.Int).Set(verifier),
		b:        b,
		public:   public,
	}, nil
}

// PublicKey returns the server public ephemeral B.
func (s *ServerSession) PublicKey() *big.Int {
	return new(big.Int).Set(s.public)
}

// Salt returns the salt the session was created with.
func (s *ServerSession) Salt() *big.Int {
	return new(big.Int).Set(s.salt)
}

// Complete consumes the session with the client's public ephemeral A and
// evidence M1. It returns true only when M1 matches the value computable by a
// party who knows the password behind the stored verifier. Calling Complete a
// second time is a protocol misuse and fails with [ErrSessionConsumed]; it is
// not a recoverable authentication failure.
//
// Complete may return an error when input validation, dependency calls, or security checks fail.
// Complete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *ServerSession) Complete(clientPublic, clientEvidence *big.Int) (bool, error) {
	if s == nil {
		return false, ErrSessionConsumed
	}
	if s.consumed {
		return false, ErrSessionConsumed
	}
	s.consumed = true

	if clientPublic == nil || clientEvidence == nil {
		return false, ErrInvalidPublicKey
	}
	// A outside [1, N) never comes from a conforming client and would not
	// survive the fixed-width padding below.
	if clientPublic.Sign() <= 0 || clientPublic.Cmp(s.group.N) >= 0 {
		return false, ErrInvalidPublicKey
	}
	// M1 is a SHA-256 digest; anything wider or negative is a forged proof,
	// rejected before it reaches the fixed-width comparison buffer.
	if clientEvidence.Sign() < 0 || clientEvidence.BitLen() > 8*sha256.Size {
		return false, nil
	}

	u := s.group.scrambler(clientPublic, s.public)
	if u.Sign() == 0 {
		return false, ErrInvalidPublicKey
	}

	// S = (A * v^u)^b mod N
	vu := new(big.Int).Exp(s.verifier, u, s.group.N)
	base := vu.Mul(clientPublic, vu)
	base.Mod(base, s.group.N)
	secret := base.Exp(base, s.b, s.group.N)

	key, err := deriveKey(s.group, secret)
	if err != nil {
		return false, err
	}

	expected := hashParts(s.group.pad(clientPublic), s.group.pad(s.public), key)
	provided := clientEvidence.FillBytes(make([]byte, len(expected)))
	if subtle.ConstantTimeCompare(expected, provided) != 1 {
		return false, nil
	}

	s.key = key
	s.evidence = hashParts(s.group.pad(clientPublic), expected, key)
	s.accepted = true
	return true, nil
}

// SessionKey returns the shared key established by a successful Complete.
func (s *ServerSession) SessionKey() ([]byte, error) {
	if s == nil || !s.accepted {
		return nil, ErrSessionNotCompleted
	}
	return append([]byte(nil), s.key...), nil
}

// Evidence returns the server evidence M2 proving to the client that the
// server knows the verifier. Only available after a successful Complete.
func (s *ServerSession) Evidence() (*big.Int, error) {
	if s == nil || !s.accepted {
		return nil, ErrSessionNotCompleted
	}
	return new(big.Int).SetBytes(s.evidence), nil
}

func randomEphemeral(group *Group) (*big.Int, error) {
	raw := make([]byte, ephemeralBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, err
	}
	e := new(big.Int).SetBytes(raw)
	if e.Sign() == 0 {
		e.SetInt64(1)
	}
	return e, nil
}

func deriveKey(group *Group, secret *big.Int) ([]byte, error) {
	r := hkdf.New(sha256.New, group.pad(secret), nil, []byte("goSRP session key"))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("srp key derivation: %w", err)
	}
	return key, nil
}
