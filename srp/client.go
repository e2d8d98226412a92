package srp

import (
	"fmt"
	"math/big"
)

// ClientSession holds the client-side ephemeral state of one handshake. The
// engine also runs it internally to check a presented password against a
// stored verifier without a remote peer.
type ClientSession struct {
	group    *Group
	username string
	password string
	a        *big.Int
	public   *big.Int
	key      []byte
	proven   bool
}

// NewClientSession derives a fresh client ephemeral pair (a, A = g^a mod N).
//
// NewClientSession may return an error when input validation, dependency calls, or security checks fail.
// NewClientSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClientSession(group *Group, username, password string) (*ClientSession, error) {
	if group == nil {
		return nil, ErrUnknownGroup
	}

	a, err := randomEphemeral(group)
	if err != nil {
		return nil, fmt.Errorf("srp ephemeral: %w", err)
	}

	return &ClientSession{
		group:    group,
		username: username,
		password: password,
		a:        a,
		public:   new(big.Int).Exp(group.G, a, group.N),
	}, nil
}

// PublicKey returns the client public ephemeral A.
func (c *ClientSession) PublicKey() *big.Int {
	return new(big.Int).Set(c.public)
}

// ProveIdentity consumes the server's salt and public ephemeral B and returns
// the evidence value M1 that [ServerSession.Complete] verifies.
//
// ProveIdentity may return an error when input validation, dependency calls, or security checks fail.
// ProveIdentity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *ClientSession) ProveIdentity(salt, serverPublic *big.Int) (*big.Int, error) {
	if c == nil || c.proven {
		return nil, ErrSessionConsumed
	}
	c.proven = true

	if salt == nil || serverPublic == nil {
		return nil, ErrInvalidPublicKey
	}
	if new(big.Int).Mod(serverPublic, c.group.N).Sign() == 0 {
		return nil, ErrInvalidPublicKey
	}

	u := c.group.scrambler(c.public, serverPublic)
	if u.Sign() == 0 {
		return nil, ErrInvalidPublicKey
	}

	x := privateKey(c.username, c.password, salt)
	k := c.group.multiplier()

	// S = (B - k*g^x)^(a + u*x) mod N
	gx := new(big.Int).Exp(c.group.G, x, c.group.N)
	kgx := gx.Mul(k, gx)
	kgx.Mod(kgx, c.group.N)
	base := new(big.Int).Sub(serverPublic, kgx)
	base.Mod(base, c.group.N)

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, c.a)
	secret := base.Exp(base, exp, c.group.N)

	key, err := deriveKey(c.group, secret)
	if err != nil {
		return nil, err
	}
	c.key = key

	evidence := hashParts(c.group.pad(c.public), c.group.pad(serverPublic), key)
	return new(big.Int).SetBytes(evidence), nil
}

// SessionKey returns the shared key established by ProveIdentity.
func (c *ClientSession) SessionKey() ([]byte, error) {
	if c == nil || c.key == nil {
		return nil, ErrSessionNotCompleted
	}
	return append([]byte(nil), c.key...), nil
}

// VerifyServerEvidence checks the server's M2 against the client-side key.
func (c *ClientSession) VerifyServerEvidence(serverPublic, serverEvidence *big.Int) bool {
	if c == nil || c.key == nil || serverEvidence == nil {
		return false
	}
	m1 := hashParts(c.group.pad(c.public), c.group.pad(serverPublic), c.key)
	expected := hashParts(c.group.pad(c.public), m1, c.key)
	return new(big.Int).SetBytes(expected).Cmp(serverEvidence) == 0
}
