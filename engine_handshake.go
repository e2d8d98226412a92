package goSRP

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/MrEthical07/goSRP/srp"
)

// parseCredential splits the stored "<salt>|<verifier>" pair. An empty field
// means password auth is not configured for the account; anything present but
// unparseable is a data-integrity failure, never a silent success.
func parseCredential(stored string) (salt, verifier *big.Int, err error) {
	if stored == "" {
		return nil, nil, ErrNoPasswordAuth
	}

	parts := strings.Split(stored, "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, ErrMalformedAccount
	}

	salt, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return nil, nil, fmt.Errorf("%w: salt not numeric", ErrMalformedAccount)
	}
	verifier, ok = new(big.Int).SetString(parts[1], 10)
	if !ok {
		return nil, nil, fmt.Errorf("%w: verifier not numeric", ErrMalformedAccount)
	}
	return salt, verifier, nil
}

// BeginHandshake opens the SRP exchange for an account: it parses the stored
// salt and verifier, derives a fresh server ephemeral session, and returns the
// challenge the client answers. The returned session is consumed by exactly
// one CompleteHandshake call and must never be shared across attempts.
//
// BeginHandshake may return an error when input validation, dependency calls, or security checks fail.
// BeginHandshake does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) BeginHandshake(account *Account) (*HandshakeChallenge, error) {
	if e == nil || e.group == nil {
		return nil, ErrEngineNotReady
	}
	if account == nil {
		return nil, ErrNoPasswordAuth
	}

	salt, verifier, err := parseCredential(account.SRP)
	if err != nil {
		e.metricInc(MetricMalformedAccount)
		return nil, err
	}

	sess, err := srp.NewServerSession(e.group, salt, verifier)
	if err != nil {
		if errors.Is(err, srp.ErrInvalidVerifier) {
			e.metricInc(MetricMalformedAccount)
			return nil, fmt.Errorf("%w: %v", ErrMalformedAccount, err)
		}
		return nil, err
	}

	e.metricInc(MetricHandshakeBegin)
	return &HandshakeChallenge{
		Session:   sess,
		Salt:      salt.String(),
		PublicKey: sess.PublicKey().String(),
	}, nil
}

// CompleteHandshake consumes a challenge with the client's public ephemeral A
// and evidence M1, both base-10 strings. It returns true only when the client
// proved knowledge of the password. Completing the same challenge twice is a
// protocol misuse surfaced as srp.ErrSessionConsumed.
//
// CompleteHandshake may return an error when input validation, dependency calls, or security checks fail.
// CompleteHandshake does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CompleteHandshake(challenge *HandshakeChallenge, clientPublic, clientEvidence string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if challenge == nil || challenge.Session == nil {
		return false, srp.ErrSessionConsumed
	}

	a, ok := new(big.Int).SetString(clientPublic, 10)
	if !ok {
		return false, srp.ErrInvalidPublicKey
	}
	m1, ok := new(big.Int).SetString(clientEvidence, 10)
	if !ok {
		return false, srp.ErrInvalidPublicKey
	}

	accepted, err := challenge.Session.Complete(a, m1)
	if err != nil {
		return false, err
	}
	if accepted {
		e.metricInc(MetricHandshakeAccepted)
	} else {
		e.metricInc(MetricHandshakeRejected)
	}
	return accepted, nil
}
