package goSRP

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSRP/internal"
	"github.com/MrEthical07/goSRP/srp"
)

// Verify checks a presented password against the stored verifier and returns
// the matching account, or (nil, nil) when there is no match. Unknown user,
// wrong password, and empty password all resolve to the same nil result so
// callers cannot distinguish them structurally.
//
// Attempts carrying an identical (username, password, stored material)
// fingerprint within the cache window collapse onto a single SRP handshake:
// concurrent callers join the in-flight computation, later callers reuse the
// settled outcome until the entry evicts itself.
//
// Errors are reserved for non-routine failures: malformed stored credentials
// (ErrMalformedAccount) and backend unavailability. A wrong password is not an
// error.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Verify(ctx context.Context, username, password string) (*Account, error) {
	if e == nil || e.cache == nil || e.accounts == nil {
		return nil, ErrEngineNotReady
	}
	if password == "" {
		e.metricInc(MetricVerifyNoMatch)
		return nil, nil
	}

	normalized := e.accounts.NormalizeUsername(username)
	account, err := e.accounts.GetAccount(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	if account == nil || account.SRP == "" {
		// nothing meaningful to deduplicate; no cache entry is created
		e.metricInc(MetricVerifyNoMatch)
		e.auditEvent(ctx, EventVerifyNoMatch, normalized, "", false, nil)
		return nil, nil
	}

	fp := internal.NewFingerprint(normalized, password, account.SRP)
	ok, shared, err := e.cache.do(ctx, fp, func(ctx context.Context) (bool, error) {
		return e.checkPassword(ctx, account, normalized, password)
	})
	if shared {
		e.metricInc(MetricVerifyCacheHit)
	} else {
		e.metricInc(MetricVerifyCacheMiss)
	}
	if err != nil {
		if errors.Is(err, ErrMalformedAccount) || errors.Is(err, ErrNoPasswordAuth) {
			e.auditEvent(ctx, EventVerifyError, normalized, "", false, err)
		}
		return nil, err
	}
	if !ok {
		e.metricInc(MetricVerifyNoMatch)
		e.auditEvent(ctx, EventVerifyNoMatch, normalized, "", false, nil)
		return nil, nil
	}

	e.auditEvent(ctx, EventHandshakeAccepted, normalized, "", true, nil)
	return account, nil
}

// checkPassword drives the two-step protocol end to end: it opens a server
// handshake for the stored credential, synthesizes the client-side proof from
// the presented password against the issued salt and public key, and lets the
// server session judge it.
func (e *Engine) checkPassword(ctx context.Context, account *Account, username, password string) (bool, error) {
	challenge, err := e.BeginHandshake(account)
	if err != nil {
		return false, err
	}
	e.auditEvent(ctx, EventHandshakeBegin, username, "", true, nil)

	client, err := srp.NewClientSession(e.group, username, password)
	if err != nil {
		return false, err
	}

	evidence, err := client.ProveIdentity(challenge.Session.Salt(), challenge.Session.PublicKey())
	if err != nil {
		return false, err
	}

	accepted, err := challenge.Session.Complete(client.PublicKey(), evidence)
	if err == nil && !accepted {
		e.auditEvent(ctx, EventHandshakeRejected, username, "", false, nil)
	}
	return accepted, err
}
