package goSRP

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goSRP/session"
	"github.com/google/uuid"
)

// Login binds an authenticated identity to the request session. It requires a
// session transport on the context (ErrNoSessionAvailable otherwise — a
// server configuration error, not an auth failure), normalizes the username,
// resolves and attaches the account to the session state for the remainder of
// the request, and clears any pending forced-invalidation marker.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, username string) error {
	if e == nil || e.accounts == nil {
		return ErrEngineNotReady
	}

	state := session.FromContext(ctx)
	if state == nil {
		return ErrNoSessionAvailable
	}

	normalized := e.accounts.NormalizeUsername(username)

	account, err := e.accounts.GetAccount(ctx, normalized)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}

	// only a login that gets this far supersedes a pending forced
	// invalidation; a failed attempt must leave the marker in place
	wasInvalidated, _ := e.invalidation.IsInvalidated(ctx, normalized)
	if err := e.invalidation.Reinstate(ctx, normalized); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidationUnavailable, err)
	}
	if wasInvalidated {
		e.metricInc(MetricSessionReinstated)
	}

	sessionID := state.ID()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	state.Bind(sessionID, normalized, account)

	e.metricInc(MetricLoginSuccess)
	e.auditEvent(ctx, EventLoginSuccess, normalized, sessionID, true, nil)
	return nil
}

// Logout clears the bound identity from the request session. It is
// idempotent: logging out an already-anonymous session is a no-op. Like
// Login, it requires a session transport on the context.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	state := session.FromContext(ctx)
	if state == nil {
		return ErrNoSessionAvailable
	}

	username := state.Username()
	sessionID := state.ID()
	state.Clear()

	if username != "" {
		e.metricInc(MetricLogout)
		e.auditEvent(ctx, EventLogout, username, sessionID, true, nil)
	}
	return nil
}

// CurrentUsername returns the identity bound to the request session, or empty
// when the request is anonymous or carries no session transport. It never
// fails.
func (e *Engine) CurrentUsername(ctx context.Context) string {
	return session.FromContext(ctx).Username()
}

// InvalidateSessions marks a username's client-held session tokens as stale.
// The tokens themselves keep validating — the transport cannot revoke them —
// so consumers must treat any session bearing this username as anonymous
// until its next successful login clears the marker.
//
// InvalidateSessions may return an error when input validation, dependency calls, or security checks fail.
// InvalidateSessions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) InvalidateSessions(ctx context.Context, username string) error {
	if e == nil || e.invalidation == nil {
		return ErrEngineNotReady
	}

	normalized := e.accounts.NormalizeUsername(username)
	if err := e.invalidation.Invalidate(ctx, normalized); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidationUnavailable, err)
	}

	e.metricInc(MetricSessionInvalidated)
	e.auditEvent(ctx, EventSessionInvalidated, normalized, "", true, nil)
	return nil
}

// IsInvalidated reports whether a username's stored sessions must be treated
// as stale even though their transport tokens still validate.
//
// IsInvalidated may return an error when input validation, dependency calls, or security checks fail.
// IsInvalidated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsInvalidated(ctx context.Context, username string) (bool, error) {
	if e == nil || e.invalidation == nil {
		return false, ErrEngineNotReady
	}

	normalized := e.accounts.NormalizeUsername(username)
	invalidated, err := e.invalidation.IsInvalidated(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidationUnavailable, err)
	}
	return invalidated, nil
}

// OpenSession decodes an inbound transport token into a request session
// state. Invalid, expired, or invalidated tokens yield a fresh anonymous
// state rather than an error: a bad cookie is routine, not exceptional. A
// token that was presented but cannot be honored leaves the state dirty so
// the transport deletes it instead of replaying it on every request.
//
// OpenSession may return an error when input validation, dependency calls, or security checks fail.
// OpenSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) OpenSession(ctx context.Context, token string) *session.State {
	if e == nil || e.tokens == nil || token == "" {
		return session.NewState("", "")
	}

	username, sessionID, err := e.tokens.Decode(token)
	if err != nil {
		return discardedState()
	}

	invalidated, err := e.invalidation.IsInvalidated(ctx, username)
	if err != nil {
		// fail closed, but keep the token: the overlay backend may recover
		// and the session is still cryptographically valid
		return session.NewState("", "")
	}
	if invalidated {
		return discardedState()
	}

	return session.NewState(sessionID, username)
}

// discardedState is an anonymous state pre-marked dirty, signalling the
// transport to drop the dead token it was decoded from.
func discardedState() *session.State {
	state := session.NewState("", "")
	state.Touch()
	return state
}

// SealSession encodes a session state back into a transport token. It returns
// the signed token for an authenticated state, or an empty token for an
// anonymous one (the transport should delete its cookie).
//
// SealSession may return an error when input validation, dependency calls, or security checks fail.
// SealSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SealSession(state *session.State) (string, error) {
	if e == nil || e.tokens == nil {
		return "", ErrEngineNotReady
	}
	if state == nil || state.Username() == "" {
		return "", nil
	}
	return e.tokens.Issue(state.Username(), state.ID())
}
