package goSRP

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrNoPasswordAuth indicates the account record carries no SRP material at
	// all; password authentication is not configured for it.
	ErrNoPasswordAuth = errors.New("password auth not configured")
	// ErrMalformedAccount indicates the stored salt/verifier pair is present
	// but unparseable. This is a data-integrity failure of the account record,
	// not an authentication rejection, and retrying with other credentials
	// cannot repair it.
	ErrMalformedAccount = errors.New("malformed srp credential")
	// ErrNoSessionAvailable indicates no session transport is attached to the
	// request context. This is a server configuration error, not a user-facing
	// authentication failure.
	ErrNoSessionAvailable = errors.New("no session available on request")
	// ErrAccountUnavailable is an exported constant or variable used by the authentication engine.
	ErrAccountUnavailable = errors.New("account backend unavailable")
	// ErrInvalidationUnavailable is an exported constant or variable used by the authentication engine.
	ErrInvalidationUnavailable = errors.New("invalidation backend unavailable")
)
