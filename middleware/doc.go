// Package middleware exposes the HTTP adapter that binds goSRP's session
// engine to cookie-backed requests.
//
// [Session] decodes the session cookie into a per-request session state,
// applies the invalidation overlay (a revoked username is served as
// anonymous even though its cookie still validates), injects the state into
// the request context, and re-issues or deletes the cookie after the handler
// runs when the state changed.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — token validation and the overlay
// check are delegated to Engine.OpenSession/SealSession.
//
// # What this package must NOT do
//
//   - Sign or parse session tokens directly (delegates to the Engine).
//   - Touch Redis or the account store.
//   - Mutate session state; only Engine.Login and Engine.Logout write it.
package middleware
