// Package session provides the request-session primitives used by the goSRP
// engine: the per-request [State] carried through context, the signed
// client-held token codec ([TokenCodec]), and the server-side revocation
// overlay ([InvalidationStore]).
//
// # Why an invalidation overlay
//
// The session transport is a self-contained signed token. The server cannot
// destroy a token that already lives on a client, so forced logout is layered
// on top: a username present in the invalidation store is treated as anonymous
// even though its token still validates. Entries are cleared on the next
// successful login.
//
// # Architecture boundaries
//
// This package owns session state and encoding only. It makes no
// authentication decisions — Verify, Login, and Logout live on goSRP.Engine.
//
// # What this package must NOT do
//
//   - Resolve accounts or touch SRP material.
//   - Emit audit events or metrics (the engine wraps these operations).
//   - Hide token validation failures: Decode returns the underlying error.
package session
