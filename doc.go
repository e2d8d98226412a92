// Package goSRP provides a zero-knowledge password authentication engine built
// on the SRP-6a protocol, with a single-flight verification cache, a
// signed-token session layer, and a server-side invalidation overlay for
// forced logout.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goSRP is the public surface. It exposes [Engine], [Builder], [Config], value
// types (Account, HandshakeChallenge, MetricsSnapshot), and sentinel errors.
// Protocol math lives in srp/, session primitives in session/, HTTP glue in
// middleware/. Account storage is the caller's: integrations implement
// [AccountProvider].
//
// # What this package must NOT do
//
//   - Learn, transmit, or store a plaintext password. The engine proves
//     password knowledge against a stored verifier; the password enters only
//     a one-way derivation inside a single Verify call.
//   - Distinguish "unknown user" from "wrong password" in the shape of a
//     Verify result (username enumeration resistance).
//   - Run more than one SRP handshake for the same credential fingerprint
//     within the cache window, no matter how many callers race.
//
// # Performance contract
//
// Verify is the expensive path: one modular exponentiation pair per cache
// miss, zero per cache hit. CurrentUsername and IsInvalidated are cheap and
// allocation-free on the memory store. Cache eviction is fire-and-forget and
// never blocks a caller or Engine.Close.
package goSRP
