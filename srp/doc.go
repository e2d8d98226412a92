// Package srp implements the server and client sides of the SRP-6a
// password-authenticated key exchange over the RFC 5054 3072- and 4096-bit
// groups (both taken from RFC 3526, generator 5).
//
// A handshake runs in two rounds. The server calls [NewServerSession] with the
// stored salt and verifier and sends its public ephemeral B together with the
// salt. The client calls [NewClientSession], sends its public ephemeral A, and
// proves knowledge of the password with the evidence value M1 computed by
// [ClientSession.ProveIdentity]. The server checks M1 via
// [ServerSession.Complete]; on success both sides share a session key derived
// from the SRP secret through HKDF-SHA256.
//
// Value formats, all hashed with SHA-256:
//
//	k  = H(N | PAD(g))
//	x  = H(salt | H(username ":" password))
//	v  = g^x mod N
//	u  = H(PAD(A) | PAD(B))
//	M1 = H(PAD(A) | PAD(B) | K)
//	M2 = H(PAD(A) | M1 | K)
//
// PAD left-pads to the byte length of N. The package operates on *big.Int
// values; callers that move values across a serialization boundary must encode
// them as base-10 strings, since they exceed native integer precision.
//
// # Architecture boundaries
//
// srp is pure protocol math. It performs no I/O, holds no process-wide state,
// and knows nothing about accounts, caching, or sessions — those live in the
// root goSRP package.
//
// # What this package must NOT do
//
//   - Store or log plaintext passwords (the password enters only the one-way
//     x derivation in ClientSession and ComputeVerifier).
//   - Allow a session to be completed twice ([ErrSessionConsumed]).
//   - Accept A or B congruent to 0 mod N ([ErrInvalidPublicKey]).
package srp
