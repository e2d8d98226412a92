package goSRP

import (
	"context"

	"github.com/MrEthical07/goSRP/srp"
)

// Account is the credential record resolved by an [AccountProvider]. SRP holds
// the serialized "<salt>|<verifier>" pair, both base-10 big integers. An
// account with an empty SRP field cannot authenticate via password.
type Account struct {
	Username string
	SRP      string
}

// AccountProvider is the interface callers implement to integrate goSRP with
// their account database. GetAccount returns (nil, nil) for an unknown
// username; errors are reserved for backend failures. NormalizeUsername owns
// the canonicalization rule (e.g. case folding) applied before any lookup,
// cache keying, or session binding.
type AccountProvider interface {
	GetAccount(ctx context.Context, username string) (*Account, error)
	NormalizeUsername(username string) string
}

// HandshakeChallenge is the server's opening move of the SRP exchange: the
// ephemeral session, the account's salt, and the server public key B. Salt and
// PublicKey are base-10 strings because the underlying integers exceed native
// numeric precision and must round-trip exactly through any serialization
// boundary.
type HandshakeChallenge struct {
	Session   *srp.ServerSession
	Salt      string
	PublicKey string
}
