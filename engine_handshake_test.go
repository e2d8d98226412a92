package goSRP

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/MrEthical07/goSRP/srp"
)

func TestBeginHandshakeReturnsSerializedChallenge(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "correct horse battery staple")

	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}
	if challenge.Session == nil {
		t.Fatal("expected an ephemeral server session")
	}

	for name, value := range map[string]string{"salt": challenge.Salt, "public key": challenge.PublicKey} {
		if _, ok := new(big.Int).SetString(value, 10); !ok {
			t.Fatalf("expected %s to be a base-10 integer, got %q", name, value)
		}
	}
}

func TestBeginHandshakeRejectsMissingCredential(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	_, err := engine.BeginHandshake(&Account{Username: "alice"})
	if !errors.Is(err, ErrNoPasswordAuth) {
		t.Fatalf("expected ErrNoPasswordAuth, got %v", err)
	}
}

func TestBeginHandshakeRejectsMalformedCredential(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	cases := map[string]string{
		"missing verifier": "onlysalt",
		"empty verifier":   "123|",
		"empty salt":       "|456",
		"salt not numeric": "abc|456",
		"verifier not num": "123|xyz",
		"extra field":      "1|2|3",
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := engine.BeginHandshake(&Account{Username: "alice", SRP: stored})
			if !errors.Is(err, ErrMalformedAccount) {
				t.Fatalf("expected ErrMalformedAccount for %q, got %v", stored, err)
			}
		})
	}
}

func TestCompleteHandshakeAgainstRemoteClient(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "correct horse battery staple")

	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}

	// simulate the remote client from the serialized challenge values only
	salt, _ := new(big.Int).SetString(challenge.Salt, 10)
	serverPublic, _ := new(big.Int).SetString(challenge.PublicKey, 10)

	client, err := srp.NewClientSession(srp.Group3072, "alice", "correct horse battery staple")
	if err != nil {
		t.Fatalf("NewClientSession failed: %v", err)
	}
	evidence, err := client.ProveIdentity(salt, serverPublic)
	if err != nil {
		t.Fatalf("ProveIdentity failed: %v", err)
	}

	ok, err := engine.CompleteHandshake(challenge, client.PublicKey().String(), evidence.String())
	if err != nil {
		t.Fatalf("CompleteHandshake failed: %v", err)
	}
	if !ok {
		t.Fatal("expected remote client with the right password to be accepted")
	}
}

func TestCompleteHandshakeRejectsWrongPassword(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "correct horse battery staple")

	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}

	salt, _ := new(big.Int).SetString(challenge.Salt, 10)
	serverPublic, _ := new(big.Int).SetString(challenge.PublicKey, 10)

	client, err := srp.NewClientSession(srp.Group3072, "alice", "wrong password entirely")
	if err != nil {
		t.Fatalf("NewClientSession failed: %v", err)
	}
	evidence, err := client.ProveIdentity(salt, serverPublic)
	if err != nil {
		t.Fatalf("ProveIdentity failed: %v", err)
	}

	ok, err := engine.CompleteHandshake(challenge, client.PublicKey().String(), evidence.String())
	if err != nil {
		t.Fatalf("CompleteHandshake failed: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to be rejected")
	}
}

func TestCompleteHandshakeIsSingleUse(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "hunter2hunter2")

	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}

	if _, err := engine.CompleteHandshake(challenge, "12345", "67890"); err != nil {
		t.Fatalf("first CompleteHandshake failed: %v", err)
	}
	if _, err := engine.CompleteHandshake(challenge, "12345", "67890"); !errors.Is(err, srp.ErrSessionConsumed) {
		t.Fatalf("expected ErrSessionConsumed on reuse, got %v", err)
	}
}

func TestCompleteHandshakeRejectsOversizedValues(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "hunter2hunter2")

	// a public ephemeral wider than the 3072-bit modulus
	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}
	hugeA := new(big.Int).Lsh(big.NewInt(1), 4000)
	if _, err := engine.CompleteHandshake(challenge, hugeA.String(), "1"); !errors.Is(err, srp.ErrInvalidPublicKey) {
		t.Fatalf("expected ErrInvalidPublicKey for oversized A, got %v", err)
	}

	// a well-formed client public paired with evidence far wider than a digest
	challenge, err = engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}
	client, err := srp.NewClientSession(srp.Group3072, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("NewClientSession failed: %v", err)
	}
	wideM1 := "1" + strings.Repeat("0", 100)
	ok, err := engine.CompleteHandshake(challenge, client.PublicKey().String(), wideM1)
	if err != nil {
		t.Fatalf("CompleteHandshake failed: %v", err)
	}
	if ok {
		t.Fatal("expected oversized evidence to be rejected")
	}
}

func TestCompleteHandshakeRejectsNonNumericValues(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	account := seedAccount(t, provider, "alice", "hunter2hunter2")

	challenge, err := engine.BeginHandshake(account)
	if err != nil {
		t.Fatalf("BeginHandshake failed: %v", err)
	}

	if _, err := engine.CompleteHandshake(challenge, "not-a-number", "1"); !errors.Is(err, srp.ErrInvalidPublicKey) {
		t.Fatalf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestVerifyContextUnusedByHandshake(t *testing.T) {
	// handshakes are pure computation; a canceled context must not corrupt a
	// shared cache outcome
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "hunter2hunter2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	account, err := engine.Verify(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if account == nil {
		t.Fatal("expected verification to succeed despite canceled context")
	}
}
