package goSRP

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSRP/session"
)

func sessionContext() (context.Context, *session.State) {
	state := session.NewState("", "")
	return session.NewContext(context.Background(), state), state
}

func TestLoginBindsIdentity(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seeded := seedAccount(t, provider, "alice", "correct horse battery staple")

	ctx, state := sessionContext()
	if err := engine.Login(ctx, "ALICE"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if got := engine.CurrentUsername(ctx); got != "alice" {
		t.Fatalf("expected normalized identity alice, got %q", got)
	}
	if state.ID() == "" {
		t.Fatal("expected login to mint a session id")
	}
	attached, _ := state.Attachment().(*Account)
	if attached != seeded {
		t.Fatalf("expected resolved account attached to session, got %v", state.Attachment())
	}
}

func TestLoginWithoutSessionTransport(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	if err := engine.Login(context.Background(), "alice"); !errors.Is(err, ErrNoSessionAvailable) {
		t.Fatalf("expected ErrNoSessionAvailable, got %v", err)
	}
	if err := engine.Logout(context.Background()); !errors.Is(err, ErrNoSessionAvailable) {
		t.Fatalf("expected ErrNoSessionAvailable, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "correct horse battery staple")

	ctx, _ := sessionContext()
	if err := engine.Login(ctx, "alice"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := engine.Logout(ctx); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
	if got := engine.CurrentUsername(ctx); got != "" {
		t.Fatalf("expected anonymous session after logout, got %q", got)
	}
}

func TestCurrentUsernameOnAnonymousRequest(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	if got := engine.CurrentUsername(context.Background()); got != "" {
		t.Fatalf("expected empty username without a session, got %q", got)
	}

	ctx, _ := sessionContext()
	if got := engine.CurrentUsername(ctx); got != "" {
		t.Fatalf("expected empty username on anonymous session, got %q", got)
	}
}

func TestInvalidationClearedByNextLogin(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "correct horse battery staple")
	ctx, _ := sessionContext()

	if err := engine.Login(ctx, "alice"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.InvalidateSessions(ctx, "ALICE"); err != nil {
		t.Fatalf("InvalidateSessions failed: %v", err)
	}
	invalidated, err := engine.IsInvalidated(ctx, "alice")
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !invalidated {
		t.Fatal("expected alice to be invalidated")
	}

	// a fresh login supersedes the pending invalidation
	ctx2, _ := sessionContext()
	if err := engine.Login(ctx2, "alice"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	invalidated, err = engine.IsInvalidated(ctx2, "alice")
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if invalidated {
		t.Fatal("expected login to clear the invalidation marker")
	}
}

func TestFailedLoginKeepsInvalidation(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "correct horse battery staple")
	ctx, _ := sessionContext()

	if err := engine.InvalidateSessions(ctx, "alice"); err != nil {
		t.Fatalf("InvalidateSessions failed: %v", err)
	}

	provider.failWith = errors.New("account backend down")
	if err := engine.Login(ctx, "alice"); !errors.Is(err, ErrAccountUnavailable) {
		t.Fatalf("expected ErrAccountUnavailable, got %v", err)
	}
	provider.failWith = nil

	// the failed attempt must not have consumed the forced invalidation
	invalidated, err := engine.IsInvalidated(ctx, "alice")
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !invalidated {
		t.Fatal("expected failed login to leave the invalidation marker in place")
	}
	if got := engine.CurrentUsername(ctx); got != "" {
		t.Fatalf("expected session to stay anonymous after failed login, got %q", got)
	}
}

func TestOpenSealSessionRoundTrip(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "correct horse battery staple")

	ctx, state := sessionContext()
	if err := engine.Login(ctx, "alice"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	token, err := engine.SealSession(state)
	if err != nil {
		t.Fatalf("SealSession failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token for an authenticated session")
	}

	reopened := engine.OpenSession(context.Background(), token)
	if reopened.Username() != "alice" || reopened.ID() != state.ID() {
		t.Fatalf("expected token to round-trip identity, got %s/%s", reopened.Username(), reopened.ID())
	}
}

func TestOpenSessionAppliesInvalidationOverlay(t *testing.T) {
	engine, provider := newTestEngine(t, testConfig())
	seedAccount(t, provider, "alice", "correct horse battery staple")

	ctx, state := sessionContext()
	if err := engine.Login(ctx, "alice"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	token, err := engine.SealSession(state)
	if err != nil {
		t.Fatalf("SealSession failed: %v", err)
	}

	if err := engine.InvalidateSessions(ctx, "alice"); err != nil {
		t.Fatalf("InvalidateSessions failed: %v", err)
	}

	// the token still validates cryptographically; the overlay must win
	reopened := engine.OpenSession(context.Background(), token)
	if reopened.Username() != "" {
		t.Fatalf("expected invalidated session to open anonymous, got %q", reopened.Username())
	}
	if !reopened.Dirty() {
		t.Fatal("expected invalidated token to be flagged for deletion")
	}
}

func TestOpenSessionToleratesGarbageToken(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	for _, token := range []string{"garbage", "a.b.c"} {
		state := engine.OpenSession(context.Background(), token)
		if state == nil {
			t.Fatal("expected an anonymous state, got nil")
		}
		if state.Username() != "" {
			t.Fatalf("expected anonymous state for token %q", token)
		}
		// a dead token must not be replayed on every request
		if !state.Dirty() {
			t.Fatalf("expected state for token %q to be flagged for deletion", token)
		}
	}

	// no inbound token means nothing to delete
	state := engine.OpenSession(context.Background(), "")
	if state.Username() != "" || state.Dirty() {
		t.Fatal("expected a clean anonymous state without an inbound token")
	}
}

func TestSealSessionAnonymousIsEmpty(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	token, err := engine.SealSession(session.NewState("", ""))
	if err != nil {
		t.Fatalf("SealSession failed: %v", err)
	}
	if token != "" {
		t.Fatal("expected empty token for an anonymous session")
	}
}
