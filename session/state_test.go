package session

import (
	"context"
	"testing"
)

func TestStateBindAndClear(t *testing.T) {
	state := NewState("", "")
	if state.Dirty() {
		t.Fatal("expected fresh state to be clean")
	}

	state.Bind("sid-1", "alice", "attachment")
	if state.Username() != "alice" || state.ID() != "sid-1" {
		t.Fatalf("expected alice/sid-1, got %s/%s", state.Username(), state.ID())
	}
	if got, _ := state.Attachment().(string); got != "attachment" {
		t.Fatalf("expected attachment to be carried, got %v", state.Attachment())
	}
	if !state.Dirty() {
		t.Fatal("expected bind to mark state dirty")
	}

	state.Clear()
	if state.Username() != "" || state.ID() != "" || state.Attachment() != nil {
		t.Fatal("expected cleared state to be anonymous")
	}
}

func TestClearOnAnonymousStateIsNoOp(t *testing.T) {
	state := NewState("", "")
	state.Clear()
	state.Clear()
	if state.Dirty() {
		t.Fatal("expected clearing an anonymous state to leave it clean")
	}
	if state.Username() != "" {
		t.Fatalf("expected empty username, got %q", state.Username())
	}
}

func TestTouchMarksStateDirtyWithoutChanges(t *testing.T) {
	state := NewState("", "")
	state.Touch()
	if !state.Dirty() {
		t.Fatal("expected touched state to be dirty")
	}
	if state.Username() != "" || state.ID() != "" || state.Attachment() != nil {
		t.Fatal("expected touch to leave the state anonymous")
	}
}

func TestStateContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected no state on a bare context")
	}

	state := NewState("sid-1", "alice")
	ctx := NewContext(context.Background(), state)
	if FromContext(ctx) != state {
		t.Fatal("expected state to round-trip through context")
	}
}

func TestNilStateAccessorsAreSafe(t *testing.T) {
	var state *State
	if state.Username() != "" || state.ID() != "" || state.Attachment() != nil || state.Dirty() {
		t.Fatal("expected nil state accessors to return zero values")
	}
	state.Bind("sid", "alice", nil)
	state.Clear()
}
