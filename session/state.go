package session

import (
	"context"
	"sync"
)

// State is the per-request session record. Handlers never mutate it directly;
// the engine's Login and Logout operations are the only writers.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State struct {
	mu         sync.Mutex
	id         string
	username   string
	attachment any
	dirty      bool
}

// NewState builds a session state decoded from an inbound transport token.
// An anonymous request gets NewState("", "").
func NewState(id, username string) *State {
	return &State{id: id, username: username}
}

// ID returns the session identifier, empty when anonymous.
func (s *State) ID() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Username returns the bound identity, empty when anonymous.
func (s *State) Username() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Attachment returns the value attached at login, typically the resolved
// account record, for the remainder of the request's processing.
func (s *State) Attachment() any {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachment
}

// Bind stores an authenticated identity on the session and marks the state
// dirty so the transport re-issues its token.
func (s *State) Bind(id, username string, attachment any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.username = username
	s.attachment = attachment
	s.dirty = true
}

// Clear removes the bound identity. Clearing an already-anonymous state is a
// no-op and does not mark the state dirty.
func (s *State) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" && s.username == "" && s.attachment == nil {
		return
	}
	s.id = ""
	s.username = ""
	s.attachment = nil
	s.dirty = true
}

// Touch marks the state dirty without changing its contents. The engine uses
// it when an inbound token was presented but could not be honored, so the
// transport rewrites or deletes the dead token instead of replaying it on
// every request.
func (s *State) Touch() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

// Dirty reports whether the state changed since it was decoded and the
// transport token needs rewriting.
func (s *State) Dirty() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

type stateContextKey struct{}

// NewContext attaches the request session state to ctx.
func NewContext(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, state)
}

// FromContext returns the request session state, or nil when no session
// transport is attached to the request.
func FromContext(ctx context.Context) *State {
	if ctx == nil {
		return nil
	}
	state, _ := ctx.Value(stateContextKey{}).(*State)
	return state
}
