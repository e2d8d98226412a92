package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// InvalidationStore is the server-side revocation overlay: usernames whose
// client-held tokens must be treated as stale. Membership is checked on every
// request that presents a token and cleared by the next successful login.
type InvalidationStore interface {
	Invalidate(ctx context.Context, username string) error
	Reinstate(ctx context.Context, username string) error
	IsInvalidated(ctx context.Context, username string) (bool, error)
}

// MemoryInvalidationStore keeps the overlay in process memory. It is the
// default when no Redis client is configured; state resets on restart, which
// is acceptable because the tokens it overlays outlive it either way.
type MemoryInvalidationStore struct {
	mu        sync.RWMutex
	usernames map[string]struct{}
}

// NewMemoryInvalidationStore describes the newmemoryinvalidationstore operation and its observable behavior.
//
// NewMemoryInvalidationStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryInvalidationStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryInvalidationStore() *MemoryInvalidationStore {
	return &MemoryInvalidationStore{usernames: map[string]struct{}{}}
}

// Invalidate describes the invalidate operation and its observable behavior.
//
// Invalidate may return an error when input validation, dependency calls, or security checks fail.
// Invalidate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryInvalidationStore) Invalidate(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usernames[username] = struct{}{}
	return nil
}

// Reinstate describes the reinstate operation and its observable behavior.
//
// Reinstate may return an error when input validation, dependency calls, or security checks fail.
// Reinstate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryInvalidationStore) Reinstate(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.usernames, username)
	return nil
}

// IsInvalidated describes the isinvalidated operation and its observable behavior.
//
// IsInvalidated may return an error when input validation, dependency calls, or security checks fail.
// IsInvalidated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryInvalidationStore) IsInvalidated(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.usernames[username]
	return ok, nil
}

// RedisInvalidationStore keeps the overlay in a Redis set so forced logout
// propagates to every process sharing the prefix.
type RedisInvalidationStore struct {
	redis *redis.Client
	key   string
}

// NewRedisInvalidationStore describes the newredisinvalidationstore operation and its observable behavior.
//
// NewRedisInvalidationStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisInvalidationStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisInvalidationStore(client *redis.Client, prefix string) *RedisInvalidationStore {
	if prefix == "" {
		prefix = "gosrp"
	}
	return &RedisInvalidationStore{
		redis: client,
		key:   prefix + ":invalidated",
	}
}

// Invalidate describes the invalidate operation and its observable behavior.
//
// Invalidate may return an error when input validation, dependency calls, or security checks fail.
// Invalidate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisInvalidationStore) Invalidate(ctx context.Context, username string) error {
	if err := s.redis.SAdd(ctx, s.key, username).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Reinstate describes the reinstate operation and its observable behavior.
//
// Reinstate may return an error when input validation, dependency calls, or security checks fail.
// Reinstate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisInvalidationStore) Reinstate(ctx context.Context, username string) error {
	if err := s.redis.SRem(ctx, s.key, username).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsInvalidated describes the isinvalidated operation and its observable behavior.
//
// IsInvalidated may return an error when input validation, dependency calls, or security checks fail.
// IsInvalidated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisInvalidationStore) IsInvalidated(ctx context.Context, username string) (bool, error) {
	member, err := s.redis.SIsMember(ctx, s.key, username).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return member, nil
}
