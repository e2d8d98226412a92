package goSRP

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goSRP/internal"
)

// verificationEntry is the shared outcome of one SRP handshake. All callers
// presenting the same fingerprint within the cache window block on done and
// observe the same result.
type verificationEntry struct {
	done  chan struct{}
	ok    bool
	err   error
	timer *time.Timer
}

// verificationCache collapses concurrent and repeated verification attempts
// for an identical credential fingerprint onto a single handshake. Entries
// evict themselves a fixed interval after creation regardless of outcome,
// bounding both memory and the replay window.
type verificationCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[internal.Fingerprint]*verificationEntry
	closed  bool
}

func newVerificationCache(ttl time.Duration) *verificationCache {
	return &verificationCache{
		ttl:     ttl,
		entries: make(map[internal.Fingerprint]*verificationEntry),
	}
}

// do returns the cached outcome for fp, joining an in-flight computation when
// one exists, or runs compute and publishes its outcome. The returned shared
// flag reports whether an existing entry was reused.
//
// The insert happens atomically under the cache mutex; compute runs outside
// it. compute receives a context detached from the first caller's
// cancellation so that one caller giving up cannot poison the outcome every
// joiner observes.
func (c *verificationCache) do(ctx context.Context, fp internal.Fingerprint, compute func(context.Context) (bool, error)) (ok, shared bool, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		ok, err = compute(context.WithoutCancel(ctx))
		return ok, false, err
	}
	if entry, exists := c.entries[fp]; exists {
		c.mu.Unlock()
		select {
		case <-entry.done:
			return entry.ok, true, entry.err
		case <-ctx.Done():
			return false, true, ctx.Err()
		}
	}

	entry := &verificationEntry{done: make(chan struct{})}
	c.entries[fp] = entry
	// the lifetime is anchored at creation: a slow handshake does not extend
	// the entry's stay, and a computation outliving its row still settles and
	// hands every holder the true outcome
	entry.timer = time.AfterFunc(c.ttl, func() { c.evict(fp, entry) })
	c.mu.Unlock()

	entry.ok, entry.err = compute(context.WithoutCancel(ctx))
	close(entry.done)

	return entry.ok, false, entry.err
}

// evict removes the entry if it is still the live one for fp. Fire-and-forget:
// no caller awaits it and Close releases the timer without firing.
func (c *verificationCache) evict(fp internal.Fingerprint, entry *verificationEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[fp] == entry {
		delete(c.entries, fp)
	}
}

// len reports the number of live entries. Test hook.
func (c *verificationCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops every pending eviction timer and drops all entries. Callers
// already blocked on an in-flight entry still receive its outcome.
func (c *verificationCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for fp, entry := range c.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(c.entries, fp)
	}
}
