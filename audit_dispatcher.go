package goSRP

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// auditDispatcher fans handshake, verification, and session events out to the
// configured sink from one background goroutine, so the authentication paths
// never wait on a slow sink. In blocking mode a full buffer applies
// backpressure to the caller; in drop mode saturated events are counted and
// reported as a final truncation event when the dispatcher shuts down.
type auditDispatcher struct {
	sink       AuditSink
	events     chan AuditEvent
	quit       chan struct{}
	dropIfFull bool
	dropped    atomic.Uint64
	closed     atomic.Bool
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:       sink,
		events:     make(chan AuditEvent, buffer),
		quit:       make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.events:
			d.deliver(event)
		case <-d.quit:
			d.drain()
			return
		}
	}
}

// drain flushes whatever is still buffered after Close, then reports how many
// events were lost to a saturated buffer. An audit trail that was truncated
// says so in the trail itself.
func (d *auditDispatcher) drain() {
	for {
		select {
		case event := <-d.events:
			d.deliver(event)
		default:
			if n := d.dropped.Load(); n > 0 {
				d.deliver(AuditEvent{
					EventType: EventAuditTruncated,
					Metadata:  map[string]string{"dropped": strconv.FormatUint(n, 10)},
				})
			}
			return
		}
	}
}

// deliver stamps events that arrive without a timestamp; sinks can rely on it
// being set.
func (d *auditDispatcher) deliver(event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	d.sink.Emit(context.Background(), event)
}

// Emit queues an event for delivery. After Close it is a no-op. In drop mode
// a full buffer increments the dropped counter instead of blocking the
// authentication path that produced the event.
//
// Emit may return an error when input validation, dependency calls, or security checks fail.
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.events <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops the dispatcher after draining buffered events. Safe to call
// more than once.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded by a saturated buffer in
// drop mode.
//
// Dropped may return an error when input validation, dependency calls, or security checks fail.
// Dropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
