package goSRP

import (
	"context"
	"time"

	"github.com/MrEthical07/goSRP/session"
	"github.com/MrEthical07/goSRP/srp"
)

// Engine defines a public type used by goSRP APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	group        *srp.Group
	accounts     AccountProvider
	cache        *verificationCache
	invalidation session.InvalidationStore
	tokens       *session.TokenCodec
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close releases the engine's background resources: pending cache eviction
// timers and the audit dispatcher. In-flight Verify calls still complete.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.cache != nil {
		e.cache.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// CookieName returns the configured session cookie name, used by the HTTP
// middleware.
func (e *Engine) CookieName() string {
	if e == nil {
		return ""
	}
	return e.config.Session.CookieName
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) auditEvent(ctx context.Context, eventType, username, sessionID string, success bool, err error) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Username:  username,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.audit.Emit(ctx, event)
}
