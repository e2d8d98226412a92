package goSRP

import "sync/atomic"

// MetricID defines a public type used by goSRP APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricHandshakeBegin is an exported constant or variable used by the authentication engine.
	MetricHandshakeBegin MetricID = iota
	// MetricHandshakeAccepted is an exported constant or variable used by the authentication engine.
	MetricHandshakeAccepted
	// MetricHandshakeRejected is an exported constant or variable used by the authentication engine.
	MetricHandshakeRejected
	// MetricVerifyCacheHit is an exported constant or variable used by the authentication engine.
	MetricVerifyCacheHit
	// MetricVerifyCacheMiss is an exported constant or variable used by the authentication engine.
	MetricVerifyCacheMiss
	// MetricVerifyNoMatch is an exported constant or variable used by the authentication engine.
	MetricVerifyNoMatch
	// MetricMalformedAccount is an exported constant or variable used by the authentication engine.
	MetricMalformedAccount
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess
	// MetricLogout is an exported constant or variable used by the authentication engine.
	MetricLogout
	// MetricSessionInvalidated is an exported constant or variable used by the authentication engine.
	MetricSessionInvalidated
	// MetricSessionReinstated is an exported constant or variable used by the authentication engine.
	MetricSessionReinstated

	metricCount
)

// Metrics defines a public type used by goSRP APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot defines a public type used by goSRP APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics may return an error when input validation, dependency calls, or security checks fail.
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc may return an error when input validation, dependency calls, or security checks fail.
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot may return an error when input validation, dependency calls, or security checks fail.
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
