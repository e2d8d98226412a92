package goSRP

import (
	"errors"

	"github.com/MrEthical07/goSRP/session"
	"github.com/MrEthical07/goSRP/srp"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goSRP APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	accounts  AccountProvider
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis attaches an optional Redis client. When present, the invalidation
// overlay is shared across processes through Redis; otherwise it lives in
// process memory.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAccountProvider describes the withaccountprovider operation and its observable behavior.
//
// WithAccountProvider may return an error when input validation, dependency calls, or security checks fail.
// WithAccountProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAccountProvider(provider AccountProvider) *Builder {
	b.accounts = provider
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.accounts == nil {
		return nil, errors.New("account provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	group, err := srp.GroupByName(cfg.SRP.Group)
	if err != nil {
		return nil, err
	}

	tokens, err := session.NewTokenCodec(session.TokenConfig{
		TTL:           cfg.Session.TokenTTL,
		SigningMethod: session.SigningMethod(cfg.Session.SigningMethod),
		PrivateKey:    cfg.Session.SigningKey,
		PublicKey:     cfg.Session.VerifyKey,
		Issuer:        cfg.Session.Issuer,
		Leeway:        cfg.Session.Leeway,
	})
	if err != nil {
		return nil, err
	}

	var invalidation session.InvalidationStore
	if b.redis != nil {
		invalidation = session.NewRedisInvalidationStore(b.redis, cfg.Session.RedisPrefix)
	} else {
		invalidation = session.NewMemoryInvalidationStore()
	}

	engine := &Engine{
		config:       cfg,
		group:        group,
		accounts:     b.accounts,
		cache:        newVerificationCache(cfg.Verification.CacheTTL),
		invalidation: invalidation,
		tokens:       tokens,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
	}
	if cfg.Metrics.Enabled {
		engine.metrics = NewMetrics()
	}

	b.built = true
	return engine, nil
}
