package goSRP

import (
	"errors"
	"time"

	"github.com/MrEthical07/goSRP/session"
	"github.com/MrEthical07/goSRP/srp"
)

// Config defines a public type used by goSRP APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	SRP          SRPConfig
	Verification VerificationConfig
	Session      SessionConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
SRP CONFIG
====================================
*/

// SRPConfig defines a public type used by goSRP APIs.
//
// SRPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SRPConfig struct {
	Group string // "rfc5054.3072" (default) or "rfc5054.4096"
}

/*
====================================
VERIFICATION CONFIG
====================================
*/

// VerificationConfig defines a public type used by goSRP APIs.
//
// VerificationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type VerificationConfig struct {
	// CacheTTL bounds both the memory of the verification cache and the
	// replay window during which an identical credential fingerprint reuses
	// the prior outcome instead of running a fresh handshake.
	CacheTTL time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goSRP APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	CookieName    string
	TokenTTL      time.Duration
	SigningMethod string // "hs256" or "ed25519" (default)
	SigningKey    []byte
	VerifyKey     []byte
	Issuer        string
	Leeway        time.Duration
	RedisPrefix   string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goSRP APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSRP APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		SRP: SRPConfig{
			Group: srp.Group3072.Name,
		},
		Verification: VerificationConfig{
			CacheTTL: 60 * time.Second,
		},
		Session: SessionConfig{
			CookieName:    "gosrp_session",
			TokenTTL:      24 * time.Hour,
			SigningMethod: string(session.MethodEd25519),
			RedisPrefix:   "gosrp",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.SigningKey = append([]byte(nil), cfg.Session.SigningKey...)
	out.Session.VerifyKey = append([]byte(nil), cfg.Session.VerifyKey...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if _, err := srp.GroupByName(c.SRP.Group); err != nil {
		return errors.New("invalid SRP group configuration")
	}
	if c.Verification.CacheTTL <= 0 {
		return errors.New("invalid verification cache TTL")
	}
	if c.Session.CookieName == "" {
		return errors.New("invalid session cookie name")
	}
	if c.Session.TokenTTL <= 0 {
		return errors.New("invalid session token TTL")
	}
	switch session.SigningMethod(c.Session.SigningMethod) {
	case session.MethodHS256, session.MethodEd25519, "":
	default:
		return errors.New("invalid session signing method")
	}
	if len(c.Session.SigningKey) == 0 {
		return errors.New("session signing key required")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("invalid audit buffer size")
	}
	return nil
}
