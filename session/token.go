package session

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines a public type used by goSRP APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS256 is an exported constant or variable used by the authentication engine.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 is an exported constant or variable used by the authentication engine.
	MethodEd25519 SigningMethod = "ed25519"
)

const minHS256KeyLen = 32

var (
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("session token invalid")
)

// TokenConfig defines a public type used by goSRP APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// TokenCodec signs and validates the client-held session token. The token is
// the transport the engine's invalidation overlay compensates for: once
// issued it cannot be revoked, only outlived or overlaid.
type TokenCodec struct {
	config    TokenConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewTokenCodec describes the newtokencodec operation and its observable behavior.
//
// NewTokenCodec may return an error when input validation, dependency calls, or security checks fail.
// NewTokenCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid token TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid token leeway configuration")
	}

	c := &TokenCodec{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) < minHS256KeyLen {
			return nil, errors.New("hs256 key must be at least 32 bytes")
		}
		c.method = jwt.SigningMethodHS256
		c.signKey = cfg.PrivateKey
		c.verifyKey = cfg.PrivateKey
	case MethodEd25519, "":
		if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
			return nil, errors.New("ed25519 private key must be 64 bytes")
		}
		priv := ed25519.PrivateKey(cfg.PrivateKey)
		pub := cfg.PublicKey
		if len(pub) == 0 {
			pub = priv.Public().(ed25519.PublicKey)
		}
		if len(pub) != ed25519.PublicKeySize {
			return nil, errors.New("ed25519 public key must be 32 bytes")
		}
		c.method = jwt.SigningMethodEdDSA
		c.signKey = priv
		c.verifyKey = ed25519.PublicKey(pub)
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}

	return c, nil
}

// Issue signs a token binding username to the given session ID.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *TokenCodec) Issue(username, sessionID string) (string, error) {
	if username == "" || sessionID == "" {
		return "", ErrTokenInvalid
	}

	now := time.Now()
	claims := sessionClaims{
		SID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TTL)),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decode validates a token and returns the username and session ID it binds.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *TokenCodec) Decode(token string) (username, sessionID string, err error) {
	if token == "" {
		return "", "", ErrTokenInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.config.Leeway),
	}
	if c.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.config.Issuer))
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.verifyKey, nil
	}, opts...)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.SID == "" {
		return "", "", ErrTokenInvalid
	}

	return claims.Subject, claims.SID, nil
}
