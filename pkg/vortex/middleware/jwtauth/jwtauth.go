// Package jwtauth provides bearer-token authentication middleware
// built on github.com/golang-jwt/jwt/v5, validating the Authorization
// header and stashing the decoded claims into the request Context.
package jwtauth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// Config configures the JWT middleware.
type Config struct {
	// Secret is the HMAC key used to validate tokens.
	Secret []byte

	// Algorithm is the expected signing algorithm. Default: HS256.
	Algorithm string

	// SkipPaths are exact paths excluded from authentication.
	SkipPaths []string

	// ValueKey is the Context.Value key under which validated claims
	// are stored. Default: "user".
	ValueKey string

	// ErrorHandler is invoked on authentication failure. Default
	// responds 401 with the error message as JSON.
	ErrorHandler func(*vortex.Context, error) error

	// CacheTTL controls how long a validated token is trusted without
	// re-parsing. Default: 5 minutes.
	CacheTTL time.Duration
}

// DefaultConfig returns a Config with HS256, a 5 minute cache, and the
// "user" value key.
func DefaultConfig(secret []byte) Config {
	return Config{
		Secret:    secret,
		Algorithm: "HS256",
		ValueKey:  "user",
		CacheTTL:  5 * time.Minute,
	}
}

var (
	ErrMissingToken      = errors.New("missing authorization token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// JWT returns JWT authentication middleware using DefaultConfig(secret).
func JWT(secret []byte) vortex.Middleware {
	return JWTWithConfig(DefaultConfig(secret))
}

// JWTWithConfig returns JWT middleware with a custom Config.
func JWTWithConfig(cfg Config) vortex.Middleware {
	if cfg.Algorithm == "" {
		cfg.Algorithm = "HS256"
	}
	if cfg.ValueKey == "" {
		cfg.ValueKey = "user"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	cache := &tokenCache{tokens: make(map[string]*cacheEntry), ttl: cfg.CacheTTL}
	stop := make(chan struct{})
	go cache.cleanup(stop)

	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			if skip[c.Path()] {
				return next(c)
			}

			authHeader, _ := c.Header("Authorization")
			if authHeader == "" {
				return fail(c, cfg.ErrorHandler, ErrMissingToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return fail(c, cfg.ErrorHandler, ErrInvalidAuthHeader)
			}
			tokenString := parts[1]

			if claims, ok := cache.get(tokenString); ok {
				c.SetValue(cfg.ValueKey, claims)
				return next(c)
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != cfg.Algorithm {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return cfg.Secret, nil
			})
			if err != nil {
				return fail(c, cfg.ErrorHandler, err)
			}
			if !token.Valid {
				return fail(c, cfg.ErrorHandler, ErrInvalidToken)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return fail(c, cfg.ErrorHandler, ErrInvalidClaims)
			}

			cache.set(tokenString, claims)
			c.SetValue(cfg.ValueKey, claims)

			return next(c)
		}
	}
}

func fail(c *vortex.Context, handler func(*vortex.Context, error) error, err error) error {
	if handler != nil {
		return handler(c, err)
	}
	return c.JSON(401, map[string]string{"error": err.Error()})
}

type cacheEntry struct {
	claims    jwt.MapClaims
	expiresAt time.Time
}

type tokenCache struct {
	mu     sync.RWMutex
	tokens map[string]*cacheEntry
	ttl    time.Duration
}

func (tc *tokenCache) get(token string) (jwt.MapClaims, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	entry, ok := tc.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.claims, true
}

func (tc *tokenCache) set(token string, claims jwt.MapClaims) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.tokens[token] = &cacheEntry{claims: claims, expiresAt: time.Now().Add(tc.ttl)}
}

func (tc *tokenCache) cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tc.mu.Lock()
			now := time.Now()
			for token, entry := range tc.tokens {
				if now.After(entry.expiresAt) {
					delete(tc.tokens, token)
				}
			}
			tc.mu.Unlock()
		}
	}
}
