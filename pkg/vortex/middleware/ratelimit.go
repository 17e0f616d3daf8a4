package middleware

import (
	"sync"
	"time"

	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// KeyFunc extracts the rate-limit bucket key from a request. The
// Context's data model carries no remote-address field (out of the core
// spec's Request shape), so the default KeyFunc buckets by path; callers
// wanting per-client limiting should supply one that reads a value
// stashed into Context state by an earlier middleware (e.g. an
// X-Forwarded-For parser).
type KeyFunc func(*vortex.Context) string

func defaultKeyFunc(c *vortex.Context) string { return c.Path() }

// RateLimitConfig configures a token-bucket limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	KeyFunc           KeyFunc
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// RateLimit returns a middleware enforcing a token-bucket limit per key.
// An over-limit request gets a 429 JSON response written directly on the
// Context, and the middleware returns nil without calling next.
func RateLimit(cfg RateLimitConfig) vortex.Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	var mu sync.Mutex
	buckets := make(map[string]*bucket)

	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			key := cfg.KeyFunc(c)

			mu.Lock()
			b, ok := buckets[key]
			now := time.Now()
			if !ok {
				b = &bucket{tokens: float64(cfg.Burst), lastFill: now}
				buckets[key] = b
			} else {
				elapsed := now.Sub(b.lastFill).Seconds()
				b.tokens += elapsed * cfg.RequestsPerSecond
				if b.tokens > float64(cfg.Burst) {
					b.tokens = float64(cfg.Burst)
				}
				b.lastFill = now
			}
			allowed := b.tokens >= 1
			if allowed {
				b.tokens--
			}
			mu.Unlock()

			if !allowed {
				return c.JSON(429, map[string]string{"error": "Too Many Requests"})
			}
			return next(c)
		}
	}
}
