// Package middleware provides concrete pipeline steps built on top of
// the vortex facade's Middleware contract: structured logging, panic
// recovery, CORS, rate limiting, per-request timeouts, and JWT auth.
package middleware

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// LoggerConfig configures Logger.
type LoggerConfig struct {
	// Logger is the zerolog.Logger events are written through.
	// DefaultLoggerConfig sets it to a logger writing JSON to stdout;
	// LoggerWithConfig uses the field as given and fills in no default.
	Logger zerolog.Logger
	// SkipPaths are exact paths excluded from logging (e.g. health checks).
	SkipPaths []string
}

// DefaultLoggerConfig returns a config with a stdout JSON zerolog.Logger.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Logger: zerolog.New(os.Stdout).With().Timestamp().Logger(),
	}
}

// Logger returns a middleware that emits one structured log event per
// request: method, path, status, duration, and error (if any).
func Logger() vortex.Middleware {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig returns Logger with a custom zerolog.Logger and skip list.
func LoggerWithConfig(cfg LoggerConfig) vortex.Middleware {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			if skip[c.Path()] {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			dur := time.Since(start)

			status := c.Response.Status

			evt := cfg.Logger.Info()
			if err != nil {
				evt = cfg.Logger.Error().Err(err)
			}
			evt = evt.
				Str("method", string(c.Method())).
				Str("path", c.Path()).
				Int("status", status).
				Dur("duration", dur)
			if id, ok := c.State(RequestIDHeader); ok {
				evt = evt.Str("request_id", id)
			}
			evt.Msg("request")

			return err
		}
	}
}
