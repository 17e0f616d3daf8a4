package middleware

import (
	"strings"

	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// CORSConfig configures CORS headers. AllowOrigins of ["*"] is the
// default (reserved-hook parity with the disabled-by-default
// enable_cors config flag: applications opt in by registering this
// middleware at all).
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// DefaultCORSConfig allows any origin with a conservative default method set.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}
}

// CORS returns a middleware that sets Access-Control-* response headers
// on every request using DefaultCORSConfig.
func CORS() vortex.Middleware {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig returns CORS with custom allow-lists.
func CORSWithConfig(cfg CORSConfig) vortex.Middleware {
	origin := strings.Join(cfg.AllowOrigins, ", ")
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			c.SetHeader("Access-Control-Allow-Origin", origin)
			c.SetHeader("Access-Control-Allow-Methods", methods)
			c.SetHeader("Access-Control-Allow-Headers", headers)
			return next(c)
		}
	}
}
