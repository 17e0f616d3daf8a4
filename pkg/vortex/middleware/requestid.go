package middleware

import (
	"github.com/google/uuid"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// RequestIDHeader is the response header and Context.State key used to
// carry the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// RequestID returns a middleware that assigns a random UUID to every
// request, stashes it in Context state under RequestIDHeader for
// Logger (and handlers) to pick up, and echoes it back as a response
// header so a client can correlate its request with server logs.
func RequestID() vortex.Middleware {
	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			id := uuid.NewString()
			c.SetState(RequestIDHeader, id)
			c.SetHeader(RequestIDHeader, id)
			return next(c)
		}
	}
}
