package middleware

import (
	"time"

	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// Timeout returns a middleware that runs the rest of the chain on its
// own goroutine and responds 503 if it does not finish within d. The
// connection's own idle/processing timeouts (pkg/vortex/timing) bound how
// long the client can be kept waiting for headers and body; this
// middleware bounds how long a handler may run once dispatched, which
// is a separate, application-level concern the core engine does not
// know about.
//
// The slow handler goroutine is not killed — it keeps running
// detached and its eventual write to c.Response is discarded, since
// the connection has already moved on. Handlers doing real work past
// the deadline should watch for the timeout via their own means
// (e.g. a context passed through State) rather than relying on this
// middleware to cancel them.
func Timeout(d time.Duration) vortex.Middleware {
	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) error {
			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-time.After(d):
				return c.JSON(503, map[string]string{"error": "Service Unavailable"})
			}
		}
	}
}
