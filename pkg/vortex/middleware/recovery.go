package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

// Recovery returns a middleware that converts a panic inside a later
// step or the handler into a 500 response instead of crashing the
// connection's goroutine (which would otherwise take down the whole
// process, since each connection runs unsupervised).
func Recovery() vortex.Middleware {
	return func(next vortex.Handler) vortex.Handler {
		return func(c *vortex.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Bytes("stack", debug.Stack()).
						Msg("recovered panic in handler")
					err = fmt.Errorf("vortex: recovered panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
