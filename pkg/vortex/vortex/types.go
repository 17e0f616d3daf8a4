package vortex

import (
	"errors"

	"github.com/vortexhttp/vortex/pkg/vortex/engine"
)

// Method re-exports engine.Method so callers never need to import the
// engine package directly for route registration.
type Method = engine.Method

const (
	MethodGet     = engine.MethodGet
	MethodPost    = engine.MethodPost
	MethodPut     = engine.MethodPut
	MethodDelete  = engine.MethodDelete
	MethodPatch   = engine.MethodPatch
	MethodHead    = engine.MethodHead
	MethodOptions = engine.MethodOptions
	MethodTrace   = engine.MethodTrace
	MethodConnect = engine.MethodConnect
)

// Handler processes one routed request. Returning an error hands the
// request to the App's ErrorHandler; a nil return means the handler
// already fully populated the Context's Response.
type Handler func(*Context) error

// Middleware wraps a Handler to run before and/or after it. Middleware
// realizes the pipeline contract's "step with an opaque continuation":
// next IS the continuation, and it is only invoked if and when the
// middleware body calls it, so "at most once" is a property of the
// closure, not of any framework bookkeeping.
type Middleware func(Handler) Handler

// ErrorHandler converts a Handler's returned error into a response on ctx.
type ErrorHandler func(*Context, error)

// Errors the default error handler maps to a status code. Routing
// produces ErrNotFound for an unmatched request; the others are for
// handlers and middleware to return.
var (
	ErrNotFound         = errors.New("vortex: not found")
	ErrMethodNotAllowed = errors.New("vortex: method not allowed")
	ErrBadRequest       = errors.New("vortex: bad request")
	ErrRequestTooLarge  = errors.New("vortex: request too large")
)

// routeInfo records one registration for ChainLink's per-route rewrite.
type routeInfo struct {
	method  Method
	pattern string
}

// ChainLink supports the fluent per-route middleware API:
// app.Get("/admin", h).Use(auth).Use(adminOnly)
type ChainLink struct {
	app   *App
	route routeInfo
}

// Use wraps this link's route handler with middleware, applied in the
// given order, and swaps the wrapped handler into the route's existing
// position in the router.
func (cl *ChainLink) Use(mw ...Middleware) *ChainLink {
	if cl.app == nil {
		return cl
	}
	cl.app.rewriteRoute(cl.route, mw)
	return cl
}
