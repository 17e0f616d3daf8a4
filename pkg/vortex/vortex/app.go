// Package vortex is the facade: App (route registration, middleware,
// lifecycle), Context (the per-request scratchpad), and Config (the
// validated option set). It wires the lower-level engine, router, pool,
// and timing packages into the shape handlers actually see.
package vortex

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vortexhttp/vortex/pkg/vortex/engine"
	"github.com/vortexhttp/vortex/pkg/vortex/router"
	"github.com/vortexhttp/vortex/pkg/vortex/server"
)

// App is the main Vortex application: route registration, global and
// per-route middleware chains, and the connection driver that backs
// Listen/Run.
type App struct {
	router       *router.Router[Handler]
	contextPool  *contextPool
	config       Config
	middleware   []Middleware
	errorHandler ErrorHandler

	serverMu sync.RWMutex
	server   *server.Server
}

// New creates an App with DefaultConfig.
func New() *App {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an App with a caller-supplied, already-validated
// Config.
func NewWithConfig(cfg Config) *App {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}
	return &App{
		router:       router.New[Handler](),
		contextPool:  newContextPool(),
		config:       cfg,
		errorHandler: cfg.ErrorHandler,
	}
}

// Use adds global middleware, executed in registration order ahead of
// every route's own handler.
func (app *App) Use(mw ...Middleware) {
	app.middleware = append(app.middleware, mw...)
}

func (app *App) addRoute(method Method, pattern string, h Handler) *ChainLink {
	final := h
	for i := len(app.middleware) - 1; i >= 0; i-- {
		final = app.middleware[i](final)
	}
	app.router.Add(method, pattern, final)
	return &ChainLink{app: app, route: routeInfo{method: method, pattern: pattern}}
}

// rewriteRoute wraps the handler already registered under (method,
// pattern) with mw and replaces it in place via Router.Replace — an
// append would leave the original, unwrapped registration shadowing
// the new one under first-match-wins lookup, since it was inserted
// first.
func (app *App) rewriteRoute(ri routeInfo, mw []Middleware) {
	m, ok := app.router.Find(ri.method, ri.pattern)
	if !ok {
		return
	}
	h := m.Handler
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	app.router.Replace(ri.method, ri.pattern, h)
}

// Get registers a GET route.
func (app *App) Get(pattern string, h Handler) *ChainLink { return app.addRoute(MethodGet, pattern, h) }

// Post registers a POST route.
func (app *App) Post(pattern string, h Handler) *ChainLink { return app.addRoute(MethodPost, pattern, h) }

// Put registers a PUT route.
func (app *App) Put(pattern string, h Handler) *ChainLink { return app.addRoute(MethodPut, pattern, h) }

// Delete registers a DELETE route.
func (app *App) Delete(pattern string, h Handler) *ChainLink {
	return app.addRoute(MethodDelete, pattern, h)
}

// Patch registers a PATCH route.
func (app *App) Patch(pattern string, h Handler) *ChainLink {
	return app.addRoute(MethodPatch, pattern, h)
}

// Head registers a HEAD route.
func (app *App) Head(pattern string, h Handler) *ChainLink { return app.addRoute(MethodHead, pattern, h) }

// Options registers an OPTIONS route.
func (app *App) Options(pattern string, h Handler) *ChainLink {
	return app.addRoute(MethodOptions, pattern, h)
}

// dispatch is the bridge between the engine-level server driver and this
// package's routing/middleware/Context machinery. It is the Handler
// value passed to server.New.
func (app *App) dispatch(req *engine.Request) *engine.Response {
	ctx := app.contextPool.acquire(req)
	defer app.contextPool.release(ctx)

	match, ok := app.router.Find(req.Method, req.Path)
	if !ok {
		app.errorHandler(ctx, ErrNotFound)
		return ctx.Response
	}
	ctx.setParams(match.Params)

	if err := match.Handler(ctx); err != nil {
		app.errorHandler(ctx, err)
	}
	return ctx.Response
}

func (app *App) serverConfig(addr string) server.Config {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerologLevel(app.config.LogLevel))
	return server.Config{
		Addr:           addr,
		MaxConnections: app.config.MaxConnections,
		BufferSize:     app.config.BufferSize,
		ReadTimeoutMS:  app.config.ReadTimeoutMS,
		WriteTimeoutMS: app.config.WriteTimeoutMS,
		ServerName:     "vortex",
		Limits: engine.Limits{
			MaxURILength:   app.config.MaxURILength,
			MaxBodySize:    app.config.MaxBodySize,
			MaxHeaderSize:  app.config.MaxHeaderSize,
			MaxHeaderCount: app.config.MaxHeaderCount,
			ValidationOn:   app.config.EnableRequestValidation,
		},
		Timing: timingConfig(app.config),
		Logger: &logger,
	}
}

// Listen starts the server on addr. This call blocks until the server
// stops (error or Shutdown).
func (app *App) Listen(addr string) error {
	app.router.Freeze()
	srv := server.New(app.serverConfig(addr), app.dispatch)

	app.serverMu.Lock()
	app.server = srv
	app.serverMu.Unlock()

	return srv.ListenAndServe()
}

// Run starts the server in the background and blocks until ctx is
// cancelled, then performs a graceful Shutdown.
func (app *App) Run(ctx context.Context, addr string) error {
	app.router.Freeze()
	srv := server.New(app.serverConfig(addr), app.dispatch)

	app.serverMu.Lock()
	app.server = srv
	app.serverMu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return app.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server, waiting for in-flight
// connections up to ctx's deadline.
func (app *App) Shutdown(ctx context.Context) error {
	app.serverMu.RLock()
	srv := app.server
	app.serverMu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Stats returns a snapshot of server statistics. It returns the zero
// value before Listen/Run has been called.
func (app *App) Stats() server.Stats {
	app.serverMu.RLock()
	srv := app.server
	app.serverMu.RUnlock()
	if srv == nil {
		return server.Stats{}
	}
	return srv.Stats()
}
