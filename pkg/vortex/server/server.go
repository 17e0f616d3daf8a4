// Package server implements the accept loop and per-connection driver:
// the goroutine-per-connection realization of the five-state connection
// lifecycle (Reading -> HeadersComplete -> Dispatching -> Writing ->
// Closing/Closed). It depends on engine, pool, timing, metrics, and
// sockopt — never on the vortex facade package — so that any Handler-shaped function
// over engine.Request/engine.Response can drive it, not just the
// vortex.App router/middleware stack.
package server

import (
	"context"
	"errors"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vortexhttp/vortex/pkg/vortex/engine"
	"github.com/vortexhttp/vortex/pkg/vortex/metrics"
	"github.com/vortexhttp/vortex/pkg/vortex/pool"
	"github.com/vortexhttp/vortex/pkg/vortex/sockopt"
	"github.com/vortexhttp/vortex/pkg/vortex/timing"
)

// Handler dispatches one fully-parsed request to a response. It must not
// retain req or the returned Response past the call.
type Handler func(req *engine.Request) *engine.Response

// Config is the slice of application configuration the connection driver
// consults directly.
type Config struct {
	Addr           string
	MaxConnections int
	BufferSize     int
	ReadTimeoutMS  int64
	WriteTimeoutMS int64
	ServerName     string
	Limits         engine.Limits
	Timing         timing.Config

	// Logger receives one structured event per connection lifecycle
	// transition (admitted, rejected, parse failure, timeout verdict,
	// dispatch error, closed), each carrying a "conn_id" correlation id.
	// Nil selects a default logger writing JSON to stdout.
	Logger *zerolog.Logger
}

// Stats is a snapshot of server-wide counters, grounded on the teacher's
// BaseServer.Stats shape. It is returned by Server.Stats only; these
// counters are not exported as Prometheus metrics.
type Stats struct {
	TotalConnections  int64
	ActiveConnections int64
	TotalRequests     int64
	BytesRead         int64
	BytesWritten      int64
	ConnectionErrors  int64
	RequestErrors     int64
}

type statCounters struct {
	totalConnections  atomic.Int64
	totalRequests     atomic.Int64
	bytesRead         atomic.Int64
	bytesWritten      atomic.Int64
	connectionErrors  atomic.Int64
	requestErrors     atomic.Int64
}

// Server owns the listener, the admission pool, the buffer pool, and the
// set of in-flight connection goroutines.
type Server struct {
	cfg     Config
	handler Handler

	connPool *pool.ConnectionPool
	bufPool  *pool.BufferPool

	ln       net.Listener
	conns    errgroup.Group // one Go call per in-flight connection goroutine
	stopping atomic.Bool
	stats    statCounters
	log      zerolog.Logger
}

// New constructs a Server. It does not bind a socket until ListenAndServe.
func New(cfg Config, h Handler) *Server {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 8192
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 1000
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "vortex"
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	s := &Server{
		cfg:      cfg,
		handler:  h,
		connPool: pool.NewConnectionPool(cfg.MaxConnections),
		bufPool:  pool.NewBufferPool(cfg.BufferSize),
		log:      log,
	}
	_ = prometheus.Register(metrics.NewPoolCollector(s.connPool, s.bufPool))
	return s
}

// ListenAndServe binds cfg.Addr and runs the accept loop until a fatal
// listener error occurs or Shutdown is called.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	sockopt.Tune(ln)
	s.ln = ln

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.stopping.Load() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}

		if acquireErr := s.connPool.TryAcquire(); acquireErr != nil {
			// No pending queue: admission failure drops the socket
			// immediately rather than buffering it.
			metrics.ConnectionsRejected.Inc()
			s.log.Warn().
				Str("conn_id", uuid.NewString()).
				Str("remote_addr", conn.RemoteAddr().String()).
				Msg("connection rejected: pool at capacity")
			_ = conn.Close()
			continue
		}

		connID := uuid.NewString()
		s.stats.totalConnections.Add(1)
		s.log.Info().
			Str("conn_id", connID).
			Str("remote_addr", conn.RemoteAddr().String()).
			Msg("connection admitted")
		s.conns.Go(func() error {
			defer s.connPool.Release()
			s.handleConnection(conn, connID)
			return nil
		})
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopping.Store(true)
	if s.ln != nil {
		_ = s.ln.Close()
	}

	done := make(chan error, 1)
	go func() { done <- s.conns.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the server's counters.
func (s *Server) Stats() Stats {
	return Stats{
		TotalConnections:  s.stats.totalConnections.Load(),
		ActiveConnections: s.connPool.Active(),
		TotalRequests:     s.stats.totalRequests.Load(),
		BytesRead:         s.stats.bytesRead.Load(),
		BytesWritten:      s.stats.bytesWritten.Load(),
		ConnectionErrors:  s.stats.connectionErrors.Load(),
		RequestErrors:     s.stats.requestErrors.Load(),
	}
}

func nowMS() int64 { return time.Now().UnixMilli() }
