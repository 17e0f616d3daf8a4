package server

import (
	"bytes"
	"net"
	"strconv"
	"time"

	"github.com/vortexhttp/vortex/pkg/vortex/engine"
	"github.com/vortexhttp/vortex/pkg/vortex/metrics"
	"github.com/vortexhttp/vortex/pkg/vortex/timing"
)

// handleConnection runs one connection's entire state machine to
// completion on the calling goroutine: Reading -> HeadersComplete ->
// Dispatching -> Writing -> Closing. The goroutine is the connection's
// single owner for its whole lifetime, so none of its state needs
// locking. connID is the correlation id ListenAndServe logged this
// connection's admission under; every event this method logs carries
// the same id so the two can be joined in a log aggregator.
func (s *Server) handleConnection(conn net.Conn, connID string) {
	clog := s.log.With().Str("conn_id", connID).Logger()
	defer func() {
		conn.Close()
		clog.Debug().Msg("connection closed")
	}()

	buf := s.bufPool.Get()
	defer s.bufPool.Put(buf)

	t := timing.ConnectionTiming{
		StartTimeMS:        nowMS(),
		LastReadTimeMS:     nowMS(),
		ExpectedBodyLength: -1,
	}

	headersEnd := -1
	bodyDeclared := 0
	maxTotal := s.cfg.Limits.MaxBodySize + 64*1024

	readDeadline := time.Duration(s.cfg.ReadTimeoutMS) * time.Millisecond
	if readDeadline <= 0 {
		readDeadline = 30 * time.Second
	}

	chunk := make([]byte, s.cfg.BufferSize)

readLoop:
	for {
		if v := timing.Evaluate(t, s.cfg.Timing, nowMS()); v != timing.Allowed {
			metrics.TimeoutVerdicts.WithLabelValues(v.String()).Inc()
			clog.Warn().Str("verdict", v.String()).Msg("timeout verdict")
			if v == timing.BodyTooLarge || v == timing.RequestTooLarge {
				s.writeResponse(conn, engine.PayloadTooLargeResponse())
			}
			s.stats.connectionErrors.Add(1)
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			s.stats.bytesRead.Add(int64(n))
			t.LastReadTimeMS = nowMS()

			if len(buf) > maxTotal {
				s.writeResponse(conn, engine.PayloadTooLargeResponse())
				s.stats.connectionErrors.Add(1)
				return
			}

			if !t.HeadersComplete {
				if idx := bytes.Index(buf, []byte(crlfcrlf)); idx >= 0 {
					headersEnd = idx
					t.HeadersComplete = true
					if n, ok := engine.ParseContentLength(string(buf[:idx])); ok {
						bodyDeclared = n
						t.ExpectedBodyLength = int64(n)
					} else {
						t.ExpectedBodyLength = 0
					}
				}
			}
			if t.HeadersComplete {
				t.ReceivedBodyLength = int64(len(buf) - headersEnd - 4)
				if t.ReceivedBodyLength < 0 {
					t.ReceivedBodyLength = 0
				}
				if t.ReceivedBodyLength >= int64(bodyDeclared) {
					break readLoop
				}
			}
			if err != nil {
				return
			}
			continue
		}
		// n == 0: either peer closed or a read error. Both terminate to
		// Closing without a response, per the state machine.
		return
	}

	req, perr := engine.Parse(buf, s.cfg.Limits)
	var resp *engine.Response
	if perr != nil {
		s.stats.requestErrors.Add(1)
		clog.Warn().Int("error_kind", int(perr.Kind)).Err(perr).Msg("parse failure")
		switch perr.Kind {
		case engine.ErrRequestTooLarge, engine.ErrHeadersTooLarge, engine.ErrBodyTooLarge:
			resp = engine.PayloadTooLargeResponse()
		default:
			resp = engine.BadRequestResponse()
		}
	} else {
		s.stats.totalRequests.Add(1)
		start := time.Now()
		resp = s.handler(req)
		metrics.RequestDuration.WithLabelValues(string(req.Method)).Observe(time.Since(start).Seconds())
		if resp == nil {
			s.stats.requestErrors.Add(1)
			clog.Error().Str("method", string(req.Method)).Str("path", req.Path).Msg("dispatch error: handler returned nil response")
			resp = engine.InternalServerErrorResponse()
		}
		metrics.RequestsTotal.WithLabelValues(string(req.Method), strconv.Itoa(resp.Status)).Inc()
	}

	s.writeResponse(conn, resp)
}

const crlfcrlf = "\r\n\r\n"

// writeResponse serializes resp and loops on Write until every byte is
// written or an error occurs — the spec's one deliberately strict
// deviation from the source it was distilled from, which treated any
// write completion as terminal regardless of byte count.
func (s *Server) writeResponse(conn net.Conn, resp *engine.Response) {
	out := resp.Build(s.cfg.ServerName)

	writeDeadline := time.Duration(s.cfg.WriteTimeoutMS) * time.Millisecond
	if writeDeadline <= 0 {
		writeDeadline = 30 * time.Second
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))

	written := 0
	for written < len(out) {
		n, err := conn.Write(out[written:])
		written += n
		s.stats.bytesWritten.Add(int64(n))
		if err != nil {
			s.stats.connectionErrors.Add(1)
			return
		}
	}
}
