package vortex

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testServer wraps an App listening on a real loopback socket, grounded
// on the teacher's createTestServer/testServer harness.
type testServer struct {
	app *App
	url string
}

// startTestServer calls register before Listen, since Listen freezes the
// router and any later route registration panics.
func startTestServer(t *testing.T, cfg Config, register func(app *App)) *testServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	app := NewWithConfig(cfg)
	register(app)
	ts := &testServer{app: app, url: "http://" + addr}

	started := make(chan struct{})
	go func() {
		close(started)
		_ = app.Listen(addr)
	}()
	<-started

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
	})

	return ts
}

// client returns an http.Client with keep-alive disabled, since the
// engine closes the connection after every response (no pipelining,
// no reuse — out of scope per the core spec's Non-goals).
func (ts *testServer) client() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.url+path, body)
	require.NoError(t, err)
	resp, err := ts.client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestSimpleGET(t *testing.T) {
	ts := startTestServer(t, DefaultConfig(), func(app *App) {
		app.Get("/hello", func(c *Context) error {
			return c.JSON(200, map[string]string{"message": "hello"})
		})
	})

	resp := ts.do(t, "GET", "/hello", nil)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "hello", got["message"])
}

func TestQueryStringParsing(t *testing.T) {
	ts := startTestServer(t, DefaultConfig(), func(app *App) {
		app.Get("/search", func(c *Context) error {
			return c.Text(200, c.Query())
		})
	})

	resp := ts.do(t, "GET", "/search?q=vortex&limit=10", nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "q=vortex&limit=10", string(body))
}

func TestPOSTWithBody(t *testing.T) {
	ts := startTestServer(t, DefaultConfig(), func(app *App) {
		app.Post("/echo", func(c *Context) error {
			c.Response.SetStatus(200).SetJSONBody(c.Body())
			return nil
		})
	})

	resp := ts.do(t, "POST", "/echo", bytes.NewReader([]byte(`{"ok":true}`)))
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, 200, resp.StatusCode)
	require.JSONEq(t, `{"ok":true}`, string(body))
}

func TestBodyTooLargeRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodySize = 16
	ts := startTestServer(t, cfg, func(app *App) {
		app.Post("/upload", func(c *Context) error {
			return c.Text(200, "accepted")
		})
	})

	resp := ts.do(t, "POST", "/upload", bytes.NewReader(bytes.Repeat([]byte("x"), 1024)))
	defer resp.Body.Close()
	require.Equal(t, 413, resp.StatusCode)
}

func TestURLDecodedRouteParam(t *testing.T) {
	ts := startTestServer(t, DefaultConfig(), func(app *App) {
		app.Get("/items/:name", func(c *Context) error {
			return c.Text(200, c.Param("name"))
		})
	})

	resp := ts.do(t, "GET", "/items/hello%20world", nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "hello world", string(body))
}

func TestAdmissionRejectionUnderLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConnections = 1
	ts := startTestServer(t, cfg, func(app *App) {
		app.Get("/slow", func(c *Context) error {
			time.Sleep(200 * time.Millisecond)
			return c.Text(200, "done")
		})
	})

	addr := strings.TrimPrefix(ts.url, "http://")
	blocker, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer blocker.Close()
	_, err = blocker.Write([]byte("GET /slow HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	rejected, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err == nil {
		buf := make([]byte, 1)
		rejected.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, readErr := rejected.Read(buf)
		require.Error(t, readErr)
		rejected.Close()
	}
}
