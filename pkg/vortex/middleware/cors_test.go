package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortexhttp/vortex/pkg/vortex/engine"
	"github.com/vortexhttp/vortex/pkg/vortex/vortex"
)

func newTestContext(method engine.Method, path string) *vortex.Context {
	return &vortex.Context{
		Request: &engine.Request{
			Method: method,
			Path:   path,
		},
		Response: engine.NewResponse(),
	}
}

func TestCORSDefaultHeaders(t *testing.T) {
	mw := CORS()
	handler := mw(func(c *vortex.Context) error {
		return c.Text(200, "ok")
	})

	c := newTestContext(engine.MethodGet, "/api/users")
	err := handler(c)

	assert.NoError(t, err)
	origin, _ := c.Response.Headers.Get("Access-Control-Allow-Origin")
	assert.Equal(t, "*", origin)
}

func TestCORSCustomAllowList(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins: []string{"https://example.com"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
	}
	mw := CORSWithConfig(cfg)
	handler := mw(func(c *vortex.Context) error { return nil })

	c := newTestContext(engine.MethodGet, "/api")
	assert.NoError(t, handler(c))

	methods, _ := c.Response.Headers.Get("Access-Control-Allow-Methods")
	assert.Equal(t, "GET, POST", methods)
}

func TestCORSCallsNext(t *testing.T) {
	mw := CORS()
	called := false
	handler := mw(func(c *vortex.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, handler(newTestContext(engine.MethodPost, "/api")))
	assert.True(t, called)
}
