package vortex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortexhttp/vortex/pkg/vortex/engine"
)

func newTestCtx(method engine.Method, path string) *Context {
	req := &engine.Request{Method: method, Path: path}
	return &Context{Request: req, Response: engine.NewResponse()}
}

func TestContextJSONSetsContentType(t *testing.T) {
	c := newTestCtx(engine.MethodGet, "/")
	require.NoError(t, c.JSON(200, map[string]int{"n": 1}))

	ct, ok := c.Response.Headers.Get("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json", ct)
	assert.JSONEq(t, `{"n":1}`, string(c.Response.Body))
}

func TestContextStateRoundTrip(t *testing.T) {
	c := newTestCtx(engine.MethodGet, "/")
	_, ok := c.State("missing")
	assert.False(t, ok)

	c.SetState("key", "value")
	v, ok := c.State("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestContextValueRoundTrip(t *testing.T) {
	c := newTestCtx(engine.MethodGet, "/")
	c.SetValue("claims", map[string]string{"sub": "alice"})

	v, ok := c.Value("claims")
	require.True(t, ok)
	assert.Equal(t, "alice", v.(map[string]string)["sub"])
}

func TestContextCookieLookup(t *testing.T) {
	req := &engine.Request{Method: engine.MethodGet, Path: "/"}
	req.Headers.Set("Cookie", "session=abc123; theme=dark")
	c := &Context{Request: req, Response: engine.NewResponse()}

	v, ok := c.Cookie("session")
	require.True(t, ok)
	assert.Equal(t, "abc123", v)

	v, ok = c.Cookie("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	_, ok = c.Cookie("missing")
	assert.False(t, ok)
}

func TestContextResetClearsState(t *testing.T) {
	c := newContext()
	c.Request = &engine.Request{Method: engine.MethodGet, Path: "/x"}
	c.SetState("a", "b")
	c.SetValue("c", 1)
	c.setParams(map[string]string{"id": "1"})

	c.reset()

	assert.Nil(t, c.Request)
	_, ok := c.State("a")
	assert.False(t, ok)
	_, ok = c.Value("c")
	assert.False(t, ok)
	assert.Equal(t, "", c.Param("id"))
}
