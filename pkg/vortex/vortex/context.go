package vortex

import (
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/vortexhttp/vortex/pkg/vortex/engine"
)

// Context is the per-request scratchpad: non-owning references to the
// parsed Request and the in-progress Response, decoded route parameters,
// and an opaque string/string state map for middleware-to-handler
// communication. A Context is created immediately before routing and
// destroyed immediately after the handler returns, regardless of
// outcome; handlers must not retain it past their own return.
type Context struct {
	Request  *engine.Request
	Response *engine.Response

	params map[string]string
	state  map[string]string
	values map[string]any
}

func newContext() *Context {
	return &Context{Response: engine.NewResponse()}
}

func (c *Context) reset() {
	c.Request = nil
	c.Response = engine.NewResponse()
	for k := range c.params {
		delete(c.params, k)
	}
	for k := range c.state {
		delete(c.state, k)
	}
	for k := range c.values {
		delete(c.values, k)
	}
}

// contextPool recycles Context values across requests, mirroring the
// teacher's warm-pool-of-contexts pattern; this package's Context is a
// plain struct (no unsafe zero-copy fields), so recycling only needs to
// clear maps rather than unlink transport-buffer references.
type contextPool struct {
	pool sync.Pool
}

func newContextPool() *contextPool {
	p := &contextPool{}
	p.pool.New = func() any { return newContext() }
	return p
}

func (p *contextPool) acquire(req *engine.Request) *Context {
	c := p.pool.Get().(*Context)
	c.Request = req
	return c
}

func (p *contextPool) release(c *Context) {
	c.reset()
	p.pool.Put(c)
}

// Method returns the request method.
func (c *Context) Method() Method { return c.Request.Method }

// Path returns the raw (not decoded) request path.
func (c *Context) Path() string { return c.Request.Path }

// Query returns the raw query string, or "" if none.
func (c *Context) Query() string { return c.Request.Query }

// Header returns a request header by case-insensitive name.
func (c *Context) Header(name string) (string, bool) {
	return c.Request.Headers.Get(name)
}

// Body returns the raw request body, or nil if none.
func (c *Context) Body() []byte { return c.Request.Body }

// Param returns a decoded route parameter captured by the router.
func (c *Context) Param(name string) string {
	if c.params == nil {
		return ""
	}
	return c.params[name]
}

// setParams installs the router's captured parameters for this request.
func (c *Context) setParams(params map[string]string) {
	c.params = params
}

// State returns an opaque value middleware has stashed under key.
func (c *Context) State(key string) (string, bool) {
	v, ok := c.state[key]
	return v, ok
}

// SetState stashes an opaque value for later middleware or the handler.
func (c *Context) SetState(key, value string) {
	if c.state == nil {
		c.state = make(map[string]string, 4)
	}
	c.state[key] = value
}

// Value returns an arbitrary value middleware has stashed under key,
// distinct from State's string-only store — used for structured data
// such as parsed JWT claims.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// SetValue stashes an arbitrary value for later middleware or the handler.
func (c *Context) SetValue(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any, 4)
	}
	c.values[key] = value
}

// Status sets the response status code.
func (c *Context) Status(code int) *Context {
	c.Response.SetStatus(code)
	return c
}

// SetHeader sets a response header by exact name.
func (c *Context) SetHeader(name, value string) *Context {
	c.Response.SetHeader(name, value)
	return c
}

// SetCookie appends a Set-Cookie entry.
func (c *Context) SetCookie(cookie engine.Cookie) *Context {
	c.Response.SetCookie(cookie)
	return c
}

// Cookie returns the value of a cookie sent by the client on the Cookie
// request header, or ok=false if absent.
func (c *Context) Cookie(name string) (string, bool) {
	raw, ok := c.Header("Cookie")
	if !ok {
		return "", false
	}
	return parseCookieHeader(raw, name)
}

func parseCookieHeader(raw, name string) (string, bool) {
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if k, v, ok := strings.Cut(pair, "="); ok && k == name {
			return v, true
		}
	}
	return "", false
}

// JSON marshals v with goccy/go-json, sets status and Content-Type, and
// stores the encoded body on the response.
func (c *Context) JSON(status int, v any) error {
	body, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	c.Response.SetStatus(status).SetJSONBody(body)
	return nil
}

// Text sets a text/plain response.
func (c *Context) Text(status int, body string) error {
	c.Response.SetStatus(status).SetTextBody([]byte(body))
	return nil
}

// HTML sets a text/html response.
func (c *Context) HTML(status int, body string) error {
	c.Response.SetStatus(status).SetHTMLBody([]byte(body))
	return nil
}
