package engine

import (
	"strconv"
	"strings"
	"time"
)

// SameSite enumerates the three recognized Set-Cookie SameSite values.
type SameSite int

const (
	SameSiteUnset SameSite = iota
	SameSiteStrict
	SameSiteLax
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	}
	return ""
}

// Cookie is one Set-Cookie entry, serialized with attributes in the fixed
// order: Path, Domain, Expires, Max-Age, Secure, HttpOnly, SameSite.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time // zero value omits Expires
	MaxAge   *int      // nil omits Max-Age
	Secure   bool
	HTTPOnly bool
	SameSite SameSite
}

var statusReasons = map[int]string{
	100: "continue_status",
	101: "switching_protocols",
	200: "ok",
	201: "created",
	202: "accepted",
	204: "no_content",
	301: "moved_permanently",
	302: "found",
	304: "not_modified",
	400: "bad_request",
	401: "unauthorized",
	403: "forbidden",
	404: "not_found",
	405: "method_not_allowed",
	409: "conflict",
	413: "payload_too_large",
	500: "internal_server_error",
	501: "not_implemented",
	502: "bad_gateway",
	503: "service_unavailable",
}

// ReasonPhrase returns the reason phrase for a known status code, formed
// by Title-Casing each underscore-separated word, with "ok" and
// "continue_status" hard-coded to "OK" and "Continue".
func ReasonPhrase(code int) string {
	name, ok := statusReasons[code]
	if !ok {
		return "Unknown"
	}
	switch name {
	case "ok":
		return "OK"
	case "continue_status":
		return "Continue"
	}
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Response is a mutable builder consumed exactly once by Build. Reuse
// after Build is not supported, matching the source contract.
type Response struct {
	Status  int
	Headers ResponseHeaders
	Cookies []Cookie
	Body    []byte

	built bool
}

// NewResponse returns a builder defaulted to 200 OK with no headers/body.
func NewResponse() *Response {
	return &Response{Status: 200}
}

// SetStatus overwrites the status code.
func (r *Response) SetStatus(code int) *Response {
	r.Status = code
	return r
}

// SetHeader replaces any existing header with exactly this name.
func (r *Response) SetHeader(name, value string) *Response {
	r.Headers.Set(name, value)
	return r
}

// SetBody replaces the body with raw bytes, leaving Content-Type untouched.
func (r *Response) SetBody(body []byte) *Response {
	r.Body = body
	return r
}

// SetJSONBody sets Content-Type to application/json and the body.
func (r *Response) SetJSONBody(body []byte) *Response {
	r.Headers.Set("Content-Type", "application/json")
	r.Body = body
	return r
}

// SetHTMLBody sets Content-Type to text/html; charset=utf-8 and the body.
func (r *Response) SetHTMLBody(body []byte) *Response {
	r.Headers.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = body
	return r
}

// SetTextBody sets Content-Type to text/plain; charset=utf-8 and the body.
func (r *Response) SetTextBody(body []byte) *Response {
	r.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = body
	return r
}

// SetCookie appends a cookie; output order follows append order.
func (r *Response) SetCookie(c Cookie) *Response {
	r.Cookies = append(r.Cookies, c)
	return r
}

// Build serializes the response into a single owned byte sequence:
// status line, default headers (only if not already set), explicit
// headers in traversal order, one Set-Cookie per cookie, Content-Length
// (if not already set), a blank line, then the body.
func (r *Response) Build(serverName string) []byte {
	var b strings.Builder

	reason := ReasonPhrase(r.Status)
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	b.WriteByte(' ')
	b.WriteString(reason)
	b.WriteString(crlf)

	if !r.Headers.Has("Server") {
		b.WriteString("Server: ")
		b.WriteString(serverName)
		b.WriteString(crlf)
	}
	if !r.Headers.Has("Date") {
		b.WriteString("Date: ")
		b.WriteString(strconv.FormatInt(time.Now().Unix(), 10))
		b.WriteString(crlf)
	}
	if !r.Headers.Has("Connection") {
		b.WriteString("Connection: close")
		b.WriteString(crlf)
	}

	r.Headers.Each(func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(crlf)
	})

	for _, c := range r.Cookies {
		b.WriteString("Set-Cookie: ")
		b.WriteString(serializeCookie(c))
		b.WriteString(crlf)
	}

	if !r.Headers.Has("Content-Length") {
		b.WriteString("Content-Length: ")
		b.WriteString(strconv.Itoa(len(r.Body)))
		b.WriteString(crlf)
	}

	b.WriteString(crlf)

	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, b.String()...)
	out = append(out, r.Body...)

	r.built = true
	return out
}

func serializeCookie(c Cookie) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(time.RFC1123))
	}
	if c.MaxAge != nil {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(*c.MaxAge))
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != SameSiteUnset {
		b.WriteString("; SameSite=")
		b.WriteString(c.SameSite.String())
	}
	return b.String()
}
