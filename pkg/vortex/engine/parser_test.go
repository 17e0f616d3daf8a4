package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLimits() Limits {
	return Limits{
		MaxURILength:   2048,
		MaxBodySize:    10 << 20,
		MaxHeaderSize:  8192,
		MaxHeaderCount: 100,
		ValidationOn:   true,
	}
}

func TestParseSimpleGet(t *testing.T) {
	raw := "GET /hello HTTP/1.1\r\nHost: localhost\r\nUser-Agent: test\r\n\r\n"
	req, perr := Parse([]byte(raw), defaultLimits())
	require.Nil(t, perr)
	assert.Equal(t, MethodGet, req.Method)
	assert.Equal(t, "/hello", req.Path)
	assert.Equal(t, "", req.Query)
	assert.Nil(t, req.Body)
	host, ok := req.Headers.Get("Host")
	require.True(t, ok)
	assert.Equal(t, "localhost", host)
	ua, ok := req.Headers.Get("user-agent")
	require.True(t, ok)
	assert.Equal(t, "test", ua)
}

func TestParseQueryString(t *testing.T) {
	raw := "GET /search?q=zig&limit=10 HTTP/1.1\r\nHost: example.com\r\n\r\n"
	req, perr := Parse([]byte(raw), defaultLimits())
	require.Nil(t, perr)
	assert.Equal(t, "/search", req.Path)
	assert.Equal(t, "q=zig&limit=10", req.Query)
}

func TestParsePostWithBody(t *testing.T) {
	body := `{"name":"John","age":30}`
	raw := "POST /api/users HTTP/1.1\r\nContent-Type: application/json\r\nContent-Length: " +
		itoa(len(body)) + "\r\n\r\n" + body
	req, perr := Parse([]byte(raw), defaultLimits())
	require.Nil(t, perr)
	assert.Equal(t, body, string(req.Body))
}

func TestParseBodyTooLarge(t *testing.T) {
	limits := defaultLimits()
	limits.MaxBodySize = 10
	raw := "POST /x HTTP/1.1\r\nContent-Length: 20\r\n\r\n01234567890123456789"
	_, perr := Parse([]byte(raw), limits)
	require.NotNil(t, perr)
	assert.Equal(t, ErrBodyTooLarge, perr.Kind)
}

func TestParseRejectsUnknownMethod(t *testing.T) {
	raw := "FOO / HTTP/1.1\r\nHost: x\r\n\r\n"
	_, perr := Parse([]byte(raw), defaultLimits())
	require.NotNil(t, perr)
	assert.Equal(t, ErrInvalidRequestLine, perr.Kind)
}

func TestParseRejectsMissingCRLFCRLF(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: x\r\n"
	_, perr := Parse([]byte(raw), defaultLimits())
	require.NotNil(t, perr)
	assert.Equal(t, ErrInvalidRequest, perr.Kind)
}

func TestParseRejectsTooManyHeaders(t *testing.T) {
	limits := defaultLimits()
	limits.MaxHeaderCount = 2
	raw := "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"
	_, perr := Parse([]byte(raw), limits)
	require.NotNil(t, perr)
	assert.Equal(t, ErrTooManyHeaders, perr.Kind)
}

func TestParseRejectsContentLengthAndTransferEncoding(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 5\r\nTransfer-Encoding: chunked\r\n\r\nhello"
	_, perr := Parse([]byte(raw), defaultLimits())
	require.NotNil(t, perr)
	assert.Equal(t, ErrInvalidRequestFormat, perr.Kind)
}

func TestParseRejectsConflictingDuplicateContentLength(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\nhello!"
	_, perr := Parse([]byte(raw), defaultLimits())
	require.NotNil(t, perr)
	assert.Equal(t, ErrInvalidRequestFormat, perr.Kind)
}

func TestParseAllowsIdenticalDuplicateContentLength(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 5\r\n\r\nhello"
	req, perr := Parse([]byte(raw), defaultLimits())
	require.Nil(t, perr)
	assert.Equal(t, "hello", string(req.Body))
}

func TestParseRejectsMultipleHostHeaders(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: a\r\nHost: b\r\n\r\n"
	_, perr := Parse([]byte(raw), defaultLimits())
	require.NotNil(t, perr)
	assert.Equal(t, ErrInvalidRequestFormat, perr.Kind)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
