// Package engine implements the request parser and response builder: the
// byte-level core of the connection lifecycle. Nothing in this package
// touches a socket; it operates purely on byte slices handed to it by the
// connection driver in pkg/vortex/server.
package engine

const (
	// MaxMethodLength bounds the request-line method token.
	MaxMethodLength = 16
	// MaxHeaderNameSize bounds a single header name.
	MaxHeaderNameSize = 256
	// MaxHeaderValueSize bounds a single header value.
	MaxHeaderValueSize = 4096
	// MaxHeaderCount bounds the number of header lines in one request.
	MaxHeaderCount = 100
)

const crlf = "\r\n"
const crlfcrlf = "\r\n\r\n"
