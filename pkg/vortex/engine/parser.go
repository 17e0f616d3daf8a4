package engine

import "bytes"

// Limits (request.go) supplies the size bounds Parse validates against.

// Parse consumes buf, the accumulated bytes of one inbound connection up
// to and including its full body, and produces an owned Request or a
// classified ParseError. Parse is total: every validation in the
// algorithm below runs before any field is allocated into the returned
// Request, so a rejected request never leaves partially-built state for
// a caller to leak.
func Parse(buf []byte, limits Limits) (*Request, *ParseError) {
	idx := bytes.Index(buf, []byte(crlfcrlf))
	if idx < 0 {
		return nil, newParseError(ErrInvalidRequest, "no CRLFCRLF found: incomplete headers")
	}

	if limits.ValidationOn && limits.MaxHeaderSize > 0 && idx+4 > limits.MaxHeaderSize {
		return nil, newParseError(ErrHeadersTooLarge, "header section exceeds max_header_size")
	}

	headerSection := string(buf[:idx])
	lines := splitOnCRLF(headerSection)
	if len(lines) == 0 || lines[0] == "" {
		return nil, newParseError(ErrInvalidRequest, "empty request line")
	}
	requestLine := lines[0]
	headerLines := lines[1:]

	method, uri, version, perr := parseRequestLine(requestLine, limits)
	if perr != nil {
		return nil, perr
	}

	path, query := splitURI(uri)
	if path == "" {
		return nil, newParseError(ErrInvalidRequestLine, "empty path")
	}

	maxHeaderCount := limits.MaxHeaderCount
	if maxHeaderCount <= 0 {
		maxHeaderCount = MaxHeaderCount
	}

	var headers RequestHeaders
	var contentLengthValues []string
	var transferEncodingSeen bool
	var hostCount int

	for _, line := range headerLines {
		if headers.Count() >= maxHeaderCount {
			return nil, newParseError(ErrTooManyHeaders, "too many headers")
		}
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return nil, newParseError(ErrInvalidHeaderLine, "malformed header line")
		}
		if name == "" || len(name) > MaxHeaderNameSize {
			return nil, newParseError(ErrInvalidHeaderLine, "invalid header name length")
		}
		if len(value) > MaxHeaderValueSize || containsCRLFOrNUL(value) {
			return nil, newParseError(ErrInvalidHeaderLine, "invalid header value")
		}

		if hasPrefixFold(name+":", "content-length:") {
			contentLengthValues = append(contentLengthValues, value)
		}
		if hasPrefixFold(name+":", "transfer-encoding:") {
			transferEncodingSeen = true
		}
		if hasPrefixFold(name+":", "host:") {
			hostCount++
		}

		headers.Set(name, value)
	}

	// RFC 7230 request-smuggling defenses: a request declaring both
	// Content-Length and Transfer-Encoding, duplicate Content-Length
	// values that disagree, or more than one Host header is rejected
	// outright rather than resolved by a last-wins guess.
	if transferEncodingSeen {
		if _, ok := headers.Get("Content-Length"); ok {
			return nil, newParseError(ErrInvalidRequestFormat, "Content-Length and Transfer-Encoding both present")
		}
	}
	if !allEqual(contentLengthValues) {
		return nil, newParseError(ErrInvalidRequestFormat, "conflicting Content-Length values")
	}
	if hostCount > 1 {
		return nil, newParseError(ErrInvalidRequestFormat, "multiple Host headers")
	}

	var body []byte
	if clStr, ok := headers.Get("Content-Length"); ok {
		if n, valid := parseNonNegativeInt(trimASCIISpace(clStr)); valid {
			if limits.ValidationOn && limits.MaxBodySize > 0 && n > limits.MaxBodySize {
				return nil, newParseError(ErrBodyTooLarge, "declared Content-Length exceeds max_body_size")
			}
			if n > 0 {
				bodyStart := idx + 4
				available := len(buf) - bodyStart
				take := n
				if take > available {
					take = available
				}
				if take > 0 {
					body = make([]byte, take)
					copy(body, buf[bodyStart:bodyStart+take])
				}
			}
		}
		// A malformed Content-Length value is treated as absent, matching
		// ParseContentLength's "any malformed input yields null" contract.
	}

	return &Request{
		Method:  Method(method),
		Path:    path,
		Query:   query,
		Version: version,
		Headers: headers,
		Body:    body,
	}, nil
}

func parseRequestLine(line string, limits Limits) (method, uri, version string, perr *ParseError) {
	sp1 := indexByte(line, ' ')
	if sp1 < 0 {
		return "", "", "", newParseError(ErrInvalidRequestLine, "missing method/URI separator")
	}
	rest := line[sp1+1:]
	sp2 := indexByte(rest, ' ')
	if sp2 < 0 {
		return "", "", "", newParseError(ErrInvalidRequestLine, "missing URI/version separator")
	}

	method = line[:sp1]
	uri = rest[:sp2]
	version = rest[sp2+1:]

	if method == "" || len(method) > MaxMethodLength || !IsRecognized(method) {
		return "", "", "", newParseError(ErrInvalidRequestLine, "unrecognized method")
	}
	maxURI := limits.MaxURILength
	if maxURI <= 0 {
		maxURI = 2048
	}
	if uri == "" || len(uri) > maxURI || containsByte(uri, 0) {
		return "", "", "", newParseError(ErrInvalidRequestLine, "invalid URI")
	}
	if version == "" || len(version) > 16 || !hasPrefix(version, "HTTP/") || indexByte(version, ' ') >= 0 {
		return "", "", "", newParseError(ErrInvalidRequestLine, "invalid version")
	}
	return method, uri, version, nil
}

func splitURI(uri string) (path, query string) {
	if i := indexByte(uri, '?'); i >= 0 {
		return uri[:i], uri[i+1:]
	}
	return uri, ""
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	i := indexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	name = trimASCIISpace(line[:i])
	value = trimASCIISpace(line[i+1:])
	return name, value, true
}

func splitOnCRLF(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			out = append(out, s[start:i])
			start = i + 2
			i++
		}
	}
	out = append(out, s[start:])
	return out
}

func containsCRLFOrNUL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' || s[i] == 0 {
			return true
		}
	}
	return false
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func allEqual(vals []string) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[0] {
			return false
		}
	}
	return true
}
