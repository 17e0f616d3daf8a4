// Package urlcodec implements percent-encoding and percent-decoding for
// request paths and query strings.
//
// Its decode contract deliberately differs from net/url: it never fails.
// A malformed percent sequence (a trailing "%", or "%" followed by
// non-hex digits) passes through literally instead of raising an error,
// so the parser never has to reject an otherwise well-formed request
// line over one bad escape. "+" is only treated as an encoded space
// inside a query string; inside a path segment it is a literal "+".
package urlcodec

import "strings"

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// Decode percent-decodes s. plusAsSpace controls whether "+" decodes to a
// literal space (query strings) or passes through unchanged (path
// segments).
func Decode(s string, plusAsSpace bool) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	if !plusAsSpace && !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(hexVal(s[i+1])<<4 | hexVal(s[i+2]))
			i += 2
		case c == '+' && plusAsSpace:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// DecodePathComponent decodes a single path segment. "+" is literal.
func DecodePathComponent(s string) string {
	return Decode(s, false)
}

// SplitAndDecodePath splits a URL path on "/" and percent-decodes each
// segment independently, so an encoded "%2F" within a segment never
// introduces a spurious path boundary. Leading/trailing empty segments
// produced by a leading/trailing slash are preserved as empty strings,
// matching how the router subsequently filters them.
func SplitAndDecodePath(path string) []string {
	raw := strings.Split(path, "/")
	out := make([]string, len(raw))
	for i, seg := range raw {
		out[i] = DecodePathComponent(seg)
	}
	return out
}

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether b must be percent-encoded when serializing
// a path segment back onto the wire. Only the unreserved set (RFC 3986
// ALPHA / DIGIT / "-" / "." / "_" / "~") is left unescaped; everything
// else, including "/" and the sub-delims, is escaped so that
// Decode(Encode(b)) == b holds for every byte.
func shouldEscape(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return false
	case b == '-' || b == '_' || b == '.' || b == '~':
		return false
	}
	return true
}

// Encode percent-encodes s for safe inclusion in a path or query.
func Encode(s string) string {
	hasEscapes := false
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			hasEscapes = true
			break
		}
	}
	if !hasEscapes {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*strings.Count(s, "%"))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
