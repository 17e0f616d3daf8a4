package engine

import "strings"

// headerField is one name/value pair as received or set, with the
// original casing preserved for serialization.
type headerField struct {
	name  string
	canon string // lowercased, used for case-insensitive comparison
	value string
}

// RequestHeaders holds the headers of a parsed Request. Lookup is
// case-insensitive (per the resolved design-note recommendation: normalize
// for comparison, keep a parallel original-case store); insertion keeps
// last-wins semantics on a duplicate name, matching the source behavior
// that this parser preserves for parity.
type RequestHeaders struct {
	fields []headerField
}

// Set inserts or overwrites (last-wins) the header named name.
func (h *RequestHeaders) Set(name, value string) {
	canon := strings.ToLower(name)
	for i := range h.fields {
		if h.fields[i].canon == canon {
			h.fields[i].value = value
			h.fields[i].name = name
			return
		}
	}
	h.fields = append(h.fields, headerField{name: name, canon: canon, value: value})
}

// Get returns the value for name (case-insensitive) and whether it was present.
func (h *RequestHeaders) Get(name string) (string, bool) {
	canon := strings.ToLower(name)
	for i := range h.fields {
		if h.fields[i].canon == canon {
			return h.fields[i].value, true
		}
	}
	return "", false
}

// Count returns the number of distinct header names stored.
func (h *RequestHeaders) Count() int { return len(h.fields) }

// Names returns the header names in insertion order, original casing.
func (h *RequestHeaders) Names() []string {
	out := make([]string, len(h.fields))
	for i, f := range h.fields {
		out[i] = f.name
	}
	return out
}

// ResponseHeaders holds headers staged on a Response builder. set_header
// semantics are case-SENSITIVE exact-name replacement, deliberately unlike
// RequestHeaders: this mirrors the source's distinct contracts for the two
// directions (request headers are looked up loosely; response headers the
// handler sets are trusted to be spelled consistently by the caller).
type ResponseHeaders struct {
	fields []headerField
}

// Set replaces the header matching name exactly, or appends if absent.
func (h *ResponseHeaders) Set(name, value string) {
	for i := range h.fields {
		if h.fields[i].name == name {
			h.fields[i].value = value
			return
		}
	}
	h.fields = append(h.fields, headerField{name: name, value: value})
}

// Get returns the value of the header matching name exactly.
func (h *ResponseHeaders) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// Has reports whether name is already set.
func (h *ResponseHeaders) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Each calls fn for every header in traversal (insertion) order.
func (h *ResponseHeaders) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}
