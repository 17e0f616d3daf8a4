// Package router implements the path-pattern registry: ordered
// registration, first-match-wins lookup, and ":name"/"*" segment
// matching against percent-decoded path segments.
//
// This is a deliberate simplification of the teacher's radix-tree plus
// priority-reordering router: the contract here requires strict
// insertion-order, first-match-wins semantics (a literal route
// registered after a conflicting ":id" route never takes precedence),
// which a self-balancing or access-frequency-reordering tree cannot
// guarantee. Registrants are responsible for ordering more specific
// patterns ahead of less specific ones.
package router

import (
	"strings"

	"github.com/vortexhttp/vortex/pkg/vortex/engine"
	"github.com/vortexhttp/vortex/pkg/vortex/urlcodec"
)

// Router holds routes in registration order. H is the handler type the
// caller threads through (typically a func(*vortex.Context) error); the
// router itself never inspects or calls it, so it has no dependency on
// any particular Context type. It is safe to read concurrently once
// Freeze has been called; Add is not safe to call concurrently with
// either Add or Find.
type Router[H any] struct {
	routes []route[H]
	frozen bool
}

type route[H any] struct {
	method   engine.Method
	pattern  string
	segments []string
	handler  H
}

// New returns an empty Router.
func New[H any]() *Router[H] {
	return &Router[H]{}
}

// Add registers a pattern for method. Patterns are "/"-separated; a
// ":name" segment captures any nonempty decoded segment, and a "*"
// segment (optionally named, e.g. "*path") matches the remainder of the
// path and must be the last segment.
func (r *Router[H]) Add(method engine.Method, pattern string, h H) {
	if r.frozen {
		panic("vortex: router is frozen; routes cannot be added after Listen")
	}
	r.routes = append(r.routes, route[H]{
		method:   method,
		pattern:  pattern,
		segments: splitPattern(pattern),
		handler:  h,
	})
}

// Freeze prevents further registration; called once before serving.
func (r *Router[H]) Freeze() { r.frozen = true }

// Replace overwrites the handler of the first route registered under
// (method, pattern), in place, preserving its position in the
// insertion-order list. It reports whether such a route existed. Unlike
// Add, Replace does not change first-match-wins precedence — it exists
// so per-route middleware wrapping (applied after the route's initial
// registration) doesn't shadow itself behind the original handler.
func (r *Router[H]) Replace(method engine.Method, pattern string, h H) bool {
	if r.frozen {
		panic("vortex: router is frozen; routes cannot be replaced after Listen")
	}
	for i := range r.routes {
		if r.routes[i].method == method && r.routes[i].pattern == pattern {
			r.routes[i].handler = h
			return true
		}
	}
	return false
}

// Match is the result of a successful lookup: the matched handler plus
// any captured path parameters (already URL-decoded).
type Match[H any] struct {
	Handler H
	Params  map[string]string
}

// Find returns the first registered route (in insertion order) whose
// method matches and whose pattern matches path, per the algorithm:
// (1) exact literal match short-circuits without decoding, (2) patterns
// with no ":" or "*" are otherwise rejected without further work, (3)
// patterns with parameters/wildcards are matched segment-by-segment
// against the decoded path.
func (r *Router[H]) Find(method engine.Method, path string) (Match[H], bool) {
	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}
		if rt.pattern == path {
			return Match[H]{Handler: rt.handler, Params: nil}, true
		}
		if !strings.ContainsAny(rt.pattern, ":*") {
			continue
		}
		if params, ok := matchSegments(rt.segments, path); ok {
			return Match[H]{Handler: rt.handler, Params: params}, true
		}
	}
	return Match[H]{}, false
}

func splitPattern(pattern string) []string {
	return filterEmpty(strings.Split(pattern, "/"))
}

func filterEmpty(segs []string) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func matchSegments(patternSegs []string, path string) (map[string]string, bool) {
	pathSegs := urlcodec.SplitAndDecodePath(path)
	pathSegs = filterEmpty(pathSegs)

	var params map[string]string
	pi := 0
	for _, ps := range patternSegs {
		if strings.HasPrefix(ps, "*") {
			name := strings.TrimPrefix(ps, "*")
			remaining := strings.Join(pathSegs[min(pi, len(pathSegs)):], "/")
			if name != "" {
				if params == nil {
					params = make(map[string]string)
				}
				params[name] = remaining
			}
			return params, true
		}
		if pi >= len(pathSegs) {
			return nil, false
		}
		seg := pathSegs[pi]
		if strings.HasPrefix(ps, ":") {
			if seg == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[ps[1:]] = seg
		} else if ps != seg {
			return nil, false
		}
		pi++
	}
	if pi != len(pathSegs) {
		return nil, false
	}
	return params, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
