package router

import "strings"

// DefaultNotFound is the fragment name served when a route has no mapping.
const DefaultNotFound = "not-found"

// Router maps hash-style locations to route names and route names to
// fragment resources. Resolution is a pure string computation; fetching the
// fragment is the content loader's job.
type Router struct {
	defaultRoute string
	notFound     string
	routes       map[string]string
}

// Option configures a Router.
type Option func(*Router)

// WithNotFound sets the fragment name used for unknown routes.
func WithNotFound(name string) Option {
	return func(r *Router) {
		r.notFound = name
	}
}

// New creates a router whose empty hash resolves to defaultRoute.
func New(defaultRoute string, opts ...Option) *Router {
	r := &Router{
		defaultRoute: defaultRoute,
		notFound:     DefaultNotFound,
		routes:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register maps a route name to a fragment name. Registering a route under
// its own name is the common case; Register(name, name) is fine.
func (r *Router) Register(route, fragment string) {
	r.routes[route] = fragment
}

// Resolve turns a hash location into a route name. "#/about", "/about",
// and "about" all resolve to "about"; the empty hash and "#/" resolve to
// the default route. Anything after a "?" is ignored.
func (r *Router) Resolve(hash string) string {
	s := strings.TrimPrefix(hash, "#")
	s = strings.TrimPrefix(s, "/")
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return r.defaultRoute
	}
	return s
}

// Fragment returns the fragment name for a route, falling back to the
// not-found fragment for unregistered routes.
func (r *Router) Fragment(route string) string {
	if f, ok := r.routes[route]; ok {
		return f
	}
	return r.notFound
}

// Known reports whether the route has a registered fragment.
func (r *Router) Known(route string) bool {
	_, ok := r.routes[route]
	return ok
}

// Routes returns the registered route names.
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	return out
}
