package routemap

import (
	"sort"
	"strings"
)

// HTTPMethod represents HTTP request methods
type HTTPMethod = string

type HandlerFunc func(Context) error

const (
	GET     HTTPMethod = "get"
	POST    HTTPMethod = "post"
	PUT     HTTPMethod = "put"
	DELETE  HTTPMethod = "delete"
	PATCH   HTTPMethod = "patch"
	HEAD    HTTPMethod = "head"
	OPTIONS HTTPMethod = "options"
)

// Context is the request surface a handler stack runs against. The core
// never invokes handlers itself; hosts adapt their native context to this
// interface before executing a stack.
type Context interface {
	Method() string
	Path() string

	Param(name string, defaultValue ...string) string
	Query(name string, defaultValue ...string) string

	Status(code int) Context
	Send(body []byte) error
	SendString(body string) error
	JSON(code int, v any) error

	Next() error
}

// Host is the registration side of a serving engine. Add registers a
// single method/pattern pair, Mount registers a catch-all subtree
// (static assets and the like). Patterns arrive in the host matcher's
// own syntax, already translated.
type Host interface {
	Add(method, pattern string, handlers ...HandlerFunc)
	Mount(pattern string, handlers ...HandlerFunc)
}

// Listener is the request-serving entry point of a host. A value passed
// to WithHost must implement both Host and Listener to be considered
// compatible; compatibility switches the Router into eager mode.
type Listener interface {
	Listen(address string) error
}

// RouteCall is one registration handed to a RoutingFunc during Apply.
type RouteCall struct {
	Method   string
	Path     string
	Handlers []HandlerFunc
}

// RoutingFunc receives every RouteEntry during a lazy Apply traversal.
type RoutingFunc func(RouteCall)

// RouteContext describes the fully merged route a mapper is resolving an
// action for.
type RouteContext struct {
	URI        string
	Name       string
	Middleware []HandlerFunc
	Patterns   map[string]*Constraint
	Meta       map[string]any
}

// ActionMapper turns an opaque action value into the handlers that
// terminate a route's stack. Hosts plug their own resolution policy here;
// the default is IdentityMapper.
type ActionMapper func(action any, route RouteContext, opts RouteOptions) []HandlerFunc

// IdentityMapper passes handler-shaped actions through untouched and
// drops anything it does not recognize.
func IdentityMapper(action any, _ RouteContext, _ RouteOptions) []HandlerFunc {
	switch v := action.(type) {
	case nil:
		return nil
	case HandlerFunc:
		return []HandlerFunc{v}
	case func(Context) error:
		return []HandlerFunc{v}
	case []HandlerFunc:
		return v
	case []func(Context) error:
		handlers := make([]HandlerFunc, len(v))
		for i, h := range v {
			handlers[i] = h
		}
		return handlers
	default:
		return nil
	}
}

// Router is the facade over the composition tree, the shared named route
// registry, and the eager/lazy mode flag. All registration happens at
// setup time, before traffic is served; none of it is safe for
// concurrent use.
type Router struct {
	root     *RouteNode
	names    *nameRegistry
	mapper   ActionMapper
	host     Host
	eager    bool
	logger   Logger
	encoder  QueryEncoder
	rendered map[string]string
}

type Option func(*Router)

// WithHost supplies a serving engine. The value is compatible when it
// implements both Host and Mount registration and a Listen entry point;
// anything less keeps the Router in lazy mode and the value is ignored.
func WithHost(host any) Option {
	return func(r *Router) {
		h, ok := host.(Host)
		if !ok {
			r.logger.Debug("host %T does not implement routemap.Host, staying lazy", host)
			return
		}
		if _, ok := host.(Listener); !ok {
			r.logger.Debug("host %T has no Listen entry point, staying lazy", host)
			return
		}
		r.host = h
		r.eager = true
	}
}

func WithActionMapper(m ActionMapper) Option {
	return func(r *Router) {
		if m != nil {
			r.mapper = m
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithVerbose turns on the default logger's output. No effect when a
// custom Logger is supplied.
func WithVerbose() Option {
	return func(r *Router) {
		if d, ok := r.logger.(*defaultLogger); ok {
			d.enabled = true
		}
	}
}

func WithQueryEncoder(enc QueryEncoder) Option {
	return func(r *Router) {
		if enc != nil {
			r.encoder = enc
		}
	}
}

// New creates a Router with a fresh composition tree. Eager mode is on
// iff a compatible host was supplied via WithHost.
func New(opts ...Option) *Router {
	r := &Router{
		names:    newNameRegistry(),
		mapper:   IdentityMapper,
		logger:   &defaultLogger{},
		encoder:  &URLQueryEncoder{},
		rendered: map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.root = newRouteNode(r)
	return r
}

// Eager reports whether routes register with the host at definition time.
func (r *Router) Eager() bool {
	return r.eager
}

// Root exposes the top-level RouteNode.
func (r *Router) Root() *RouteNode {
	return r.root
}

func (r *Router) Group(config any, fn func(*RouteNode)) *RouteNode {
	return r.root.Group(config, fn)
}

func (r *Router) Route(options any, action any) *RouteEntry {
	return r.root.Route(options, action)
}

func (r *Router) Serve(uri string, handlers ...HandlerFunc) *RouteEntry {
	return r.root.Serve(uri, handlers...)
}

// Handle registers a route for an explicit verb string. Any verb is
// accepted; it is lower-cased and passed to the host as-is.
func (r *Router) Handle(method string, options any, action any) *RouteEntry {
	return r.root.Handle(method, options, action)
}

func (r *Router) Get(options any, action any) *RouteEntry {
	return r.root.Get(options, action)
}

func (r *Router) Post(options any, action any) *RouteEntry {
	return r.root.Post(options, action)
}

func (r *Router) Put(options any, action any) *RouteEntry {
	return r.root.Put(options, action)
}

func (r *Router) Delete(options any, action any) *RouteEntry {
	return r.root.Delete(options, action)
}

func (r *Router) Patch(options any, action any) *RouteEntry {
	return r.root.Patch(options, action)
}

func (r *Router) Head(options any, action any) *RouteEntry {
	return r.root.Head(options, action)
}

func (r *Router) Options(options any, action any) *RouteEntry {
	return r.root.Options(options, action)
}

// Apply walks the whole tree handing every RouteEntry to fn. It is a
// no-op in eager mode. It carries no idempotency guard: the contract is
// a single call at boot, and a second call re-registers every entry.
func (r *Router) Apply(fn RoutingFunc) {
	r.root.Apply(fn)
}

// pattern renders (and memoizes) the host matcher pattern for a
// normalized template.
func (r *Router) pattern(uri string, constraints map[string]*Constraint) string {
	key := patternCacheKey(uri, constraints)
	if p, ok := r.rendered[key]; ok {
		return p
	}
	p := hostPattern(uri, constraints)
	r.rendered[key] = p
	return p
}

func patternCacheKey(uri string, constraints map[string]*Constraint) string {
	if len(constraints) == 0 {
		return uri
	}
	names := make([]string, 0, len(constraints))
	for name := range constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(uri)
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(constraints[name].Expr())
	}
	return b.String()
}
