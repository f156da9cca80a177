package routemap

import (
	"strings"

	"dario.cat/mergo"
)

// GroupConfig is the inheritable bundle a group introduces. A bare
// string passed to Group is shorthand for GroupConfig{Prefix: s}.
type GroupConfig struct {
	Prefix     string
	Middleware []HandlerFunc
	Namespace  string
	Patterns   map[string]string
	Meta       map[string]any
}

// RouteOptions configures a single route registration. A bare string
// passed to Route is shorthand for RouteOptions{URI: s}.
type RouteOptions struct {
	Method     string
	URI        string
	Middleware []HandlerFunc
	Name       string
	Patterns   map[string]string
	Meta       map[string]any
}

// RouteEntry is one concrete registration owned by a node. Immutable
// once created.
type RouteEntry struct {
	Method      string
	Path        string // translated host matcher pattern
	URI         string // normalized colon template
	Name        string
	Handlers    []HandlerFunc
	Constraints map[string]*Constraint
	Mount       bool
}

// RouteNode is one node of the composition tree. It holds the settings
// already merged with its ancestors, the entries registered directly on
// it, and its subgroups in creation order.
type RouteNode struct {
	router     *Router
	uris       []string
	middleware []HandlerFunc
	nameParts  []string
	patterns   map[string]*Constraint
	meta       map[string]any
	entries    []*RouteEntry
	children   []*RouteNode
}

func newRouteNode(router *Router) *RouteNode {
	return &RouteNode{
		router:   router,
		patterns: map[string]*Constraint{},
		meta:     map[string]any{},
	}
}

func defaultGroupConfig() GroupConfig {
	return GroupConfig{Prefix: "/"}
}

func defaultRouteOptions() RouteOptions {
	return RouteOptions{Method: GET, URI: "/"}
}

func normalizeGroupConfig(config any) GroupConfig {
	switch v := config.(type) {
	case nil:
		return GroupConfig{}
	case string:
		return GroupConfig{Prefix: v}
	case GroupConfig:
		return v
	case *GroupConfig:
		return *v
	default:
		return GroupConfig{}
	}
}

func normalizeRouteOptions(options any) RouteOptions {
	switch v := options.(type) {
	case nil:
		return RouteOptions{}
	case string:
		return RouteOptions{URI: v}
	case RouteOptions:
		return v
	case *RouteOptions:
		return *v
	default:
		return RouteOptions{}
	}
}

// Group creates a child node whose settings are the parent's merged with
// cfg, then invokes fn against it so nested routes and subgroups can be
// registered. The prefix runs through the template compiler, so group
// prefixes may carry parameters and inline constraints of their own.
func (n *RouteNode) Group(config any, fn func(*RouteNode)) *RouteNode {
	cfg := normalizeGroupConfig(config)
	if err := mergo.Merge(&cfg, defaultGroupConfig()); err != nil {
		n.router.logger.Error("group config merge failed: %v", err)
	}

	compiled := compileTemplate(cfg.Prefix)

	child := newRouteNode(n.router)
	child.uris = append(append([]string{}, n.uris...), compiled.URI)
	child.middleware = concatHandlers(n.middleware, cfg.Middleware)
	child.nameParts = append([]string{}, n.nameParts...)
	if cfg.Namespace != "" {
		child.nameParts = append(child.nameParts, cfg.Namespace)
	}
	child.patterns = mergeConstraints(n.patterns, compiled.Constraints, compilePatterns(cfg.Patterns))
	child.meta = mergeMeta(n.meta, cfg.Meta)

	n.children = append(n.children, child)

	if fn != nil {
		fn(child)
	}
	return child
}

// Route compiles and registers a single route on this node. The entry is
// always appended to the node so a later Apply traversal sees it; in
// eager mode it is additionally registered with the host immediately.
func (n *RouteNode) Route(options any, action any) *RouteEntry {
	opts := normalizeRouteOptions(options)
	if err := mergo.Merge(&opts, defaultRouteOptions()); err != nil {
		n.router.logger.Error("route options merge failed: %v", err)
	}

	method := strings.ToLower(opts.Method)
	compiled := compileTemplate(joinPath(append(append([]string{}, n.uris...), opts.URI)...))

	// Inline constraints discovered while compiling fold into the node's
	// own pattern map; later registrations on sibling routes see them.
	for name, c := range compiled.Constraints {
		n.patterns[name] = c
	}

	constraints := mergeConstraints(n.patterns, compilePatterns(opts.Patterns))
	middleware := concatHandlers(n.middleware, opts.Middleware)
	meta := mergeMeta(n.meta, opts.Meta)

	// Name segments concatenate with no separator; authors include their
	// own delimiters in group namespaces.
	name := ""
	if opts.Name != "" {
		name = strings.Join(n.nameParts, "") + opts.Name
	}

	route := RouteContext{
		URI:        compiled.URI,
		Name:       name,
		Middleware: middleware,
		Patterns:   constraints,
		Meta:       meta,
	}
	stack := append(append([]HandlerFunc{}, middleware...), n.router.mapper(action, route, opts)...)

	if name != "" {
		n.router.names.set(name, compiled.URI, constraints)
	}

	pattern := n.router.pattern(compiled.URI, constraints)
	entry := &RouteEntry{
		Method:      method,
		Path:        pattern,
		URI:         compiled.URI,
		Name:        name,
		Handlers:    stack,
		Constraints: constraints,
	}
	n.entries = append(n.entries, entry)

	if n.router.eager {
		n.router.logger.Debug("registering %s %s with host", method, pattern)
		n.router.host.Add(method, pattern, stack...)
	}
	return entry
}

// Serve mounts a subtree handler stack (static assets and the like) at
// uri. Same join/compile/translate pipeline as Route, fixed to a
// catch-all get role; never participates in named route registration.
func (n *RouteNode) Serve(uri string, handlers ...HandlerFunc) *RouteEntry {
	compiled := compileTemplate(joinPath(append(append([]string{}, n.uris...), uri)...))
	constraints := mergeConstraints(n.patterns, compiled.Constraints)
	stack := concatHandlers(n.middleware, handlers)

	pattern := n.router.pattern(compiled.URI, constraints)
	entry := &RouteEntry{
		Method:      GET,
		Path:        pattern,
		URI:         compiled.URI,
		Handlers:    stack,
		Constraints: constraints,
		Mount:       true,
	}
	n.entries = append(n.entries, entry)

	if n.router.eager {
		n.router.logger.Debug("mounting %s with host", pattern)
		n.router.host.Mount(pattern, stack...)
	}
	return entry
}

// Handle registers a route under an explicit verb. Any verb string is
// accepted; it overrides whatever Method the options carry.
func (n *RouteNode) Handle(method string, options any, action any) *RouteEntry {
	opts := normalizeRouteOptions(options)
	opts.Method = method
	return n.Route(opts, action)
}

func (n *RouteNode) Get(options any, action any) *RouteEntry {
	return n.Handle(GET, options, action)
}

func (n *RouteNode) Post(options any, action any) *RouteEntry {
	return n.Handle(POST, options, action)
}

func (n *RouteNode) Put(options any, action any) *RouteEntry {
	return n.Handle(PUT, options, action)
}

func (n *RouteNode) Delete(options any, action any) *RouteEntry {
	return n.Handle(DELETE, options, action)
}

func (n *RouteNode) Patch(options any, action any) *RouteEntry {
	return n.Handle(PATCH, options, action)
}

func (n *RouteNode) Head(options any, action any) *RouteEntry {
	return n.Handle(HEAD, options, action)
}

func (n *RouteNode) Options(options any, action any) *RouteEntry {
	return n.Handle(OPTIONS, options, action)
}

// Apply hands every entry owned by this node to fn in registration
// order, then recurses depth-first into children in creation order.
// No-op in eager mode: those entries already reached the host at
// definition time. Not idempotent; the single-call-at-boot contract is
// the caller's.
func (n *RouteNode) Apply(fn RoutingFunc) {
	if n.router.eager {
		return
	}
	for _, entry := range n.entries {
		fn(RouteCall{Method: entry.Method, Path: entry.Path, Handlers: entry.Handlers})
	}
	for _, child := range n.children {
		child.Apply(fn)
	}
}

// Entries returns the registrations made directly on this node.
func (n *RouteNode) Entries() []*RouteEntry {
	return n.entries
}

// Children returns this node's subgroups in creation order.
func (n *RouteNode) Children() []*RouteNode {
	return n.children
}

func concatHandlers(parent, own []HandlerFunc) []HandlerFunc {
	out := make([]HandlerFunc, 0, len(parent)+len(own))
	out = append(out, parent...)
	return append(out, own...)
}

// compilePatterns anchors author-supplied pattern expressions. Invalid
// expressions are dropped rather than raised, matching the compiler's
// lenient posture.
func compilePatterns(patterns map[string]string) map[string]*Constraint {
	if len(patterns) == 0 {
		return nil
	}
	out := make(map[string]*Constraint, len(patterns))
	for name, expr := range patterns {
		c, err := newConstraint(expr)
		if err != nil {
			continue
		}
		out[name] = c
	}
	return out
}

// mergeConstraints merges pattern maps left to right, later maps winning
// on key collision.
func mergeConstraints(maps ...map[string]*Constraint) map[string]*Constraint {
	out := map[string]*Constraint{}
	for _, m := range maps {
		for name, c := range m {
			out[name] = c
		}
	}
	return out
}

// mergeMeta merges meta maps child-wins.
func mergeMeta(parent, own map[string]any) map[string]any {
	merged := map[string]any{}
	for k, v := range parent {
		merged[k] = v
	}
	if len(own) > 0 {
		if err := mergo.Merge(&merged, own, mergo.WithOverride); err != nil {
			return merged
		}
	}
	return merged
}
