package routemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostCall struct {
	method   string
	pattern  string
	handlers []HandlerFunc
}

type mockHost struct {
	adds   []hostCall
	mounts []hostCall
}

func (m *mockHost) Add(method, pattern string, handlers ...HandlerFunc) {
	m.adds = append(m.adds, hostCall{method: method, pattern: pattern, handlers: handlers})
}

func (m *mockHost) Mount(pattern string, handlers ...HandlerFunc) {
	m.mounts = append(m.mounts, hostCall{method: "get", pattern: pattern, handlers: handlers})
}

func (m *mockHost) Listen(address string) error {
	return nil
}

// registrarOnlyHost can register routes but has no Listen entry point,
// so it must not flip a Router into eager mode.
type registrarOnlyHost struct {
	adds []hostCall
}

func (m *registrarOnlyHost) Add(method, pattern string, handlers ...HandlerFunc) {
	m.adds = append(m.adds, hostCall{method: method, pattern: pattern, handlers: handlers})
}

func (m *registrarOnlyHost) Mount(pattern string, handlers ...HandlerFunc) {}

func noopHandler(Context) error { return nil }

func markerHandler(order *[]string, label string) HandlerFunc {
	return func(Context) error {
		*order = append(*order, label)
		return nil
	}
}

func runStack(t *testing.T, handlers []HandlerFunc) {
	t.Helper()
	for _, h := range handlers {
		require.NoError(t, h(nil))
	}
}

func TestGroup_PrefixMiddlewareAndName(t *testing.T) {
	r := New()

	var order []string
	mwA := markerHandler(&order, "A")
	mwB := markerHandler(&order, "B")
	action := markerHandler(&order, "handler")

	r.Group(GroupConfig{Prefix: "/admin", Middleware: []HandlerFunc{mwA}}, func(admin *RouteNode) {
		admin.Route(RouteOptions{
			URI:        "/users",
			Middleware: []HandlerFunc{mwB},
			Name:       "list",
		}, action)
	})

	entries := r.Routes()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "get", entry.Method)
	assert.Equal(t, "/admin/users", entry.Path)
	assert.Equal(t, "list", entry.Name)
	require.Len(t, entry.Handlers, 3)

	// Ancestor middleware runs before the node's own, which runs before
	// the resolved action.
	runStack(t, entry.Handlers)
	assert.Equal(t, []string{"A", "B", "handler"}, order)
}

func TestGroup_BareStringIsPrefix(t *testing.T) {
	r := New()

	r.Group("/api", func(api *RouteNode) {
		api.Get("/health", noopHandler)
	})

	entries := r.Routes()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/health", entries[0].Path)
}

func TestGroup_NamespaceConcatenatesWithoutSeparator(t *testing.T) {
	r := New()

	r.Group(GroupConfig{Prefix: "/admin", Namespace: "admin."}, func(admin *RouteNode) {
		admin.Group(GroupConfig{Prefix: "/v1", Namespace: "v1."}, func(v1 *RouteNode) {
			v1.Route(RouteOptions{URI: "/users", Name: "users"}, noopHandler)
		})
	})

	entries := r.Routes()
	require.Len(t, entries, 1)
	assert.Equal(t, "admin.v1.users", entries[0].Name)

	url, err := r.URL("admin.v1.users", nil)
	require.NoError(t, err)
	assert.Equal(t, "/admin/v1/users", url)
}

func TestGroup_PrefixMayCarryConstraints(t *testing.T) {
	r := New()

	r.Group(`/tenants/:tenant(\d+)`, func(tenant *RouteNode) {
		tenant.Get(RouteOptions{URI: "/report", Name: "report"}, noopHandler)
	})

	entries := r.Routes()
	require.Len(t, entries, 1)
	assert.Equal(t, `/tenants/:tenant<\d+>/report`, entries[0].Path)
	require.Contains(t, entries[0].Constraints, "tenant")
}

func TestGroup_PatternAndMetaChildWins(t *testing.T) {
	r := New()

	var inner *RouteNode
	var got *RouteEntry
	r.Group(GroupConfig{
		Prefix:   "/a",
		Patterns: map[string]string{"id": `\d+`},
		Meta:     map[string]any{"area": "public", "cache": true},
	}, func(a *RouteNode) {
		a.Group(GroupConfig{
			Prefix:   "/b",
			Patterns: map[string]string{"id": `[a-f0-9]+`},
			Meta:     map[string]any{"area": "internal"},
		}, func(b *RouteNode) {
			inner = b
			got = b.Get("/items/:id", noopHandler)
		})
	})

	require.NotNil(t, got)
	require.Contains(t, got.Constraints, "id")
	assert.Equal(t, `[a-f0-9]+`, got.Constraints["id"].Expr())
	assert.True(t, got.Constraints["id"].MatchString("beef"))
	assert.False(t, got.Constraints["id"].MatchString("xyz"))

	assert.Equal(t, map[string]any{"area": "internal", "cache": true}, inner.meta)
}

func TestRoute_Defaults(t *testing.T) {
	r := New()

	entry := r.Route(nil, noopHandler)

	assert.Equal(t, "get", entry.Method)
	assert.Equal(t, "/", entry.Path)
}

func TestRoute_MethodLowerCased(t *testing.T) {
	r := New()

	entry := r.Route(RouteOptions{Method: "POST", URI: "/things"}, noopHandler)

	assert.Equal(t, "post", entry.Method)
}

func TestHandle_AcceptsAnyVerb(t *testing.T) {
	r := New()

	entry := r.Handle("REPORT", "/sync", noopHandler)

	assert.Equal(t, "report", entry.Method)
}

func TestRoute_InlineConstraintFoldsIntoNodePatterns(t *testing.T) {
	r := New()

	r.Group("/users", func(users *RouteNode) {
		users.Get(`/:id(\d+)`, noopHandler)
		// Sibling registered afterwards inherits the discovered
		// constraint from the node's pattern map.
		sibling := users.Get("/:id/edit", noopHandler)
		assert.Contains(t, sibling.Constraints, "id")
		assert.Equal(t, `/users/:id<\d+>/edit`, sibling.Path)
	})
}

func TestEagerMode_RegistersImmediately(t *testing.T) {
	host := &mockHost{}
	r := New(WithHost(host))

	require.True(t, r.Eager())

	r.Get(RouteOptions{URI: "/users", Name: "users"}, noopHandler)

	require.Len(t, host.adds, 1)
	assert.Equal(t, "get", host.adds[0].method)
	assert.Equal(t, "/users", host.adds[0].pattern)

	// Apply is a no-op: entries already reached the host.
	calls := 0
	r.Apply(func(RouteCall) { calls++ })
	assert.Zero(t, calls)

	// The entry is still recorded on the node.
	assert.Len(t, r.Routes(), 1)
}

func TestLazyMode_ApplyDepthFirstRegistrationOrder(t *testing.T) {
	r := New()

	r.Get("/first", noopHandler)
	r.Group("/admin", func(admin *RouteNode) {
		admin.Get("/users", noopHandler)
		admin.Group("/nested", func(nested *RouteNode) {
			nested.Get("/deep", noopHandler)
		})
	})
	r.Group("/public", func(public *RouteNode) {
		public.Get("/home", noopHandler)
	})
	r.Get("/last", noopHandler)

	var paths []string
	r.Apply(func(call RouteCall) {
		paths = append(paths, call.Method+" "+call.Path)
	})

	// Own entries first in registration order, then children in
	// creation order, depth-first.
	assert.Equal(t, []string{
		"get /first",
		"get /last",
		"get /admin/users",
		"get /admin/nested/deep",
		"get /public/home",
	}, paths)
}

func TestApply_SecondCallReRegisters(t *testing.T) {
	r := New()
	r.Get("/one", noopHandler)
	r.Get("/two", noopHandler)

	calls := 0
	count := func(RouteCall) { calls++ }

	r.Apply(count)
	assert.Equal(t, 2, calls)

	// No idempotency guard: a second traversal hands every entry to fn
	// again.
	r.Apply(count)
	assert.Equal(t, 4, calls)
}

func TestServe_MountsSubtree(t *testing.T) {
	host := &mockHost{}
	r := New(WithHost(host))

	var order []string
	mw := markerHandler(&order, "mw")
	static := markerHandler(&order, "static")

	r.Group(GroupConfig{Prefix: "/assets", Middleware: []HandlerFunc{mw}}, func(assets *RouteNode) {
		assets.Serve("/img", static)
	})

	require.Len(t, host.mounts, 1)
	assert.Equal(t, "/assets/img", host.mounts[0].pattern)

	entries := r.Routes()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Mount)
	assert.Equal(t, "get", entries[0].Method)
	assert.Empty(t, entries[0].Name)

	runStack(t, entries[0].Handlers)
	assert.Equal(t, []string{"mw", "static"}, order)
}

func TestWithHost_RegistrarWithoutListenStaysLazy(t *testing.T) {
	host := &registrarOnlyHost{}
	r := New(WithHost(host))

	assert.False(t, r.Eager())

	r.Get("/users", noopHandler)
	assert.Empty(t, host.adds)

	calls := 0
	r.Apply(func(RouteCall) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestWithActionMapper_ResolvesOpaqueActions(t *testing.T) {
	var seen RouteContext
	mapper := func(action any, route RouteContext, _ RouteOptions) []HandlerFunc {
		seen = route
		name := action.(string)
		return []HandlerFunc{func(Context) error {
			_ = name
			return nil
		}}
	}

	r := New(WithActionMapper(mapper))
	r.Group(GroupConfig{Prefix: "/admin", Namespace: "admin."}, func(admin *RouteNode) {
		admin.Route(RouteOptions{URI: "/users", Name: "users"}, "controller.users#index")
	})

	assert.Equal(t, "/admin/users", seen.URI)
	assert.Equal(t, "admin.users", seen.Name)

	entries := r.Routes()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Handlers, 1)
}

func TestIdentityMapper_Shapes(t *testing.T) {
	h := HandlerFunc(noopHandler)

	assert.Len(t, IdentityMapper(h, RouteContext{}, RouteOptions{}), 1)
	assert.Len(t, IdentityMapper(noopHandler, RouteContext{}, RouteOptions{}), 1)
	assert.Len(t, IdentityMapper([]HandlerFunc{h, h}, RouteContext{}, RouteOptions{}), 2)
	assert.Nil(t, IdentityMapper(nil, RouteContext{}, RouteOptions{}))
	assert.Nil(t, IdentityMapper(42, RouteContext{}, RouteOptions{}))
}
