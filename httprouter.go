package routemap

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// HTTPRouterHost adapts julienschmidt/httprouter to the Host contract.
// httprouter's matcher has no inline constraints and no optional
// parameters, so patterns are downgraded on the way in: constraint
// bodies are stripped (validation is lost, matching stays correct for
// conforming requests) and a trailing run of optional parameters is
// expanded into one registration per truncation. Optional parameters in
// the middle of a path become required.
type HTTPRouterHost struct {
	router *httprouter.Router
	server *http.Server
}

func NewHTTPRouterHost(opts ...func(*httprouter.Router) *httprouter.Router) *HTTPRouterHost {
	router := httprouter.New()

	if len(opts) == 0 {
		opts = append(opts, DefaultHTTPRouterOptions)
	}

	for _, opt := range opts {
		router = opt(router)
	}

	return &HTTPRouterHost{router: router}
}

func DefaultHTTPRouterOptions(router *httprouter.Router) *httprouter.Router {
	router.HandleMethodNotAllowed = true
	router.HandleOPTIONS = true
	return router
}

func (h *HTTPRouterHost) Add(method, pattern string, handlers ...HandlerFunc) {
	for _, variant := range downgradePattern(pattern) {
		h.router.Handle(strings.ToUpper(method), variant, wrapStack(handlers))
	}
}

func (h *HTTPRouterHost) Mount(pattern string, handlers ...HandlerFunc) {
	variants := downgradePattern(pattern)
	base := variants[0]
	if base == "/" {
		base = ""
	}
	h.router.Handle(http.MethodGet, base+"/*subpath", wrapStack(handlers))
}

func (h *HTTPRouterHost) Listen(address string) error {
	srv := &http.Server{
		Addr:    address,
		Handler: h.router,
	}
	h.server = srv
	return srv.ListenAndServe()
}

func (h *HTTPRouterHost) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// WrappedRouter exposes the underlying httprouter instance.
func (h *HTTPRouterHost) WrappedRouter() *httprouter.Router {
	return h.router
}

// downgradePattern rewrites a translated pattern into httprouter syntax.
// The first variant is always the full path with every parameter
// required; further variants drop trailing optional parameters one at a
// time, so "/users/:id?" yields "/users/:id" and "/users".
func downgradePattern(pattern string) []string {
	segments := splitPathSegments(pattern)
	if len(segments) == 0 {
		return []string{"/"}
	}

	plain := make([]string, len(segments))
	optional := make([]bool, len(segments))
	for i, segment := range segments {
		name, _, opt, isParam := parseHostSegment(segment)
		if isParam {
			plain[i] = ":" + name
			optional[i] = opt
			continue
		}
		plain[i] = segment
	}

	variants := []string{"/" + strings.Join(plain, "/")}
	for end := len(plain); end > 0 && optional[end-1]; end-- {
		variants = append(variants, joinPath(plain[:end-1]...))
	}
	return variants
}

// parseHostSegment splits a ":name<expr>?" host pattern segment.
func parseHostSegment(segment string) (name, constraint string, optional, ok bool) {
	if !strings.HasPrefix(segment, ":") {
		return "", "", false, false
	}
	raw := strings.TrimPrefix(segment, ":")
	if strings.HasSuffix(raw, "?") {
		raw = strings.TrimSuffix(raw, "?")
		optional = true
	}
	if idx := strings.Index(raw, "<"); idx >= 0 && strings.HasSuffix(raw, ">") {
		constraint = raw[idx+1 : len(raw)-1]
		raw = raw[:idx]
	}
	if raw == "" {
		return "", "", false, false
	}
	return raw, constraint, optional, true
}

func wrapStack(handlers []HandlerFunc) httprouter.Handle {
	stack := append([]HandlerFunc{}, handlers...)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := &httpRouterContext{
			w:        w,
			r:        r,
			params:   ps,
			handlers: stack,
			index:    -1,
		}
		if err := ctx.Next(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type httpRouterContext struct {
	w          http.ResponseWriter
	r          *http.Request
	params     httprouter.Params
	handlers   []HandlerFunc
	index      int
	statusCode int
}

func (c *httpRouterContext) Method() string { return c.r.Method }
func (c *httpRouterContext) Path() string   { return c.r.URL.Path }

func (c *httpRouterContext) Param(name string, defaultValue ...string) string {
	if v := c.params.ByName(name); v != "" {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *httpRouterContext) Query(name string, defaultValue ...string) string {
	if v := c.r.URL.Query().Get(name); v != "" {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *httpRouterContext) Status(code int) Context {
	c.statusCode = code
	return c
}

func (c *httpRouterContext) Send(body []byte) error {
	if c.statusCode > 0 {
		c.w.WriteHeader(c.statusCode)
	}
	_, err := c.w.Write(body)
	return err
}

func (c *httpRouterContext) SendString(body string) error {
	return c.Send([]byte(body))
}

func (c *httpRouterContext) JSON(code int, v any) error {
	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(code)
	return json.NewEncoder(c.w).Encode(v)
}

func (c *httpRouterContext) Next() error {
	c.index++
	if c.index < len(c.handlers) {
		return c.handlers[c.index](c)
	}
	return nil
}
