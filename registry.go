package routemap

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// NamedRoute is one record of the tree-wide registry: the normalized
// template a name points at, with its constraints.
type NamedRoute struct {
	Name        string
	URI         string
	Constraints map[string]*Constraint
}

// nameRegistry is the single name -> template store shared by every
// node of a tree. Later registrations under the same name silently
// overwrite earlier ones; last one wins.
type nameRegistry struct {
	records map[string]NamedRoute
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{records: map[string]NamedRoute{}}
}

func (nr *nameRegistry) set(name, uri string, constraints map[string]*Constraint) {
	nr.records[name] = NamedRoute{Name: name, URI: uri, Constraints: constraints}
}

func (nr *nameRegistry) get(name string) (NamedRoute, bool) {
	rec, ok := nr.records[name]
	return rec, ok
}

// URL builds a concrete URL for a named route, substituting params into
// the stored template. Required placeholders must be present; optional
// ones are elided together with their separator when absent. Constrained
// values are validated before substitution. Params not consumed by a
// placeholder are appended as a query string through the configured
// QueryEncoder.
func (r *Router) URL(name string, params map[string]any, opts ...URLOption) (string, error) {
	rec, ok := r.names.get(name)
	if !ok {
		return "", NewRouteNotFoundError(name)
	}

	options := urlOptions{encoder: r.encoder}
	for _, opt := range opts {
		opt(&options)
	}

	consumed := map[string]bool{}
	var b strings.Builder

	for _, segment := range splitPathSegments(rec.URI) {
		pname, optional, isParam := parseColonSegment(segment)
		if !isParam {
			if strings.Contains(segment, ":") {
				rendered, err := substituteSegmentTokens(name, segment, rec.Constraints, params, consumed)
				if err != nil {
					return "", err
				}
				b.WriteByte('/')
				b.WriteString(rendered)
				continue
			}
			b.WriteByte('/')
			b.WriteString(segment)
			continue
		}

		value, present := params[pname]
		if !present {
			if optional {
				continue
			}
			return "", NewMissingParamError(name, pname)
		}
		consumed[pname] = true

		s := fmt.Sprint(value)
		if c, constrained := rec.Constraints[pname]; constrained && !c.MatchString(s) {
			return "", NewConstraintError(name, pname, c.Expr(), s)
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	built := b.String()
	if built == "" {
		built = "/"
	}

	leftover := map[string]any{}
	for key, value := range params {
		if !consumed[key] {
			leftover[key] = value
		}
	}
	if len(leftover) > 0 {
		if qs := options.encoder.Encode(leftover); qs != "" {
			built = built + "?" + qs
		}
	}

	return built, nil
}

// substituteSegmentTokens renders a segment whose parameter tokens do
// not span the whole segment, e.g. ":name.txt". Literal runs pass
// through untouched; a missing optional token renders as nothing, its
// surrounding literal text stays.
func substituteSegmentTokens(route, segment string, constraints map[string]*Constraint, params map[string]any, consumed map[string]bool) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(segment) {
		if segment[i] != ':' {
			b.WriteByte(segment[i])
			i++
			continue
		}
		pname, optional, next, ok := scanParamToken(segment, i)
		if !ok {
			b.WriteByte(segment[i])
			i++
			continue
		}
		i = next

		value, present := params[pname]
		if !present {
			if optional {
				continue
			}
			return "", NewMissingParamError(route, pname)
		}
		consumed[pname] = true

		s := fmt.Sprint(value)
		if c, constrained := constraints[pname]; constrained && !c.MatchString(s) {
			return "", NewConstraintError(route, pname, c.Expr(), s)
		}
		b.WriteString(url.PathEscape(s))
	}
	return b.String(), nil
}

// MustURL is URL that panics on failure. For route tables wired at boot.
func (r *Router) MustURL(name string, params map[string]any, opts ...URLOption) string {
	u, err := r.URL(name, params, opts...)
	if err != nil {
		panic(err)
	}
	return u
}

// NamedRoutes returns the registered named routes whose name matches the
// given glob pattern ("admin.*", "*.show"), sorted by name. Dots
// separate name segments. An empty pattern returns every record.
func (r *Router) NamedRoutes(pattern string) ([]NamedRoute, error) {
	var matcher glob.Glob
	if pattern != "" {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, err
		}
		matcher = g
	}

	out := make([]NamedRoute, 0, len(r.names.records))
	for name, rec := range r.names.records {
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
