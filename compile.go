package routemap

import (
	"regexp"
	"strings"
)

// Constraint is an inline parameter constraint. The regexp is anchored
// before use; the raw body is kept so the translator can re-embed it in
// the host matcher's syntax without double anchoring.
type Constraint struct {
	expr string
	re   *regexp.Regexp
}

func newConstraint(expr string) (*Constraint, error) {
	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, err
	}
	return &Constraint{expr: expr, re: re}, nil
}

// MustConstraint compiles an anchored constraint and panics on an invalid
// expression. Intended for pattern maps built at setup time.
func MustConstraint(expr string) *Constraint {
	c, err := newConstraint(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// Expr returns the constraint body as authored, without anchors.
func (c *Constraint) Expr() string {
	return c.expr
}

// MatchString reports whether value satisfies the anchored constraint.
func (c *Constraint) MatchString(value string) bool {
	return c.re.MatchString(value)
}

func (c *Constraint) String() string {
	return c.re.String()
}

// CompiledTemplate is the canonical form of a route template: colon
// notation with inline constraint bodies lifted out into the map.
// Parameters without constraints are simply absent from the map.
type CompiledTemplate struct {
	URI         string
	Constraints map[string]*Constraint
}

// compileTemplate parses a raw template containing parameter tokens in
// colon (":id", ":id?") or brace ("{id}", "{id?}") notation, each
// optionally followed by a parenthesized inline constraint such as
// ":id(\d+)". Constraint bodies are removed from the template and
// compiled anchored; brace tokens are rewritten to colon notation and
// duplicate separators collapsed.
//
// Escapes inside a constraint body are honored while scanning, so "\)"
// does not terminate the body and literal parentheses can be expressed.
// Doubled backslashes collapse to one before the regexp is compiled.
// A malformed token (unterminated or invalid constraint) is passed
// through untouched rather than raised.
func compileTemplate(raw string) CompiledTemplate {
	var out strings.Builder
	constraints := map[string]*Constraint{}

	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch != ':' && ch != '{' {
			out.WriteByte(ch)
			i++
			continue
		}

		name, optional, next, ok := scanParamToken(raw, i)
		if !ok {
			out.WriteByte(ch)
			i++
			continue
		}

		tokenStart := i
		i = next

		if i < len(raw) && raw[i] == '(' {
			body, end, terminated := scanConstraintBody(raw, i)
			if !terminated {
				// Unterminated constraint: the rest of the template
				// cannot be interpreted, leave it untouched.
				out.WriteString(raw[tokenStart:])
				i = len(raw)
				break
			}
			c, err := newConstraint(unescapeConstraint(body))
			if err != nil {
				// Invalid expression, pass the whole token through raw.
				out.WriteString(raw[tokenStart:end])
				i = end
				continue
			}
			constraints[name] = c
			i = end
			// A trailing "?" after the constraint also marks the
			// parameter optional, e.g. ":id(\d+)?". Consumed even when
			// the token already carried one, so ":id?(\d+)?" does not
			// leak a literal "?" into the template.
			if i < len(raw) && raw[i] == '?' {
				optional = true
				i++
			}
		}

		out.WriteByte(':')
		out.WriteString(name)
		if optional {
			out.WriteByte('?')
		}
	}

	return CompiledTemplate{
		URI:         normalizeSeparators(out.String()),
		Constraints: constraints,
	}
}

// scanParamToken reads a parameter token starting at raw[start] (either
// ':' or '{'). It returns the bare name, the optional marker, and the
// index just past the token. ok is false when no well-formed token
// starts there.
func scanParamToken(raw string, start int) (name string, optional bool, next int, ok bool) {
	i := start + 1
	j := i
	for j < len(raw) && isIdentChar(raw[j]) {
		j++
	}
	if j == i {
		return "", false, 0, false
	}
	name = raw[i:j]

	if raw[start] == ':' {
		if j < len(raw) && raw[j] == '?' {
			return name, true, j + 1, true
		}
		return name, false, j, true
	}

	// Brace form: the optional marker sits inside the braces.
	if j < len(raw) && raw[j] == '?' {
		optional = true
		j++
	}
	if j < len(raw) && raw[j] == '}' {
		return name, optional, j + 1, true
	}
	return "", false, 0, false
}

// scanConstraintBody reads a parenthesized constraint starting at the
// "(" at raw[start]. Backslash escapes are honored, so "\)" does not
// close the body. Only single-level parenthesization is parsed: the
// first unescaped ")" terminates the body, so unescaped nested
// parentheses will mis-parse.
func scanConstraintBody(raw string, start int) (body string, end int, terminated bool) {
	i := start + 1
	for i < len(raw) {
		switch raw[i] {
		case '\\':
			i += 2
		case ')':
			return raw[start+1 : i], i + 1, true
		default:
			i++
		}
	}
	return "", len(raw), false
}

// unescapeConstraint collapses doubled backslashes authored to survive
// string quoting, e.g. `\\d` becomes `\d`.
func unescapeConstraint(body string) string {
	if !strings.Contains(body, `\\`) {
		return body
	}
	return strings.ReplaceAll(body, `\\`, `\`)
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

var duplicateSeparators = regexp.MustCompile(`/{2,}`)

// normalizeSeparators collapses duplicate path separators into one.
func normalizeSeparators(uri string) string {
	return duplicateSeparators.ReplaceAllString(uri, "/")
}

// joinPath joins template fragments into a single path with exactly one
// separator between fragments, a leading separator, and no trailing
// separator except for the root path.
func joinPath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" || part == "/" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(part)
	}
	joined := normalizeSeparators(b.String())
	if joined == "" {
		return "/"
	}
	return strings.TrimSuffix(joined, "/")
}

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// parseColonSegment splits a canonical ":name?" segment into its parts.
// ok is false for static segments and for mixed segments where the token
// does not span the whole segment (":name.txt"); those go through the
// token scanner instead.
func parseColonSegment(segment string) (name string, optional bool, ok bool) {
	if !strings.HasPrefix(segment, ":") {
		return "", false, false
	}
	name = strings.TrimPrefix(segment, ":")
	if strings.HasSuffix(name, "?") {
		name = strings.TrimSuffix(name, "?")
		optional = true
	}
	if name == "" {
		return "", false, false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return "", false, false
		}
	}
	return name, optional, true
}
