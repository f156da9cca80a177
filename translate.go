package routemap

import "strings"

// hostPattern renders a normalized template plus its constraint map in
// the host matcher's syntax: ":name" for plain parameters, ":name?" for
// optional ones, and ":name<expr>" when a constraint applies, with the
// optional marker kept after the constraint ("/:id<\d+>?"). Tokens may
// sit mid-segment ("/files/:name.txt"); literal text around a token
// passes through untouched.
//
// Pure function of its inputs; the Router memoizes it per distinct
// (uri, constraints) pair.
func hostPattern(uri string, constraints map[string]*Constraint) string {
	if !strings.Contains(uri, ":") {
		return uri
	}

	var b strings.Builder
	i := 0
	for i < len(uri) {
		if uri[i] != ':' {
			b.WriteByte(uri[i])
			i++
			continue
		}
		name, optional, next, ok := scanParamToken(uri, i)
		if !ok {
			b.WriteByte(uri[i])
			i++
			continue
		}
		i = next

		b.WriteByte(':')
		b.WriteString(name)
		if c, found := constraints[name]; found {
			b.WriteByte('<')
			b.WriteString(c.Expr())
			b.WriteByte('>')
		}
		if optional {
			b.WriteByte('?')
		}
	}
	return b.String()
}
