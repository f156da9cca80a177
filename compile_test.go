package routemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplate_PlainParam(t *testing.T) {
	compiled := compileTemplate("/users/:id")

	assert.Equal(t, "/users/:id", compiled.URI)
	assert.Empty(t, compiled.Constraints)
}

func TestCompileTemplate_InlineConstraint(t *testing.T) {
	compiled := compileTemplate(`/users/:id(\d+)`)

	assert.Equal(t, "/users/:id", compiled.URI)
	require.Contains(t, compiled.Constraints, "id")

	c := compiled.Constraints["id"]
	assert.Equal(t, `\d+`, c.Expr())
	assert.Equal(t, `^\d+$`, c.String())
	assert.True(t, c.MatchString("42"))
	assert.False(t, c.MatchString("abc"))
	assert.False(t, c.MatchString("42abc"))
}

func TestCompileTemplate_BraceToken(t *testing.T) {
	compiled := compileTemplate("/users/{name}")

	assert.Equal(t, "/users/:name", compiled.URI)
	assert.Empty(t, compiled.Constraints)
}

func TestCompileTemplate_BraceOptional(t *testing.T) {
	compiled := compileTemplate("/files/{path?}")

	assert.Equal(t, "/files/:path?", compiled.URI)
}

func TestCompileTemplate_BraceWithConstraint(t *testing.T) {
	compiled := compileTemplate(`/posts/{slug}([a-z-]+)`)

	assert.Equal(t, "/posts/:slug", compiled.URI)
	require.Contains(t, compiled.Constraints, "slug")
	assert.True(t, compiled.Constraints["slug"].MatchString("hello-world"))
	assert.False(t, compiled.Constraints["slug"].MatchString("Hello"))
}

func TestCompileTemplate_OptionalBeforeConstraint(t *testing.T) {
	compiled := compileTemplate(`/users/:id?(\d+)`)

	assert.Equal(t, "/users/:id?", compiled.URI)
	require.Contains(t, compiled.Constraints, "id")
}

func TestCompileTemplate_OptionalAfterConstraint(t *testing.T) {
	compiled := compileTemplate(`/users/:id(\d+)?`)

	assert.Equal(t, "/users/:id?", compiled.URI)
	require.Contains(t, compiled.Constraints, "id")
}

func TestCompileTemplate_RedundantOptionalMarkers(t *testing.T) {
	// Both marker positions on one token collapse to a single "?".
	compiled := compileTemplate(`/users/:id?(\d+)?`)

	assert.Equal(t, "/users/:id?", compiled.URI)
	require.Contains(t, compiled.Constraints, "id")
}

func TestCompileTemplate_EscapedParens(t *testing.T) {
	compiled := compileTemplate(`/files/:name(a\(b\)c)`)

	assert.Equal(t, "/files/:name", compiled.URI)
	require.Contains(t, compiled.Constraints, "name")
	assert.True(t, compiled.Constraints["name"].MatchString("a(b)c"))
	assert.False(t, compiled.Constraints["name"].MatchString("abc"))
}

func TestCompileTemplate_DoubledBackslashes(t *testing.T) {
	// Authors coming from quoted-string notations write `\\d+`; it
	// collapses to `\d+` before the expression compiles.
	compiled := compileTemplate(`/users/:id(\\d+)`)

	require.Contains(t, compiled.Constraints, "id")
	assert.Equal(t, `\d+`, compiled.Constraints["id"].Expr())
	assert.True(t, compiled.Constraints["id"].MatchString("7"))
}

func TestCompileTemplate_UnterminatedConstraintPassesThrough(t *testing.T) {
	raw := `/users/:id(\d+`
	compiled := compileTemplate(raw)

	assert.Equal(t, raw, compiled.URI)
	assert.Empty(t, compiled.Constraints)
}

func TestCompileTemplate_InvalidExpressionPassesThrough(t *testing.T) {
	raw := `/users/:id([)`
	compiled := compileTemplate(raw)

	assert.Equal(t, raw, compiled.URI)
	assert.Empty(t, compiled.Constraints)
}

func TestCompileTemplate_MultipleTokens(t *testing.T) {
	compiled := compileTemplate(`/:year(\d{4})/{month}/:slug?`)

	assert.Equal(t, "/:year/:month/:slug?", compiled.URI)
	require.Contains(t, compiled.Constraints, "year")
	assert.NotContains(t, compiled.Constraints, "month")
	assert.NotContains(t, compiled.Constraints, "slug")
}

func TestCompileTemplate_SeparatorNormalization(t *testing.T) {
	compiled := compileTemplate("//users///:id")

	assert.Equal(t, "/users/:id", compiled.URI)
}

func TestCompileTemplate_BareColonIsLiteral(t *testing.T) {
	compiled := compileTemplate("/time/12:30")

	assert.Equal(t, "/time/12:30", compiled.URI)
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"empty", nil, "/"},
		{"roots only", []string{"/", "/"}, "/"},
		{"simple", []string{"/admin", "/users"}, "/admin/users"},
		{"missing slashes", []string{"admin", "users"}, "/admin/users"},
		{"duplicate separators", []string{"/admin/", "/users"}, "/admin/users"},
		{"root plus path", []string{"/", "/users"}, "/users"},
		{"trailing slash trimmed", []string{"/users/"}, "/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinPath(tt.parts...))
		})
	}
}

func TestMustConstraint_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustConstraint("[")
	})
}
