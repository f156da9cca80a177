package routemap

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to URL builder failures so callers can branch
// without string matching.
const (
	TextCodeRouteNotFound       = "ROUTE_NOT_FOUND"
	TextCodeMissingParam        = "MISSING_PARAM"
	TextCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	TextCodeRouteConflict       = "ROUTE_CONFLICT"
)

// NewRouteNotFoundError reports a URL build against a name no route
// registered.
func NewRouteNotFoundError(name string) error {
	return goerrors.New(fmt.Sprintf("url: no route registered under %q", name), goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeRouteNotFound).
		WithMetadata(map[string]any{
			"route": name,
		})
}

// NewMissingParamError reports a URL build that omitted a value for a
// required placeholder.
func NewMissingParamError(route, param string) error {
	return goerrors.New(fmt.Sprintf("url: route %q requires parameter %q", route, param), goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeMissingParam).
		WithMetadata(map[string]any{
			"route": route,
			"param": param,
		})
}

// NewConstraintError reports a parameter value that failed its
// registered constraint during a URL build.
func NewConstraintError(route, param, constraint, value string) error {
	message := fmt.Sprintf("url: route %q parameter %q value %q does not satisfy constraint %q",
		route, param, value, constraint)
	return goerrors.New(message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeConstraintViolation).
		WithMetadata(map[string]any{
			"route":      route,
			"param":      param,
			"constraint": constraint,
			"value":      value,
		})
}
