package routemap

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type routeConflict struct {
	existing        *RouteEntry
	reason          string
	index           int
	existingSegment string
	newSegment      string
}

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

func classifySegment(segment string) segmentKind {
	if strings.HasPrefix(segment, "*") {
		return segmentCatchAll
	}
	if strings.HasPrefix(segment, ":") {
		return segmentParam
	}
	return segmentStatic
}

// ValidateRoutes checks the whole tree for conflicting or ambiguous
// registrations: exact duplicates, parameter segments shadowing static
// siblings, and catch-all overlap. Returns one error per conflict.
func (r *Router) ValidateRoutes() []error {
	entries := r.Routes()

	var errs []error
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			left := entries[i]
			right := entries[j]
			if left.Method != right.Method {
				continue
			}

			if left.Path == right.Path {
				conflict := &routeConflict{
					existing: left,
					reason:   "duplicate route",
					index:    -1,
				}
				errs = append(errs, newRouteConflictError(right.Method, right.Path, conflict))
				continue
			}

			if conflict := detectPathConflict(left.Path, right.Path); conflict != nil {
				conflict.existing = left
				errs = append(errs, newRouteConflictError(right.Method, right.Path, conflict))
			}
		}
	}

	return errs
}

func detectPathConflict(existingPath, newPath string) *routeConflict {
	existingParts := splitPathSegments(existingPath)
	newParts := splitPathSegments(newPath)

	minLen := len(existingParts)
	if len(newParts) < minLen {
		minLen = len(newParts)
	}

	for i := 0; i < minLen; i++ {
		existingSegment := existingParts[i]
		newSegment := newParts[i]
		existingKind := classifySegment(existingSegment)
		newKind := classifySegment(newSegment)

		if existingKind == segmentStatic && newKind == segmentStatic {
			if existingSegment != newSegment {
				return nil
			}
			continue
		}

		if existingKind == segmentCatchAll || newKind == segmentCatchAll {
			return &routeConflict{
				reason:          "catch-all segment conflicts with existing route",
				index:           i,
				existingSegment: existingSegment,
				newSegment:      newSegment,
			}
		}

		if existingKind == segmentParam && newKind == segmentParam {
			if i == len(existingParts)-1 && i == len(newParts)-1 {
				return &routeConflict{
					reason:          "wildcard segment conflicts with existing route",
					index:           i,
					existingSegment: existingSegment,
					newSegment:      newSegment,
				}
			}
			continue
		}

		if existingKind == segmentParam || newKind == segmentParam {
			return &routeConflict{
				reason:          "static segment conflicts with wildcard segment",
				index:           i,
				existingSegment: existingSegment,
				newSegment:      newSegment,
			}
		}
	}

	return nil
}

func newRouteConflictError(method, path string, conflict *routeConflict) error {
	message := fmt.Sprintf("route conflict: %s %s conflicts with %s", method, path, conflict.existing.Path)
	if conflict.reason != "" {
		message = fmt.Sprintf("%s (%s)", message, conflict.reason)
	}

	metadata := map[string]any{
		"method":        method,
		"path":          path,
		"existing_path": conflict.existing.Path,
		"reason":        conflict.reason,
	}

	if conflict.index >= 0 {
		metadata["segment_index"] = conflict.index
		metadata["segment"] = conflict.newSegment
		metadata["existing_segment"] = conflict.existingSegment
	}

	return goerrors.New(message, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(TextCodeRouteConflict).
		WithMetadata(metadata)
}
