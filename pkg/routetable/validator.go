package routetable

import (
	"fmt"
	"strings"

	"github.com/vango-dev/docroutes/pkg/routepath"
)

// Validator checks a route tree for structural problems.
// It collects every problem instead of stopping at the first one.
type Validator struct {
	entries []Entry
	errors  []ValidationError
}

// ValidationError describes one problem in a route table.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Path is the path of the offending entry
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorMissingWildcard indicates the top level has no "*" entry.
	ErrorMissingWildcard ValidationErrorType = "MISSING_WILDCARD"

	// ErrorDuplicateWildcard indicates a sibling sequence with more than one "*".
	ErrorDuplicateWildcard ValidationErrorType = "DUPLICATE_WILDCARD"

	// ErrorUnreachableRoute indicates an entry listed after its level's wildcard.
	ErrorUnreachableRoute ValidationErrorType = "UNREACHABLE_ROUTE"

	// ErrorWildcardChildren indicates a "*" entry with children.
	ErrorWildcardChildren ValidationErrorType = "WILDCARD_CHILDREN"

	// ErrorExactChildren indicates an exact entry with children.
	ErrorExactChildren ValidationErrorType = "EXACT_CHILDREN"

	// ErrorEmptyNested indicates a non-exact entry with nothing to descend into.
	ErrorEmptyNested ValidationErrorType = "EMPTY_NESTED"

	// ErrorInvalidPath indicates a path that can never equal a normalized request path.
	ErrorInvalidPath ValidationErrorType = "INVALID_PATH"

	// ErrorChildOutsideParent indicates a child path not nested under its parent's path.
	// Example: /blog/intro listed under /docs
	ErrorChildOutsideParent ValidationErrorType = "CHILD_OUTSIDE_PARENT"

	// ErrorDuplicateRoute indicates two exact siblings with the same path.
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorEmptyComponent indicates a routable entry with no component handle.
	ErrorEmptyComponent ValidationErrorType = "EMPTY_COMPONENT"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Has reports whether any collected error is of type typ.
func (e *MultiValidationError) Has(typ ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == typ {
			return true
		}
	}
	return false
}

// NewValidator creates a validator for a top-level entry sequence.
func NewValidator(entries []Entry) *Validator {
	return &Validator{entries: entries}
}

// Validate checks the whole tree.
// Returns nil if the table is valid, or a *MultiValidationError with all problems.
func (v *Validator) Validate() error {
	v.errors = nil

	if !hasWildcard(v.entries) {
		v.add(ValidationError{
			Type:    ErrorMissingWildcard,
			Message: "route table has no top-level * entry",
			Path:    WildcardPath,
		})
	}
	v.validateLevel(v.entries, nil)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

func (v *Validator) add(err ValidationError) {
	v.errors = append(v.errors, err)
}

// validateLevel checks one sibling sequence and recurses into children.
// parent is nil at the top level.
func (v *Validator) validateLevel(entries []Entry, parent *Entry) {
	seenExact := make(map[string]bool)
	wildcardSeen := false

	for i := range entries {
		e := &entries[i]

		if wildcardSeen {
			if e.Kind() == KindWildcard {
				v.add(ValidationError{
					Type:    ErrorDuplicateWildcard,
					Message: "more than one * entry at the same level",
					Path:    WildcardPath,
					Details: levelName(parent),
				})
			} else {
				v.add(ValidationError{
					Type:    ErrorUnreachableRoute,
					Message: fmt.Sprintf("route %s is listed after the * entry and can never match", e.Path),
					Path:    e.Path,
					Details: levelName(parent),
				})
			}
		}

		switch e.Kind() {
		case KindWildcard:
			wildcardSeen = true
			if len(e.Children) > 0 {
				v.add(ValidationError{
					Type:    ErrorWildcardChildren,
					Message: "the * entry cannot have children",
					Path:    WildcardPath,
				})
			}
			continue

		case KindExact:
			if len(e.Children) > 0 {
				v.add(ValidationError{
					Type:    ErrorExactChildren,
					Message: fmt.Sprintf("exact route %s cannot have children", e.Path),
					Path:    e.Path,
				})
			}
			if seenExact[e.Path] {
				v.add(ValidationError{
					Type:    ErrorDuplicateRoute,
					Message: fmt.Sprintf("duplicate exact route %s", e.Path),
					Path:    e.Path,
					Details: levelName(parent),
				})
			}
			seenExact[e.Path] = true

		case KindNested:
			if len(e.Children) == 0 {
				v.add(ValidationError{
					Type:    ErrorEmptyNested,
					Message: fmt.Sprintf("route %s is neither exact nor has children", e.Path),
					Path:    e.Path,
				})
			}
		}

		if err := checkPath(e.Path); err != "" {
			v.add(ValidationError{
				Type:    ErrorInvalidPath,
				Message: fmt.Sprintf("invalid route path %q", e.Path),
				Path:    e.Path,
				Details: err,
			})
		}

		if parent != nil && !routepath.HasSegmentPrefix(e.Path, parent.Path) {
			v.add(ValidationError{
				Type:    ErrorChildOutsideParent,
				Message: fmt.Sprintf("route %s is not under its parent %s", e.Path, parent.Path),
				Path:    e.Path,
			})
		}

		if e.Component.IsZero() {
			v.add(ValidationError{
				Type:    ErrorEmptyComponent,
				Message: fmt.Sprintf("route %s has no component", e.Path),
				Path:    e.Path,
			})
		}

		if len(e.Children) > 0 {
			v.validateLevel(e.Children, e)
		}
	}
}

// checkPath returns a reason when path can never be a normalized request path.
func checkPath(path string) string {
	switch {
	case path == "":
		return "path is empty"
	case !strings.HasPrefix(path, "/"):
		return "path must start with /"
	case strings.ContainsAny(path, "?#"):
		return "path cannot contain a query or fragment"
	case strings.ContainsAny(path, "\\\x00"):
		return "path cannot contain a backslash or NUL byte"
	}
	return ""
}

func hasWildcard(entries []Entry) bool {
	for _, e := range entries {
		if e.Kind() == KindWildcard {
			return true
		}
	}
	return false
}

func levelName(parent *Entry) string {
	if parent == nil {
		return "top level"
	}
	return "under " + parent.Path
}
