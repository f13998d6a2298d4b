package routetable

import "strings"

// WildcardPath is the path of the universal fallback entry.
const WildcardPath = "*"

// Kind is the structural variant of an Entry.
type Kind uint8

const (
	// KindExact matches only when the requested path equals Entry.Path.
	KindExact Kind = iota

	// KindNested matches a path under Entry.Path when one of its children does.
	KindNested

	// KindWildcard matches any path that reaches it.
	KindWildcard
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindNested:
		return "nested"
	case KindWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// ComponentRef is an opaque handle to a renderable unit.
//
// Handle identifies the unit; Version is the short content hash the build
// attached for cache-busting. Neither is interpreted during resolution.
type ComponentRef struct {
	Handle  string `json:"handle"`
	Version string `json:"version,omitempty"`
}

// String renders the ref as "handle@version", or just the handle when the
// version is empty.
func (c ComponentRef) String() string {
	if c.Version == "" {
		return c.Handle
	}
	return c.Handle + "@" + c.Version
}

// IsZero reports whether the ref has no handle.
func (c ComponentRef) IsZero() bool {
	return c.Handle == ""
}

// ParseComponentRef parses the form produced by ComponentRef.String.
// The last "@" separates the version, so handles may themselves contain "@".
func ParseComponentRef(s string) ComponentRef {
	if i := strings.LastIndexByte(s, '@'); i > 0 {
		return ComponentRef{Handle: s[:i], Version: s[i+1:]}
	}
	return ComponentRef{Handle: s}
}

// Entry is one route in the table.
type Entry struct {
	// Path is a literal path ("/docs/intro"), the root ("/") or "*".
	Path string

	// Component is the unit rendered for this entry.
	Component ComponentRef

	// Exact restricts matching to full string equality.
	Exact bool

	// Children are evaluated in order once Path covers the requested path.
	// Only non-exact entries have children.
	Children []Entry

	// Sidebar names an external navigation data set for leaf pages.
	Sidebar string
}

// Kind returns the structural variant of the entry.
func (e Entry) Kind() Kind {
	switch {
	case e.Path == WildcardPath:
		return KindWildcard
	case e.Exact:
		return KindExact
	default:
		return KindNested
	}
}

// IsLeaf reports whether the entry terminates a resolution chain.
func (e Entry) IsLeaf() bool {
	return e.Kind() != KindNested
}

// clone returns a deep copy of the entry.
func (e Entry) clone() Entry {
	out := e
	if e.Children != nil {
		out.Children = cloneEntries(e.Children)
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// Exact builds an exact leaf entry.
func Exact(path string, ref ComponentRef) Entry {
	return Entry{Path: path, Component: ref, Exact: true}
}

// Nested builds a nested entry with the given children.
func Nested(path string, ref ComponentRef, children ...Entry) Entry {
	return Entry{Path: path, Component: ref, Children: children}
}

// Wildcard builds the fallback entry.
func Wildcard(ref ComponentRef) Entry {
	return Entry{Path: WildcardPath, Component: ref}
}

// Ref is shorthand for ComponentRef{Handle: handle, Version: version}.
func Ref(handle, version string) ComponentRef {
	return ComponentRef{Handle: handle, Version: version}
}

// WithSidebar returns a copy of the entry bound to the named sidebar.
func (e Entry) WithSidebar(sidebar string) Entry {
	e.Sidebar = sidebar
	return e
}
