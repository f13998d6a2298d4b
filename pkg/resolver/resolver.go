package resolver

import (
	"github.com/vango-dev/docroutes/pkg/routepath"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Result is the outcome of resolving one path.
type Result struct {
	// Path is the requested path.
	Path string

	// MatchedPath is the path that produced the match. It differs from Path
	// only when the trailing-slash fallback was used.
	MatchedPath string

	// Chain lists component references from the outermost layout to the leaf.
	Chain []routetable.ComponentRef

	// Leaf is the matched exact or wildcard entry.
	Leaf routetable.Entry

	// Fallback is true when the top-level wildcard supplied the match.
	Fallback bool

	// Sidebar is the leaf's sidebar key, if any.
	Sidebar string

	// OutsideBase is true when a base path is configured and Path is not under it.
	OutsideBase bool

	// Generation is the Live table generation that produced the result.
	// It is zero for results from a plain Resolver.
	Generation int64
}

// Depth returns the number of components in the chain.
func (r Result) Depth() int {
	return len(r.Chain)
}

// Component returns the leaf's component reference.
func (r Result) Component() routetable.ComponentRef {
	return r.Leaf.Component
}

// Resolver resolves paths against one immutable table.
type Resolver struct {
	table         *routetable.Table
	trailingSlash bool
	basePath      string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTrailingSlashFallback retries a path that only matched the top-level
// wildcard with its trailing slash toggled, so "/site" reaches a page
// registered as "/site/".
func WithTrailingSlashFallback() Option {
	return func(r *Resolver) {
		r.trailingSlash = true
	}
}

// WithBasePath records the site's base path. Resolution is unchanged;
// results for paths outside it are flagged with OutsideBase.
func WithBasePath(base string) Option {
	return func(r *Resolver) {
		r.basePath = base
	}
}

// New creates a Resolver for table. The table must come from
// routetable.New, which guarantees a top-level wildcard.
func New(table *routetable.Table, opts ...Option) *Resolver {
	r := &Resolver{table: table}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the table this resolver reads.
func (r *Resolver) Table() *routetable.Table {
	return r.table
}

// Resolve resolves a normalized request path. It never fails: paths no
// other entry claims resolve to the top-level wildcard.
func (r *Resolver) Resolve(path string) Result {
	res := r.resolve(path)

	if res.Fallback && r.trailingSlash {
		if alt := routepath.ToggleTrailingSlash(path); alt != path {
			if retry := r.resolve(alt); !retry.Fallback {
				res = retry
				res.Path = path
			}
		}
	}

	if r.basePath != "" {
		res.OutsideBase = !routepath.HasSegmentPrefix(path, r.basePath)
	}

	return res
}

func (r *Resolver) resolve(path string) Result {
	chain, leaf, ok := match(r.table.Root(), path, 0)
	if !ok {
		// Only reachable with a table that skipped validation.
		leaf = r.table.Wildcard()
		chain = []routetable.ComponentRef{leaf.Component}
	}

	return Result{
		Path:        path,
		MatchedPath: path,
		Chain:       chain,
		Leaf:        leaf,
		Fallback:    len(chain) == 1 && leaf.Kind() == routetable.KindWildcard,
		Sidebar:     leaf.Sidebar,
	}
}

// match walks one sibling sequence in order. depth is the number of
// enclosing nested entries; the chain is allocated once at the leaf and
// filled in while the recursion unwinds.
func match(entries []routetable.Entry, path string, depth int) ([]routetable.ComponentRef, routetable.Entry, bool) {
	for _, e := range entries {
		switch e.Kind() {
		case routetable.KindExact:
			if path != e.Path {
				continue
			}
			return leafChain(e, depth), e, true

		case routetable.KindWildcard:
			return leafChain(e, depth), e, true

		case routetable.KindNested:
			if !routepath.HasSegmentPrefix(path, e.Path) {
				continue
			}
			// A subtree that matches nothing hands evaluation back to the
			// next sibling at this level.
			if chain, leaf, ok := match(e.Children, path, depth+1); ok {
				chain[depth] = e.Component
				return chain, leaf, true
			}
		}
	}
	return nil, routetable.Entry{}, false
}

func leafChain(e routetable.Entry, depth int) []routetable.ComponentRef {
	chain := make([]routetable.ComponentRef, depth+1)
	chain[depth] = e.Component
	return chain
}
