// Package routetable models the route table a documentation-site build
// emits: an ordered tree of path patterns bound to opaque component
// references, with a universal "*" fallback.
//
// A Table is validated once at construction and never mutated afterwards,
// so it can be shared by any number of concurrent resolvers.
//
// # Entry Kinds
//
//	{path: "/blog", exact: true}               → KindExact, matched on equality
//	{path: "/docs", routes: [...]}             → KindNested, prefix then children
//	{path: "*"}                                → KindWildcard, fallback
//
// # Manifests
//
// Tables are read from JSON, YAML, TOML or the generated routes.js module:
//
//	table, err := routetable.DecodeFile("build/routes.js")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table.Walk(func(e routetable.Entry, depth int, _ []routetable.Entry) bool {
//	    fmt.Println(strings.Repeat("  ", depth), e.Path, e.Component)
//	    return true
//	})
package routetable
