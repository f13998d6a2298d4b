// Package resolver resolves request paths against a route table.
//
// Resolution walks the table in evaluation order:
//
//   - an exact entry matches on string equality
//   - a nested entry whose path covers the request on a segment boundary
//     is entered, and matches only if one of its children does
//   - a "*" entry matches whatever reaches it
//
// The first match wins. The result is the chain of component references
// from the outermost layout to the leaf, ready to be nested by a renderer:
//
//	r := resolver.New(table)
//	res := r.Resolve("/bot-box/docs/intro")
//	// res.Chain == [docs@1cd, docs@488, docs@313, docs/intro@59e]
//	// res.Sidebar == "tutorialSidebar"
//
// Resolution is pure. A Resolver never writes to its table and needs no
// locking; Live swaps whole tables atomically for hot reload.
package resolver
