package resolver

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rt "github.com/vango-dev/docroutes/pkg/routetable"
)

var (
	docsLayout = rt.Ref("/docs", "1cd")
	docsRoot   = rt.Ref("/docs", "488")
	intro      = rt.Ref("/docs/intro", "59e")
	notFound   = rt.Ref("*", "")
)

func docsTable(t *testing.T) *rt.Table {
	t.Helper()
	return rt.MustNew([]rt.Entry{
		rt.Exact("/blog", rt.Ref("/blog", "811")),
		rt.Exact("/blog/archive", rt.Ref("/blog/archive", "54a")),
		rt.Nested("/docs", docsLayout,
			rt.Nested("/docs", docsRoot,
				rt.Exact("/docs/intro", intro).WithSidebar("tutorialSidebar"),
				rt.Exact("/docs/tutorial/basics", rt.Ref("/docs/tutorial/basics", "55d")).WithSidebar("tutorialSidebar"),
			),
		),
		rt.Exact("/", rt.Ref("/", "004")),
		rt.Wildcard(notFound),
	})
}

func sampleTable(t *testing.T) *rt.Table {
	t.Helper()
	table, err := rt.DecodeFile(filepath.Join("..", "routetable", "testdata", "routes.js"))
	require.NoError(t, err)
	return table
}

func TestResolveExactEntries(t *testing.T) {
	for _, table := range []*rt.Table{docsTable(t), sampleTable(t)} {
		r := New(table)
		for _, leaf := range table.Leaves() {
			if leaf.Entry.Kind() != rt.KindExact {
				continue
			}
			res := r.Resolve(leaf.Entry.Path)
			require.NotEmpty(t, res.Chain, leaf.Entry.Path)
			assert.Equal(t, leaf.Entry.Component, res.Chain[len(res.Chain)-1], leaf.Entry.Path)
			assert.Equal(t, leaf.Chain, res.Chain, leaf.Entry.Path)
			assert.False(t, res.Fallback, leaf.Entry.Path)
		}
	}
}

func TestResolveUnregisteredFallsBack(t *testing.T) {
	r := New(docsTable(t))
	res := r.Resolve("/some/totally/unregistered/path")

	assert.Equal(t, []rt.ComponentRef{notFound}, res.Chain)
	assert.True(t, res.Fallback)
	assert.Equal(t, rt.KindWildcard, res.Leaf.Kind())
	assert.Equal(t, 1, res.Depth())
}

func TestResolveNestedChain(t *testing.T) {
	r := New(docsTable(t))
	res := r.Resolve("/docs/intro")

	assert.Equal(t, []rt.ComponentRef{docsLayout, docsRoot, intro}, res.Chain)
	assert.Equal(t, intro, res.Component())
	assert.Equal(t, "tutorialSidebar", res.Sidebar)
	assert.False(t, res.Fallback)
}

func TestResolveSampleThreeLevelNesting(t *testing.T) {
	r := New(sampleTable(t))
	res := r.Resolve("/bot-box/docs/intro")

	assert.Equal(t, []rt.ComponentRef{
		rt.Ref("/bot-box/docs", "1cd"),
		rt.Ref("/bot-box/docs", "488"),
		rt.Ref("/bot-box/docs", "313"),
		rt.Ref("/bot-box/docs/intro", "59e"),
	}, res.Chain)
	assert.Equal(t, "tutorialSidebar", res.Sidebar)

	root := r.Resolve("/bot-box/")
	assert.Equal(t, []rt.ComponentRef{rt.Ref("/bot-box/", "004")}, root.Chain)
}

func TestResolvePrefixBoundary(t *testing.T) {
	r := New(docsTable(t))

	for _, path := range []string{"/docsadditional", "/docsx/intro", "/doc"} {
		res := r.Resolve(path)
		assert.True(t, res.Fallback, path)
		assert.Equal(t, []rt.ComponentRef{notFound}, res.Chain, path)
	}
}

func TestResolveSubtreeMissContinuesSiblings(t *testing.T) {
	// "/docs" exists as a subtree, but "/docs/unknown" matches none of its
	// leaves and there is no local wildcard, so evaluation returns to the
	// top level and reaches the fallback.
	r := New(docsTable(t))
	res := r.Resolve("/docs/unknown")
	assert.True(t, res.Fallback)

	// The bare subtree path has no exact leaf either.
	assert.True(t, r.Resolve("/docs").Fallback)
}

func TestResolveLaterSiblingAfterSubtreeMiss(t *testing.T) {
	table := rt.MustNew([]rt.Entry{
		rt.Nested("/docs", rt.Ref("docs-layout", "a"),
			rt.Exact("/docs/intro", rt.Ref("intro", "b")),
		),
		rt.Exact("/docs/legacy", rt.Ref("legacy", "c")),
		rt.Wildcard(notFound),
	})

	res := New(table).Resolve("/docs/legacy")
	assert.Equal(t, []rt.ComponentRef{rt.Ref("legacy", "c")}, res.Chain)
}

func TestResolveNestedWildcard(t *testing.T) {
	table := rt.MustNew([]rt.Entry{
		rt.Nested("/docs", docsLayout,
			rt.Exact("/docs/intro", intro),
			rt.Wildcard(rt.Ref("docs-404", "9")),
		),
		rt.Wildcard(notFound),
	})
	r := New(table)

	res := r.Resolve("/docs/missing/page")
	assert.Equal(t, []rt.ComponentRef{docsLayout, rt.Ref("docs-404", "9")}, res.Chain)
	assert.False(t, res.Fallback, "a nested wildcard is not the top-level fallback")

	assert.True(t, r.Resolve("/blog").Fallback)
}

func TestResolveOrderSensitivity(t *testing.T) {
	first := rt.Ref("first", "1")
	second := rt.Ref("second", "2")

	table := rt.MustNew([]rt.Entry{
		rt.Nested("/guides", rt.Ref("outer", "o"),
			rt.Exact("/guides/start", first),
		),
		rt.Nested("/guides", rt.Ref("other", "x"),
			rt.Exact("/guides/start", second),
		),
		rt.Wildcard(notFound),
	})

	res := New(table).Resolve("/guides/start")
	assert.Equal(t, []rt.ComponentRef{rt.Ref("outer", "o"), first}, res.Chain)

	swapped := rt.MustNew([]rt.Entry{
		table.Root()[1],
		table.Root()[0],
		rt.Wildcard(notFound),
	})
	res = New(swapped).Resolve("/guides/start")
	assert.Equal(t, []rt.ComponentRef{rt.Ref("other", "x"), second}, res.Chain)
}

func TestResolveRootNested(t *testing.T) {
	table := rt.MustNew([]rt.Entry{
		rt.Nested("/", rt.Ref("site", "s"),
			rt.Exact("/", rt.Ref("home", "h")),
			rt.Exact("/about", rt.Ref("about", "a")),
		),
		rt.Wildcard(notFound),
	})
	r := New(table)

	assert.Equal(t, []rt.ComponentRef{rt.Ref("site", "s"), rt.Ref("about", "a")}, r.Resolve("/about").Chain)
	assert.Equal(t, []rt.ComponentRef{rt.Ref("site", "s"), rt.Ref("home", "h")}, r.Resolve("/").Chain)
	assert.True(t, r.Resolve("/contact").Fallback)
}

func TestResolveIsIdempotent(t *testing.T) {
	table := sampleTable(t)
	before := table.Fingerprint()
	r := New(table)

	for _, path := range []string{"/bot-box/docs/intro", "/bot-box/blog", "/nope", "/bot-box/"} {
		a := r.Resolve(path)
		b := r.Resolve(path)
		assert.Equal(t, a, b, path)
	}
	assert.Equal(t, before, table.Fingerprint(), "resolution must not modify the table")
}

func TestResolveResultsDoNotAlias(t *testing.T) {
	r := New(docsTable(t))
	a := r.Resolve("/docs/intro")
	a.Chain[0] = rt.Ref("mutated", "")

	b := r.Resolve("/docs/intro")
	assert.Equal(t, docsLayout, b.Chain[0])
}

func TestTrailingSlashFallback(t *testing.T) {
	table := sampleTable(t)

	strict := New(table)
	assert.True(t, strict.Resolve("/bot-box").Fallback)

	lenient := New(table, WithTrailingSlashFallback())
	res := lenient.Resolve("/bot-box")
	assert.False(t, res.Fallback)
	assert.Equal(t, "/bot-box", res.Path)
	assert.Equal(t, "/bot-box/", res.MatchedPath)
	assert.Equal(t, []rt.ComponentRef{rt.Ref("/bot-box/", "004")}, res.Chain)

	res = lenient.Resolve("/bot-box/blog/")
	assert.Equal(t, "/bot-box/blog", res.MatchedPath)

	assert.True(t, lenient.Resolve("/elsewhere").Fallback)
	assert.True(t, lenient.Resolve("/").Fallback)
}

func TestBasePath(t *testing.T) {
	r := New(sampleTable(t), WithBasePath("/bot-box/"))
	assert.False(t, r.Resolve("/bot-box/blog").OutsideBase)
	assert.True(t, r.Resolve("/wp-admin").OutsideBase)

	assert.False(t, New(sampleTable(t)).Resolve("/wp-admin").OutsideBase)
}

func TestConcurrentResolve(t *testing.T) {
	r := New(sampleTable(t))
	want := r.Resolve("/bot-box/docs/tutorial-basics/congratulations")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := r.Resolve("/bot-box/docs/tutorial-basics/congratulations")
				if got.Leaf.Path != want.Leaf.Path || len(got.Chain) != 4 {
					t.Errorf("unexpected result %+v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Func) Func {
			return func(ctx context.Context, path string) Result {
				order = append(order, name+">")
				res := next(ctx, path)
				order = append(order, "<"+name)
				return res
			}
		}
	}

	f := Chain(New(docsTable(t)).Func(), mw("outer"), mw("inner"))
	res := f(context.Background(), "/blog")

	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, order)
	assert.Equal(t, "/blog", res.Leaf.Path)
}
