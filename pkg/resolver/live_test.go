package resolver

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	rt "github.com/vango-dev/docroutes/pkg/routetable"
)

func TestLiveSwap(t *testing.T) {
	live := NewLive(docsTable(t))
	assert.Equal(t, int64(1), live.Generation())
	assert.True(t, live.Resolve("/changelog").Fallback)

	next := rt.MustNew([]rt.Entry{
		rt.Exact("/changelog", rt.Ref("/changelog", "a1")),
		rt.Wildcard(notFound),
	})
	assert.True(t, live.Swap(next))
	assert.Equal(t, int64(2), live.Generation())
	assert.Same(t, next, live.Table())

	res := live.Resolve("/changelog")
	assert.Equal(t, []rt.ComponentRef{rt.Ref("/changelog", "a1")}, res.Chain)
	assert.True(t, live.Resolve("/docs/intro").Fallback)
}

func TestLiveSwapUnchangedFingerprint(t *testing.T) {
	live := NewLive(docsTable(t))
	before := live.Load()

	assert.False(t, live.Swap(docsTable(t)))
	assert.Equal(t, int64(1), live.Generation())
	assert.Same(t, before, live.Load())
}

func TestLiveKeepsOptions(t *testing.T) {
	live := NewLive(docsTable(t), WithTrailingSlashFallback())
	live.Swap(rt.MustNew([]rt.Entry{
		rt.Exact("/guide/", rt.Ref("/guide/", "1")),
		rt.Wildcard(notFound),
	}))

	res := live.Resolve("/guide")
	assert.False(t, res.Fallback)
	assert.Equal(t, "/guide/", res.MatchedPath)
}

func TestLiveFuncReadsCurrentTable(t *testing.T) {
	live := NewLive(docsTable(t))
	f := live.Func()

	assert.True(t, f(context.Background(), "/new").Fallback)
	live.Swap(rt.MustNew([]rt.Entry{
		rt.Exact("/new", rt.Ref("/new", "1")),
		rt.Wildcard(notFound),
	}))
	assert.False(t, f(context.Background(), "/new").Fallback)
}

func TestLiveConcurrentSwapAndResolve(t *testing.T) {
	a := docsTable(t)
	b := rt.MustNew([]rt.Entry{
		rt.Exact("/blog", rt.Ref("/blog", "999")),
		rt.Wildcard(notFound),
	})
	live := NewLive(a)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					live.Swap(a)
				} else {
					live.Swap(b)
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				res := live.Resolve("/blog")
				// Either table is acceptable; a mix of both is not.
				v := res.Component().Version
				if v != "811" && v != "999" {
					t.Errorf("unexpected version %q", v)
					return
				}
				if len(res.Chain) != 1 {
					t.Errorf("unexpected chain %v", res.Chain)
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, live.Generation(), int64(1))
}

func TestLiveSnapshotPairsTableAndGeneration(t *testing.T) {
	a := docsTable(t)
	b := rt.MustNew([]rt.Entry{
		rt.Exact("/blog", rt.Ref("/blog", "999")),
		rt.Wildcard(notFound),
	})
	live := NewLive(a)

	snap := live.Snapshot()
	assert.Equal(t, int64(1), snap.Generation)
	assert.Same(t, a, snap.Table())

	// A swap only succeeds when the table differs, so generations alternate
	// between the two tables: odd is a, even is b.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					live.Swap(a)
				} else {
					live.Swap(b)
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				res := live.Resolve("/blog")
				odd := res.Generation%2 == 1
				if v := res.Component().Version; (v == "811") != odd {
					t.Errorf("generation %d paired with version %q", res.Generation, v)
					return
				}
				s := live.Snapshot()
				if (s.Table() == a) != (s.Generation%2 == 1) {
					t.Errorf("snapshot generation %d paired with the wrong table", s.Generation)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestResolverResultHasNoGeneration(t *testing.T) {
	assert.Zero(t, New(docsTable(t)).Resolve("/blog").Generation)
	assert.Equal(t, int64(1), NewLive(docsTable(t)).Resolve("/blog").Generation)
}
