package routetable

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/docroutes/internal/errors"
)

func docsTable() []Entry {
	return []Entry{
		Exact("/blog", Ref("/blog", "811")),
		Nested("/docs", Ref("/docs", "1cd"),
			Nested("/docs", Ref("/docs", "488"),
				Exact("/docs/intro", Ref("/docs/intro", "59e")).WithSidebar("tutorialSidebar"),
			),
		),
		Exact("/", Ref("/", "004")),
		Wildcard(Ref("*", "")),
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindExact, Exact("/a", Ref("a", "")).Kind())
	assert.Equal(t, KindNested, Nested("/a", Ref("a", "")).Kind())
	assert.Equal(t, KindWildcard, Wildcard(Ref("*", "")).Kind())

	assert.Equal(t, "exact", KindExact.String())
	assert.Equal(t, "nested", KindNested.String())
	assert.Equal(t, "wildcard", KindWildcard.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestComponentRef(t *testing.T) {
	tests := []struct {
		in   string
		want ComponentRef
	}{
		{"/docs@1cd", Ref("/docs", "1cd")},
		{"*", Ref("*", "")},
		{"@scope/pkg@abc", Ref("@scope/pkg", "abc")},
		{"@scope", Ref("@scope", "")},
	}
	for _, tt := range tests {
		got := ParseComponentRef(tt.in)
		assert.Equal(t, tt.want, got, "ParseComponentRef(%q)", tt.in)
		assert.Equal(t, tt.in, got.String())
	}
	assert.True(t, ComponentRef{}.IsZero())
}

func TestNewCopiesInput(t *testing.T) {
	entries := docsTable()
	table, err := New(entries)
	require.NoError(t, err)

	entries[0].Path = "/mutated"
	entries[1].Children[0].Component.Handle = "mutated"
	assert.Equal(t, "/blog", table.Root()[0].Path)
	assert.Equal(t, "/docs", table.Root()[1].Children[0].Component.Handle)

	out := table.Entries()
	out[1].Children[0].Path = "/changed"
	assert.Equal(t, "/docs", table.Root()[1].Children[0].Path, "Entries must return a deep copy")
}

func TestTableLenAndWildcard(t *testing.T) {
	table := MustNew(docsTable())
	assert.Equal(t, 6, table.Len())
	assert.Equal(t, Ref("*", ""), table.Wildcard().Component)
}

func TestWalkOrderAndAncestors(t *testing.T) {
	table := MustNew(docsTable())

	type visit struct {
		path      string
		depth     int
		ancestors int
	}
	var got []visit
	table.Walk(func(e Entry, depth int, ancestors []Entry) bool {
		got = append(got, visit{e.Path, depth, len(ancestors)})
		return true
	})

	want := []visit{
		{"/blog", 0, 0},
		{"/docs", 0, 0},
		{"/docs", 1, 1},
		{"/docs/intro", 2, 2},
		{"/", 0, 0},
		{"*", 0, 0},
	}
	assert.Equal(t, want, got)
}

func TestWalkStops(t *testing.T) {
	table := MustNew(docsTable())
	count := 0
	table.Walk(func(e Entry, _ int, _ []Entry) bool {
		count++
		return e.Path != "/docs/intro"
	})
	assert.Equal(t, 4, count)
}

func TestLeaves(t *testing.T) {
	table := MustNew(docsTable())
	leaves := table.Leaves()
	require.Len(t, leaves, 4)

	intro := leaves[1]
	assert.Equal(t, "/docs/intro", intro.Entry.Path)
	assert.Equal(t, "tutorialSidebar", intro.Entry.Sidebar)
	assert.Equal(t, []ComponentRef{
		Ref("/docs", "1cd"),
		Ref("/docs", "488"),
		Ref("/docs/intro", "59e"),
	}, intro.Chain)

	assert.Equal(t, []ComponentRef{Ref("*", "")}, leaves[3].Chain)
}

func TestFingerprint(t *testing.T) {
	a := MustNew(docsTable())
	b := MustNew(docsTable())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	changed := docsTable()
	changed[0].Component.Version = "812"
	c := MustNew(changed)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew([]Entry{Exact("/a", Ref("a", ""))})
	})
}

func TestNewReportsCodedError(t *testing.T) {
	_, err := New([]Entry{Exact("/a", Ref("a", ""))})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "E100"))

	var mve *MultiValidationError
	require.True(t, stderrors.As(err, &mve))
	assert.True(t, mve.Has(ErrorMissingWildcard))
}
