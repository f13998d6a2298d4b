package resolver

import (
	"context"

	"go.uber.org/atomic"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Live serves resolutions from the current table while reloads replace it.
//
// Each table is immutable; a reload builds a new Resolver and swaps the
// snapshot pointer, so a resolution in flight finishes against the table it
// started with.
type Live struct {
	current *atomic.Pointer[Snapshot]
	opts    []Option
}

// Snapshot pairs a Resolver with the generation it was installed as.
type Snapshot struct {
	Resolver   *Resolver
	Generation int64
}

// Table returns the snapshot's table.
func (s *Snapshot) Table() *routetable.Table {
	return s.Resolver.Table()
}

// NewLive creates a Live resolver serving table. opts apply to every
// table swapped in later.
func NewLive(table *routetable.Table, opts ...Option) *Live {
	return &Live{
		current: atomic.NewPointer(&Snapshot{Resolver: New(table, opts...), Generation: 1}),
		opts:    opts,
	}
}

// Snapshot returns the current resolver and generation together.
func (l *Live) Snapshot() *Snapshot {
	return l.current.Load()
}

// Load returns the current Resolver.
func (l *Live) Load() *Resolver {
	return l.Snapshot().Resolver
}

// Table returns the current table.
func (l *Live) Table() *routetable.Table {
	return l.Snapshot().Table()
}

// Resolve resolves path against the current table. The result carries the
// generation of the table that produced it.
func (l *Live) Resolve(path string) Result {
	snap := l.Snapshot()
	res := snap.Resolver.Resolve(path)
	res.Generation = snap.Generation
	return res
}

// Func adapts Live to the Func signature. Each call reads the table current
// at that moment.
func (l *Live) Func() Func {
	return func(_ context.Context, path string) Result {
		return l.Resolve(path)
	}
}

// Swap installs table. It reports false, leaving the current table in
// place, when the new table has the same fingerprint.
func (l *Live) Swap(table *routetable.Table) bool {
	r := New(table, l.opts...)
	for {
		cur := l.current.Load()
		if cur.Table().Fingerprint() == table.Fingerprint() {
			return false
		}
		next := &Snapshot{Resolver: r, Generation: cur.Generation + 1}
		if l.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Generation counts the tables served so far, starting at 1.
func (l *Live) Generation() int64 {
	return l.Snapshot().Generation
}
