package routetable

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/docroutes/internal/errors"
)

// Table is a validated, immutable route table.
type Table struct {
	entries     []Entry
	size        int
	fingerprint string
}

// New validates entries and builds a Table from a deep copy of them.
// Every validation problem is reported at once, wrapped in an E100 error
// whose cause is a *MultiValidationError.
func New(entries []Entry) (*Table, error) {
	entries = cloneEntries(entries)

	if err := NewValidator(entries).Validate(); err != nil {
		return nil, errors.New("E100").
			WithSuggestion("Fix the listed entries in the build output and reload").
			Wrap(err)
	}

	t := &Table{entries: entries}
	t.Walk(func(Entry, int, []Entry) bool {
		t.size++
		return true
	})

	sum, err := fingerprint(entries)
	if err != nil {
		return nil, fmt.Errorf("fingerprint route table: %w", err)
	}
	t.fingerprint = sum

	return t, nil
}

// MustNew is like New but panics on error. It is meant for static tables.
func MustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a deep copy of the top-level entries.
func (t *Table) Entries() []Entry {
	return cloneEntries(t.entries)
}

// Root returns the top-level entries without copying. Callers must not
// modify the returned slice or anything reachable from it.
func (t *Table) Root() []Entry {
	return t.entries
}

// Len returns the number of entries in the whole tree.
func (t *Table) Len() int {
	return t.size
}

// Fingerprint returns a stable hex digest of the table content.
// Two tables with the same entries in the same order share a fingerprint.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

// Wildcard returns the top-level fallback entry.
func (t *Table) Wildcard() Entry {
	for _, e := range t.entries {
		if e.Kind() == KindWildcard {
			return e
		}
	}
	// Unreachable for a validated table.
	return Entry{}
}

// WalkFunc is called for every entry in evaluation order. ancestors lists
// the enclosing nested entries, outermost first. Returning false stops the walk.
type WalkFunc func(e Entry, depth int, ancestors []Entry) bool

// Walk visits every entry depth-first in evaluation order.
func (t *Table) Walk(fn WalkFunc) {
	walk(t.entries, 0, nil, fn)
}

func walk(entries []Entry, depth int, ancestors []Entry, fn WalkFunc) bool {
	for _, e := range entries {
		if !fn(e, depth, ancestors) {
			return false
		}
		if len(e.Children) > 0 {
			next := append(ancestors[:len(ancestors):len(ancestors)], e)
			if !walk(e.Children, depth+1, next, fn) {
				return false
			}
		}
	}
	return true
}

// Leaf is a terminal entry together with the chain that renders it.
type Leaf struct {
	Entry Entry

	// Chain lists the ancestor components followed by the leaf's own,
	// outermost first.
	Chain []ComponentRef
}

// Leaves lists every exact and wildcard entry with its full chain,
// in evaluation order.
func (t *Table) Leaves() []Leaf {
	var leaves []Leaf
	t.Walk(func(e Entry, _ int, ancestors []Entry) bool {
		if !e.IsLeaf() {
			return true
		}
		chain := make([]ComponentRef, 0, len(ancestors)+1)
		for _, a := range ancestors {
			chain = append(chain, a.Component)
		}
		leaves = append(leaves, Leaf{Entry: e, Chain: append(chain, e.Component)})
		return true
	})
	return leaves
}

func fingerprint(entries []Entry) (string, error) {
	data, err := json.Marshal(toManifest(entries))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
