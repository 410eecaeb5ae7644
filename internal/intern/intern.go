// Package intern deduplicates the strings used as object keys so that
// repeated parses and repeated object construction do not pay for a fresh
// allocation per occurrence of a common key.
package intern

import (
	"sync"

	art "github.com/kralicky/go-adaptive-radix-tree"
)

// Table is a concurrency-safe string interner backed by an adaptive radix
// tree, which gives ordered byte-key lookups without the bucket churn of a
// plain map as the table grows.
type Table struct {
	mu   sync.Mutex
	tree art.Tree
}

// New returns an empty interning table.
func New() *Table {
	return &Table{tree: art.New()}
}

// Intern returns the canonical copy of s, inserting s into the table on its
// first occurrence.
func (t *Table) Intern(s string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := art.Key(s)
	if v, found := t.tree.Search(key); found {
		return v.(string)
	}
	t.tree.Insert(key, s)
	return s
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Size()
}

var global = New()

// Global interns s into the process-wide default table. Object keys go
// through this unless a caller supplies its own Table.
func Global(s string) string {
	return global.Intern(s)
}
