// Package mergetable holds the MergeTable: an ordered pathname -> MergeBlock
// sequence map shared by the orchestrator, ResolverLoop and CleanupRunner.
// Ordinary Go maps don't preserve insertion order, and the pipeline's
// conflict work list must be built in pathname insertion order, so this
// type tracks key order alongside the map.
package mergetable

import "github.com/arthur-debert/overlayforge/pkg/mergeblock"

// Table is an insertion-ordered map from pathname to its MergeBlock
// sequence.
type Table struct {
	order   []string
	entries map[string]mergeblock.Blocks
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[string]mergeblock.Blocks)}
}

// Set stores blocks for pathname, appending pathname to the insertion order
// the first time it is seen.
func (t *Table) Set(pathname string, blocks mergeblock.Blocks) {
	if _, exists := t.entries[pathname]; !exists {
		t.order = append(t.order, pathname)
	}
	t.entries[pathname] = blocks
}

// Get returns the blocks stored for pathname, if any.
func (t *Table) Get(pathname string) (mergeblock.Blocks, bool) {
	blocks, ok := t.entries[pathname]
	return blocks, ok
}

// Delete removes pathname from the table.
func (t *Table) Delete(pathname string) {
	if _, exists := t.entries[pathname]; !exists {
		return
	}
	delete(t.entries, pathname)
	for i, p := range t.order {
		if p == pathname {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Pathnames returns every pathname in insertion order.
func (t *Table) Pathnames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.order)
}

// Clone returns a new Table with its own copy of every pathname's block
// slice, so CleanupRunner can add, replace or delete entries without touching
// the original. The line slices inside each Block are shared, not copied.
func (t *Table) Clone() *Table {
	clone := New()
	for _, pathname := range t.order {
		blocks := t.entries[pathname]
		copied := make(mergeblock.Blocks, len(blocks))
		copy(copied, blocks)
		clone.Set(pathname, copied)
	}
	return clone
}

// BinaryTable maps pathname to raw file bytes, disjoint from Table by
// pathname at any fixed point in time.
type BinaryTable map[string][]byte

// Clone returns a shallow copy of bt — each byte slice is shared, but the
// map itself is independent so CleanupRunner can add/remove keys freely.
func (bt BinaryTable) Clone() BinaryTable {
	clone := make(BinaryTable, len(bt))
	for k, v := range bt {
		clone[k] = v
	}
	return clone
}
