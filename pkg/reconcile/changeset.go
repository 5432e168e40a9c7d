package reconcile

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Changeset holds the edits produced by Reconcile.
type Changeset[K comparable, V any] struct {
	Removals  mapset.Set[K] // Keys to delete from the current state
	Additions map[K]V       // Entries to insert or overwrite
	Updated   mapset.Set[K] // Keys present on both sides whose values differ
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Added        int // new keys
	Updated      int // changed keys, whatever the stale policy
	Removed      int // keys absent from the desired state
	TotalChanges int
}

// NewChangeset returns an empty changeset.
func NewChangeset[K comparable, V any]() *Changeset[K, V] {
	return &Changeset[K, V]{
		Removals:  mapset.NewSet[K](),
		Additions: make(map[K]V),
		Updated:   mapset.NewSet[K](),
	}
}

// IsEmpty returns true if the changeset contains no edits.
func (c *Changeset[K, V]) IsEmpty() bool {
	return c.Removals.Cardinality() == 0 && len(c.Additions) == 0
}

// HasChanges returns true if the changeset contains any edits.
func (c *Changeset[K, V]) HasChanges() bool {
	return !c.IsEmpty()
}

// Summary computes summary statistics for the changeset.
func (c *Changeset[K, V]) Summary() ChangesetSummary {
	updated := c.Updated.Cardinality()
	added := len(c.Additions) - updated
	removed := c.Removals.Difference(c.Updated).Cardinality()

	return ChangesetSummary{
		Added:        added,
		Updated:      updated,
		Removed:      removed,
		TotalChanges: added + updated + removed,
	}
}

// Apply returns a copy of current with the changeset applied: removals first,
// then additions. current is not modified.
func (c *Changeset[K, V]) Apply(current map[K]V) map[K]V {
	next := maps.Clone(current)
	if next == nil {
		next = make(map[K]V, len(c.Additions))
	}
	c.Removals.Each(func(key K) bool {
		delete(next, key)
		return false
	})
	maps.Copy(next, c.Additions)
	return next
}

// SortedRemovals returns the removal keys ordered by cmp.
func (c *Changeset[K, V]) SortedRemovals(cmp func(a, b K) int) []K {
	keys := c.Removals.ToSlice()
	slices.SortFunc(keys, cmp)
	return keys
}

// SortedAdditions returns the addition keys ordered by cmp.
func (c *Changeset[K, V]) SortedAdditions(cmp func(a, b K) int) []K {
	return slices.SortedFunc(maps.Keys(c.Additions), cmp)
}

// String returns a human-readable summary of the changeset.
func (c *Changeset[K, V]) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}
	return c.Summary().String()
}

// String returns the non-zero counts, e.g. "2 added, 1 removed".
func (s ChangesetSummary) String() string {
	var parts []string
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", s.Added))
	}
	if s.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", s.Updated))
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", s.Removed))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}
