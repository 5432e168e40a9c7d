// Package reconcile computes the edits that converge a current key/value
// mapping onto a desired one.
//
// The result of Reconcile is a Changeset: a set of keys to remove and a
// mapping of entries to add or overwrite. Values are compared through their
// canonical form (see Canonicalize), so whether ordered collections inside a
// value are compared order-sensitively is decided by the value type.
//
// Example:
//
//	desired := map[string]int{"a": 1, "c": 3}
//	current := map[string]int{"a": 1, "b": 2}
//
//	cs := reconcile.Reconcile(desired, current, reconcile.KeepStale)
//	// cs.Removals  == {b}
//	// cs.Additions == {c: 3}
package reconcile

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// StalePolicy controls what happens to a key whose desired and current values
// differ. There is no default; the zero value is invalid.
type StalePolicy uint8

const (
	// KeepStale overwrites a changed entry in place: the key is only added.
	KeepStale StalePolicy = iota + 1

	// RemoveStale evicts a changed entry before re-adding it: the key is
	// both removed and added.
	RemoveStale
)

// PolicyFor maps the boolean remove-stale switch onto a StalePolicy.
func PolicyFor(removeStale bool) StalePolicy {
	if removeStale {
		return RemoveStale
	}
	return KeepStale
}

// String returns the string representation of a stale policy.
func (p StalePolicy) String() string {
	switch p {
	case KeepStale:
		return "keep-stale"
	case RemoveStale:
		return "remove-stale"
	default:
		return fmt.Sprintf("StalePolicy(%d)", uint8(p))
	}
}

// IsValid reports whether p is one of the declared policies.
func (p StalePolicy) IsValid() bool {
	return p == KeepStale || p == RemoveStale
}

// Option configures a single Reconcile call.
type Option[V any] func(*options[V])

type options[V any] struct {
	canonicalize Canonicalizer[V]
}

// WithCanonicalizer replaces the default canonical form used to compare values.
func WithCanonicalizer[V any](fn Canonicalizer[V]) Option[V] {
	return func(o *options[V]) {
		if fn != nil {
			o.canonicalize = fn
		}
	}
}

// Reconcile returns the edits that bring current in line with desired.
//
// Every key of the union of both mappings lands in exactly one case:
//   - only in current: the key is removed
//   - only in desired: the desired entry is added
//   - in both with equal canonical forms: nothing is emitted
//   - in both with different canonical forms: the desired entry is added,
//     and with RemoveStale the key is also removed
//
// Neither input is modified. Reconcile panics if policy is not KeepStale or
// RemoveStale.
func Reconcile[K comparable, V any](desired, current map[K]V, policy StalePolicy, opts ...Option[V]) *Changeset[K, V] {
	if !policy.IsValid() {
		panic(fmt.Sprintf("reconcile: invalid stale policy %s", policy))
	}

	o := options[V]{canonicalize: Canonicalize[V]}
	for _, opt := range opts {
		opt(&o)
	}

	cs := NewChangeset[K, V]()

	keys := mapset.NewThreadUnsafeSetFromMapKeys(desired)
	keys = keys.Union(mapset.NewThreadUnsafeSetFromMapKeys(current))

	keys.Each(func(key K) bool {
		want, inDesired := desired[key]
		have, inCurrent := current[key]

		switch {
		case !inDesired:
			cs.Removals.Add(key)
		case !inCurrent:
			cs.Additions[key] = want
		case o.canonicalize(want) != o.canonicalize(have):
			cs.Additions[key] = want
			cs.Updated.Add(key)
			if policy == RemoveStale {
				cs.Removals.Add(key)
			}
		}
		return false
	})

	return cs
}
