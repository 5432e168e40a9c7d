package reconcile

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"github.com/goccy/go-yaml"
)

// Canonical is implemented by values that define their own canonical form.
// Two values are equal for reconciliation iff their canonical forms are
// byte-identical, so a type that wants order-insensitive comparison of a
// list field normalizes that list here.
type Canonical interface {
	Canonical() string
}

// Canonicalizer returns the canonical form of a value.
type Canonicalizer[V any] func(V) string

// Canonicalize returns the canonical form of v.
//
// A value implementing Canonical supplies its own form. Any other value is
// serialized as YAML: mapping keys are sorted, slice elements keep their
// order. Ordered collections therefore compare order-sensitively unless the
// value type normalizes them.
//
// YAML skips unexported struct fields. A value whose type reaches one,
// without a YAML or text marshaler in between, is formatted with %#v
// instead, so a change to such a field is still seen. Pointers inside such
// a value compare by address. Values YAML cannot encode fall back to %#v
// as well.
func Canonicalize[V any](v V) string {
	if c, ok := any(v).(Canonical); ok {
		return c.Canonical()
	}
	if hidesFields(reflect.TypeOf(v)) {
		return fmt.Sprintf("%#v", v)
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// Equal reports whether a and b share a canonical form.
func Equal[V any](a, b V) bool {
	return Canonicalize(a) == Canonicalize(b)
}

var (
	hiddenFields sync.Map // reflect.Type -> bool

	selfMarshalers = []reflect.Type{
		reflect.TypeFor[yaml.InterfaceMarshaler](),
		reflect.TypeFor[yaml.BytesMarshaler](),
		reflect.TypeFor[encoding.TextMarshaler](),
	}
)

// hidesFields reports whether YAML would drop unexported struct fields of t.
func hidesFields(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if v, ok := hiddenFields.Load(t); ok {
		return v.(bool)
	}
	hidden := walkHidden(t, make(map[reflect.Type]bool))
	hiddenFields.Store(t, hidden)
	return hidden
}

func walkHidden(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	for _, m := range selfMarshalers {
		if t.Implements(m) || reflect.PointerTo(t).Implements(m) {
			return false
		}
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return walkHidden(t.Elem(), seen)
	case reflect.Map:
		return walkHidden(t.Key(), seen) || walkHidden(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || walkHidden(f.Type, seen) {
				return true
			}
		}
	}
	return false
}
