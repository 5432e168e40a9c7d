package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/ansync/pkg/reconcile"
)

type poolMeta struct {
	Dex    string   `yaml:"dex"`
	Assets []string `yaml:"assets"`
}

type hiddenAddr struct{ addr string }

type wrapped struct {
	Dex  string     `yaml:"dex"`
	Pool hiddenAddr `yaml:"pool"`
}

func TestCanonicalize(t *testing.T) {
	t.Run("map keys are sorted", func(t *testing.T) {
		a := map[string]int{"b": 2, "a": 1, "c": 3}
		b := map[string]int{"c": 3, "a": 1, "b": 2}
		assert.Equal(t, reconcile.Canonicalize(a), reconcile.Canonicalize(b))
	})

	t.Run("slice order is kept", func(t *testing.T) {
		a := poolMeta{Dex: "wyndex", Assets: []string{"juno>juno", "juno>atom"}}
		b := poolMeta{Dex: "wyndex", Assets: []string{"juno>atom", "juno>juno"}}
		assert.NotEqual(t, reconcile.Canonicalize(a), reconcile.Canonicalize(b))
		assert.False(t, reconcile.Equal(a, b))
	})

	t.Run("struct fields", func(t *testing.T) {
		a := poolMeta{Dex: "wyndex", Assets: []string{"x"}}
		assert.True(t, reconcile.Equal(a, poolMeta{Dex: "wyndex", Assets: []string{"x"}}))
		assert.False(t, reconcile.Equal(a, poolMeta{Dex: "astroport", Assets: []string{"x"}}))
	})

	t.Run("canonical interface wins", func(t *testing.T) {
		v := tagged{Name: "n", Tags: []string{"b", "a"}}
		assert.Equal(t, "n|a,b", reconcile.Canonicalize(v))
	})

	t.Run("empty struct values are always equal", func(t *testing.T) {
		assert.True(t, reconcile.Equal(struct{}{}, struct{}{}))
	})

	t.Run("unexported fields are compared", func(t *testing.T) {
		assert.False(t, reconcile.Equal(hiddenAddr{addr: "juno1a"}, hiddenAddr{addr: "juno1b"}))
		assert.True(t, reconcile.Equal(hiddenAddr{addr: "juno1a"}, hiddenAddr{addr: "juno1a"}))
		assert.NotEqual(t, "{}\n", reconcile.Canonicalize(hiddenAddr{addr: "juno1a"}))
	})

	t.Run("unexported fields nested in exported ones are compared", func(t *testing.T) {
		a := wrapped{Dex: "wyndex", Pool: hiddenAddr{addr: "juno1a"}}
		b := wrapped{Dex: "wyndex", Pool: hiddenAddr{addr: "juno1b"}}
		assert.False(t, reconcile.Equal(a, b))
	})

	t.Run("unencodable values fall back to go syntax", func(t *testing.T) {
		ch := make(chan int)
		assert.Equal(t, reconcile.Canonicalize(ch), reconcile.Canonicalize(ch))
	})
}

func TestReconcileSeesUnexportedFieldChange(t *testing.T) {
	desired := map[string]hiddenAddr{"pool": {addr: "juno1new"}}
	current := map[string]hiddenAddr{"pool": {addr: "juno1old"}}

	cs := reconcile.Reconcile(desired, current, reconcile.KeepStale)
	assert.Equal(t, desired, cs.Additions)
	assert.True(t, cs.Updated.Contains("pool"))
}
