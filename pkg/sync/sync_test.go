package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/registry"
)

func TestOptions(t *testing.T) {
	opts := NewOptions(WithDryRun(true), WithTimeout(time.Minute), WithSections(ans.SectionPools, ans.SectionAssets))
	require.NoError(t, opts.Validate())
	assert.True(t, opts.DryRun)
	assert.Equal(t, []ans.Section{ans.SectionAssets, ans.SectionPools}, opts.SelectedSections())

	assert.Equal(t, ans.AllSections(), Defaults().SelectedSections())
}

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, NewOptions(WithTimeout(-time.Second)).Validate())
	assert.Error(t, NewOptions(WithSections("tokens")).Validate())
}

func TestResultSummary(t *testing.T) {
	desired := ans.NewData("juno-1")
	desired.Dexes["wyndex"] = struct{}{}
	current := ans.NewData("juno-1")

	plan := &Plan{
		ChainID:  "juno-1",
		Diff:     ans.Diff(desired, current),
		Messages: []registry.ExecuteMsg{{UpdateDexes: &registry.UpdateDexes{ToAdd: []string{"wyndex"}}}},
	}
	assert.Equal(t, "juno-1: dexes: 1 added in 1 messages", plan.String())

	r := &Result{ChainID: "juno-1", Plan: plan, DryRun: true}
	assert.True(t, r.HasChanges())
	assert.False(t, r.Complete())
	assert.Equal(t, "1 total changes, 0/1 messages applied (Dry run)", r.Summary())

	r.Applied = 1
	assert.True(t, r.Complete())

	empty := &Result{Plan: &Plan{ChainID: "juno-1", Diff: ans.Diff(current, current)}}
	assert.Equal(t, "No changes detected", empty.Summary())
	assert.Equal(t, "juno-1: no changes", empty.Plan.String())
}
