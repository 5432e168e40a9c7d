package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry"
)

func TestSubmitAndSnapshot(t *testing.T) {
	ctx := context.Background()
	r := New("juno-1")

	msg := registry.ExecuteMsg{UpdateDexes: &registry.UpdateDexes{ToAdd: []string{"wyndex"}}}
	require.NoError(t, r.Submit(ctx, msg))

	d, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wyndex"}, d.DexNames())
	assert.Equal(t, []registry.ExecuteMsg{msg}, r.Messages())

	// Snapshots are copies.
	d.Dexes["junoswap"] = struct{}{}
	again, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Dexes, 1)

	r.Reset()
	assert.Empty(t, r.Messages())
}

func TestSubmitFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	addr := ans.ContractPool("juno1p")
	seed := ans.NewData("juno-1")
	seed.Pools[addr] = ans.PoolMetadata{Dex: "wyndex", PoolType: ans.PoolTypeStable, Assets: []string{"a", "b"}}
	seed.PoolIDs[addr] = 0
	r := NewFromData(seed)

	other := ans.ContractPool("juno1q")
	meta := ans.PoolMetadata{Dex: "wyndex", PoolType: ans.PoolTypeStable, Assets: []string{"a", "c"}}
	err := r.Submit(ctx, registry.ExecuteMsg{UpdatePools: &registry.UpdatePools{
		ToAdd: []registry.Pair[ans.PoolAddress, ans.PoolMetadata]{
			{Key: other, Value: meta},
			{Key: addr, Value: meta},
		},
	}})
	assert.True(t, errors.IsAlreadyExists(err))

	d, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotContains(t, d.Pools, other)
	assert.Empty(t, r.Messages())
}

func TestSyncRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := New("juno-1")

	desired := ans.NewData("juno-1")
	desired.Assets["juno>juno"] = ans.NativeAsset("ujuno")
	desired.Pools[ans.IDPool(1)] = ans.PoolMetadata{Dex: "osmosis", PoolType: ans.PoolTypeWeighted, Assets: []string{"juno>juno", "juno>osmo"}}

	current, err := r.Snapshot(ctx)
	require.NoError(t, err)
	msgs, err := registry.BuildBatches(ans.Diff(desired, current), current, registry.DefaultChunkSizes())
	require.NoError(t, err)
	_, err = registry.Apply(ctx, r, "juno-1", msgs)
	require.NoError(t, err)

	after, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, ans.Diff(desired, after).IsEmpty())
}
