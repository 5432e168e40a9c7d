package ans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/reconcile"
)

func poolMeta(assets ...string) PoolMetadata {
	return PoolMetadata{Dex: "dex_name", PoolType: PoolTypeConstantProduct, Assets: assets}
}

func TestDiffNoChangeWhenPoolAssetsUnsorted(t *testing.T) {
	desired := NewData("juno-1")
	desired.Pools[IDPool(0)] = poolMeta("asset_b", "asset_a")

	current := NewData("juno-1")
	current.Pools[IDPool(0)] = poolMeta("asset_a", "asset_b")
	current.PoolIDs[IDPool(0)] = 0

	diff := Diff(desired, current)
	assert.True(t, diff.IsEmpty(), diff.String())
}

func TestDiffRemovesChangedPool(t *testing.T) {
	desired := NewData("juno-1")
	desired.Pools[IDPool(0)] = poolMeta("asset_a", "asset_b")

	current := NewData("juno-1")
	current.Pools[IDPool(0)] = poolMeta("asset_a_typo", "asset_b")

	diff := Diff(desired, current)

	assert.True(t, diff.Pools.Removals.Contains(IDPool(0)))
	assert.Equal(t, map[PoolAddress]PoolMetadata{IDPool(0): poolMeta("asset_a", "asset_b")}, diff.Pools.Additions)
}

func TestDiffOverwritesChangedAsset(t *testing.T) {
	desired := NewData("juno-1")
	desired.Assets["juno>wynd"] = CW20Asset("juno1wynd")
	desired.Assets["juno>juno"] = NativeAsset("ujuno")

	current := NewData("juno-1")
	current.Assets["juno>wynd"] = CW20Asset("dummy_value")
	current.Assets["juno>neta"] = CW20Asset("juno1neta")

	diff := Diff(desired, current)

	assert.Equal(t, []string{"juno>neta"}, diff.Assets.Removals.ToSlice())
	assert.Equal(t, map[string]AssetInfo{
		"juno>wynd": CW20Asset("juno1wynd"),
		"juno>juno": NativeAsset("ujuno"),
	}, diff.Assets.Additions)
}

func TestDiffAllSections(t *testing.T) {
	desired := NewData("juno-1")
	desired.Contracts[ContractEntry{Protocol: "wyndex", Contract: "factory"}] = "juno1factory"
	desired.Channels[ChannelEntry{ConnectedChain: "osmosis", Protocol: "ics20"}] = "channel-0"
	desired.Dexes["wyndex"] = struct{}{}
	desired.Dexes["junoswap"] = struct{}{}

	current := NewData("juno-1")
	current.Contracts[ContractEntry{Protocol: "wyndex", Contract: "factory"}] = "juno1old"
	current.Channels[ChannelEntry{ConnectedChain: "osmosis", Protocol: "ics20"}] = "channel-0"
	current.Dexes["wyndex"] = struct{}{}
	current.Dexes["loop"] = struct{}{}

	diff := Diff(desired, current)

	assert.Equal(t, reconcile.ChangesetSummary{Updated: 1, TotalChanges: 1}, diff.Section(SectionContracts))
	assert.True(t, diff.Channels.IsEmpty())
	assert.Equal(t, map[string]struct{}{"junoswap": {}}, diff.Dexes.Additions)
	assert.True(t, diff.Dexes.Removals.Contains("loop"))
	assert.Equal(t, 3, diff.TotalChanges())
	assert.Equal(t, "contracts: 1 updated; dexes: 1 added, 1 removed", diff.String())
}

func TestDiffSelectedSections(t *testing.T) {
	desired := NewData("juno-1")
	desired.Assets["juno>juno"] = NativeAsset("ujuno")
	desired.Dexes["wyndex"] = struct{}{}

	diff := Diff(desired, NewData("juno-1"), SectionDexes)

	assert.True(t, diff.Assets.IsEmpty())
	assert.Len(t, diff.Dexes.Additions, 1)
}

func TestDataClone(t *testing.T) {
	d := NewData("juno-1")
	d.Pools[IDPool(1)] = poolMeta("a", "b")
	d.PoolIDs[IDPool(1)] = 4

	c := d.Clone()
	c.Pools[IDPool(1)].Assets[0] = "z"
	c.PoolIDs[IDPool(2)] = 5

	assert.Equal(t, "a", d.Pools[IDPool(1)].Assets[0])
	assert.Len(t, d.PoolIDs, 1)
	assert.Equal(t, UniquePoolID(6), c.NextPoolID())

	addr, ok := d.PoolByID(4)
	require.True(t, ok)
	assert.Equal(t, IDPool(1), addr)
}

func TestDataCloneOfZeroValue(t *testing.T) {
	c := (&Data{ChainID: "x"}).Clone()
	c.Assets["a"] = NativeAsset("ua")
	assert.Equal(t, 1, c.Len(SectionAssets))
	assert.Equal(t, UniquePoolID(0), c.NextPoolID())
}

func TestSections(t *testing.T) {
	assert.Equal(t, reconcile.RemoveStale, SectionPools.StalePolicy())
	for _, s := range []Section{SectionAssets, SectionContracts, SectionChannels, SectionDexes} {
		assert.Equal(t, reconcile.KeepStale, s.StalePolicy(), s)
	}

	all, err := ParseSections(nil)
	require.NoError(t, err)
	assert.Equal(t, AllSections(), all)

	got, err := ParseSections([]string{"pools", "assets", "pools"})
	require.NoError(t, err)
	assert.Equal(t, []Section{SectionPools, SectionAssets}, got)

	_, err = ParseSections([]string{"tokens"})
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "juno>ujuno", IBCAssetName("JunoTestnet", "ujuno"))
	assert.Equal(t, "wyndex/juno>juno,juno>wynd", LPTokenName("Wyndex", []string{"juno>wynd", "JUNO>JUNO"}))
	assert.Equal(t, "staking/wyndex/juno>juno,juno>wynd", StakingContractName("wyndex", []string{"juno>wynd", "juno>juno"}))
	assert.Equal(t, "dex_name/a,b", poolMeta("b", "a").PoolName())
}

func TestDiffSkipsSectionsNotSupplied(t *testing.T) {
	current := NewData("juno-1")
	current.Assets["juno>old"] = NativeAsset("uold")
	current.Channels[ChannelEntry{ConnectedChain: "osmosis", Protocol: "ics20"}] = "channel-0"
	current.Dexes["wyndex"] = struct{}{}
	current.Pools[ContractPool("juno1pool")] = poolMeta("juno>juno", "juno>wynd")
	current.PoolIDs[ContractPool("juno1pool")] = 0

	desired := NewData("juno-1")
	desired.Assets["juno>juno"] = NativeAsset("ujuno")
	desired.Supplied = []Section{SectionAssets}

	diff := Diff(desired, current)
	assert.Equal(t, 1, diff.Assets.Removals.Cardinality())
	assert.Len(t, diff.Assets.Additions, 1)
	assert.True(t, diff.Channels.IsEmpty(), "channels were not supplied")
	assert.True(t, diff.Dexes.IsEmpty(), "dexes were not supplied")
	assert.True(t, diff.Pools.IsEmpty(), "pools were not supplied")

	// An explicitly empty section is reconciled
	desired.Supplied = append(desired.Supplied, SectionChannels)
	diff = Diff(desired, current)
	assert.Equal(t, 1, diff.Channels.Removals.Cardinality())
}

func TestDataSupplies(t *testing.T) {
	d := NewData("juno-1")
	for _, s := range AllSections() {
		assert.True(t, d.Supplies(s), s)
	}

	d.Supplied = []Section{SectionPools}
	assert.True(t, d.Supplies(SectionPools))
	assert.False(t, d.Supplies(SectionChannels))
	assert.Equal(t, d.Supplied, d.Clone().Supplied)
}

func TestDataClear(t *testing.T) {
	d := NewData("juno-1")
	d.Dexes["wyndex"] = struct{}{}
	d.Pools[IDPool(3)] = poolMeta("a", "b")
	d.PoolIDs[IDPool(3)] = 3

	d.Clear(SectionPools)
	assert.Empty(t, d.Pools)
	assert.Empty(t, d.PoolIDs)
	assert.Len(t, d.Dexes, 1)
}
