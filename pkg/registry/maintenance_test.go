package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

type snapshotReader struct{ data *ans.Data }

func (r snapshotReader) Snapshot(context.Context) (*ans.Data, error) {
	return r.data.Clone(), nil
}

func registered(pools int) *ans.Data {
	d := ans.NewData("juno-1")
	d.Contracts[ans.ContractEntry{Protocol: "wyndex", Contract: "factory"}] = "juno1factory"
	d.Dexes["wynd"] = struct{}{}
	for i := range pools {
		addr := ans.ContractPool(fmt.Sprintf("juno1pool%02d", i))
		d.Pools[addr] = pool("wynd", "juno>a", "juno>b")
		d.PoolIDs[addr] = ans.UniquePoolID(i)
	}
	return d
}

// applyEdit plans an edit of current the way a sync would and applies the
// resulting messages to a copy of current.
func applyEdit(t *testing.T, current *ans.Data, edit Edit, sections ...ans.Section) ([]ExecuteMsg, *ans.Data) {
	t.Helper()
	desired, err := NewEditSource(snapshotReader{current}, edit).Desired(context.Background())
	require.NoError(t, err)

	msgs, err := BuildBatches(ans.Diff(desired, current, sections...), current, DefaultChunkSizes())
	require.NoError(t, err)

	after := current.Clone()
	for _, msg := range msgs {
		require.NoError(t, ApplyMsg(after, msg))
	}
	return msgs, after
}

func TestPurgePools(t *testing.T) {
	current := registered(20)

	msgs, after := applyEdit(t, current, Purge(ans.SectionPools), ans.SectionPools)
	require.Len(t, msgs, 2, "pools are removed 15 per message")
	assert.Len(t, msgs[0].UpdatePools.ToRemove, 15)
	assert.Len(t, msgs[1].UpdatePools.ToRemove, 5)
	assert.Empty(t, msgs[0].UpdatePools.ToAdd)

	assert.Empty(t, after.Pools)
	assert.Len(t, after.Contracts, 1)
	assert.Len(t, after.Dexes, 1)
}

func TestPurgeContracts(t *testing.T) {
	current := registered(1)
	for i := range 25 {
		current.Contracts[ans.ContractEntry{Protocol: "wyndex", Contract: fmt.Sprintf("staking/%d", i)}] = "juno1stake"
	}

	msgs, after := applyEdit(t, current, Purge(ans.SectionContracts), ans.SectionContracts)
	require.Len(t, msgs, 2, "contracts are removed 20 per message")
	assert.Empty(t, after.Contracts)
	assert.Len(t, after.Pools, 1)
}

func TestPurgeRequiresSections(t *testing.T) {
	_, err := NewEditSource(snapshotReader{registered(1)}, Purge()).Desired(context.Background())
	assert.True(t, errors.IsValidationError(err))

	_, err = NewEditSource(snapshotReader{registered(1)}, Purge("tokens")).Desired(context.Background())
	assert.True(t, errors.IsValidationError(err))
}

func TestRenameDex(t *testing.T) {
	current := registered(2)
	other := ans.ContractPool("juno1astro")
	current.Pools[other] = pool("astroport", "juno>a", "juno>c")
	current.PoolIDs[other] = 7

	msgs, after := applyEdit(t, current, RenameDex("wynd", "wyndex"), ans.SectionDexes, ans.SectionPools)
	require.Len(t, msgs, 2)
	assert.Equal(t, []string{"wyndex"}, msgs[0].UpdateDexes.ToAdd)
	assert.Len(t, msgs[1].UpdatePools.ToRemove, 2)
	assert.Len(t, msgs[1].UpdatePools.ToAdd, 2)

	assert.Equal(t, []string{"wynd", "wyndex"}, after.DexNames())
	for addr, meta := range after.Pools {
		if addr == other {
			assert.Equal(t, "astroport", meta.Dex)
			assert.Equal(t, ans.UniquePoolID(7), after.PoolIDs[addr])
			continue
		}
		assert.Equal(t, "wyndex", meta.Dex)
		assert.GreaterOrEqual(t, after.PoolIDs[addr], ans.UniquePoolID(8), "re-registered pools get new ids")
	}
}

func TestRenameDexErrors(t *testing.T) {
	src := func(edit Edit) error {
		_, err := NewEditSource(snapshotReader{registered(1)}, edit).Desired(context.Background())
		return err
	}
	assert.True(t, errors.IsValidationError(src(RenameDex("wynd", "wynd"))))
	assert.True(t, errors.IsValidationError(src(RenameDex("", "wyndex"))))
	assert.True(t, errors.IsNotFound(src(RenameDex("junoswap", "wyndex"))))
}
