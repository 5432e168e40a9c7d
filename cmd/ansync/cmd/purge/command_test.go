package purge

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync"
	"github.com/agentstation/ansync/internal/cmd/application"
	"github.com/agentstation/ansync/internal/config"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry"
	"github.com/agentstation/ansync/pkg/registry/memory"
)

func seeded(pools int) *memory.Registry {
	d := ans.NewData("pion-1")
	d.Contracts[ans.ContractEntry{Protocol: "astroport", Contract: "factory"}] = "neutron1factory"
	d.Dexes["astroport"] = struct{}{}
	for i := range pools {
		addr := ans.ContractPool(fmt.Sprintf("neutron1pool%02d", i))
		d.Pools[addr] = ans.PoolMetadata{Dex: "astroport", PoolType: ans.PoolTypeConstantProduct, Assets: []string{"a", "b"}}
		d.PoolIDs[addr] = ans.UniquePoolID(i)
	}
	return memory.NewFromData(d)
}

func newApp(reg *memory.Registry) *application.Mock {
	return &application.Mock{
		OutputFormatFunc: func() string { return "json" },
		RegistryFunc: func(*config.Network) (registry.Reader, error) {
			return reg, nil
		},
		ClientFunc: func(_ *config.Network, opts ...ansync.Option) (ansync.Client, error) {
			return ansync.New(append([]ansync.Option{ansync.WithRegistry(reg)}, opts...)...)
		},
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

func TestPurgePools(t *testing.T) {
	reg := seeded(20)

	_, err := run(t, newApp(reg), "-n", "pion-1", "--state", "state.yaml", "--section", "pools", "--yes-im-sure", "--yes")
	require.NoError(t, err)

	msgs := reg.Messages()
	require.Len(t, msgs, 2)
	assert.Len(t, msgs[0].UpdatePools.ToRemove, 15)
	assert.Len(t, msgs[1].UpdatePools.ToRemove, 5)

	after, err := reg.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, after.Pools)
	assert.Len(t, after.Contracts, 1, "other sections are left alone")
	assert.Len(t, after.Dexes, 1)
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	reg := seeded(3)

	_, err := run(t, newApp(reg), "-n", "pion-1", "--state", "state.yaml", "--section", "contracts", "--yes")
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, reg.Messages())

	stdout, err := run(t, newApp(reg), "-n", "pion-1", "--section", "contracts", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "update_contract_addresses")
	assert.Empty(t, reg.Messages())
}

func TestPurgeRequiresSection(t *testing.T) {
	_, err := run(t, newApp(seeded(1)), "-n", "pion-1", "--state", "state.yaml", "--yes-im-sure", "--yes")
	assert.Error(t, err)
}
