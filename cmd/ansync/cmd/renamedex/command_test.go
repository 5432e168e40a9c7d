package renamedex

import (
	"bytes"
	"context"
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

func seeded() *memory.Registry {
	d := ans.NewData("juno-1")
	d.Dexes["wynd"] = struct{}{}
	d.Dexes["junoswap"] = struct{}{}
	for i, addr := range []ans.PoolAddress{ans.ContractPool("juno1a"), ans.ContractPool("juno1b")} {
		d.Pools[addr] = ans.PoolMetadata{Dex: "wynd", PoolType: ans.PoolTypeConstantProduct, Assets: []string{"juno>juno", "juno>wynd"}}
		d.PoolIDs[addr] = ans.UniquePoolID(i)
	}
	swap := ans.ContractPool("juno1swap")
	d.Pools[swap] = ans.PoolMetadata{Dex: "junoswap", PoolType: ans.PoolTypeStable, Assets: []string{"juno>juno", "juno>atom"}}
	d.PoolIDs[swap] = 2
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

func TestRenameDex(t *testing.T) {
	reg := seeded()

	_, err := run(t, newApp(reg), "-n", "juno-1", "--state", "state.yaml", "--from", "wynd", "--to", "wyndex", "--yes")
	require.NoError(t, err)

	msgs := reg.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, ans.SectionDexes, msgs[0].Section())
	assert.Equal(t, ans.SectionPools, msgs[1].Section())

	after, err := reg.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"junoswap", "wynd", "wyndex"}, after.DexNames())
	assert.Equal(t, "wyndex", after.Pools[ans.ContractPool("juno1a")].Dex)
	assert.Equal(t, "wyndex", after.Pools[ans.ContractPool("juno1b")].Dex)
	assert.Equal(t, "junoswap", after.Pools[ans.ContractPool("juno1swap")].Dex)
	assert.Equal(t, ans.UniquePoolID(2), after.PoolIDs[ans.ContractPool("juno1swap")])
	assert.Greater(t, after.PoolIDs[ans.ContractPool("juno1a")], ans.UniquePoolID(2))

	// Running it again finds no pools left to move
	_, err = run(t, newApp(reg), "-n", "juno-1", "--state", "state.yaml", "--from", "wynd", "--to", "wyndex", "--yes")
	assert.True(t, errors.IsNotFound(err))
}

func TestRenameDexDryRun(t *testing.T) {
	reg := seeded()

	stdout, err := run(t, newApp(reg), "-n", "juno-1", "--from", "wynd", "--to", "wyndex", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "update_pools")
	assert.Empty(t, reg.Messages())
}
