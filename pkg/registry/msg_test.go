package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
)

func TestExecuteMsgJSON(t *testing.T) {
	tests := []struct {
		name string
		msg  ExecuteMsg
		want string
	}{
		{
			name: "assets",
			msg: ExecuteMsg{UpdateAssetAddresses: &UpdateAssets{
				ToAdd:    []Pair[string, ans.AssetInfo]{{Key: "juno>juno", Value: ans.NativeAsset("ujuno")}},
				ToRemove: []string{"juno>old"},
			}},
			want: `{"update_asset_addresses":{"to_add":[["juno>juno",{"native":"ujuno"}]],"to_remove":["juno>old"]}}`,
		},
		{
			name: "contracts",
			msg: ExecuteMsg{UpdateContractAddresses: &UpdateContracts{
				ToAdd:    []Pair[ans.ContractEntry, string]{{Key: ans.ContractEntry{Protocol: "wyndex", Contract: "factory"}, Value: "juno1f"}},
				ToRemove: []ans.ContractEntry{},
			}},
			want: `{"update_contract_addresses":{"to_add":[[{"protocol":"wyndex","contract":"factory"},"juno1f"]],"to_remove":[]}}`,
		},
		{
			name: "channels",
			msg: ExecuteMsg{UpdateChannels: &UpdateChannels{
				ToAdd:    []Pair[ans.ChannelEntry, string]{},
				ToRemove: []ans.ChannelEntry{{ConnectedChain: "osmosis", Protocol: "ics20"}},
			}},
			want: `{"update_channels":{"to_add":[],"to_remove":[{"connected_chain":"osmosis","protocol":"ics20"}]}}`,
		},
		{
			name: "dexes",
			msg:  ExecuteMsg{UpdateDexes: &UpdateDexes{ToAdd: []string{"wyndex"}, ToRemove: []string{}}},
			want: `{"update_dexes":{"to_add":["wyndex"],"to_remove":[]}}`,
		},
		{
			name: "pools",
			msg: ExecuteMsg{UpdatePools: &UpdatePools{
				ToAdd: []Pair[ans.PoolAddress, ans.PoolMetadata]{{
					Key:   ans.ContractPool("juno1pool"),
					Value: ans.PoolMetadata{Dex: "wyndex", PoolType: ans.PoolTypeStable, Assets: []string{"juno>a", "juno>b"}},
				}},
				ToRemove: []ans.UniquePoolID{4},
			}},
			want: `{"update_pools":{"to_add":[[{"contract":"juno1pool"},{"dex":"wyndex","pool_type":"stable","assets":["juno>a","juno>b"]}]],"to_remove":[4]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))

			var back ExecuteMsg
			require.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, tt.msg, back)
		})
	}
}

func TestExecuteMsgValidate(t *testing.T) {
	assert.Error(t, ExecuteMsg{}.Validate())
	assert.Error(t, ExecuteMsg{
		UpdateDexes:    &UpdateDexes{},
		UpdateChannels: &UpdateChannels{},
	}.Validate())
	assert.NoError(t, ExecuteMsg{UpdateDexes: &UpdateDexes{}}.Validate())
}

func TestExecuteMsgString(t *testing.T) {
	msg := ExecuteMsg{UpdatePools: &UpdatePools{
		ToAdd:    make([]Pair[ans.PoolAddress, ans.PoolMetadata], 3),
		ToRemove: []ans.UniquePoolID{1},
	}}
	assert.Equal(t, "update_pools(+3 -1)", msg.String())
	assert.Equal(t, ans.SectionPools, msg.Section())
	assert.Equal(t, "unknown(+0 -0)", ExecuteMsg{}.String())
}

func TestPairRejectsNonTuple(t *testing.T) {
	var p Pair[string, string]
	assert.Error(t, json.Unmarshal([]byte(`{"key":"a"}`), &p))
}
