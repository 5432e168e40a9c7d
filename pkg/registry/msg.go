package registry

import (
	"encoding/json"
	"fmt"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// Pair is a key/value tuple, encoded as a two element JSON array the way
// CosmWasm contracts encode Rust tuples.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// MarshalJSON encodes the pair as [key, value].
func (p Pair[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Key, p.Value})
}

// UnmarshalJSON decodes [key, value].
func (p *Pair[K, V]) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Key); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Value)
}

// UpdateAssets registers assets by name and removes names.
type UpdateAssets struct {
	ToAdd    []Pair[string, ans.AssetInfo] `json:"to_add"`
	ToRemove []string                      `json:"to_remove"`
}

// UpdateContracts registers contract addresses and removes entries.
type UpdateContracts struct {
	ToAdd    []Pair[ans.ContractEntry, string] `json:"to_add"`
	ToRemove []ans.ContractEntry               `json:"to_remove"`
}

// UpdateChannels registers channel ids and removes entries.
type UpdateChannels struct {
	ToAdd    []Pair[ans.ChannelEntry, string] `json:"to_add"`
	ToRemove []ans.ChannelEntry               `json:"to_remove"`
}

// UpdateDexes registers and removes dex names.
type UpdateDexes struct {
	ToAdd    []string `json:"to_add"`
	ToRemove []string `json:"to_remove"`
}

// UpdatePools registers pools and removes pools by their unique id.
type UpdatePools struct {
	ToAdd    []Pair[ans.PoolAddress, ans.PoolMetadata] `json:"to_add"`
	ToRemove []ans.UniquePoolID                        `json:"to_remove"`
}

// ExecuteMsg is one ANS host execute message. Exactly one field is set.
// The host applies the removals of a message before its additions.
type ExecuteMsg struct {
	UpdateAssetAddresses    *UpdateAssets    `json:"update_asset_addresses,omitempty"`
	UpdateContractAddresses *UpdateContracts `json:"update_contract_addresses,omitempty"`
	UpdateChannels          *UpdateChannels  `json:"update_channels,omitempty"`
	UpdateDexes             *UpdateDexes     `json:"update_dexes,omitempty"`
	UpdatePools             *UpdatePools     `json:"update_pools,omitempty"`
}

// Section returns the registry section the message updates.
func (m ExecuteMsg) Section() ans.Section {
	switch {
	case m.UpdateAssetAddresses != nil:
		return ans.SectionAssets
	case m.UpdateContractAddresses != nil:
		return ans.SectionContracts
	case m.UpdateChannels != nil:
		return ans.SectionChannels
	case m.UpdateDexes != nil:
		return ans.SectionDexes
	case m.UpdatePools != nil:
		return ans.SectionPools
	default:
		return ""
	}
}

// Counts returns the number of additions and removals carried.
func (m ExecuteMsg) Counts() (added, removed int) {
	switch {
	case m.UpdateAssetAddresses != nil:
		return len(m.UpdateAssetAddresses.ToAdd), len(m.UpdateAssetAddresses.ToRemove)
	case m.UpdateContractAddresses != nil:
		return len(m.UpdateContractAddresses.ToAdd), len(m.UpdateContractAddresses.ToRemove)
	case m.UpdateChannels != nil:
		return len(m.UpdateChannels.ToAdd), len(m.UpdateChannels.ToRemove)
	case m.UpdateDexes != nil:
		return len(m.UpdateDexes.ToAdd), len(m.UpdateDexes.ToRemove)
	case m.UpdatePools != nil:
		return len(m.UpdatePools.ToAdd), len(m.UpdatePools.ToRemove)
	default:
		return 0, 0
	}
}

// Validate checks that exactly one update is set.
func (m ExecuteMsg) Validate() error {
	set := 0
	for _, present := range []bool{
		m.UpdateAssetAddresses != nil,
		m.UpdateContractAddresses != nil,
		m.UpdateChannels != nil,
		m.UpdateDexes != nil,
		m.UpdatePools != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return errors.NewValidationError("execute_msg", set, fmt.Sprintf("expected exactly one update, got %d", set))
	}
	return nil
}

// String returns a short description such as "update_pools(+3 -1)".
func (m ExecuteMsg) String() string {
	added, removed := m.Counts()
	name := "unknown"
	switch m.Section() {
	case ans.SectionAssets:
		name = "update_asset_addresses"
	case ans.SectionContracts:
		name = "update_contract_addresses"
	case ans.SectionChannels:
		name = "update_channels"
	case ans.SectionDexes:
		name = "update_dexes"
	case ans.SectionPools:
		name = "update_pools"
	}
	return fmt.Sprintf("%s(+%d -%d)", name, added, removed)
}
