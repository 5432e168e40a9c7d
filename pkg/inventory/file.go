// Package inventory reads and writes registry inventories: the desired
// content of an ANS host, one file per chain.
//
// An inventory file is YAML (or JSON, which parses as YAML):
//
//	chain_id: juno-1
//	assets:
//	  - name: juno>juno
//	    info: {native: ujuno}
//	  - name: juno>wynd
//	    info: cw20:juno1mkw83sv6c7sjdvsaplrzc8yaes9l42p4mhy0ssuxjnyzl87c9eps7ce3m9
//	contracts:
//	  - {protocol: wyndex, contract: factory, address: juno1...}
//	channels:
//	  - {connected_chain: osmosis, protocol: ics20, channel: channel-0}
//	dexes: [wyndex]
//	pools:
//	  - address: {contract: juno1...}
//	    metadata: {dex: wyndex, pool_type: constant_product, assets: [juno>juno, juno>wynd]}
//
// An inventory file describes the whole registry, so a section it omits is
// empty. The scraper output layout is partial: see LoadScrapeFS.
package inventory

import (
	"fmt"
	"slices"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// File is the serialized form of ans.Data.
type File struct {
	ChainID   string          `json:"chain_id" yaml:"chain_id"`
	Assets    []AssetEntry    `json:"assets,omitempty" yaml:"assets,omitempty"`
	Contracts []ContractEntry `json:"contracts,omitempty" yaml:"contracts,omitempty"`
	Channels  []ChannelEntry  `json:"channels,omitempty" yaml:"channels,omitempty"`
	Dexes     []string        `json:"dexes,omitempty" yaml:"dexes,omitempty"`
	Pools     []PoolEntry     `json:"pools,omitempty" yaml:"pools,omitempty"`
}

// AssetEntry is one asset registration.
type AssetEntry struct {
	Name string        `json:"name" yaml:"name"`
	Info ans.AssetInfo `json:"info" yaml:"info"`
}

// ContractEntry is one contract registration.
type ContractEntry struct {
	Protocol string `json:"protocol" yaml:"protocol"`
	Contract string `json:"contract" yaml:"contract"`
	Address  string `json:"address" yaml:"address"`
}

// ChannelEntry is one channel registration.
type ChannelEntry struct {
	ConnectedChain string `json:"connected_chain" yaml:"connected_chain"`
	Protocol       string `json:"protocol" yaml:"protocol"`
	Channel        string `json:"channel" yaml:"channel"`
}

// PoolEntry is one pool registration. UniqueID is only set in state files
// written from a registry snapshot.
type PoolEntry struct {
	Address  ans.PoolAddress   `json:"address" yaml:"address"`
	Metadata ans.PoolMetadata  `json:"metadata" yaml:"metadata"`
	UniqueID *ans.UniquePoolID `json:"unique_id,omitempty" yaml:"unique_id,omitempty"`
}

// FromData converts registry data to its serialized form. Entries are
// sorted so the output is stable.
func FromData(d *ans.Data) *File {
	f := &File{ChainID: d.ChainID}

	for _, name := range d.AssetNames() {
		f.Assets = append(f.Assets, AssetEntry{Name: name, Info: d.Assets[name]})
	}
	for _, key := range d.ContractEntries() {
		f.Contracts = append(f.Contracts, ContractEntry{Protocol: key.Protocol, Contract: key.Contract, Address: d.Contracts[key]})
	}
	for _, key := range d.ChannelEntries() {
		f.Channels = append(f.Channels, ChannelEntry{ConnectedChain: key.ConnectedChain, Protocol: key.Protocol, Channel: d.Channels[key]})
	}
	f.Dexes = d.DexNames()
	for _, addr := range d.PoolAddresses() {
		entry := PoolEntry{Address: addr, Metadata: d.Pools[addr]}
		if id, ok := d.PoolIDs[addr]; ok {
			entry.UniqueID = &id
		}
		f.Pools = append(f.Pools, entry)
	}
	return f
}

// Data validates the file and converts it to registry data. A key listed
// twice within a section is a validation error.
func (f *File) Data() (*ans.Data, error) {
	d := ans.NewData(f.ChainID)

	for i, a := range f.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		if a.Name == "" {
			return nil, errors.NewValidationError(field+".name", a, "asset name must not be empty")
		}
		if err := a.Info.Validate(); err != nil {
			return nil, errors.WrapValidation(field+".info", err)
		}
		if _, dup := d.Assets[a.Name]; dup {
			return nil, duplicate(field, a.Name)
		}
		d.Assets[a.Name] = a.Info
	}

	for i, c := range f.Contracts {
		field := fmt.Sprintf("contracts[%d]", i)
		key := ans.ContractEntry{Protocol: c.Protocol, Contract: c.Contract}
		if err := key.Validate(); err != nil {
			return nil, errors.WrapValidation(field, err)
		}
		if c.Address == "" {
			return nil, errors.NewValidationError(field+".address", c, "contract address must not be empty")
		}
		if _, dup := d.Contracts[key]; dup {
			return nil, duplicate(field, key.String())
		}
		d.Contracts[key] = c.Address
	}

	for i, c := range f.Channels {
		field := fmt.Sprintf("channels[%d]", i)
		key := ans.ChannelEntry{ConnectedChain: c.ConnectedChain, Protocol: c.Protocol}
		if err := key.Validate(); err != nil {
			return nil, errors.WrapValidation(field, err)
		}
		if c.Channel == "" {
			return nil, errors.NewValidationError(field+".channel", c, "channel id must not be empty")
		}
		if _, dup := d.Channels[key]; dup {
			return nil, duplicate(field, key.String())
		}
		d.Channels[key] = c.Channel
	}

	for i, name := range f.Dexes {
		field := fmt.Sprintf("dexes[%d]", i)
		if name == "" {
			return nil, errors.NewValidationError(field, name, "dex name must not be empty")
		}
		if _, dup := d.Dexes[name]; dup {
			return nil, duplicate(field, name)
		}
		d.Dexes[name] = struct{}{}
	}

	for i, p := range f.Pools {
		field := fmt.Sprintf("pools[%d]", i)
		if err := p.Address.Validate(); err != nil {
			return nil, errors.WrapValidation(field+".address", err)
		}
		if err := p.Metadata.Validate(); err != nil {
			return nil, errors.WrapValidation(field+".metadata", err)
		}
		if _, dup := d.Pools[p.Address]; dup {
			return nil, duplicate(field, p.Address.String())
		}
		meta := p.Metadata
		meta.Assets = slices.Clone(meta.Assets)
		d.Pools[p.Address] = meta
		if p.UniqueID != nil {
			d.PoolIDs[p.Address] = *p.UniqueID
		}
	}

	return d, nil
}

func duplicate(field, key string) error {
	return errors.NewValidationError(field, key, fmt.Sprintf("duplicate key %q", key))
}
