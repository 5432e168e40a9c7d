// Package registry reads the current content of an ANS host and writes
// updates to it.
//
// Reading goes through a Reader, which returns a full snapshot. Writing
// converts a reconciled ans.DataDiff into ExecuteMsg batches (BuildBatches)
// and hands them one by one to a Submitter (Apply). Backends live in the
// lcd, file and memory subpackages; Exporter writes messages for an
// external signer.
package registry

import (
	"context"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/constants"
)

// Reader snapshots the current registry content.
type Reader interface {
	Snapshot(ctx context.Context) (*ans.Data, error)
}

// Submitter delivers one execute message to the registry.
type Submitter interface {
	Submit(ctx context.Context, msg ExecuteMsg) error
}

// Registry is a backend that can be both read and written.
type Registry interface {
	Reader
	Submitter
}

// ChunkSizes bounds the number of entries in one execute message, per
// section. Zero or negative values fall back to the defaults.
type ChunkSizes struct {
	Assets    int `json:"assets" yaml:"assets" mapstructure:"assets"`
	Contracts int `json:"contracts" yaml:"contracts" mapstructure:"contracts"`
	Channels  int `json:"channels" yaml:"channels" mapstructure:"channels"`
	Dexes     int `json:"dexes" yaml:"dexes" mapstructure:"dexes"`
	Pools     int `json:"pools" yaml:"pools" mapstructure:"pools"`
}

// DefaultChunkSizes returns the chunk sizes the ANS host accepts without
// exceeding the block gas limit.
func DefaultChunkSizes() ChunkSizes {
	return ChunkSizes{
		Assets:    constants.DefaultAssetChunkSize,
		Contracts: constants.DefaultContractChunkSize,
		Channels:  constants.DefaultChannelChunkSize,
		Dexes:     constants.DefaultDexChunkSize,
		Pools:     constants.DefaultPoolChunkSize,
	}
}

// For returns the chunk size of a section.
func (c ChunkSizes) For(s ans.Section) int {
	def := DefaultChunkSizes()
	pick := func(v, fallback int) int {
		if v > 0 {
			return v
		}
		return fallback
	}
	switch s {
	case ans.SectionAssets:
		return pick(c.Assets, def.Assets)
	case ans.SectionContracts:
		return pick(c.Contracts, def.Contracts)
	case ans.SectionChannels:
		return pick(c.Channels, def.Channels)
	case ans.SectionDexes:
		return pick(c.Dexes, def.Dexes)
	case ans.SectionPools:
		return pick(c.Pools, def.Pools)
	default:
		return 1
	}
}
