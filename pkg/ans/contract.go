package ans

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/agentstation/ansync/pkg/errors"
)

// ContractEntry names a contract registered by a protocol, for example
// {Protocol: "wyndex", Contract: "staking/wyndex/juno>juno,juno>wynd"}.
type ContractEntry struct {
	Protocol string `json:"protocol" yaml:"protocol"` // Registering protocol
	Contract string `json:"contract" yaml:"contract"` // Contract name within the protocol
}

// String returns protocol:contract.
func (c ContractEntry) String() string {
	return fmt.Sprintf("%s:%s", c.Protocol, c.Contract)
}

// Validate checks that both parts of the entry are set.
func (c ContractEntry) Validate() error {
	if c.Protocol == "" {
		return errors.NewValidationError("protocol", c, "contract protocol must not be empty")
	}
	if c.Contract == "" {
		return errors.NewValidationError("contract", c, "contract name must not be empty")
	}
	return nil
}

// CompareContractEntry orders contract entries by protocol, then contract.
func CompareContractEntry(a, b ContractEntry) int {
	return cmp.Or(
		strings.Compare(a.Protocol, b.Protocol),
		strings.Compare(a.Contract, b.Contract),
	)
}

// ChannelEntry names an IBC channel to a connected chain used by a protocol.
type ChannelEntry struct {
	ConnectedChain string `json:"connected_chain" yaml:"connected_chain"` // Counterparty chain name
	Protocol       string `json:"protocol" yaml:"protocol"`               // Channel protocol, e.g. ics20
}

// String returns connected_chain/protocol.
func (c ChannelEntry) String() string {
	return fmt.Sprintf("%s/%s", c.ConnectedChain, c.Protocol)
}

// Validate checks that both parts of the entry are set.
func (c ChannelEntry) Validate() error {
	if c.ConnectedChain == "" {
		return errors.NewValidationError("connected_chain", c, "connected chain must not be empty")
	}
	if c.Protocol == "" {
		return errors.NewValidationError("protocol", c, "channel protocol must not be empty")
	}
	return nil
}

// CompareChannelEntry orders channel entries by chain, then protocol.
func CompareChannelEntry(a, b ChannelEntry) int {
	return cmp.Or(
		strings.Compare(a.ConnectedChain, b.ConnectedChain),
		strings.Compare(a.Protocol, b.Protocol),
	)
}
