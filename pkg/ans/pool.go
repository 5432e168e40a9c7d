package ans

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/reconcile"
)

// PoolType is the AMM curve of a pool.
type PoolType string

// String returns the string representation of a PoolType.
func (t PoolType) String() string {
	return string(t)
}

// Pool types, spelled as the ANS host contract expects them.
const (
	PoolTypeConstantProduct       PoolType = "constant_product"
	PoolTypeStable                PoolType = "stable"
	PoolTypeWeighted              PoolType = "weighted"
	PoolTypeLiquidityBootstrap    PoolType = "liquidity_bootstrap"
	PoolTypeConcentratedLiquidity PoolType = "concentrated_liquidity"
)

var poolTypeAliases = map[string]PoolType{
	"constant_product":       PoolTypeConstantProduct,
	"constantproduct":        PoolTypeConstantProduct,
	"stable":                 PoolTypeStable,
	"weighted":               PoolTypeWeighted,
	"liquidity_bootstrap":    PoolTypeLiquidityBootstrap,
	"liquiditybootstrap":     PoolTypeLiquidityBootstrap,
	"concentrated_liquidity": PoolTypeConcentratedLiquidity,
	"concentratedliquidity":  PoolTypeConcentratedLiquidity,
}

// ParsePoolType accepts both snake_case (constant_product) and PascalCase
// (ConstantProduct) spellings.
func ParsePoolType(s string) (PoolType, error) {
	if t, ok := poolTypeAliases[strings.ToLower(s)]; ok {
		return t, nil
	}
	return "", errors.NewValidationError("pool_type", s, "unknown pool type")
}

// UnmarshalJSON normalizes the pool type spelling.
func (t *PoolType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePoolType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML normalizes the pool type spelling.
func (t *PoolType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParsePoolType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UniquePoolID is the id the ANS host assigns to a registered pool. Pool
// removals are addressed by it.
type UniquePoolID uint64

// PoolAddressKind identifies how a pool is addressed.
type PoolAddressKind string

// Pool address kinds.
const (
	PoolAddressContract          PoolAddressKind = "contract"           // a single pool contract
	PoolAddressID                PoolAddressKind = "id"                 // a numeric pool id (osmosis style)
	PoolAddressSeparateAddresses PoolAddressKind = "separate_addresses" // distinct swap and liquidity contracts
)

// PoolAddress locates a pool on its dex. It is comparable so it can key a
// mapping; only the fields of its Kind are set.
type PoolAddress struct {
	Kind      PoolAddressKind
	Contract  string
	ID        uint64
	Swap      string
	Liquidity string
}

// ContractPool addresses a pool by its contract.
func ContractPool(addr string) PoolAddress {
	return PoolAddress{Kind: PoolAddressContract, Contract: addr}
}

// IDPool addresses a pool by numeric id.
func IDPool(id uint64) PoolAddress {
	return PoolAddress{Kind: PoolAddressID, ID: id}
}

// SeparatePool addresses a pool by its swap and liquidity contracts.
func SeparatePool(swap, liquidity string) PoolAddress {
	return PoolAddress{Kind: PoolAddressSeparateAddresses, Swap: swap, Liquidity: liquidity}
}

// String returns a short human-readable form.
func (p PoolAddress) String() string {
	switch p.Kind {
	case PoolAddressContract:
		return "contract:" + p.Contract
	case PoolAddressID:
		return fmt.Sprintf("id:%d", p.ID)
	case PoolAddressSeparateAddresses:
		return fmt.Sprintf("separate:%s/%s", p.Swap, p.Liquidity)
	default:
		return "unknown"
	}
}

// Validate checks that the fields of the address kind are set.
func (p PoolAddress) Validate() error {
	switch p.Kind {
	case PoolAddressContract:
		if p.Contract == "" {
			return errors.NewValidationError("contract", p, "pool contract must not be empty")
		}
	case PoolAddressID:
	case PoolAddressSeparateAddresses:
		if p.Swap == "" || p.Liquidity == "" {
			return errors.NewValidationError("separate_addresses", p, "swap and liquidity addresses are required")
		}
	default:
		return errors.NewValidationError("pool_address", p, "expected one of contract, id, separate_addresses")
	}
	return nil
}

// ComparePoolAddress orders pool addresses by kind, then by their fields.
func ComparePoolAddress(a, b PoolAddress) int {
	return cmp.Or(
		strings.Compare(string(a.Kind), string(b.Kind)),
		strings.Compare(a.Contract, b.Contract),
		cmp.Compare(a.ID, b.ID),
		strings.Compare(a.Swap, b.Swap),
		strings.Compare(a.Liquidity, b.Liquidity),
	)
}

type separateAddresses struct {
	Swap      string `json:"swap" yaml:"swap"`
	Liquidity string `json:"liquidity" yaml:"liquidity"`
}

// poolAddressWire is the UncheckedPoolAddress shape: {"contract":"..."},
// {"id":1} or {"separate_addresses":{"swap":"...","liquidity":"..."}}.
type poolAddressWire struct {
	Contract          *string            `json:"contract,omitempty" yaml:"contract,omitempty"`
	ID                *uint64            `json:"id,omitempty" yaml:"id,omitempty"`
	SeparateAddresses *separateAddresses `json:"separate_addresses,omitempty" yaml:"separate_addresses,omitempty"`
}

func (p PoolAddress) wire() poolAddressWire {
	switch p.Kind {
	case PoolAddressID:
		id := p.ID
		return poolAddressWire{ID: &id}
	case PoolAddressSeparateAddresses:
		return poolAddressWire{SeparateAddresses: &separateAddresses{Swap: p.Swap, Liquidity: p.Liquidity}}
	default:
		addr := p.Contract
		return poolAddressWire{Contract: &addr}
	}
}

func (w poolAddressWire) address() (PoolAddress, error) {
	switch {
	case w.Contract != nil:
		return ContractPool(*w.Contract), nil
	case w.ID != nil:
		return IDPool(*w.ID), nil
	case w.SeparateAddresses != nil:
		return SeparatePool(w.SeparateAddresses.Swap, w.SeparateAddresses.Liquidity), nil
	default:
		return PoolAddress{}, errors.NewValidationError("pool_address", nil, "expected one of contract, id, separate_addresses")
	}
}

// MarshalJSON encodes the address in its on-chain form.
func (p PoolAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// UnmarshalJSON decodes the on-chain form.
func (p *PoolAddress) UnmarshalJSON(data []byte) error {
	var w poolAddressWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	addr, err := w.address()
	if err != nil {
		return err
	}
	*p = addr
	return nil
}

// MarshalYAML encodes the address in its on-chain form.
func (p PoolAddress) MarshalYAML() (any, error) {
	return p.wire(), nil
}

// UnmarshalYAML decodes the on-chain form.
func (p *PoolAddress) UnmarshalYAML(unmarshal func(any) error) error {
	var w poolAddressWire
	if err := unmarshal(&w); err != nil {
		return err
	}
	addr, err := w.address()
	if err != nil {
		return err
	}
	*p = addr
	return nil
}

// PoolMetadata describes a pool. Asset order carries no meaning: two
// metadata values listing the same assets in a different order are equal.
type PoolMetadata struct {
	Dex      string   `json:"dex" yaml:"dex"`             // Dex name
	PoolType PoolType `json:"pool_type" yaml:"pool_type"` // Pool curve
	Assets   []string `json:"assets" yaml:"assets"`       // ANS asset names
}

// sortedPool has PoolMetadata's fields without its Canonical method.
type sortedPool PoolMetadata

// Canonical implements reconcile.Canonical. Assets are sorted so a scraped
// pool listing its assets in another order does not produce a diff; the
// sorted metadata is then encoded like any other value.
func (m PoolMetadata) Canonical() string {
	m.Assets = slices.Sorted(slices.Values(m.Assets))
	return reconcile.Canonicalize(sortedPool(m))
}

// Validate checks the metadata fields.
func (m PoolMetadata) Validate() error {
	if m.Dex == "" {
		return errors.NewValidationError("dex", m, "pool dex must not be empty")
	}
	if _, err := ParsePoolType(string(m.PoolType)); err != nil {
		return err
	}
	if len(m.Assets) < 2 {
		return errors.NewValidationError("assets", m.Assets, "a pool needs at least two assets")
	}
	return nil
}

// PoolName returns the LP token style name of the pool, dex/asset,asset.
func (m PoolMetadata) PoolName() string {
	return LPTokenName(m.Dex, m.Assets)
}
