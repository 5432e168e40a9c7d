// Package ans defines the entries of an Abstract Name Service (ANS) host
// registry and how each registry section is reconciled.
package ans

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/ansync/pkg/errors"
)

// AssetKind identifies how an asset is held on chain.
type AssetKind string

// String returns the string representation of an AssetKind.
func (k AssetKind) String() string {
	return string(k)
}

// Asset kinds.
const (
	AssetKindNative AssetKind = "native" // bank module denom
	AssetKindCW20   AssetKind = "cw20"   // cw20 token contract
	AssetKindCW1155 AssetKind = "cw1155" // cw1155 contract plus token id
)

// AssetInfo locates an asset on chain. It is comparable and has a single
// canonical form, kind:address[:token_id].
type AssetInfo struct {
	Kind    AssetKind `json:"kind" yaml:"kind"`                             // Asset kind
	Address string    `json:"address" yaml:"address"`                       // Denom for native assets, contract address otherwise
	TokenID string    `json:"token_id,omitempty" yaml:"token_id,omitempty"` // Token id, cw1155 only
}

// NativeAsset returns the AssetInfo of a native denom.
func NativeAsset(denom string) AssetInfo {
	return AssetInfo{Kind: AssetKindNative, Address: denom}
}

// CW20Asset returns the AssetInfo of a cw20 token contract.
func CW20Asset(addr string) AssetInfo {
	return AssetInfo{Kind: AssetKindCW20, Address: addr}
}

// CW1155Asset returns the AssetInfo of a cw1155 token.
func CW1155Asset(addr, tokenID string) AssetInfo {
	return AssetInfo{Kind: AssetKindCW1155, Address: addr, TokenID: tokenID}
}

// cw20AddressLen is the length of a classic 20-byte bech32 contract address.
const cw20AddressLen = 44

// InferAssetInfo guesses the asset kind from a bare address. IBC denoms and
// anything that does not look like a contract address are native.
func InferAssetInfo(addr string) AssetInfo {
	if strings.HasPrefix(addr, "ibc/") {
		return NativeAsset(addr)
	}
	if len(addr) == cw20AddressLen {
		return CW20Asset(addr)
	}
	return NativeAsset(addr)
}

// ParseAssetInfo parses the kind:address[:token_id] form produced by String.
func ParseAssetInfo(s string) (AssetInfo, error) {
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return AssetInfo{}, errors.NewValidationError("asset_info", s, "expected kind:address")
	}
	var info AssetInfo
	switch AssetKind(kind) {
	case AssetKindNative, AssetKindCW20:
		info = AssetInfo{Kind: AssetKind(kind), Address: rest}
	case AssetKindCW1155:
		addr, id, ok := strings.Cut(rest, ":")
		if !ok {
			return AssetInfo{}, errors.NewValidationError("asset_info", s, "cw1155 asset needs address:token_id")
		}
		info = CW1155Asset(addr, id)
	default:
		return AssetInfo{}, errors.NewValidationError("asset_info", s, fmt.Sprintf("unknown asset kind %q", kind))
	}
	return info, info.Validate()
}

// Validate checks that the asset info is complete.
func (a AssetInfo) Validate() error {
	switch a.Kind {
	case AssetKindNative, AssetKindCW20:
	case AssetKindCW1155:
		if a.TokenID == "" {
			return errors.NewValidationError("token_id", a, "cw1155 asset requires a token id")
		}
	default:
		return errors.NewValidationError("kind", a.Kind, "unknown asset kind")
	}
	if a.Address == "" {
		return errors.NewValidationError("address", a, "asset address must not be empty")
	}
	return nil
}

// String returns kind:address[:token_id].
func (a AssetInfo) String() string {
	if a.Kind == AssetKindCW1155 {
		return fmt.Sprintf("%s:%s:%s", a.Kind, a.Address, a.TokenID)
	}
	return fmt.Sprintf("%s:%s", a.Kind, a.Address)
}

// Canonical implements reconcile.Canonical.
func (a AssetInfo) Canonical() string {
	return a.String()
}

// assetInfoWire is the cw-asset AssetInfoUnchecked shape:
// {"native":"ujuno"}, {"cw20":"juno1..."} or {"cw1155":["juno1...","1"]}.
type assetInfoWire struct {
	Native *string   `json:"native,omitempty" yaml:"native,omitempty"`
	CW20   *string   `json:"cw20,omitempty" yaml:"cw20,omitempty"`
	CW1155 *[]string `json:"cw1155,omitempty" yaml:"cw1155,omitempty"`
}

func (a AssetInfo) wire() assetInfoWire {
	addr := a.Address
	switch a.Kind {
	case AssetKindCW20:
		return assetInfoWire{CW20: &addr}
	case AssetKindCW1155:
		pair := []string{a.Address, a.TokenID}
		return assetInfoWire{CW1155: &pair}
	default:
		return assetInfoWire{Native: &addr}
	}
}

func (w assetInfoWire) info() (AssetInfo, error) {
	switch {
	case w.Native != nil:
		return NativeAsset(*w.Native), nil
	case w.CW20 != nil:
		return CW20Asset(*w.CW20), nil
	case w.CW1155 != nil:
		if len(*w.CW1155) != 2 {
			return AssetInfo{}, errors.NewValidationError("cw1155", *w.CW1155, "expected [address, token_id]")
		}
		return CW1155Asset((*w.CW1155)[0], (*w.CW1155)[1]), nil
	default:
		return AssetInfo{}, errors.NewValidationError("asset_info", nil, "expected one of native, cw20, cw1155")
	}
}

// MarshalJSON encodes the asset in its on-chain form.
func (a AssetInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.wire())
}

// UnmarshalJSON decodes the on-chain form.
func (a *AssetInfo) UnmarshalJSON(data []byte) error {
	var w assetInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	info, err := w.info()
	if err != nil {
		return err
	}
	*a = info
	return nil
}

// MarshalYAML encodes the asset in its on-chain form.
func (a AssetInfo) MarshalYAML() (any, error) {
	return a.wire(), nil
}

// UnmarshalYAML accepts the on-chain form or the kind:address string form.
func (a *AssetInfo) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok {
		info, err := ParseAssetInfo(s)
		if err != nil {
			return err
		}
		*a = info
		return nil
	}

	var w assetInfoWire
	if err := unmarshal(&w); err != nil {
		return err
	}
	info, err := w.info()
	if err != nil {
		return err
	}
	*a = info
	return nil
}
