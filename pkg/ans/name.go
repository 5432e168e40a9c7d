package ans

import (
	"slices"
	"strings"
)

// IBCAssetName returns the ANS name of an asset native to chainName, for
// example juno>ujuno. Testnet suffixes are dropped from the chain name.
func IBCAssetName(chainName, asset string) string {
	chain := strings.ReplaceAll(strings.ToLower(chainName), "testnet", "")
	return chain + ">" + asset
}

// JoinAssetNames lowercases and sorts asset names and joins them with commas.
func JoinAssetNames(assets []string) string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = strings.ToLower(a)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

// LPTokenName returns the asset name of a pool's liquidity token,
// dex/asset_a,asset_b.
func LPTokenName(dex string, assets []string) string {
	return strings.ToLower(dex) + "/" + JoinAssetNames(assets)
}

// StakingContractName returns the contract name of a pool's staking
// contract, staking/provider/asset_a,asset_b.
func StakingContractName(provider string, assets []string) string {
	return strings.Join([]string{"staking", provider, JoinAssetNames(assets)}, "/")
}
