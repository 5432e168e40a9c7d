package registry

import (
	"fmt"
	"strings"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/reconcile"
)

// BuildBatches converts a diff into execute messages, section by section in
// ans.AllSections order.
//
// Within a section all removals are queued before all additions and the
// queue is cut into messages of at most the section's chunk size. A key
// that is both removed and re-added is therefore never re-added in an
// earlier message than the one removing it.
//
// Pool removals are addressed by unique id, looked up in current.PoolIDs.
func BuildBatches(diff *ans.DataDiff, current *ans.Data, sizes ChunkSizes) ([]ExecuteMsg, error) {
	var msgs []ExecuteMsg

	msgs = append(msgs, assetBatches(diff.Assets, sizes.For(ans.SectionAssets))...)
	msgs = append(msgs, contractBatches(diff.Contracts, sizes.For(ans.SectionContracts))...)
	msgs = append(msgs, channelBatches(diff.Channels, sizes.For(ans.SectionChannels))...)
	msgs = append(msgs, dexBatches(diff.Dexes, sizes.For(ans.SectionDexes))...)

	pools, err := poolBatches(diff.Pools, current, sizes.For(ans.SectionPools))
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, pools...)

	return msgs, nil
}

// chunk cuts removals followed by additions into windows of at most size
// entries and calls emit with the removals and additions of each window.
func chunk[R, A any](removals []R, additions []A, size int, emit func(rem []R, add []A)) {
	total := len(removals) + len(additions)
	for start := 0; start < total; start += size {
		end := min(start+size, total)

		var rem []R
		if start < len(removals) {
			rem = removals[start:min(end, len(removals))]
		}
		var add []A
		if end > len(removals) {
			add = additions[max(start-len(removals), 0) : end-len(removals)]
		}
		emit(nonNil(rem), nonNil(add))
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func assetBatches(cs *reconcile.Changeset[string, ans.AssetInfo], size int) []ExecuteMsg {
	removals := cs.SortedRemovals(strings.Compare)
	var additions []Pair[string, ans.AssetInfo]
	for _, name := range cs.SortedAdditions(strings.Compare) {
		additions = append(additions, Pair[string, ans.AssetInfo]{Key: name, Value: cs.Additions[name]})
	}

	var msgs []ExecuteMsg
	chunk(removals, additions, size, func(rem []string, add []Pair[string, ans.AssetInfo]) {
		msgs = append(msgs, ExecuteMsg{UpdateAssetAddresses: &UpdateAssets{ToAdd: add, ToRemove: rem}})
	})
	return msgs
}

func contractBatches(cs *reconcile.Changeset[ans.ContractEntry, string], size int) []ExecuteMsg {
	removals := cs.SortedRemovals(ans.CompareContractEntry)
	var additions []Pair[ans.ContractEntry, string]
	for _, key := range cs.SortedAdditions(ans.CompareContractEntry) {
		additions = append(additions, Pair[ans.ContractEntry, string]{Key: key, Value: cs.Additions[key]})
	}

	var msgs []ExecuteMsg
	chunk(removals, additions, size, func(rem []ans.ContractEntry, add []Pair[ans.ContractEntry, string]) {
		msgs = append(msgs, ExecuteMsg{UpdateContractAddresses: &UpdateContracts{ToAdd: add, ToRemove: rem}})
	})
	return msgs
}

func channelBatches(cs *reconcile.Changeset[ans.ChannelEntry, string], size int) []ExecuteMsg {
	removals := cs.SortedRemovals(ans.CompareChannelEntry)
	var additions []Pair[ans.ChannelEntry, string]
	for _, key := range cs.SortedAdditions(ans.CompareChannelEntry) {
		additions = append(additions, Pair[ans.ChannelEntry, string]{Key: key, Value: cs.Additions[key]})
	}

	var msgs []ExecuteMsg
	chunk(removals, additions, size, func(rem []ans.ChannelEntry, add []Pair[ans.ChannelEntry, string]) {
		msgs = append(msgs, ExecuteMsg{UpdateChannels: &UpdateChannels{ToAdd: add, ToRemove: rem}})
	})
	return msgs
}

func dexBatches(cs *reconcile.Changeset[string, struct{}], size int) []ExecuteMsg {
	removals := cs.SortedRemovals(strings.Compare)
	additions := cs.SortedAdditions(strings.Compare)

	var msgs []ExecuteMsg
	chunk(removals, additions, size, func(rem, add []string) {
		msgs = append(msgs, ExecuteMsg{UpdateDexes: &UpdateDexes{ToAdd: add, ToRemove: rem}})
	})
	return msgs
}

func poolBatches(cs *reconcile.Changeset[ans.PoolAddress, ans.PoolMetadata], current *ans.Data, size int) ([]ExecuteMsg, error) {
	var removals []ans.UniquePoolID
	for _, addr := range cs.SortedRemovals(ans.ComparePoolAddress) {
		id, ok := current.PoolIDs[addr]
		if !ok {
			return nil, errors.NewValidationError("pools", addr.String(), fmt.Sprintf("no unique pool id known for %s", addr))
		}
		removals = append(removals, id)
	}

	var additions []Pair[ans.PoolAddress, ans.PoolMetadata]
	for _, addr := range cs.SortedAdditions(ans.ComparePoolAddress) {
		additions = append(additions, Pair[ans.PoolAddress, ans.PoolMetadata]{Key: addr, Value: cs.Additions[addr]})
	}

	var msgs []ExecuteMsg
	chunk(removals, additions, size, func(rem []ans.UniquePoolID, add []Pair[ans.PoolAddress, ans.PoolMetadata]) {
		msgs = append(msgs, ExecuteMsg{UpdatePools: &UpdatePools{ToAdd: add, ToRemove: rem}})
	})
	return msgs, nil
}
