package lcd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/logging"
	"github.com/agentstation/ansync/pkg/registry"
)

// dexAssetPairing is the pool_list cursor: [asset_a, asset_b, dex].
type dexAssetPairing [3]string

// poolReference is one pool registered under a pairing.
type poolReference struct {
	UniqueID    ans.UniquePoolID `json:"unique_id"`
	PoolAddress ans.PoolAddress  `json:"pool_address"`
}

type poolRecord struct {
	id   ans.UniquePoolID
	meta ans.PoolMetadata
}

// pools reads pool metadata by unique id and resolves each id to its
// address through the pairing index. Both listings are read concurrently.
func (r *Registry) pools(ctx context.Context) (map[ans.PoolAddress]poolRecord, error) {
	var (
		metas    []registry.Pair[ans.UniquePoolID, ans.PoolMetadata]
		pairings []registry.Pair[dexAssetPairing, []poolReference]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metas, err = registry.Collect(registry.Pages(gctx, r.pageSize,
			list[ans.UniquePoolID, ans.UniquePoolID, ans.PoolMetadata](r, "pool_metadata_list", "metadatas"),
			pairKey[ans.UniquePoolID, ans.PoolMetadata]))
		return err
	})
	g.Go(func() (err error) {
		pairings, err = registry.Collect(registry.Pages(gctx, r.pageSize,
			list[dexAssetPairing, dexAssetPairing, []poolReference](r, "pool_list", "pools"),
			pairKey[dexAssetPairing, []poolReference]))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	addrs := make(map[ans.UniquePoolID]ans.PoolAddress)
	for _, p := range pairings {
		for _, ref := range p.Value {
			addrs[ref.UniqueID] = ref.PoolAddress
		}
	}

	out := make(map[ans.PoolAddress]poolRecord, len(metas))
	for _, m := range metas {
		addr, ok := addrs[m.Key]
		if !ok {
			logging.Ctx(ctx).Warn().
				Uint64("unique_id", uint64(m.Key)).
				Str("pool", m.Value.PoolName()).
				Msg("Pool metadata has no registered address, skipping")
			continue
		}
		out[addr] = poolRecord{id: m.Key, meta: m.Value}
	}
	return out, nil
}
