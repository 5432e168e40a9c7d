package registry

import (
	"context"
	"fmt"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
)

// Apply submits msgs in order and stops at the first failure. It returns the
// number of messages accepted. Messages are never submitted concurrently:
// on chain they consume consecutive account sequence numbers.
//
// A failure is reported as an *errors.SyncError naming the failed batch;
// batches before it stay applied.
func Apply(ctx context.Context, s Submitter, chainID string, msgs []ExecuteMsg) (int, error) {
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return i, errors.NewSyncError(chainID, msg.Section().String(), i, i, err)
		}

		msgCtx := logging.WithBatch(logging.WithSection(ctx, msg.Section().String()), i)
		added, removed := msg.Counts()
		logging.Ctx(msgCtx).Debug().
			Int("to_add", added).
			Int("to_remove", removed).
			Msg("Submitting registry update")

		if err := s.Submit(msgCtx, msg); err != nil {
			return i, errors.NewSyncError(chainID, msg.Section().String(), i, i, err)
		}
	}
	return len(msgs), nil
}

// ApplyMsg applies one execute message to d the way the ANS host does:
// removals first, then additions. Removing an absent entry is a no-op.
// New pools get the next unique id; registering an address that is already
// registered fails with errors.ErrAlreadyExists.
func ApplyMsg(d *ans.Data, msg ExecuteMsg) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	switch {
	case msg.UpdateAssetAddresses != nil:
		u := msg.UpdateAssetAddresses
		for _, name := range u.ToRemove {
			delete(d.Assets, name)
		}
		for _, p := range u.ToAdd {
			d.Assets[p.Key] = p.Value
		}

	case msg.UpdateContractAddresses != nil:
		u := msg.UpdateContractAddresses
		for _, key := range u.ToRemove {
			delete(d.Contracts, key)
		}
		for _, p := range u.ToAdd {
			d.Contracts[p.Key] = p.Value
		}

	case msg.UpdateChannels != nil:
		u := msg.UpdateChannels
		for _, key := range u.ToRemove {
			delete(d.Channels, key)
		}
		for _, p := range u.ToAdd {
			d.Channels[p.Key] = p.Value
		}

	case msg.UpdateDexes != nil:
		u := msg.UpdateDexes
		for _, name := range u.ToRemove {
			delete(d.Dexes, name)
		}
		for _, name := range u.ToAdd {
			d.Dexes[name] = struct{}{}
		}

	case msg.UpdatePools != nil:
		u := msg.UpdatePools
		for _, id := range u.ToRemove {
			if addr, ok := d.PoolByID(id); ok {
				delete(d.Pools, addr)
				delete(d.PoolIDs, addr)
			}
		}
		for _, p := range u.ToAdd {
			if _, exists := d.Pools[p.Key]; exists {
				return fmt.Errorf("pool %s: %w", p.Key, errors.ErrAlreadyExists)
			}
			d.Pools[p.Key] = p.Value
			d.PoolIDs[p.Key] = d.NextPoolID()
		}
	}
	return nil
}
