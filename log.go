package ansync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/logging"
	"github.com/agentstation/ansync/pkg/reconcile"
)

// logDiff logs a summary per changed section, and every changed entry at
// debug level.
func logDiff(ctx context.Context, diff *ans.DataDiff) {
	log := logging.Ctx(ctx)
	if diff.IsEmpty() {
		log.Info().Msg("No changes detected")
		return
	}

	logChangeset(log, ans.SectionAssets, diff.Assets)
	logChangeset(log, ans.SectionContracts, diff.Contracts)
	logChangeset(log, ans.SectionChannels, diff.Channels)
	logChangeset(log, ans.SectionDexes, diff.Dexes)
	logChangeset(log, ans.SectionPools, diff.Pools)
}

func logChangeset[K comparable, V any](log *zerolog.Logger, section ans.Section, cs *reconcile.Changeset[K, V]) {
	if cs.IsEmpty() {
		return
	}
	s := cs.Summary()
	log.Info().
		Str("section", section.String()).
		Int("added", s.Added).
		Int("updated", s.Updated).
		Int("removed", s.Removed).
		Msg("Changes detected")

	if log.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	cs.Removals.Each(func(k K) bool {
		if !cs.Updated.Contains(k) {
			log.Debug().Str("section", section.String()).Str("key", fmt.Sprint(k)).Msg("Stale entry")
		}
		return false
	})
	for k, v := range cs.Additions {
		msg := "New entry"
		if cs.Updated.Contains(k) {
			msg = "Changed entry"
		}
		log.Debug().
			Str("section", section.String()).
			Str("key", fmt.Sprint(k)).
			Str("value", reconcile.Canonicalize(v)).
			Msg(msg)
	}
}
