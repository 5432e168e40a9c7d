package registry

import (
	"context"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// Edit rewrites registry data in place.
type Edit func(d *ans.Data) error

// EditSource supplies a registry's current content with an edit applied.
// Used as a sync client's source, it turns a bulk change to the registry
// into an ordinary plan.
type EditSource struct {
	Reader Reader
	Edit   Edit
}

// NewEditSource returns a source editing what r holds.
func NewEditSource(r Reader, edit Edit) *EditSource {
	return &EditSource{Reader: r, Edit: edit}
}

// Desired reads a snapshot and applies the edit to it.
func (s *EditSource) Desired(ctx context.Context) (*ans.Data, error) {
	d, err := s.Reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Edit(d); err != nil {
		return nil, err
	}
	d.Supplied = nil
	return d, nil
}

// Purge empties the given sections.
func Purge(sections ...ans.Section) Edit {
	return func(d *ans.Data) error {
		if len(sections) == 0 {
			return errors.NewValidationError("section", nil, "name the sections to purge")
		}
		for _, s := range sections {
			if _, err := ans.ParseSection(s.String()); err != nil {
				return err
			}
			d.Clear(s)
		}
		return nil
	}
}

// RenameDex moves every pool of dex from to dex to and registers to. Pools
// cannot be changed in place, so each moved pool is removed and registered
// again under a new unique id. from stays registered as a dex.
func RenameDex(from, to string) Edit {
	return func(d *ans.Data) error {
		switch {
		case from == "" || to == "":
			return errors.NewValidationError("dex", from+" -> "+to, "both dex names are required")
		case from == to:
			return errors.NewValidationError("dex", to, "the new dex name must differ from the old one")
		}

		moved := 0
		for addr, meta := range d.Pools {
			if meta.Dex != from {
				continue
			}
			meta.Dex = to
			d.Pools[addr] = meta
			moved++
		}
		if moved == 0 {
			return errors.NewNotFoundError("pools of dex", from)
		}
		d.Dexes[to] = struct{}{}
		return nil
	}
}
