// Package file provides a registry.Registry persisted as a YAML inventory
// file. It stands in for an ANS host when rehearsing a sync locally: the
// file is read on every Snapshot and rewritten after every accepted message.
package file

import (
	"context"
	"io/fs"
	"sync"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/inventory"
	"github.com/agentstation/ansync/pkg/registry"
)

// Registry stores registry data for one chain in a file.
type Registry struct {
	mu      sync.Mutex
	path    string
	chainID string
}

var _ registry.Registry = (*Registry)(nil)

// New returns a registry for chainID stored at path. The file does not
// need to exist yet.
func New(path, chainID string) *Registry {
	return &Registry{path: path, chainID: chainID}
}

// Path returns the state file location.
func (r *Registry) Path() string {
	return r.path
}

// Snapshot implements registry.Reader. A missing file reads as an empty
// registry.
func (r *Registry) Snapshot(ctx context.Context) (*ans.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Submit implements registry.Submitter.
func (r *Registry) Submit(ctx context.Context, msg registry.ExecuteMsg) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.load()
	if err != nil {
		return err
	}
	if err := registry.ApplyMsg(d, msg); err != nil {
		return err
	}
	return inventory.Save(r.path, d)
}

func (r *Registry) load() (*ans.Data, error) {
	d, err := inventory.Load(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ans.NewData(r.chainID), nil
	}
	if err != nil {
		return nil, err
	}
	switch d.ChainID {
	case "":
		d.ChainID = r.chainID
	case r.chainID:
	default:
		return nil, errors.NewValidationError("chain_id", d.ChainID, "state file "+r.path+" belongs to another chain")
	}
	return d, nil
}
