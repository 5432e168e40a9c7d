// Package memory provides an in-process registry.Registry. It applies
// execute messages the way the ANS host does and records every message it
// accepts, which makes it the reference backend for tests and dry runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/registry"
)

// Registry holds registry data in memory. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	data     *ans.Data
	messages []registry.ExecuteMsg
}

var _ registry.Registry = (*Registry)(nil)

// New returns an empty registry for chainID.
func New(chainID string) *Registry {
	return &Registry{data: ans.NewData(chainID)}
}

// NewFromData returns a registry seeded with a copy of d.
func NewFromData(d *ans.Data) *Registry {
	return &Registry{data: d.Clone()}
}

// Snapshot implements registry.Reader.
func (r *Registry) Snapshot(ctx context.Context) (*ans.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.Clone(), nil
}

// Submit implements registry.Submitter. A message that fails leaves the
// registry unchanged.
func (r *Registry) Submit(ctx context.Context, msg registry.ExecuteMsg) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.data.Clone()
	if err := registry.ApplyMsg(next, msg); err != nil {
		return err
	}
	r.data = next
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns the messages accepted so far.
func (r *Registry) Messages() []registry.ExecuteMsg {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.messages)
}

// Reset drops the recorded messages.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
