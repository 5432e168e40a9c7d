// Package ansync keeps an Abstract Name Service (ANS) host in line with its
// inventory. It reads the desired registry content from a Source and the
// current content from a registry, reconciles every section with that
// section's stale policy, and submits the resulting execute messages in
// chunks.
//
// Example usage:
//
//	client, err := ansync.New(
//	    ansync.WithSource(inventory.NewPathSource("./out", "juno-1")),
//	    ansync.WithRegistry(lcd.New("juno-1", lcdURL, ansHost)),
//	    ansync.WithSubmitter(registry.NewExporter(os.Stdout, "juno-1", ansHost)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Inspect what would change
//	plan, err := client.Plan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(plan)
//
//	// Apply it
//	result, err := client.Sync(ctx, ansync.WithSections(ans.SectionPools))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package ansync

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/inventory"
	"github.com/agentstation/ansync/pkg/registry"
)

// Client reconciles one chain's ANS host against its inventory.
type Client interface {

	// Planner computes what a sync would change
	Planner

	// Syncer applies plans to the registry
	Syncer

	// AutoSyncer provides access to periodic sync controls
	AutoSyncer

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// runMu serializes plan/apply runs; submission order matters on chain
	runMu sync.Mutex

	// last result, guarded by mu
	mu   sync.RWMutex
	last *Result

	// auto sync state
	ticker     *time.Ticker
	stopCh     chan struct{}
	syncCancel context.CancelFunc
	hooks      *hooks
}

// New creates a new Client with the given options. A source and a registry
// are required. The registry also receives the messages unless a separate
// submitter is configured; without either, Sync only works as a dry run.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.source == nil {
		return nil, errors.NewConfigError("client", "a source is required", nil)
	}
	if o.reader == nil {
		return nil, errors.NewConfigError("client", "a registry is required", nil)
	}
	if o.submitter == nil {
		// A read-only registry can still be planned against.
		if sub, ok := o.reader.(registry.Submitter); ok {
			o.submitter = sub
		}
	}

	c := &client{
		options: o,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	if o.autoSync {
		if err := c.AutoSyncOn(); err != nil {
			return nil, errors.WrapResource("start", "auto-sync", "", err)
		}
	}
	return c, nil
}

// LastResult returns the result of the most recent sync run, or nil.
func (c *client) LastResult() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *client) setLast(r *Result) {
	c.mu.Lock()
	c.last = r
	c.mu.Unlock()
}

// source returns the configured inventory source.
func (c *client) source() inventory.Source {
	return c.options.source
}
