package ansync

import (
	"context"
	"time"

	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*client)(nil)

// AutoSyncer provides controls for periodic syncs.
type AutoSyncer interface {
	// AutoSyncOn begins periodic syncs at the configured interval
	AutoSyncOn() error

	// AutoSyncOff stops periodic syncs
	AutoSyncOff() error
}

// AutoSyncOn begins periodic syncs at the configured interval. Each run
// gets constants.SyncTimeout; a failed run is logged and the next tick
// tries again.
func (c *client) AutoSyncOn() error {
	if c.options.syncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "syncInterval",
			Value:   c.options.syncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any existing loop
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Recreate stopCh since it was closed in AutoSyncOff
	c.stopCh = make(chan struct{})
	c.ticker = time.NewTicker(c.options.syncInterval)

	ctx, cancel := context.WithCancel(context.Background())
	c.syncCancel = cancel

	go c.loop(ctx, c.ticker, c.stopCh)
	return nil
}

func (c *client) loop(parentCtx context.Context, ticker *time.Ticker, stopCh <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(parentCtx, constants.SyncTimeout)
			_, err := c.Sync(ctx, c.options.autoSyncOpts...)
			cancel()

			if err != nil {
				if parentCtx.Err() != nil {
					return
				}
				logging.Error().Err(err).Msg("Auto-sync failed")
			}
		case <-parentCtx.Done():
			return
		case <-stopCh:
			return
		}
	}
}

// AutoSyncOff stops periodic syncs. A run in progress is canceled.
func (c *client) AutoSyncOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.syncCancel != nil {
		c.syncCancel()
		c.syncCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
