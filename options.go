package ansync

import (
	"time"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/inventory"
	"github.com/agentstation/ansync/pkg/registry"
)

// Option is a function that configures a Client.
type Option func(*options) error

// Recorder receives plan and sync outcomes, typically for metrics.
type Recorder interface {
	RecordPlan(chainID string, diff *ans.DataDiff, current *ans.Data)
	RecordSync(chainID string, applied int, took time.Duration, err error)
}

type options struct {
	source       inventory.Source
	reader       registry.Reader
	submitter    registry.Submitter
	chunkSizes   registry.ChunkSizes
	syncInterval time.Duration
	autoSync     bool
	autoSyncOpts []SyncOption
	recorder     Recorder
}

func defaults() *options {
	return &options{
		chunkSizes:   registry.DefaultChunkSizes(),
		syncInterval: constants.DefaultSyncInterval,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSource configures where the desired registry content comes from.
func WithSource(src inventory.Source) Option {
	return func(o *options) error {
		o.source = src
		return nil
	}
}

// WithRegistry configures the registry that is read, and written unless
// WithSubmitter is also given.
func WithRegistry(r registry.Reader) Option {
	return func(o *options) error {
		o.reader = r
		return nil
	}
}

// WithSubmitter configures where execute messages are sent.
func WithSubmitter(s registry.Submitter) Option {
	return func(o *options) error {
		o.submitter = s
		return nil
	}
}

// WithChunkSizes configures the number of entries per execute message.
func WithChunkSizes(sizes registry.ChunkSizes) Option {
	return func(o *options) error {
		o.chunkSizes = sizes
		return nil
	}
}

// WithSyncInterval configures how often AutoSyncOn runs a sync.
func WithSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return &errors.ValidationError{
				Field:   "syncInterval",
				Value:   interval,
				Message: "sync interval must be positive",
			}
		}
		o.syncInterval = interval
		return nil
	}
}

// WithAutoSync configures whether periodic syncs start with the client.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSync = enabled
		return nil
	}
}

// WithAutoSyncOptions configures the options every periodic sync runs with.
func WithAutoSyncOptions(opts ...SyncOption) Option {
	return func(o *options) error {
		o.autoSyncOpts = opts
		return nil
	}
}

// WithMetrics configures a recorder for plan and sync outcomes.
func WithMetrics(r Recorder) Option {
	return func(o *options) error {
		o.recorder = r
		return nil
	}
}
