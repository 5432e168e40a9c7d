package ansync

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
	"github.com/agentstation/ansync/pkg/registry"
	pkgsync "github.com/agentstation/ansync/pkg/sync"
)

type (
	// Plan is the diff between inventory and registry plus the messages
	// that apply it.
	Plan = pkgsync.Plan

	// Result represents the complete result of a sync run.
	Result = pkgsync.Result

	// SyncOption configures one Plan or Sync call.
	SyncOption = pkgsync.Option
)

// Sync options, re-exported from pkg/sync.
var (
	WithDryRun   = pkgsync.WithDryRun
	WithTimeout  = pkgsync.WithTimeout
	WithSections = pkgsync.WithSections
)

// Planner computes what a sync would change.
type Planner interface {
	Plan(ctx context.Context, opts ...SyncOption) (*Plan, error)
}

// Syncer applies plans to the registry.
type Syncer interface {
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)

	// LastResult returns the result of the most recent sync run, or nil
	LastResult() *Result
}

// Plan reads the inventory and the registry and reconciles them. Nothing
// is submitted.
func (c *client) Plan(ctx context.Context, opts ...SyncOption) (*Plan, error) {
	options := pkgsync.NewOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, options.Timeout)
	defer cancel()

	return c.plan(ctx, options)
}

// Sync plans and, unless it is a dry run, submits the plan's messages in
// order. When submission fails part way the returned Result reports how
// many messages were applied alongside the error.
func (c *client) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	options := pkgsync.NewOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, options.Timeout)
	defer cancel()

	c.runMu.Lock()
	defer c.runMu.Unlock()

	start := time.Now()
	plan, err := c.plan(ctx, options)
	if err != nil {
		c.record("unknown", 0, start, err)
		return nil, err
	}

	result := &Result{ChainID: plan.ChainID, Plan: plan, DryRun: options.DryRun}
	logger := logging.Ctx(ctx).With().Str("chain", plan.ChainID).Logger()

	switch {
	case options.DryRun:
		logger.Info().Bool("dry_run", true).Int("messages", len(plan.Messages)).Msg("Dry run completed - no changes applied")
		result.Duration = time.Since(start)
		c.setLast(result)
		return result, nil

	case plan.IsEmpty():
		logger.Info().Msg("No changes detected")
		result.Duration = time.Since(start)
		c.record(plan.ChainID, 0, start, nil)
		c.setLast(result)
		c.hooks.fireApplied(result, nil)
		return result, nil
	}

	if c.options.submitter == nil {
		return nil, errors.NewConfigError("client", "the registry is read-only and no submitter is set", errors.ErrReadOnly)
	}

	result.Applied, err = registry.Apply(ctx, c.options.submitter, plan.ChainID, plan.Messages)
	result.Duration = time.Since(start)
	c.record(plan.ChainID, result.Applied, start, err)
	c.setLast(result)
	c.hooks.fireApplied(result, err)

	if err != nil {
		logger.Error().Err(err).
			Int("applied", result.Applied).
			Int("messages", len(plan.Messages)).
			Msg("Sync stopped")
		return result, err
	}

	logger.Info().
		Int("changes_applied", result.TotalChanges()).
		Int("messages", result.Applied).
		Dur("took", result.Duration).
		Msg("Sync completed successfully")
	return result, nil
}

func (c *client) plan(ctx context.Context, options *pkgsync.Options) (*Plan, error) {
	var desired, current *ans.Data

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		desired, err = c.source().Desired(gctx)
		if err != nil {
			return errors.WrapResource("load", "inventory", "", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		current, err = c.options.reader.Snapshot(gctx)
		if err != nil {
			return errors.WrapResource("read", "registry", "", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chainID, err := planChain(desired, current)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithChain(ctx, chainID)

	sections := options.SelectedSections()
	for _, s := range sections {
		if !desired.Supplies(s) {
			logging.Ctx(ctx).Info().Str("section", s.String()).Msg("Section not supplied by the inventory, skipped")
		}
	}
	diff := ans.Diff(desired, current, sections...)
	msgs, err := registry.BuildBatches(diff, current, c.options.chunkSizes)
	if err != nil {
		return nil, errors.WrapResource("build", "batches", chainID, err)
	}

	plan := &Plan{
		ChainID:  chainID,
		Desired:  desired,
		Current:  current,
		Diff:     diff,
		Messages: msgs,
	}
	logDiff(ctx, diff)

	if c.options.recorder != nil {
		c.options.recorder.RecordPlan(chainID, diff, current)
	}
	c.hooks.firePlanned(plan)
	return plan, nil
}

// planChain checks that inventory and registry describe the same chain.
func planChain(desired, current *ans.Data) (string, error) {
	switch {
	case desired.ChainID == "" || desired.ChainID == current.ChainID:
		return current.ChainID, nil
	case current.ChainID == "":
		return desired.ChainID, nil
	default:
		return "", errors.NewValidationError("chain_id", desired.ChainID,
			"inventory is for "+desired.ChainID+" but the registry is on "+current.ChainID)
	}
}

func (c *client) record(chainID string, applied int, start time.Time, err error) {
	if c.options.recorder != nil {
		c.options.recorder.RecordSync(chainID, applied, time.Since(start), err)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
