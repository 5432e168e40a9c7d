package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/registry"
)

// Plan is the outcome of reconciling the inventory against the registry:
// the diff per section and the execute messages that apply it.
type Plan struct {
	ChainID  string
	Desired  *ans.Data
	Current  *ans.Data
	Diff     *ans.DataDiff
	Messages []registry.ExecuteMsg
}

// IsEmpty returns true if the plan changes nothing.
func (p *Plan) IsEmpty() bool {
	return len(p.Messages) == 0
}

// Summary returns the per-section change counts.
func (p *Plan) Summary() []ans.SectionSummary {
	return p.Diff.Summary()
}

// String returns a one line description of the plan.
func (p *Plan) String() string {
	if p.IsEmpty() {
		return fmt.Sprintf("%s: no changes", p.ChainID)
	}
	return fmt.Sprintf("%s: %s in %d messages", p.ChainID, p.Diff, len(p.Messages))
}

// Result represents the complete result of a sync run.
type Result struct {
	ChainID string
	Plan    *Plan

	// Operation metadata
	DryRun   bool          // Whether this was a dry run
	Applied  int           // Messages accepted by the registry
	Duration time.Duration // Wall time of the run
}

// HasChanges returns true if the plan contained any changes.
func (r *Result) HasChanges() bool {
	return r.Plan != nil && !r.Plan.IsEmpty()
}

// TotalChanges returns the number of changes planned across sections.
func (r *Result) TotalChanges() int {
	if r.Plan == nil {
		return 0
	}
	return r.Plan.Diff.TotalChanges()
}

// Complete returns true if every planned message was applied.
func (r *Result) Complete() bool {
	return r.Plan == nil || r.Applied == len(r.Plan.Messages)
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return "No changes detected"
	}

	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}

	summary := fmt.Sprintf("%d total changes, %d/%d messages applied",
		r.TotalChanges(), r.Applied, len(r.Plan.Messages))
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}
