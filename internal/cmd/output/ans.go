package output

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/inventory"
	"github.com/agentstation/ansync/pkg/reconcile"
	"github.com/agentstation/ansync/pkg/registry"
	pkgsync "github.com/agentstation/ansync/pkg/sync"
)

// SectionChanges is the change count of one section.
type SectionChanges struct {
	Section string `json:"section" yaml:"section"`
	Added   int    `json:"added" yaml:"added"`
	Updated int    `json:"updated" yaml:"updated"`
	Removed int    `json:"removed" yaml:"removed"`
}

// PlanView is the serialized form of a plan.
type PlanView struct {
	ChainID  string                `json:"chain_id" yaml:"chain_id"`
	Sections []SectionChanges      `json:"sections" yaml:"sections"`
	Messages []registry.ExecuteMsg `json:"messages" yaml:"messages"`
}

// ResultView is the serialized form of a sync result.
type ResultView struct {
	PlanView `yaml:",inline"`
	DryRun   bool   `json:"dry_run" yaml:"dry_run"`
	Applied  int    `json:"applied" yaml:"applied"`
	Duration string `json:"duration" yaml:"duration"`
}

// NewPlanView converts a plan for JSON and YAML output.
func NewPlanView(p *pkgsync.Plan) PlanView {
	v := PlanView{ChainID: p.ChainID, Messages: p.Messages}
	if v.Messages == nil {
		v.Messages = []registry.ExecuteMsg{}
	}
	for _, s := range p.Summary() {
		v.Sections = append(v.Sections, SectionChanges{
			Section: s.Section.String(),
			Added:   s.Added,
			Updated: s.Updated,
			Removed: s.Removed,
		})
	}
	return v
}

// NewResultView converts a sync result for JSON and YAML output.
func NewResultView(r *pkgsync.Result) ResultView {
	v := ResultView{DryRun: r.DryRun, Applied: r.Applied, Duration: r.Duration.String()}
	if r.Plan != nil {
		v.PlanView = NewPlanView(r.Plan)
	} else {
		v.ChainID = r.ChainID
	}
	return v
}

// PlanTables renders a plan as a change summary and a message list. Wide
// output also lists every changed entry.
func PlanTables(p *pkgsync.Plan, wide bool) []Data {
	summary := Data{
		Title:           p.ChainID,
		Headers:         []string{"Section", "Added", "Updated", "Removed"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
	for _, s := range p.Summary() {
		summary.Rows = append(summary.Rows, []string{
			s.Section.String(), strconv.Itoa(s.Added), strconv.Itoa(s.Updated), strconv.Itoa(s.Removed),
		})
	}
	tables := []Data{summary}

	if wide && !p.Diff.IsEmpty() {
		changes := Data{Headers: []string{"Section", "Change", "Key", "Value"}}
		changes.Rows = append(changes.Rows, changeRows(ans.SectionAssets, p.Diff.Assets)...)
		changes.Rows = append(changes.Rows, changeRows(ans.SectionContracts, p.Diff.Contracts)...)
		changes.Rows = append(changes.Rows, changeRows(ans.SectionChannels, p.Diff.Channels)...)
		changes.Rows = append(changes.Rows, changeRows(ans.SectionDexes, p.Diff.Dexes)...)
		changes.Rows = append(changes.Rows, changeRows(ans.SectionPools, p.Diff.Pools)...)
		tables = append(tables, changes)
	}

	if len(p.Messages) > 0 {
		msgs := Data{
			Headers:         []string{"#", "Section", "Message"},
			ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
		}
		for i, m := range p.Messages {
			msgs.Rows = append(msgs.Rows, []string{strconv.Itoa(i + 1), m.Section().String(), m.String()})
		}
		tables = append(tables, msgs)
	}
	return tables
}

// changeRows lists a changeset's entries sorted by key. Stale entries that
// are re-added show up once, as changed.
func changeRows[K comparable, V any](section ans.Section, cs *reconcile.Changeset[K, V]) [][]string {
	var rows [][]string
	cs.Removals.Each(func(k K) bool {
		if _, readded := cs.Additions[k]; !readded {
			rows = append(rows, []string{section.String(), "remove", fmt.Sprint(k), ""})
		}
		return false
	})
	for k, v := range cs.Additions {
		change := "add"
		if cs.Updated.Contains(k) {
			change = "update"
		}
		rows = append(rows, []string{section.String(), change, fmt.Sprint(k), reconcile.Canonicalize(v)})
	}
	slices.SortFunc(rows, func(a, b []string) int {
		return cmp.Compare(a[2], b[2])
	})
	return rows
}

// SnapshotTables renders registry content as entry counts per section.
// Wide output lists every entry.
func SnapshotTables(d *ans.Data, wide bool) []Data {
	counts := Data{
		Title:           d.ChainID,
		Headers:         []string{"Section", "Entries"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	for _, s := range ans.AllSections() {
		counts.Rows = append(counts.Rows, []string{s.String(), strconv.Itoa(d.Len(s))})
	}
	if !wide {
		return []Data{counts}
	}

	f := inventory.FromData(d)
	entries := Data{Headers: []string{"Section", "Key", "Value"}}
	for _, a := range f.Assets {
		entries.Rows = append(entries.Rows, []string{"assets", a.Name, a.Info.String()})
	}
	for _, c := range f.Contracts {
		entries.Rows = append(entries.Rows, []string{"contracts", c.Protocol + ":" + c.Contract, c.Address})
	}
	for _, c := range f.Channels {
		entries.Rows = append(entries.Rows, []string{"channels", c.ConnectedChain + "/" + c.Protocol, c.Channel})
	}
	for _, dex := range f.Dexes {
		entries.Rows = append(entries.Rows, []string{"dexes", dex, ""})
	}
	for _, p := range f.Pools {
		key := p.Address.String()
		if p.UniqueID != nil {
			key = fmt.Sprintf("%s (#%d)", key, *p.UniqueID)
		}
		entries.Rows = append(entries.Rows, []string{"pools", key, p.Metadata.Canonical()})
	}
	return []Data{counts, entries}
}

// Plan writes a plan in the given format.
func Plan(w io.Writer, format Format, p *pkgsync.Plan) error {
	if format.IsTable() {
		return NewFormatter(FormatTable).Format(w, PlanTables(p, format == FormatWide))
	}
	return NewFormatter(format).Format(w, NewPlanView(p))
}

// Result writes a sync result in the given format.
func Result(w io.Writer, format Format, r *pkgsync.Result) error {
	if format.IsTable() {
		if r.Plan != nil {
			if err := Plan(w, format, r.Plan); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, r.Summary())
		return err
	}
	return NewFormatter(format).Format(w, NewResultView(r))
}

// Snapshot writes registry content in the given format. JSON and YAML use
// the inventory file layout, so the output can be fed back as inventory.
func Snapshot(w io.Writer, format Format, d *ans.Data) error {
	if format.IsTable() {
		return NewFormatter(FormatTable).Format(w, SnapshotTables(d, format == FormatWide))
	}
	return NewFormatter(format).Format(w, inventory.FromData(d))
}
