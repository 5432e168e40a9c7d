package ans

import (
	"maps"
	"slices"
	"strings"

	"github.com/agentstation/ansync/pkg/reconcile"
)

// Data is the content of an ANS host for one chain.
type Data struct {
	ChainID   string
	Assets    map[string]AssetInfo
	Contracts map[ContractEntry]string
	Channels  map[ChannelEntry]string
	Dexes     map[string]struct{}
	Pools     map[PoolAddress]PoolMetadata

	// PoolIDs maps registered pools to the id the host assigned them. It is
	// only known for state read from a registry.
	PoolIDs map[PoolAddress]UniquePoolID

	// Supplied lists the sections the data was read with. Nil means every
	// section. A section left out is unknown rather than empty, and Diff
	// does not reconcile it.
	Supplied []Section
}

// NewData returns empty registry data for a chain.
func NewData(chainID string) *Data {
	return &Data{
		ChainID:   chainID,
		Assets:    make(map[string]AssetInfo),
		Contracts: make(map[ContractEntry]string),
		Channels:  make(map[ChannelEntry]string),
		Dexes:     make(map[string]struct{}),
		Pools:     make(map[PoolAddress]PoolMetadata),
		PoolIDs:   make(map[PoolAddress]UniquePoolID),
	}
}

// Clone returns a deep copy of the data.
func (d *Data) Clone() *Data {
	c := &Data{
		ChainID:   d.ChainID,
		Assets:    maps.Clone(d.Assets),
		Contracts: maps.Clone(d.Contracts),
		Channels:  maps.Clone(d.Channels),
		Dexes:     maps.Clone(d.Dexes),
		Pools:     make(map[PoolAddress]PoolMetadata, len(d.Pools)),
		PoolIDs:   maps.Clone(d.PoolIDs),
		Supplied:  slices.Clone(d.Supplied),
	}
	for addr, meta := range d.Pools {
		meta.Assets = slices.Clone(meta.Assets)
		c.Pools[addr] = meta
	}
	c.ensure()
	return c
}

// ensure replaces nil maps so a zero Data can be written to.
func (d *Data) ensure() {
	if d.Assets == nil {
		d.Assets = make(map[string]AssetInfo)
	}
	if d.Contracts == nil {
		d.Contracts = make(map[ContractEntry]string)
	}
	if d.Channels == nil {
		d.Channels = make(map[ChannelEntry]string)
	}
	if d.Dexes == nil {
		d.Dexes = make(map[string]struct{})
	}
	if d.Pools == nil {
		d.Pools = make(map[PoolAddress]PoolMetadata)
	}
	if d.PoolIDs == nil {
		d.PoolIDs = make(map[PoolAddress]UniquePoolID)
	}
}

// Len returns the number of entries in a section.
func (d *Data) Len(s Section) int {
	switch s {
	case SectionAssets:
		return len(d.Assets)
	case SectionContracts:
		return len(d.Contracts)
	case SectionChannels:
		return len(d.Channels)
	case SectionDexes:
		return len(d.Dexes)
	case SectionPools:
		return len(d.Pools)
	default:
		return 0
	}
}

// Supplies reports whether the data carries section s.
func (d *Data) Supplies(s Section) bool {
	return d.Supplied == nil || slices.Contains(d.Supplied, s)
}

// Clear empties section s.
func (d *Data) Clear(s Section) {
	switch s {
	case SectionAssets:
		clear(d.Assets)
	case SectionContracts:
		clear(d.Contracts)
	case SectionChannels:
		clear(d.Channels)
	case SectionDexes:
		clear(d.Dexes)
	case SectionPools:
		clear(d.Pools)
		clear(d.PoolIDs)
	}
}

// NextPoolID returns the id the host would assign to the next pool.
func (d *Data) NextPoolID() UniquePoolID {
	var next UniquePoolID
	for _, id := range d.PoolIDs {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// PoolByID returns the address of the pool registered under id.
func (d *Data) PoolByID(id UniquePoolID) (PoolAddress, bool) {
	for addr, pid := range d.PoolIDs {
		if pid == id {
			return addr, true
		}
	}
	return PoolAddress{}, false
}

// AssetNames returns the asset names in sorted order.
func (d *Data) AssetNames() []string {
	return slices.Sorted(maps.Keys(d.Assets))
}

// DexNames returns the dex names in sorted order.
func (d *Data) DexNames() []string {
	return slices.Sorted(maps.Keys(d.Dexes))
}

// ContractEntries returns the contract keys in sorted order.
func (d *Data) ContractEntries() []ContractEntry {
	return slices.SortedFunc(maps.Keys(d.Contracts), CompareContractEntry)
}

// ChannelEntries returns the channel keys in sorted order.
func (d *Data) ChannelEntries() []ChannelEntry {
	return slices.SortedFunc(maps.Keys(d.Channels), CompareChannelEntry)
}

// PoolAddresses returns the pool keys in sorted order.
func (d *Data) PoolAddresses() []PoolAddress {
	return slices.SortedFunc(maps.Keys(d.Pools), ComparePoolAddress)
}

// DataDiff holds one changeset per section.
type DataDiff struct {
	ChainID   string
	Assets    *reconcile.Changeset[string, AssetInfo]
	Contracts *reconcile.Changeset[ContractEntry, string]
	Channels  *reconcile.Changeset[ChannelEntry, string]
	Dexes     *reconcile.Changeset[string, struct{}]
	Pools     *reconcile.Changeset[PoolAddress, PoolMetadata]
}

// SectionSummary is the change count of one section.
type SectionSummary struct {
	Section Section
	reconcile.ChangesetSummary
}

// Diff reconciles every selected section of current against desired using
// the section's stale policy. No sections selects all of them. Sections not
// selected, or not supplied by desired, get empty changesets.
func Diff(desired, current *Data, sections ...Section) *DataDiff {
	if len(sections) == 0 {
		sections = allSections
	}

	diff := &DataDiff{
		ChainID:   desired.ChainID,
		Assets:    reconcile.NewChangeset[string, AssetInfo](),
		Contracts: reconcile.NewChangeset[ContractEntry, string](),
		Channels:  reconcile.NewChangeset[ChannelEntry, string](),
		Dexes:     reconcile.NewChangeset[string, struct{}](),
		Pools:     reconcile.NewChangeset[PoolAddress, PoolMetadata](),
	}

	for _, s := range sections {
		if !desired.Supplies(s) {
			continue
		}
		policy := s.StalePolicy()
		switch s {
		case SectionAssets:
			diff.Assets = reconcile.Reconcile(desired.Assets, current.Assets, policy)
		case SectionContracts:
			diff.Contracts = reconcile.Reconcile(desired.Contracts, current.Contracts, policy)
		case SectionChannels:
			diff.Channels = reconcile.Reconcile(desired.Channels, current.Channels, policy)
		case SectionDexes:
			diff.Dexes = reconcile.Reconcile(desired.Dexes, current.Dexes, policy)
		case SectionPools:
			diff.Pools = reconcile.Reconcile(desired.Pools, current.Pools, policy)
		}
	}
	return diff
}

// IsEmpty returns true if no section has changes.
func (d *DataDiff) IsEmpty() bool {
	return d.Assets.IsEmpty() && d.Contracts.IsEmpty() && d.Channels.IsEmpty() &&
		d.Dexes.IsEmpty() && d.Pools.IsEmpty()
}

// Section returns the summary of one section.
func (d *DataDiff) Section(s Section) reconcile.ChangesetSummary {
	switch s {
	case SectionAssets:
		return d.Assets.Summary()
	case SectionContracts:
		return d.Contracts.Summary()
	case SectionChannels:
		return d.Channels.Summary()
	case SectionDexes:
		return d.Dexes.Summary()
	case SectionPools:
		return d.Pools.Summary()
	default:
		return reconcile.ChangesetSummary{}
	}
}

// Summary returns the change counts of every section in submission order.
func (d *DataDiff) Summary() []SectionSummary {
	out := make([]SectionSummary, 0, len(allSections))
	for _, s := range allSections {
		out = append(out, SectionSummary{Section: s, ChangesetSummary: d.Section(s)})
	}
	return out
}

// TotalChanges returns the number of changed entries across sections.
func (d *DataDiff) TotalChanges() int {
	total := 0
	for _, s := range d.Summary() {
		total += s.TotalChanges
	}
	return total
}

// String returns a human-readable summary of the diff.
func (d *DataDiff) String() string {
	if d.IsEmpty() {
		return "No changes detected"
	}
	var parts []string
	for _, s := range d.Summary() {
		if s.TotalChanges == 0 {
			continue
		}
		parts = append(parts, s.Section.String()+": "+s.ChangesetSummary.String())
	}
	return strings.Join(parts, "; ")
}
