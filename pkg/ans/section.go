package ans

import (
	"slices"

	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/reconcile"
)

// Section is one of the registries kept by the ANS host.
type Section string

// String returns the string representation of a Section.
func (s Section) String() string {
	return string(s)
}

// ANS host sections, in the order updates are submitted.
const (
	SectionAssets    Section = "assets"
	SectionContracts Section = "contracts"
	SectionChannels  Section = "channels"
	SectionDexes     Section = "dexes"
	SectionPools     Section = "pools"
)

var allSections = []Section{SectionAssets, SectionContracts, SectionChannels, SectionDexes, SectionPools}

// AllSections returns every section in submission order.
func AllSections() []Section {
	return slices.Clone(allSections)
}

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	if slices.Contains(allSections, Section(s)) {
		return Section(s), nil
	}
	return "", errors.NewValidationError("section", s, "unknown section")
}

// ParseSections validates a list of section names. An empty list selects
// every section.
func ParseSections(names []string) ([]Section, error) {
	if len(names) == 0 {
		return AllSections(), nil
	}
	sections := make([]Section, 0, len(names))
	for _, name := range names {
		s, err := ParseSection(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(sections, s) {
			sections = append(sections, s)
		}
	}
	return sections, nil
}

// StalePolicy returns how changed entries of the section are reconciled.
// The ANS host cannot overwrite a pool in place: a changed pool is removed
// and registered again under a new unique id. Every other section is
// overwritten by re-adding the entry.
func (s Section) StalePolicy() reconcile.StalePolicy {
	if s == SectionPools {
		return reconcile.RemoveStale
	}
	return reconcile.KeepStale
}
