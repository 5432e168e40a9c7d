// Package sync provides options and results for synchronizing an ANS host
// with its inventory.
package sync

import (
	"slices"
	"time"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// Options controls one sync run.
type Options struct {
	DryRun   bool          // Plan without submitting
	Timeout  time.Duration // Timeout for the whole run, zero for none
	Sections []ans.Section // Sections to reconcile (empty means all)
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options: every section, no timeout.
func Defaults() *Options {
	return &Options{}
}

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...Option) *Options {
	return Defaults().Apply(opts...)
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	for _, section := range s.Sections {
		if _, err := ans.ParseSection(section.String()); err != nil {
			return err
		}
	}
	return nil
}

// SelectedSections returns the sections to reconcile in submission order.
func (s *Options) SelectedSections() []ans.Section {
	if len(s.Sections) == 0 {
		return ans.AllSections()
	}
	return slices.DeleteFunc(ans.AllSections(), func(section ans.Section) bool {
		return !slices.Contains(s.Sections, section)
	})
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithSections restricts the run to the given sections.
func WithSections(sections ...ans.Section) Option {
	return func(opts *Options) {
		opts.Sections = sections
	}
}
