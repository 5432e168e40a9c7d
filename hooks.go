package ansync

import (
	"sync"
)

type (
	// PlannedHook runs after a plan is computed, before anything is submitted.
	PlannedHook func(plan *Plan)

	// AppliedHook runs after every sync that is not a dry run, with the
	// error the run ended with.
	AppliedHook func(result *Result, err error)
)

// Hooks registers callbacks for sync events.
type Hooks interface {
	OnPlanned(fn PlannedHook)
	OnApplied(fn AppliedHook)
}

// hookList is a list of callbacks safe for concurrent registration.
type hookList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (l *hookList[F]) add(fn F) {
	l.mu.Lock()
	l.fns = append(l.fns, fn)
	l.mu.Unlock()
}

func (l *hookList[F]) each(call func(F)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, fn := range l.fns {
		call(fn)
	}
}

type hooks struct {
	planned hookList[PlannedHook]
	applied hookList[AppliedHook]
}

func newHooks() *hooks {
	return &hooks{}
}

// OnPlanned registers a callback for computed plans.
func (c *client) OnPlanned(fn PlannedHook) {
	c.hooks.planned.add(fn)
}

// OnApplied registers a callback for finished sync runs.
func (c *client) OnApplied(fn AppliedHook) {
	c.hooks.applied.add(fn)
}

func (h *hooks) firePlanned(p *Plan) {
	h.planned.each(func(fn PlannedHook) { fn(p) })
}

func (h *hooks) fireApplied(r *Result, err error) {
	h.applied.each(func(fn AppliedHook) { fn(r, err) })
}
