// Package exercise runs self-checking scenarios against the exclusive and the
// shared lists.
package exercise

import (
	"context"
	"slices"
	"time"

	"github.com/percona/percona-linked-lists/config"
	"github.com/percona/percona-linked-lists/errors"
	"github.com/percona/percona-linked-lists/sel"
)

// ErrCheckFailed is wrapped by every error reporting an unexpected list state.
var ErrCheckFailed = errors.New("check failed")

// Scenario groups.
const (
	GroupExclusive = "exclusive"
	GroupShared    = "shared"
)

// Options tunes scenario sizes and the runner.
type Options struct {
	// Size is the number of elements used by the sized scenarios.
	Size int
	// TeardownSize is the number of nodes pushed before a teardown.
	TeardownSize int
	// Readers is the number of concurrent readers in shared.readers.
	Readers int
	// Parallel limits how many scenarios run at the same time.
	Parallel int
	// Timeout bounds a single scenario.
	Timeout time.Duration
}

// DefaultOptions returns the options taken from the configuration.
func DefaultOptions() Options {
	return Options{
		Size:         config.DefaultLIFOSize,
		TeardownSize: config.TeardownSize(),
		Readers:      config.DefaultReaders,
		Parallel:     config.Parallel(),
		Timeout:      config.ScenarioTimeout,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.Size <= 0 {
		o.Size = def.Size
	}
	if o.TeardownSize <= 0 {
		o.TeardownSize = def.TeardownSize
	}
	if o.Readers <= 0 {
		o.Readers = def.Readers
	}
	if o.Parallel <= 0 {
		o.Parallel = def.Parallel
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}

	return o
}

// RunFunc executes a scenario and returns the number of nodes it allocated.
type RunFunc func(ctx context.Context, opts Options) (int64, error)

// Scenario is a named, self-checking exercise.
type Scenario struct {
	Group       string
	Name        string
	Description string

	Run RunFunc
}

// FullName returns "group.name".
func (s Scenario) FullName() string {
	return s.Group + "." + s.Name
}

// Result is the outcome of a scenario run.
type Result struct {
	Group    string
	Name     string
	Nodes    int64
	Duration time.Duration
	Err      error
}

// FullName returns "group.name".
func (r Result) FullName() string {
	return r.Group + "." + r.Name
}

// Scenarios returns the catalogue in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{GroupExclusive, "lifo", "push 1..N, pop N..1, pop on empty is absent", runExclusiveLIFO},
		{GroupExclusive, "peek", "replace the head in place through PeekMut", runExclusivePeek},
		{GroupExclusive, "iter", "All, Mutable and Drain visit head to tail", runExclusiveIter},
		{GroupExclusive, "teardown", "clear a large list one link at a time", runExclusiveTeardown},
		{GroupShared, "basics", "prepend then walk the tails down to empty", runSharedBasics},
		{GroupShared, "iter", "iteration is ordered and restartable", runSharedIter},
		{GroupShared, "trident", "three lists converge on one shared suffix", runSharedTrident},
		{GroupShared, "readers", "concurrent readers share one immutable suffix", runSharedReaders},
	}
}

// Select returns the scenarios accepted by the filter, in catalogue order.
func Select(filter sel.Filter) []Scenario {
	all := Scenarios()

	return slices.DeleteFunc(all, func(s Scenario) bool {
		return !filter(s.Group, s.Name)
	})
}

// expect compares got against want and reports a mismatch as ErrCheckFailed.
func expect[V comparable](what string, got, want V) error {
	if got == want {
		return nil
	}

	return errors.Wrapf(ErrCheckFailed, "%s: got %v, want %v", what, got, want)
}

// expectSeq compares the values produced by an iterator with want.
func expectSeq[V comparable](what string, got []V, want ...V) error {
	if slices.Equal(got, want) {
		return nil
	}

	return errors.Wrapf(ErrCheckFailed, "%s: got %v, want %v", what, got, want)
}

func expectAbsent[V any](what string, v V, ok bool) error {
	if !ok {
		return nil
	}

	return errors.Wrapf(ErrCheckFailed, "%s: got %v, want absent", what, v)
}

// checkEvery is how often long loops look at the context.
const checkEvery = 1 << 12

func interrupted(ctx context.Context, i int) error {
	if i%checkEvery != 0 {
		return nil
	}

	return errors.Wrapf(ctx.Err(), "interrupted at %d", i)
}
