package exercise

import (
	"context"
	"slices"

	"github.com/percona/percona-linked-lists/errors"
	"github.com/percona/percona-linked-lists/list"
	"github.com/percona/percona-linked-lists/log"
	"github.com/percona/percona-linked-lists/metrics"
)

// trackExclusive reports node allocations and releases of l to metrics once
// the scenario is done.
func trackExclusive[T any](l *list.List[T]) func() {
	released := 0
	l.SetReleaseFunc(func(T) { released++ })

	return func() {
		metrics.AddNodesReleased(metrics.ExclusiveList, released)
	}
}

func runExclusiveLIFO(ctx context.Context, opts Options) (int64, error) {
	l := list.New[int]()
	defer trackExclusive(l)()

	if v, ok := l.Pop(); ok {
		return 0, expectAbsent("pop on new list", v, ok)
	}

	for i := 1; i <= opts.Size; i++ {
		if err := interrupted(ctx, i); err != nil {
			return int64(i - 1), err
		}
		l.Push(i)
	}
	metrics.AddNodesAllocated(metrics.ExclusiveList, opts.Size)

	if err := expect("len after push", l.Len(), opts.Size); err != nil {
		return int64(opts.Size), err
	}

	for want := opts.Size; want >= 1; want-- {
		got, ok := l.Pop()
		if !ok {
			return int64(opts.Size), errors.Wrapf(ErrCheckFailed, "pop %d: list is empty", want)
		}
		if err := expect("pop", got, want); err != nil {
			return int64(opts.Size), err
		}
	}

	for range 2 {
		if v, ok := l.Pop(); ok {
			return int64(opts.Size), expectAbsent("pop after exhaustion", v, ok)
		}
	}

	// pushing after exhaustion must start from a clean chain
	l.Push(4)
	l.Push(5)
	metrics.AddNodesAllocated(metrics.ExclusiveList, 2)

	got := slices.Collect(l.Drain())

	return int64(opts.Size + 2), expectSeq("drain after refill", got, 5, 4)
}

func runExclusivePeek(_ context.Context, _ Options) (int64, error) {
	l := list.New[int]()
	defer trackExclusive(l)()

	if v, ok := l.Peek(); ok {
		return 0, expectAbsent("peek on new list", v, ok)
	}
	if p, ok := l.PeekMut(); ok {
		return 0, expectAbsent("peek_mut on new list", *p, ok)
	}

	l.Push(1)
	l.Push(2)
	l.Push(3)
	metrics.AddNodesAllocated(metrics.ExclusiveList, 3)

	v, _ := l.Peek()
	if err := expect("peek", v, 3); err != nil {
		return 3, err
	}

	p, ok := l.PeekMut()
	if !ok {
		return 3, errors.Wrap(ErrCheckFailed, "peek_mut: list is empty")
	}
	*p = 42

	v, _ = l.Peek()
	if err := expect("peek after replace", v, 42); err != nil {
		return 3, err
	}

	v, _ = l.Pop()
	if err := expect("pop after replace", v, 42); err != nil {
		return 3, err
	}

	l.Clear()

	return 3, nil
}

func runExclusiveIter(_ context.Context, _ Options) (int64, error) {
	l := list.New[int]()
	defer trackExclusive(l)()

	l.Push(1)
	l.Push(2)
	l.Push(3)
	metrics.AddNodesAllocated(metrics.ExclusiveList, 3)

	for range 2 {
		if err := expectSeq("all", slices.Collect(l.All()), 3, 2, 1); err != nil {
			return 3, err
		}
	}

	for p := range l.Mutable() {
		*p *= 10
	}

	if err := expectSeq("all after mutable", slices.Collect(l.All()), 30, 20, 10); err != nil {
		return 3, err
	}

	v, _ := l.Pop()
	if err := expect("pop after iteration", v, 30); err != nil {
		return 3, err
	}

	if err := expectSeq("drain", slices.Collect(l.Drain()), 20, 10); err != nil {
		return 3, err
	}

	return 3, expect("len after drain", l.Len(), 0)
}

func runExclusiveTeardown(ctx context.Context, opts Options) (int64, error) {
	lg := log.Ctx(ctx)

	l := list.New[int]()
	defer trackExclusive(l)()

	for i := range opts.TeardownSize {
		if err := interrupted(ctx, i); err != nil {
			return int64(i), err
		}
		l.Push(i)
	}
	metrics.AddNodesAllocated(metrics.ExclusiveList, opts.TeardownSize)

	lg.Debugf("tearing down %d nodes", l.Len())

	n := l.Clear()
	if err := expect("nodes released", n, opts.TeardownSize); err != nil {
		return int64(opts.TeardownSize), err
	}

	if v, ok := l.Pop(); ok {
		return int64(opts.TeardownSize), expectAbsent("pop after teardown", v, ok)
	}

	return int64(opts.TeardownSize), nil
}
