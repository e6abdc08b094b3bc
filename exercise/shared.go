package exercise

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/percona/percona-linked-lists/errors"
	"github.com/percona/percona-linked-lists/log"
	"github.com/percona/percona-linked-lists/metrics"
	"github.com/percona/percona-linked-lists/shared"
)

// newTrackedShared returns an empty shared list whose freed nodes are counted
// in metrics.
func newTrackedShared[T any]() *shared.List[T] {
	return shared.New(shared.WithReleaseFunc(func(T) {
		metrics.AddNodesReleased(metrics.SharedList, 1)
	}))
}

// prependAll prepends vals in order to a fresh tracked list.
func prependAll[T any](vals ...T) *shared.List[T] {
	l := newTrackedShared[T]()
	for _, v := range vals {
		l = l.Prepend(v)
	}
	metrics.AddNodesAllocated(metrics.SharedList, len(vals))

	return l
}

func runSharedBasics(_ context.Context, _ Options) (int64, error) {
	l := newTrackedShared[int]()

	if v, ok := l.Head(); ok {
		return 0, expectAbsent("head of new list", v, ok)
	}

	l = l.Prepend(1).Prepend(2).Prepend(3)
	metrics.AddNodesAllocated(metrics.SharedList, 3)
	defer func() { l.Release() }()

	v, _ := l.Head()
	if err := expect("head", v, 3); err != nil {
		return 3, err
	}

	for _, want := range []int{2, 1} {
		tail := l.Tail()
		l.Release()
		l = tail

		v, ok := l.Head()
		if !ok {
			return 3, errors.Wrapf(ErrCheckFailed, "head after tail: got absent, want %d", want)
		}
		if err := expect("head after tail", v, want); err != nil {
			return 3, err
		}
	}

	for range 2 {
		tail := l.Tail()
		l.Release()
		l = tail

		if v, ok := l.Head(); ok {
			return 3, expectAbsent("head past the end", v, ok)
		}
	}

	return 3, nil
}

func runSharedIter(_ context.Context, _ Options) (int64, error) {
	l := prependAll(1, 2, 3)
	defer l.Release()

	for range 2 {
		if err := expectSeq("iter", slices.Collect(l.All()), 3, 2, 1); err != nil {
			return 3, err
		}
	}

	return 3, expect("len", l.Len(), 3)
}

func runSharedTrident(ctx context.Context, _ Options) (int64, error) {
	lg := log.Ctx(ctx)

	list1 := prependAll(1, 2, 3, 4)
	list2 := list1.Tail()
	list3 := list2.Clone().Prepend(5)
	metrics.AddNodesAllocated(metrics.SharedList, 1)

	lg.Debugf("list1=%s list2=%s list3=%s", list1, list2, list3)

	for _, c := range []struct {
		what string
		l    *shared.List[int]
		head int
	}{
		{"list1 head", list1, 4},
		{"list2 head", list2, 3},
		{"list3 head", list3, 5},
	} {
		v, _ := c.l.Head()
		if err := expect(c.what, v, c.head); err != nil {
			return 5, err
		}
	}

	// list1's second node, list2 itself and list3's second node
	if err := expect("owners of shared suffix", list2.Owners(), 3); err != nil {
		return 5, err
	}

	probe1, probe2 := list1.Tail(), list3.Tail()
	if !shared.Same(probe1, list2) || !shared.Same(probe2, list2) {
		return 5, errors.Wrap(ErrCheckFailed, "suffix is not shared")
	}
	if err := expect("owners with probes", list2.Owners(), 5); err != nil {
		return 5, err
	}

	probe1.Release()
	probe2.Release()

	if err := expect("owners after probes", list2.Owners(), 3); err != nil {
		return 5, err
	}

	if err := expect("freed by list1", list1.Release(), 1); err != nil {
		return 5, err
	}
	if err := expectSeq("list2 after list1 released", slices.Collect(list2.All()), 3, 2, 1); err != nil {
		return 5, err
	}
	if err := expect("freed by list2", list2.Release(), 0); err != nil {
		return 5, err
	}
	if err := expectSeq("list3 after list2 released", slices.Collect(list3.All()), 5, 3, 2, 1); err != nil {
		return 5, err
	}

	return 5, expect("freed by list3", list3.Release(), 4)
}

func runSharedReaders(ctx context.Context, opts Options) (int64, error) {
	vals := make([]int, opts.Size)
	for i := range vals {
		vals[i] = i + 1
	}

	base := prependAll(vals...)
	defer base.Release()

	baseSum := 0
	for v := range base.All() {
		baseSum += v
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	for r := range opts.Readers {
		own := base.Clone().Prepend(-r)

		grp.Go(func() error {
			defer own.Release()

			tail := own.Tail()
			same := shared.Same(tail, base)
			tail.Release()
			if !same {
				return errors.Wrapf(ErrCheckFailed, "reader %d: suffix is not shared", r)
			}

			sum := 0
			i := 0
			for v := range own.All() {
				if err := interrupted(grpCtx, i); err != nil {
					return err
				}
				sum += v
				i++
			}

			return expect("reader sum", sum, baseSum-r)
		})
	}
	metrics.AddNodesAllocated(metrics.SharedList, opts.Readers)

	err := grp.Wait()
	if err != nil {
		return int64(opts.Size + opts.Readers), errors.Wrap(err, "readers")
	}

	return int64(opts.Size + opts.Readers), expect("owners after readers", base.Owners(), 1)
}
