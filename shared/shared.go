// Package shared implements a persistent singly linked list whose tails are
// shared between list handles.
//
// Nodes never change once they are reachable from a handle. Prepending
// allocates a new head that points into the existing chain, so several lists
// can converge on a common suffix:
//
//	list1 -> 4 ---+
//	              |
//	              v
//	list2 ------> 3 -> 2 -> 1
//	              ^
//	              |
//	list3 -> 5 ---+
//
// Every node counts its owners: the handles pointing at it plus the sibling
// node whose next link points at it. Release gives a handle's ownership back
// and frees every node whose count drops to zero, walking the chain in a loop
// until it meets a node that is still owned elsewhere. A handle that is never
// released is still reclaimed by the garbage collector; only its count stays
// behind.
//
// Reading a list (Head, All, Len) touches no counters and needs no locking.
// Counters are atomic, so handles may be cloned and released from different
// goroutines, but a single handle must not be used concurrently with its own
// Prepend or Release.
package shared

import (
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/percona/percona-linked-lists/errors"
)

// ErrOwnershipViolated is the target of the panic raised when an owner count
// would go below zero. It means a handle was released more times than it was
// acquired, which correct use of this package cannot do.
var ErrOwnershipViolated = errors.New("ownership violated")

type node[T any] struct {
	next   *node[T]
	val    T
	owners atomic.Int64
}

func (n *node[T]) acquire() {
	if n != nil {
		n.owners.Add(1)
	}
}

// List is a handle to a persistent list. The zero value and nil are empty
// lists.
type List[T any] struct {
	head    *node[T]
	release func(T)
}

// Option configures a list created by [New].
type Option[T any] func(*List[T])

// WithReleaseFunc sets a function called with the value of each node when it
// is freed. Every list derived from the new one inherits it.
func WithReleaseFunc[T any](fn func(T)) Option[T] {
	return func(l *List[T]) {
		l.release = fn
	}
}

// New returns an empty list.
func New[T any](opts ...Option[T]) *List[T] {
	l := &List[T]{}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *List[T]) derive(head *node[T]) *List[T] {
	if l == nil {
		return &List[T]{head: head}
	}

	return &List[T]{head: head, release: l.release}
}

// Prepend returns a new list with val in front of the elements of l.
//
// The ownership l held is moved into the new head node and l becomes empty.
// Use l.Clone().Prepend(val) to keep l. Other handles sharing the chain are
// not affected.
func (l *List[T]) Prepend(val T) *List[T] {
	n := &node[T]{val: val}
	n.owners.Store(1)

	if l != nil {
		n.next = l.head
		l.head = nil
	}

	return l.derive(n)
}

// Tail returns a new handle to the list that follows the head of l. The tail
// of an empty list is an empty list.
func (l *List[T]) Tail() *List[T] {
	if l.IsEmpty() {
		return l.derive(nil)
	}

	next := l.head.next
	next.acquire()

	return l.derive(next)
}

// Clone returns a second handle to the same list.
func (l *List[T]) Clone() *List[T] {
	if l.IsEmpty() {
		return l.derive(nil)
	}

	l.head.acquire()

	return l.derive(l.head)
}

// Release drops the ownership held by l and returns the number of nodes that
// were freed as a result. l is empty afterwards; releasing it again does
// nothing.
func (l *List[T]) Release() int {
	if l.IsEmpty() {
		return 0
	}

	n := l.head
	l.head = nil

	freed := 0
	for n != nil {
		left := n.owners.Add(-1)
		if left < 0 {
			panic(errors.Invariant(ErrOwnershipViolated, "release",
				fmt.Sprintf("node owner count is %d", left)))
		}
		if left > 0 {
			break
		}

		// nobody can reach n anymore
		next := n.next
		n.next = nil
		if l.release != nil {
			l.release(n.val)
		}

		freed++
		n = next
	}

	return freed
}

// Head returns the first element of the list.
func (l *List[T]) Head() (T, bool) { //nolint:ireturn
	if l.IsEmpty() {
		var zero T
		return zero, false
	}

	return l.head.val, true
}

// Owners returns how many handles and sibling nodes own the head node of l.
// It is 0 for an empty list.
func (l *List[T]) Owners() int {
	if l.IsEmpty() {
		return 0
	}

	return int(l.head.owners.Load())
}

// IsEmpty checks if the list is empty.
func (l *List[T]) IsEmpty() bool {
	return l == nil || l.head == nil
}

// Len returns the number of elements. It walks the whole list.
func (l *List[T]) Len() int {
	n := 0
	for range l.All() {
		n++
	}

	return n
}

// All returns an iterator over the elements from head to tail. The iterator
// can be ranged over any number of times while l is held.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l == nil {
			return
		}

		for n := l.head; n != nil; n = n.next {
			if !yield(n.val) {
				return
			}
		}
	}
}

// Same reports whether a and b point at the very same chain of nodes.
func Same[T any](a, b *List[T]) bool {
	var ha, hb *node[T]
	if a != nil {
		ha = a.head
	}
	if b != nil {
		hb = b.head
	}

	return ha == hb
}

func (l *List[T]) String() string {
	var sb strings.Builder

	sb.WriteByte('(')
	i := 0
	for v := range l.All() {
		if i != 0 {
			sb.WriteString(" -> ")
		}
		fmt.Fprint(&sb, v)
		i++
	}
	sb.WriteByte(')')

	return sb.String()
}
