// Package list implements a singly linked list whose nodes are exclusively
// owned: every node is reachable from exactly one predecessor, or from the
// list itself for the head.
//
// A list that is simply dropped is reclaimed by the garbage collector, which
// marks long chains without recursion. Clear releases the nodes eagerly, one
// link at a time, and reports each value to the release function.
package list

import (
	"fmt"
	"iter"
	"strings"
)

// List is a LIFO singly linked list. The zero value is an empty list ready to
// use. A List must not be copied after first use.
type List[T any] struct {
	head    *listElem[T]
	size    int
	release func(T)
}

// listElem is an element in the singly linked list.
type listElem[T any] struct {
	next *listElem[T]
	val  T
}

// New returns an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// SetReleaseFunc sets a function called with the value of every node that
// leaves the list through Pop, Drain or Clear.
func (l *List[T]) SetReleaseFunc(fn func(T)) {
	l.release = fn
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}

	return l.size
}

// IsEmpty checks if the list is empty.
func (l *List[T]) IsEmpty() bool {
	return l == nil || l.head == nil
}

// Push adds a new element to the front of the list.
func (l *List[T]) Push(val T) {
	l.head = &listElem[T]{next: l.head, val: val}
	l.size++
}

// Pop removes and returns the first element from the list.
func (l *List[T]) Pop() (T, bool) { //nolint:ireturn
	if l.IsEmpty() {
		var zero T
		return zero, false
	}

	elem := l.head
	l.head = elem.next
	l.size--

	return l.detach(elem), true
}

// Peek returns the first element without removing it.
func (l *List[T]) Peek() (T, bool) { //nolint:ireturn
	if l.IsEmpty() {
		var zero T
		return zero, false
	}

	return l.head.val, true
}

// PeekMut returns a pointer to the first element so that it can be replaced in
// place. The pointer is valid until the element is popped.
func (l *List[T]) PeekMut() (*T, bool) {
	if l.IsEmpty() {
		return nil, false
	}

	return &l.head.val, true
}

// Clear removes all elements from the list and returns how many were removed.
//
// Nodes are unlinked one at a time from head to tail, so the cost in stack is
// constant regardless of the list length.
func (l *List[T]) Clear() int {
	if l == nil {
		return 0
	}

	n := 0
	for elem := l.head; elem != nil; n++ {
		next := elem.next
		l.detach(elem)
		elem = next
	}

	l.head = nil
	l.size = 0

	return n
}

// detach cuts the node off the chain and hands its value out.
func (l *List[T]) detach(elem *listElem[T]) T {
	val := elem.val
	elem.next = nil

	var zero T
	elem.val = zero

	if l.release != nil {
		l.release(val)
	}

	return val
}

// All returns an iterator for all elements in the list. It does not consume the
// list and can be ranged over any number of times.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l == nil {
			return
		}

		for e := l.head; e != nil; e = e.next {
			if !yield(e.val) {
				return
			}
		}
	}
}

// Mutable returns an iterator yielding a pointer to each element in turn. Each
// element is visited exactly once per range.
func (l *List[T]) Mutable() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		if l == nil {
			return
		}

		for e := l.head; e != nil; {
			next := e.next
			if !yield(&e.val) {
				return
			}
			e = next
		}
	}
}

// Drain returns an iterator that pops the elements one by one. Breaking out of
// the loop leaves the remaining elements in the list.
func (l *List[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			val, ok := l.Pop()
			if !ok || !yield(val) {
				return
			}
		}
	}
}

func (l *List[T]) String() string {
	var sb strings.Builder

	sb.WriteByte('[')
	i := 0
	for v := range l.All() {
		if i != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
		i++
	}
	sb.WriteByte(']')

	return sb.String()
}
