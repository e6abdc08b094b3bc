package list_test

import (
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percona/percona-linked-lists/list"
)

func TestPushPop(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		l := list.New[int]()
		assert.True(t, l.IsEmpty())
		assert.Equal(t, 0, l.Len())

		for range 3 {
			v, ok := l.Pop()
			assert.False(t, ok)
			assert.Zero(t, v)
		}
	})

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()

		var l list.List[string]
		l.Push("a")

		v, ok := l.Pop()
		require.True(t, ok)
		assert.Equal(t, "a", v)
	})

	t.Run("lifo", func(t *testing.T) {
		t.Parallel()

		l := list.New[int]()
		l.Push(1)
		l.Push(2)
		l.Push(3)

		v, ok := l.Pop()
		require.True(t, ok)
		assert.Equal(t, 3, v)
		v, _ = l.Pop()
		assert.Equal(t, 2, v)

		l.Push(4)
		l.Push(5)

		v, _ = l.Pop()
		assert.Equal(t, 5, v)
		v, _ = l.Pop()
		assert.Equal(t, 4, v)

		v, ok = l.Pop()
		require.True(t, ok)
		assert.Equal(t, 1, v)

		_, ok = l.Pop()
		assert.False(t, ok)
		assert.True(t, l.IsEmpty())
	})

	t.Run("long sequence", func(t *testing.T) {
		t.Parallel()

		const n = 1000

		l := list.New[int]()
		for i := range n {
			l.Push(i)
		}
		assert.Equal(t, n, l.Len())

		for i := n - 1; i >= 0; i-- {
			v, ok := l.Pop()
			require.True(t, ok)
			require.Equal(t, i, v)
		}

		_, ok := l.Pop()
		assert.False(t, ok)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("nil list", func(t *testing.T) {
		t.Parallel()

		var l *list.List[int]
		assert.True(t, l.IsEmpty())
		assert.Equal(t, 0, l.Len())
		assert.Equal(t, 0, l.Clear())

		_, ok := l.Pop()
		assert.False(t, ok)
		_, ok = l.Peek()
		assert.False(t, ok)
		assert.Empty(t, slices.Collect(l.All()))
	})
}

func TestPeek(t *testing.T) {
	t.Parallel()

	l := list.New[int]()

	_, ok := l.Peek()
	assert.False(t, ok)
	p, ok := l.PeekMut()
	assert.False(t, ok)
	assert.Nil(t, p)

	l.Push(1)
	l.Push(2)
	l.Push(3)

	v, ok := l.Peek()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	p, ok = l.PeekMut()
	require.True(t, ok)
	assert.Equal(t, 3, *p)

	*p = 42

	v, _ = l.Peek()
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, l.Len())

	v, _ = l.Pop()
	assert.Equal(t, 42, v)
	v, _ = l.Peek()
	assert.Equal(t, 2, v)
}

func TestIterators(t *testing.T) {
	t.Parallel()

	build := func() *list.List[int] {
		l := list.New[int]()
		l.Push(1)
		l.Push(2)
		l.Push(3)

		return l
	}

	t.Run("all", func(t *testing.T) {
		t.Parallel()

		l := build()
		assert.Equal(t, []int{3, 2, 1}, slices.Collect(l.All()))
		assert.Equal(t, []int{3, 2, 1}, slices.Collect(l.All()))

		v, ok := l.Pop()
		require.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("all break", func(t *testing.T) {
		t.Parallel()

		l := build()

		var seen []int
		for v := range l.All() {
			seen = append(seen, v)
			if v == 2 {
				break
			}
		}

		assert.Equal(t, []int{3, 2}, seen)
		assert.Equal(t, 3, l.Len())
	})

	t.Run("mutable", func(t *testing.T) {
		t.Parallel()

		l := build()

		visits := 0
		for p := range l.Mutable() {
			*p += 10
			visits++
		}

		assert.Equal(t, 3, visits)
		assert.Equal(t, []int{13, 12, 11}, slices.Collect(l.All()))

		v, ok := l.Pop()
		require.True(t, ok)
		assert.Equal(t, 13, v)
	})

	t.Run("drain", func(t *testing.T) {
		t.Parallel()

		l := build()
		assert.Equal(t, []int{3, 2, 1}, slices.Collect(l.Drain()))
		assert.True(t, l.IsEmpty())
		assert.Empty(t, slices.Collect(l.Drain()))
	})

	t.Run("drain break", func(t *testing.T) {
		t.Parallel()

		l := build()
		for v := range l.Drain() {
			if v == 3 {
				break
			}
		}

		assert.Equal(t, []int{2, 1}, slices.Collect(l.All()))
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	t.Run("release order", func(t *testing.T) {
		t.Parallel()

		l := list.New[int]()
		l.Push(1)
		l.Push(2)
		l.Push(3)

		var released []int
		l.SetReleaseFunc(func(v int) { released = append(released, v) })

		assert.Equal(t, 3, l.Clear())
		assert.Equal(t, []int{3, 2, 1}, released)
		assert.True(t, l.IsEmpty())
		assert.Equal(t, 0, l.Len())

		_, ok := l.Pop()
		assert.False(t, ok)
	})

	t.Run("pop and drain release", func(t *testing.T) {
		t.Parallel()

		l := list.New[string]()

		var released []string
		l.SetReleaseFunc(func(v string) { released = append(released, v) })

		l.Push("a")
		l.Push("b")
		l.Push("c")

		l.Pop()
		for range l.Drain() {
			break
		}
		l.Clear()

		assert.Equal(t, []string{"c", "b", "a"}, released)
	})

	t.Run("large list", func(t *testing.T) {
		t.Parallel()

		const n = 200_000

		l := list.New[int]()
		for i := range n {
			l.Push(i)
		}

		released := 0
		l.SetReleaseFunc(func(int) { released++ })

		assert.Equal(t, n, l.Clear())
		assert.Equal(t, n, released)
		assert.True(t, l.IsEmpty())

		l.Push(1)
		assert.Equal(t, 1, l.Len())
	})
}

func TestDropLargeList(t *testing.T) { //nolint:paralleltest
	func() {
		l := list.New[int]()
		for i := range 200_000 {
			l.Push(i)
		}
		assert.Equal(t, 200_000, l.Len())
	}()

	// the unreachable chain is marked and swept here, without recursion
	runtime.GC()
}

func TestString(t *testing.T) {
	t.Parallel()

	l := list.New[int]()
	assert.Equal(t, "[]", l.String())

	l.Push(1)
	l.Push(2)
	assert.Equal(t, "[2 1]", l.String())
}
