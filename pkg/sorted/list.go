package sorted

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"
)

var (
	// ErrNilElement is returned by Add for nil pointer, map, slice,
	// function, channel or interface elements.
	ErrNilElement = errors.New("sorted: nil element")

	// ErrIndexOutOfRange is returned by Get for an index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("sorted: index out of range")
)

// Element is the constraint satisfied by list elements.
type Element[T any] interface {
	Compare(other T) int
	Equal(other T) bool
}

// none marks a missing link.
const none = -1

type node[T any] struct {
	value T
	prev  int
	next  int
}

// List is an ascending, insertion-stable list of elements. The zero value
// is an empty list ready to use.
type List[T Element[T]] struct {
	nodes []node[T]
	free  []int
	head  int
	tail  int
	size  int
}

// New returns an empty list.
func New[T Element[T]]() *List[T] {
	return &List[T]{head: none, tail: none}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.size }

// Add inserts x after every element that does not compare greater than it,
// keeping the list sorted and equal elements in insertion order.
func (l *List[T]) Add(x T) error {
	if isNil(x) {
		return ErrNilElement
	}
	n := l.alloc(x)
	if l.size == 0 {
		l.head, l.tail = n, n
		l.size = 1
		return nil
	}

	// Walk back to the last element <= x.
	at := l.tail
	for at != none && l.nodes[at].value.Compare(x) > 0 {
		at = l.nodes[at].prev
	}

	if at == none {
		l.nodes[n].next = l.head
		l.nodes[l.head].prev = n
		l.head = n
	} else {
		next := l.nodes[at].next
		l.nodes[n].prev = at
		l.nodes[n].next = next
		l.nodes[at].next = n
		if next == none {
			l.tail = n
		} else {
			l.nodes[next].prev = n
		}
	}
	l.size++
	return nil
}

// Get returns the element at index i.
func (l *List[T]) Get(i int) (T, error) {
	if i < 0 || i >= l.size {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, l.size)
	}
	return l.nodes[l.nodeAt(i)].value, nil
}

// Remove deletes the first element Equal to x. It reports whether an
// element was removed.
func (l *List[T]) Remove(x T) bool {
	n := l.find(x, 0)
	if n == none {
		return false
	}
	l.unlink(n)
	return true
}

// Contains reports whether some element is Equal to x.
func (l *List[T]) Contains(x T) bool {
	return l.IndexOf(x) >= 0
}

// IndexOf returns the index of the first element Equal to x, or -1.
func (l *List[T]) IndexOf(x T) int {
	return l.NextIndexOf(x, 0)
}

// NextIndexOf returns the index of the first element Equal to x at or after
// index from, or -1. An out of range from yields -1.
func (l *List[T]) NextIndexOf(x T, from int) int {
	if from < 0 || from >= l.size {
		return -1
	}
	i := from
	for n := l.nodeAt(from); n != none; n = l.nodes[n].next {
		if l.nodes[n].value.Equal(x) {
			return i
		}
		i++
	}
	return -1
}

// Clear removes all elements.
func (l *List[T]) Clear() {
	l.nodes = nil
	l.free = nil
	l.head, l.tail = none, none
	l.size = 0
}

// All returns an iterator over the elements in ascending order. Each call
// starts a fresh pass.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := l.first(); n != none; n = l.nodes[n].next {
			if !yield(l.nodes[n].value) {
				return
			}
		}
	}
}

// Backward returns an iterator over index/element pairs from the last
// element to the first.
func (l *List[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := l.size - 1
		for n := l.last(); n != none; n = l.nodes[n].prev {
			if !yield(i, l.nodes[n].value) {
				return
			}
			i--
		}
	}
}

// Values returns the elements in ascending order as a new slice.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

// Equal reports whether both lists hold pairwise Equal elements in the
// same order.
func (l *List[T]) Equal(other *List[T]) bool {
	if l == other {
		return true
	}
	if other == nil || l.size != other.size {
		return false
	}
	a, b := l.first(), other.first()
	for a != none && b != none {
		if !l.nodes[a].value.Equal(other.nodes[b].value) {
			return false
		}
		a, b = l.nodes[a].next, other.nodes[b].next
	}
	return a == none && b == none
}

// String renders the list as "[a, b, c]".
func (l *List[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	sep := ""
	for v := range l.All() {
		b.WriteString(sep)
		fmt.Fprint(&b, v)
		sep = ", "
	}
	b.WriteByte(']')
	return b.String()
}

// ---------------------------------------------------------------------------
// Arena helpers
// ---------------------------------------------------------------------------

func (l *List[T]) first() int {
	if l.size == 0 {
		return none
	}
	return l.head
}

func (l *List[T]) last() int {
	if l.size == 0 {
		return none
	}
	return l.tail
}

// alloc stores x in a free slot and returns its index. The node is not
// linked yet.
func (l *List[T]) alloc(x T) int {
	nd := node[T]{value: x, prev: none, next: none}
	if k := len(l.free); k > 0 {
		n := l.free[k-1]
		l.free = l.free[:k-1]
		l.nodes[n] = nd
		return n
	}
	l.nodes = append(l.nodes, nd)
	return len(l.nodes) - 1
}

func (l *List[T]) unlink(n int) {
	prev, next := l.nodes[n].prev, l.nodes[n].next
	if prev == none {
		l.head = next
	} else {
		l.nodes[prev].next = next
	}
	if next == none {
		l.tail = prev
	} else {
		l.nodes[next].prev = prev
	}
	l.nodes[n] = node[T]{prev: none, next: none}
	l.free = append(l.free, n)
	l.size--
}

// nodeAt walks from the nearer end to the node at index i, which must be
// in range.
func (l *List[T]) nodeAt(i int) int {
	if i < l.size/2 {
		n := l.head
		for ; i > 0; i-- {
			n = l.nodes[n].next
		}
		return n
	}
	n := l.tail
	for j := l.size - 1; j > i; j-- {
		n = l.nodes[n].prev
	}
	return n
}

// find returns the node of the first element Equal to x at or after index
// from, or none.
func (l *List[T]) find(x T, from int) int {
	if from < 0 || from >= l.size {
		return none
	}
	for n := l.nodeAt(from); n != none; n = l.nodes[n].next {
		if l.nodes[n].value.Equal(x) {
			return n
		}
	}
	return none
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	switch v := reflect.ValueOf(x); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
