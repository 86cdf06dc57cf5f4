/*
Package sorted implements a generic list that keeps its elements in ascending
order as they are added.

Elements define their own ordering and equality through the Element
constraint:

	type Element[T any] interface {
	  Compare(other T) int // <0, 0, >0
	  Equal(other T) bool  // structural equality
	}

Ordering and equality are deliberately separate: two elements may compare
equal (same position in the order) without being Equal. Elements that
compare equal keep the order in which they were added.

The list is a doubly linked chain whose nodes live in a slice and refer to
each other by index. Removed slots are reused by later additions.

Insertion, indexed access and search are linear. Add scans from the tail, so
feeding already-sorted input costs O(1) per element.

A List is not safe for concurrent use. Modifying a list while ranging over
one of its iterators has undefined results.
*/
package sorted
