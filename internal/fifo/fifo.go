// Package fifo provides a first-in first-out queue with O(1) amortized
// operations, used to drive breadth-first walks without recursion.
package fifo

import "iter"

// Queue is a FIFO queue. Pushes go to tail; when head is used up, tail
// becomes the new head, so no element is ever shifted in memory.
// The zero value is an empty queue.
type Queue[T any] struct {
	head    []T
	headIdx int
	tail    []T
}

// Push appends values to the back of the queue.
func (q *Queue[T]) Push(vs ...T) {
	q.tail = append(q.tail, vs...)
}

// Shift removes and returns the front of the queue. ok is false when the
// queue is empty.
func (q *Queue[T]) Shift() (v T, ok bool) {
	if q.headIdx >= len(q.head) && len(q.tail) > 0 {
		q.head, q.tail = q.tail, q.head[:0]
		q.headIdx = 0
	}
	if q.headIdx >= len(q.head) {
		return v, false
	}
	v = q.head[q.headIdx]
	var zero T
	q.head[q.headIdx] = zero // release the reference
	q.headIdx++
	return v, true
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return len(q.head) - q.headIdx + len(q.tail)
}

// All iterates over the queued values front to back without removing them.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range q.head[q.headIdx:] {
			if !yield(v) {
				return
			}
		}
		for _, v := range q.tail {
			if !yield(v) {
				return
			}
		}
	}
}
