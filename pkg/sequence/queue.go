// Package sequence provides ordered container helpers. DeadlineQueue backs
// the gesture detector's timer wheel: long-press and double-tap deadlines are
// queued here and fired by the detector's Tick, so recognition is driven
// entirely by injected time and stays deterministic under test.
package sequence

import (
	"container/heap"
	"time"
)

// DeadlineItem is a queued value with a due time.
type DeadlineItem[T any] struct {
	Value T
	Due   time.Time
	index int
}

type deadlineHeap[T any] struct {
	items []*DeadlineItem[T]
}

func (h *deadlineHeap[T]) Len() int { return len(h.items) }

func (h *deadlineHeap[T]) Less(i, j int) bool {
	return h.items[i].Due.Before(h.items[j].Due)
}

func (h *deadlineHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *deadlineHeap[T]) Push(x any) {
	item := x.(*DeadlineItem[T])
	item.index = len(h.items)
	h.items = append(h.items, item)
}

func (h *deadlineHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	h.items = old[0 : n-1]
	return item
}

// DeadlineQueue is a min-heap of values ordered by due time.
type DeadlineQueue[T any] struct {
	h deadlineHeap[T]
}

func NewDeadlineQueue[T any]() *DeadlineQueue[T] {
	q := &DeadlineQueue[T]{}
	heap.Init(&q.h)
	return q
}

// Schedule enqueues value to fire at due and returns its handle for Cancel.
func (q *DeadlineQueue[T]) Schedule(value T, due time.Time) *DeadlineItem[T] {
	item := &DeadlineItem[T]{Value: value, Due: due}
	heap.Push(&q.h, item)
	return item
}

// Cancel removes a scheduled item. Cancelling an already-fired or cancelled
// item is a no-op.
func (q *DeadlineQueue[T]) Cancel(item *DeadlineItem[T]) {
	if item == nil || item.index < 0 || item.index >= len(q.h.items) {
		return
	}
	if q.h.items[item.index] != item {
		return
	}
	heap.Remove(&q.h, item.index)
}

// PopDue removes and returns the earliest item whose deadline is at or before
// now, or nil when nothing is due.
func (q *DeadlineQueue[T]) PopDue(now time.Time) *DeadlineItem[T] {
	if q.h.Len() == 0 {
		return nil
	}
	head := q.h.items[0]
	if head.Due.After(now) {
		return nil
	}
	return heap.Pop(&q.h).(*DeadlineItem[T])
}

// Len returns the number of pending items.
func (q *DeadlineQueue[T]) Len() int {
	return q.h.Len()
}

// Clear drops every pending item.
func (q *DeadlineQueue[T]) Clear() {
	q.h.items = nil
}
