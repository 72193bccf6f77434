package save

import "slices"

// BoundedQueue is an ordered history with a fixed capacity. Index 0 is the
// newest entry; pushing onto a full queue evicts the oldest one.
type BoundedQueue[T any] struct {
	items []T
	limit int
}

// NewBoundedQueue returns a queue holding at most limit entries, seeded with
// items (newest first). Seed entries past the limit are dropped.
func NewBoundedQueue[T any](limit int, items ...T) *BoundedQueue[T] {
	if limit < 1 {
		limit = 1
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return &BoundedQueue[T]{items: slices.Clone(items), limit: limit}
}

// PushFront adds v as the newest entry and returns what was evicted.
func (q *BoundedQueue[T]) PushFront(v T) []T {
	q.items = slices.Insert(q.items, 0, v)
	if len(q.items) <= q.limit {
		return nil
	}
	evicted := slices.Clone(q.items[q.limit:])
	q.items = q.items[:q.limit]
	return evicted
}

// At returns the entry at index i.
func (q *BoundedQueue[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(q.items) {
		var zero T
		return zero, false
	}
	return q.items[i], true
}

// Remove takes the entry at index i out of the queue.
func (q *BoundedQueue[T]) Remove(i int) (T, bool) {
	v, ok := q.At(i)
	if !ok {
		return v, false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return v, true
}

func (q *BoundedQueue[T]) Len() int   { return len(q.items) }
func (q *BoundedQueue[T]) Limit() int { return q.limit }

// Items returns a copy of the entries, newest first.
func (q *BoundedQueue[T]) Items() []T {
	return slices.Clone(q.items)
}
