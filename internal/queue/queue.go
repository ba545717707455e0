// Package queue contains generic ring buffer FIFO queue.
package queue

const minSize = 3

// Queue grows and shrinks as needed, size is always 2^n - 1.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

// New creates a queue filled with items.
func New[T any](items ...T) *Queue[T] {
	l := len(items)
	q := &Queue[T]{tail: l, size: computeSize(l)}
	q.items = make([]T, q.size+1)
	copy(q.items, items)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items in order, the result may share memory with the queue.
func (q *Queue[T]) Items() []T {
	if q.tail >= q.head {
		return q.items[q.head:q.tail]
	}

	res := make([]T, q.Len())
	copy(res, q.items[q.head:q.size+1])
	copy(res[q.size-q.head+1:], q.items[:q.tail])
	return res
}

// Append adds item to the tail and returns the queue.
func (q *Queue[T]) Append(item T) *Queue[T] {
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return q
}

// First removes and returns the head item, returns false if the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return res, true
}

func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}

	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	return length | length>>16
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size += q.tail
	q.items = items
}
