// Package queue implements an async blocking MPMC queue: a mutex- and
// condition-variable-guarded singly-linked list with FIFO (enqueue_last)
// and LIFO-bypass (enqueue_first) insertion paths, used by the service/event
// manager (internal/opcua/eventmgr) to hold its pending events.
package queue

import (
	"sync"

	"github.com/edge-opcua/opcuacore/internal/opcua/list"
	"github.com/edge-opcua/opcuacore/internal/opcua/status"
)

// Queue is a blocking MPMC queue of values of type T. The queue does not
// coalesce events: every enqueue produces exactly one dequeue. The zero
// value is not usable; construct with New.
type Queue[T any] struct {
	name    string
	mu      sync.Mutex
	cond    *sync.Cond
	items   *list.List[T]
	waiting uint32
}

// New creates an empty queue. name is carried only for debug logging, as in
// the original's named async queues.
func New[T any](name string) *Queue[T] {
	q := &Queue[T]{name: name, items: list.New[T](0)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Name returns the queue's debug name.
func (q *Queue[T]) Name() string { return q.name }

// EnqueueLast appends value to the tail. Never blocks other than briefly on
// the internal mutex. Wakes any blocked dequeuer.
func (q *Queue[T]) EnqueueLast(value T) {
	q.mu.Lock()
	q.items.Append(0, value)
	if q.waiting > 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

// EnqueueFirst prepends value, so it is dequeued before any
// already-enqueued element. Intended only for priority events (e.g.
// activation shortcuts); overuse breaks FIFO ordering guarantees for
// observers.
func (q *Queue[T]) EnqueueFirst(value T) {
	q.mu.Lock()
	q.items.Prepend(0, value)
	if q.waiting > 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

// DequeueBlocking pops the head element, waiting on the condition variable
// while the queue is empty. It only returns once an element is available.
func (q *Queue[T]) DequeueBlocking() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	v, ok := q.items.PopHead()
	if ok {
		return v
	}

	q.waiting++
	for {
		v, ok = q.items.PopHead()
		if ok {
			break
		}
		q.cond.Wait()
	}
	q.waiting--
	return v
}

// DequeueNonblocking pops the head element if one is available, or returns
// a WouldBlock status error if the queue is empty.
func (q *Queue[T]) DequeueNonblocking() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	v, ok := q.items.PopHead()
	if !ok {
		return v, status.New("queue.DequeueNonblocking", status.WouldBlock)
	}
	return v, nil
}

// Len returns the current number of queued elements.
func (q *Queue[T]) Len() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
