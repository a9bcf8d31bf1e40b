// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

// Package runq provides the shared run queue that batch workers drain.
package runq

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is a thread-safe FIFO queue. The zero value is ready to use.
type Queue[T any] struct {
	mu sync.Mutex
	d  deque.Deque[T]
}

// PushBack adds an item to the back of the queue.
func (q *Queue[T]) PushBack(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.d.PushBack(item)
}

// PopFront removes and returns an item from the front of the queue.
// Returns the item and true if successful, zero value and false if empty.
func (q *Queue[T]) PopFront() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.d.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.d.PopFront(), true
}

// Len returns the current queue length.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.d.Len()
}
