// Copyright 2025 Tamás Gulácsi
//
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package catalogxml

import "sync"

// workItem is a unit of work handed from a producer to the worker: all the
// observations extracted from one submission, destined for one context.
type workItem struct {
	contextID    string
	observations []ObservationRecord
}

// boundedQueue is a fixed-capacity multi-producer, single-consumer handoff.
// offer never blocks: it either succeeds or reports "full" so the caller can
// drop the item. take blocks the single consumer until an item is available
// or the queue is closed and drained.
//
// This is the same discipline as a sync.Pool in spirit: a small, explicitly
// bounded resource shared between many producers and one consumer, guarded
// by a single mutex.
type boundedQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []workItem
	capacity int
	closed   bool
	dropped  uint64
}

func newBoundedQueue(capacity int) *boundedQueue {
	q := &boundedQueue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// offer attempts to enqueue an item without blocking. It reports whether the
// item was accepted; on false (queue full or closed) the caller must treat
// the item as dropped.
func (q *boundedQueue) offer(item workItem) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || len(q.items) >= q.capacity {
		q.dropped++
		return false
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return true
}

// take blocks until an item is available, returning ok=false once the queue
// has been closed and fully drained.
func (q *boundedQueue) take() (workItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return workItem{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// close signals the consumer to exit once the backlog is drained. Pending
// items already offered are still delivered to take(); no new items are
// accepted after close.
func (q *boundedQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
}

// drained reports whether the queue has been closed and emptied.
func (q *boundedQueue) drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.items) == 0
}

// droppedSubmissions returns the number of items dropped because the queue
// was full or already closed at offer time. The wire contract says nothing about drops; the
// counter exists for observability only.
func (q *boundedQueue) droppedSubmissions() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
