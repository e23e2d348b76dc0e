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

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// worker is the single dedicated background consumer. It runs as long as
// the queue is open (or has a backlog), slicing each work item into
// contiguous batches and sending them in order. A failure on one batch is
// reported to the error sink without abandoning the remaining batches or
// the loop itself.
type worker struct {
	queue     *boundedQueue
	transport *transport
	batchSize int
	errorSink ErrorSink
	logf      func(keyvals ...any) error

	done chan struct{}
}

func newWorker(q *boundedQueue, t *transport, batchSize int, sink ErrorSink, logf func(keyvals ...any) error) *worker {
	return &worker{
		queue:     q,
		transport: t,
		batchSize: batchSize,
		errorSink: sink,
		logf:      logf,
		done:      make(chan struct{}),
	}
}

// run is the worker's main loop. It is started in its own goroutine by
// Init and exits once the queue is closed and drained (Shutdown) or,
// defensively, if take() itself panics.
func (w *worker) run() {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			safeInvoke(w.errorSink, fmt.Errorf("catalogxml: worker panic: %v", r))
		}
	}()

	for {
		item, ok := w.queue.take()
		if !ok {
			return
		}
		w.processWorkItem(item)
	}
}

func (w *worker) processWorkItem(item workItem) {
	defer func() {
		if r := recover(); r != nil {
			safeInvoke(w.errorSink, fmt.Errorf("catalogxml: worker internal error: %v", r))
		}
	}()

	correlationID := uuid.NewString()
	endpointContext := item.contextID

	for start := 0; start < len(item.observations); start += w.batchSize {
		end := start + w.batchSize
		if end > len(item.observations) {
			end = len(item.observations)
		}
		batch := item.observations[start:end]

		if w.logf != nil {
			w.logf("msg", "sending batch", "context", endpointContext, "correlationId", correlationID, "size", len(batch))
		}

		if err := w.transport.sendBatch(context.Background(), endpointContext, batch); err != nil {
			safeInvoke(w.errorSink, err)
		}
	}
}
