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
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
)

// DefaultBatchSize is used whenever Init is given batchSize <= 0.
const DefaultBatchSize = 500

// DefaultQueueCapacity is used whenever Init is given queueCapacity <= 0.
const DefaultQueueCapacity = 10000

// Options configures Init.
type Options struct {
	// Client is the HTTP client used for batch POSTs. Defaults to
	// http.DefaultClient when nil. Should be a long-lived, shared instance.
	Client *http.Client
	// BaseURL is the Field Catalog API base URL, e.g. "https://catalog.example.com".
	// A trailing slash is stripped.
	BaseURL string
	// BatchSize is the number of observations sent per POST. <= 0 selects
	// DefaultBatchSize.
	BatchSize int
	// QueueCapacity bounds the number of pending work items. <= 0 selects
	// DefaultQueueCapacity.
	QueueCapacity int
	// OnError, if set, is invoked for every internally-caught failure. It
	// must be safe to call concurrently; panics from it are swallowed.
	OnError ErrorSink
	// Log, if set, receives structured keyval logging from the worker.
	// Defaults to a no-op.
	Log func(keyvals ...any) error
}

// Engine is an explicit handle to one fire-and-forget observation pipeline.
// Most callers should use the package-level convenience functions
// (Init/Submit*/Shutdown), which forward to a lazily-initialized process
// singleton; construct an Engine directly when you need more than one
// pipeline in a process (e.g. tests).
type Engine struct {
	mu          sync.Mutex
	initialized bool
	shutdown    bool

	queue     *boundedQueue
	worker    *worker
	transport *transport
	batchSize int
	errorSink ErrorSink
	extractor extractor
}

// NewEngine returns an uninitialized Engine. Call Init before submitting.
func NewEngine() *Engine {
	return &Engine{}
}

// Init initializes the engine. The first call wins; later calls (even with
// different options) are no-ops. Any failure during init is routed to
// opts.OnError and leaves the engine uninitialized (so later calls can
// retry).
func (e *Engine) Init(opts Options) {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			safeInvoke(opts.OnError, &InitError{Cause: panicToError(r)})
		}
	}()

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	queueCapacity := opts.QueueCapacity
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")

	q := newBoundedQueue(queueCapacity)
	tr := newTransport(opts.Client, baseURL)
	w := newWorker(q, tr, batchSize, opts.OnError, opts.Log)

	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.queue = q
	e.transport = tr
	e.batchSize = batchSize
	e.errorSink = opts.OnError
	e.worker = w
	e.extractor = extractor{honorXsiNil: true}
	e.initialized = true
	e.shutdown = false
	e.mu.Unlock()

	go w.run()
}

// Reset discards all engine state unconditionally. For tests only: it does
// not gracefully drain the queue, unlike Shutdown.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = nil
	e.worker = nil
	e.transport = nil
	e.batchSize = 0
	e.errorSink = nil
	e.initialized = false
	e.shutdown = false
}

// Shutdown signals the worker to exit once the queue is drained and waits
// up to timeout for confirmation. Returns true immediately if the engine
// was never initialized, or once the drain completes cleanly within the
// timeout; returns false if the timeout elapses first. After Shutdown
// returns, intake calls silently return without enqueuing.
func (e *Engine) Shutdown(timeout time.Duration) bool {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return true
	}
	q, w := e.queue, e.worker
	e.shutdown = true
	e.mu.Unlock()

	q.close()

	select {
	case <-w.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// DroppedSubmissions reports how many submissions have been dropped because
// the queue was full (or already closed) at offer time. Returns 0 before Init. The counter is
// observability only; a drop is never reported to the error sink.
func (e *Engine) DroppedSubmissions() uint64 {
	e.mu.Lock()
	q := e.queue
	e.mu.Unlock()
	if q == nil {
		return 0
	}
	return q.droppedSubmissions()
}

// SubmitBytes submits XML field observations from bytes. Fire-and-forget:
// returns immediately, never throws.
func (e *Engine) SubmitBytes(data []byte, contextID string, metadata map[string]string) {
	e.enqueue(contextID, func() []ObservationRecord {
		return e.extractor.extractFromBytes(data, metadata)
	})
}

// SubmitString submits XML field observations from a string.
func (e *Engine) SubmitString(data string, contextID string, metadata map[string]string) {
	e.enqueue(contextID, func() []ObservationRecord {
		return e.extractor.extractFromString(data, metadata)
	})
}

// SubmitTree submits XML field observations from an already-parsed element
// tree. Accepts *etree.Document or *etree.Element.
func (e *Engine) SubmitTree(tree any, contextID string, metadata map[string]string) {
	root := rootOf(tree)
	e.enqueue(contextID, func() []ObservationRecord {
		return e.extractor.extractFromElement(root, metadata)
	})
}

func rootOf(tree any) *etree.Element {
	switch t := tree.(type) {
	case *etree.Document:
		if t == nil {
			return nil
		}
		return t.Root()
	case *etree.Element:
		return t
	default:
		return nil
	}
}

func (e *Engine) enqueue(contextID string, extract func() []ObservationRecord) {
	e.mu.Lock()
	initialized, shutdown, q := e.initialized, e.shutdown, e.queue
	sink := e.errorSink
	e.mu.Unlock()

	if !initialized || shutdown || q == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			safeInvoke(sink, panicToError(r))
		}
	}()

	if strings.TrimSpace(contextID) == "" {
		return
	}

	observations := extract()
	if len(observations) == 0 {
		return
	}

	q.offer(workItem{contextID: contextID, observations: observations})
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{value: r}
}

type panicError struct{ value any }

func (p *panicError) Error() string { return "panic: " + formatAny(p.value) }

func formatAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic value"
}
