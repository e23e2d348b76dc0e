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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEngineSubmitStringDeliversBatch(t *testing.T) {
	var mu sync.Mutex
	var received []ObservationRecord

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var batch []ObservationRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		mu.Lock()
		received = append(received, batch...)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx-1", nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestEngineSubmitBeforeInitIsNoop(t *testing.T) {
	e := NewEngine()
	assert.NotPanics(t, func() {
		e.SubmitString(`<Root/>`, "ctx", nil)
	})
}

func TestEngineSubmitBlankContextIDIsDropped(t *testing.T) {
	var called int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
		w.WriteHeader(http.StatusOK)
	})

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	e.SubmitString(`<Root><Field>value</Field></Root>`, "   ", nil)

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&called))
}

func TestEngineSubmitReturnsQuickly(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	start := time.Now()
	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond, "Submit must return before the HTTP round trip completes")
}

func TestEngineHTTPFailureRoutesToErrorSink(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	var mu sync.Mutex
	var errs []error

	e := NewEngine()
	e.Init(Options{
		BaseURL: srv.URL,
		OnError: func(err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		},
	})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) > 0
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var apiErr *CatalogAPIError
	require.ErrorAs(t, errs[0], &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestEngineWorkerSurvivesFailureAndDeliversNextSubmission(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var delivered int32

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		atomic.AddInt32(&delivered, 1)
		w.WriteHeader(http.StatusOK)
	})

	var errCount int32
	e := NewEngine()
	e.Init(Options{
		BaseURL: srv.URL,
		OnError: func(err error) { atomic.AddInt32(&errCount, 1) },
	})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&errCount) > 0
	}, time.Second, 5*time.Millisecond)

	fail.Store(false)
	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&delivered) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEngineSameDocumentTwiceProducesIdenticalPayloads(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	var urls []string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var batch []ObservationRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		normalized, err := json.Marshal(batch)
		require.NoError(t, err)
		mu.Lock()
		bodies = append(bodies, string(normalized))
		urls = append(urls, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL})
	t.Cleanup(func() { e.Shutdown(time.Second) })

	const doc = `<Root><Child>value</Child></Root>`
	md := map[string]string{"k": "v"}
	e.SubmitString(doc, "c", md)
	e.SubmitString(doc, "c", md)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(bodies) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, "/catalog/contexts/c/observations", urls[0])
	assert.Equal(t, urls[0], urls[1])
}

func TestEngineQueueOverflowUnderLoadIsSilent(t *testing.T) {
	block := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-block
		w.WriteHeader(http.StatusOK)
	})
	t.Cleanup(func() { close(block) })

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL, QueueCapacity: 2})
	t.Cleanup(func() { e.Reset() })

	for i := 0; i < 50; i++ {
		assert.NotPanics(t, func() {
			e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
		})
	}
	assert.Greater(t, e.DroppedSubmissions(), uint64(0))
}

func TestEngineDefaultBatchSizeAppliedWhenZero(t *testing.T) {
	e := NewEngine()
	e.Init(Options{BaseURL: "http://127.0.0.1:0", BatchSize: 0})
	t.Cleanup(func() { e.Reset() })

	e.mu.Lock()
	bs := e.batchSize
	e.mu.Unlock()
	assert.Equal(t, DefaultBatchSize, bs)
}

func TestEngineShutdownWithoutInitReturnsTrue(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.Shutdown(time.Millisecond))
}

func TestEngineShutdownDrainsThenReturnsTrue(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	e := NewEngine()
	e.Init(Options{BaseURL: srv.URL})
	e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)

	assert.True(t, e.Shutdown(time.Second))

	// submissions after shutdown are silently dropped, not panics.
	assert.NotPanics(t, func() {
		e.SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
	})
}

func TestPackageLevelSingletonForwarding(t *testing.T) {
	Reset()
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	Init(Options{BaseURL: srv.URL})
	t.Cleanup(func() { Shutdown(time.Second) })

	assert.NotPanics(t, func() {
		SubmitString(`<Root><Field>value</Field></Root>`, "ctx", nil)
	})
}
