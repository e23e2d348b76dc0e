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

package genclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fieldcatalog/catalogxml"
	"github.com/UNO-SOFT/fieldcatalog/meta"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/actuator/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL, Options{})
	assert.True(t, c.HealthCheck(context.Background()))
}

func TestHealthCheckUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", Options{Timeout: 100 * time.Millisecond})
	assert.False(t, c.HealthCheck(context.Background()))
}

func TestCreateContextAcceptsCreatedAndConflict(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusConflict} {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/catalog/contexts", r.URL.Path)
			var body createContextRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "deposits", body.ContextID)
			assert.True(t, body.Active)
			w.WriteHeader(status)
		})
		c := New(srv.URL, Options{})
		err := c.CreateContext(context.Background(), meta.ContextConfig{ContextID: "deposits"})
		assert.NoError(t, err)
	}
}

func TestCreateContextFailureReturnsError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})
	c := New(srv.URL, Options{})
	err := c.CreateContext(context.Background(), meta.ContextConfig{ContextID: "deposits"})
	require.Error(t, err)
}

func TestDeleteContextTreatsNotFoundAsSuccess(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound} {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/catalog/contexts/deposits", r.URL.Path)
			w.WriteHeader(status)
		})
		c := New(srv.URL, Options{})
		assert.NoError(t, c.DeleteContext(context.Background(), "deposits"))
	}
}

func TestEnsureContextExistsSkipsCreateWhenPresent(t *testing.T) {
	var createCalls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		atomic.AddInt32(&createCalls, 1)
		w.WriteHeader(http.StatusCreated)
	})
	c := New(srv.URL, Options{})
	require.NoError(t, c.EnsureContextExists(context.Background(), meta.ContextConfig{ContextID: "deposits"}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&createCalls))
}

func TestSubmitObservationsRetriesOn5xxThenSucceeds(t *testing.T) {
	var attempts int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL, Options{RetryDelay: time.Millisecond})
	result := c.SubmitObservations(context.Background(), "ctx", []catalogxml.ObservationRecord{{FieldPath: "/a", Count: 1}})
	assert.True(t, result.Success)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestSubmitObservationsNeverRetriesOn4xx(t *testing.T) {
	var attempts int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	c := New(srv.URL, Options{RetryDelay: time.Millisecond})
	result := c.SubmitObservations(context.Background(), "ctx", []catalogxml.ObservationRecord{{FieldPath: "/a", Count: 1}})
	assert.False(t, result.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSubmitObservationsEmptyIsSuccessWithoutRequest(t *testing.T) {
	var called int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
	})
	c := New(srv.URL, Options{})
	result := c.SubmitObservations(context.Background(), "ctx", nil)
	assert.True(t, result.Success)
	assert.Equal(t, int32(0), atomic.LoadInt32(&called))
}

func TestSubmitXmlObservationsExtractsAndSubmits(t *testing.T) {
	var received []catalogxml.ObservationRecord
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL, Options{})
	result := c.SubmitXmlObservations(context.Background(), "ctx", `<Root><Field>v</Field></Root>`, map[string]string{"k": "v"})
	require.True(t, result.Success)
	require.Len(t, received, 1)
	assert.Equal(t, "/Root/Field", received[0].FieldPath)
}

func TestSubmitXmlObservationsNoObservationsIsFailure(t *testing.T) {
	c := New("http://unused.invalid", Options{})
	result := c.SubmitXmlObservations(context.Background(), "ctx", "not xml", nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ErrorMessage)
}
