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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// bufPool reuses the buffers used to marshal and read batch payloads.
var bufPool = sync.Pool{New: func() any { return bytes.NewBuffer(make([]byte, 0, 4096)) }}

// transport performs a single batch POST and classifies any failure as a
// status, timeout, or network error. It never retries.
type transport struct {
	client  *http.Client
	baseURL string
}

func newTransport(client *http.Client, baseURL string) *transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &transport{client: client, baseURL: baseURL}
}

// sendBatch POSTs one batch of observations to
// {baseUrl}/catalog/contexts/{contextId}/observations. On success it returns
// nil; any other outcome returns a *CatalogAPIError classifying the failure.
func (t *transport) sendBatch(ctx context.Context, contextID string, batch []ObservationRecord) error {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(batch); err != nil {
		return newNetworkError(err)
	}

	endpoint := t.baseURL + "/catalog/contexts/" + url.PathEscape(contextID) + "/observations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return newNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return newTimeoutError(err)
		}
		if isTimeout(err) {
			return newTimeoutError(err)
		}
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return newStatusError(resp.StatusCode, string(body))
}

type timeouter interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	var t timeouter
	for e := err; e != nil; {
		if tt, ok := e.(timeouter); ok {
			t = tt
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return t != nil && t.Timeout()
}
