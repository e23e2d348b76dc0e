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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/UNO-SOFT/fieldcatalog/catalogxml"
	"github.com/UNO-SOFT/fieldcatalog/meta"
)

// DefaultTimeout is the per-request timeout used when Options.Timeout is
// zero.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries and DefaultRetryDelay shape SubmitObservations' linear
// backoff when Options leaves them unset.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Options configures a Client.
type Options struct {
	// HTTPClient, if set, is used for every request. Defaults to a client
	// built from Timeout.
	HTTPClient *http.Client
	// Timeout bounds every individual request. <= 0 selects DefaultTimeout.
	Timeout time.Duration
	// MaxRetries bounds submitObservations' retry attempts on 5xx and
	// network/timeout failures. <= 0 selects DefaultMaxRetries.
	MaxRetries int
	// RetryDelay is the base of the linear backoff: attempt N sleeps
	// RetryDelay * (N+1). <= 0 selects DefaultRetryDelay.
	RetryDelay time.Duration
	// Log, if set, receives structured keyval logging.
	Log func(keyvals ...any) error
}

// SubmissionResult reports the outcome of SubmitObservations and
// SubmitXmlObservations. Unlike the fire-and-forget engine, submission
// failures are reported here rather than silently dropped, as a typed
// result rather than an error.
type SubmissionResult struct {
	Success          bool
	ObservationCount int
	ErrorMessage     string
}

// Client is the synchronous, error-reporting API client used by the
// generator workflow. Unlike catalogxml.Engine it performs no queuing or
// batching of its own: SubmitObservations sends all records in one request
// body per call, repeating that request on transient failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logf       func(keyvals ...any) error
}

// New builds a Client targeting baseURL (trailing slash stripped).
func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logf:       opts.Log,
	}
}

func (c *Client) log(keyvals ...any) {
	if c.logf != nil {
		_ = c.logf(keyvals...)
	}
}

// HealthCheck reports whether the catalog API is reachable, per GET
// /actuator/health.
func (c *Client) HealthCheck(ctx context.Context) bool {
	resp, err := c.do(ctx, http.MethodGet, "/actuator/health", nil)
	if err != nil {
		return false
	}
	defer drain(resp)
	return resp.StatusCode == http.StatusOK
}

// ContextExists reports whether a context with the given id exists.
func (c *Client) ContextExists(ctx context.Context, contextID string) bool {
	resp, err := c.do(ctx, http.MethodGet, "/catalog/contexts/"+url.PathEscape(contextID), nil)
	if err != nil {
		return false
	}
	defer drain(resp)
	return resp.StatusCode == http.StatusOK
}

// GetContext fetches context details, returning (nil, false) if the
// request fails or the context doesn't exist.
func (c *Client) GetContext(ctx context.Context, contextID string) (map[string]any, bool) {
	resp, err := c.do(ctx, http.MethodGet, "/catalog/contexts/"+url.PathEscape(contextID), nil)
	if err != nil {
		return nil, false
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}

type createContextRequest struct {
	ContextID        string   `json:"contextId"`
	DisplayName      string   `json:"displayName"`
	Description      string   `json:"description"`
	RequiredMetadata []string `json:"requiredMetadata"`
	OptionalMetadata []string `json:"optionalMetadata"`
	Active           bool     `json:"active"`
}

// CreateContext creates a new context from cfg. 201 and 409 (already
// exists) both count as success; any other outcome is an error.
func (c *Client) CreateContext(ctx context.Context, cfg meta.ContextConfig) error {
	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.ContextID
	}
	description := cfg.Description
	if description == "" {
		description = "Test context for " + cfg.ContextID
	}

	body := createContextRequest{
		ContextID:        cfg.ContextID,
		DisplayName:      displayName,
		Description:      description,
		RequiredMetadata: keysOf(cfg.RequiredMetadata),
		OptionalMetadata: keysOf(cfg.OptionalMetadata),
		Active:           true,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "genclient: encode create-context payload")
	}

	resp, err := c.do(ctx, http.MethodPost, "/catalog/contexts", payload)
	if err != nil {
		return errors.Wrap(err, "genclient: create context")
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return errors.Errorf("genclient: create context failed: %d - %s", resp.StatusCode, string(b))
	}
}

// DeleteContext removes a context. A 404 counts as success (already gone).
func (c *Client) DeleteContext(ctx context.Context, contextID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/catalog/contexts/"+url.PathEscape(contextID), nil)
	if err != nil {
		return errors.Wrap(err, "genclient: delete context")
	}
	defer drain(resp)
	if (resp.StatusCode >= 200 && resp.StatusCode < 300) || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return errors.Errorf("genclient: delete context failed: %d - %s", resp.StatusCode, string(b))
}

// EnsureContextExists creates cfg's context if it doesn't already exist.
func (c *Client) EnsureContextExists(ctx context.Context, cfg meta.ContextConfig) error {
	if c.ContextExists(ctx, cfg.ContextID) {
		return nil
	}
	return c.CreateContext(ctx, cfg)
}

// SubmitObservations posts records to contextID, retrying on 5xx and
// network/timeout failures with linear backoff (retryDelay*(attempt+1)),
// up to maxRetries attempts. 4xx failures are never retried. Failures are
// reported in the returned result, not as an error.
func (c *Client) SubmitObservations(ctx context.Context, contextID string, records []catalogxml.ObservationRecord) SubmissionResult {
	if len(records) == 0 {
		return SubmissionResult{Success: true}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return SubmissionResult{ErrorMessage: "encode error: " + err.Error()}
	}

	endpoint := "/catalog/contexts/" + url.PathEscape(contextID) + "/observations"

	var lastErr string
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.do(ctx, http.MethodPost, endpoint, payload)
		if err != nil {
			lastErr = classifyRequestErr(err)
			if c.sleepForRetry(ctx, attempt) {
				continue
			}
			return SubmissionResult{ErrorMessage: lastErr}
		}

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent:
			drain(resp)
			return SubmissionResult{Success: true, ObservationCount: len(records)}
		case resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
			drain(resp)
			lastErr = "server error: " + resp.Status + " - " + string(body)
			if c.sleepForRetry(ctx, attempt) {
				continue
			}
			return SubmissionResult{ErrorMessage: lastErr}
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
			drain(resp)
			return SubmissionResult{ErrorMessage: "client error: " + resp.Status + " - " + string(body)}
		}
	}
	if lastErr == "" {
		lastErr = "max retries exceeded"
	}
	return SubmissionResult{ErrorMessage: lastErr}
}

// SubmitXmlObservations extracts observations from xmlContent and submits
// them to contextID.
func (c *Client) SubmitXmlObservations(ctx context.Context, contextID, xmlContent string, metadata map[string]string) SubmissionResult {
	observations := catalogxml.ExtractObservations(xmlContent, metadata)
	if len(observations) == 0 {
		return SubmissionResult{ErrorMessage: "no observations extracted from XML"}
	}
	return c.SubmitObservations(ctx, contextID, observations)
}

// sleepForRetry reports whether attempt should be retried (attempt+1 <
// maxRetries), sleeping retryDelay*(attempt+1) first unless ctx is done.
func (c *Client) sleepForRetry(ctx context.Context, attempt int) bool {
	if attempt+1 >= c.maxRetries {
		return false
	}
	delay := c.retryDelay * time.Duration(attempt+1)
	c.log("msg", "retrying submission", "attempt", attempt+1, "delay", delay)
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

func classifyRequestErr(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || isTimeoutErr(err) {
		return "Request timed out"
	}
	return "Network error: " + err.Error()
}

type timeouter interface{ Timeout() bool }

func isTimeoutErr(err error) bool {
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

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func keysOf(m map[string][]string) []string {
	if len(m) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
