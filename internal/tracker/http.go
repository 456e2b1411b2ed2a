// Package tracker provides thin query clients for the two issue trackers gg
// talks to: a Bugzilla instance and the GitHub REST API.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested bug, issue or pull request does not exist.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from a tracker.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Is makes a 404 match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Option configures a tracker client.
type Option func(*httpClient)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.http = c }
}

// WithTimeout sets a per-request timeout. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(h *httpClient) { h.http = &http.Client{Timeout: d} }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(h *httpClient) { h.logger = l }
}

const maxResponseSize = 10 * 1024 * 1024

// httpClient is the JSON-over-HTTP plumbing both trackers share.
type httpClient struct {
	baseURL   string
	http      *http.Client
	logger    *slog.Logger
	authorize func(req *http.Request)
}

func newHTTPClient(baseURL string, opts []Option) *httpClient {
	h := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *httpClient) buildURL(path string, query url.Values) string {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (h *httpClient) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.authorize != nil {
		h.authorize(req)
	}

	h.logger.Debug("tracker request", "method", method, "url", redactURL(rawURL))
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// getJSON performs a GET and decodes a 2xx body into out.
func (h *httpClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := h.do(ctx, http.MethodGet, h.buildURL(path, query))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError turns an error response into *APIError. Both GitHub and
// Bugzilla put a human-readable "message" in their error bodies.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var errResp struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		msg = errResp.Message
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}

// redactURL hides the api_key query parameter in logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if key := q.Get("api_key"); key != "" {
		q.Set("api_key", TruncateSecret(key))
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// TruncateSecret shortens a token for display: the first 10 characters then "…".
func TruncateSecret(s string) string {
	if len(s) <= 10 {
		return s + "…"
	}
	return s[:10] + "…"
}
