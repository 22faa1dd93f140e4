// Package proxy forwards browser JSON requests to the processing backend and
// the auth provider. Each call is a single attempt.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// Request is one forwarded call.
type Request struct {
	// Path is appended to the forwarder's base URL and may carry a query string.
	Path   string
	Body   []byte
	Header http.Header
}

// Response is a successful (2xx, JSON) upstream reply.
type Response struct {
	Status int
	Body   json.RawMessage
	Header http.Header
}

// Forwarder posts JSON to one upstream base URL.
type Forwarder struct {
	name    string
	baseURL string
	client  *http.Client
	header  http.Header
	logger  *slog.Logger
	metrics observability.Metrics
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Forwarder) { f.client = c }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(f *Forwarder) { f.header.Set(key, value) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) { f.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(f *Forwarder) { f.metrics = m }
}

// NewForwarder creates a forwarder named name (used in logs and metrics). A
// zero timeout leaves the request bounded only by the caller's context.
func NewForwarder(name, baseURL string, timeout time.Duration, opts ...Option) *Forwarder {
	f := &Forwarder{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		header:  http.Header{},
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the upstream base URL.
func (f *Forwarder) BaseURL() string { return f.baseURL }

// Forward posts req.Body to baseURL+req.Path. Transport failures are returned
// as-is for TranslateError; upstream non-2xx replies and 2xx replies that are
// not JSON are returned as *Error.
func (f *Forwarder) Forward(ctx context.Context, req Request) (*Response, error) {
	body := req.Body
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+req.Path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", f.name, err)
	}
	for k, vs := range f.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := observability.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := f.client.Do(httpReq)
	if err != nil {
		f.record(ctx, req.Path, 0, time.Since(start), err)
		return nil, fmt.Errorf("%s request failed: %w", f.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		f.record(ctx, req.Path, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("read %s response: %w", f.name, err)
	}
	f.record(ctx, req.Path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: upstreamMessage(resp.StatusCode, raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return nil, &Error{Status: http.StatusBadGateway, Message: "upstream returned an invalid response"}
	}
	return &Response{Status: resp.StatusCode, Body: raw, Header: resp.Header}, nil
}

func (f *Forwarder) record(ctx context.Context, path string, status int, d time.Duration, err error) {
	tags := []observability.Tag{
		observability.T("upstream", f.name),
		observability.T("status", strconv.Itoa(status)),
	}
	f.metrics.Counter(observability.MetricProxyRequests, 1, tags...)
	f.metrics.Timing(observability.MetricProxyDuration, d, observability.T("upstream", f.name))

	attrs := []any{
		"upstream", f.name,
		"path", path,
		"status", status,
		"duration_ms", d.Milliseconds(),
	}
	if err != nil {
		f.logger.WarnContext(ctx, "upstream request failed", append(attrs, "error", err)...)
		return
	}
	f.logger.DebugContext(ctx, "upstream request", attrs...)
}
