// Package httpclient is the single outbound door of the service: every
// upstream call goes through Client.Do, which applies the bounded retry
// policy and records a log line and a metrics point per call.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/josh-kwaku/risk-analyses-service/internal/logging"
	"github.com/josh-kwaku/risk-analyses-service/internal/metrics"
)

const maxResponseBytes = 1 << 20

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Target is the logical upstream name, Route the path template; both
	// label the metrics point for this call.
	Target string
	Route  string

	// Timeout overrides the client default when > 0.
	Timeout time.Duration
}

type Response struct {
	StatusCode int
	Body       []byte
}

type Client struct {
	httpClient     *http.Client
	collector      *metrics.Collector
	maxRetries     int
	defaultTimeout time.Duration
}

// New builds a client that retries each request up to maxRetries additional
// times after the first attempt. The timeout applies per attempt unless a
// request overrides it.
func New(timeout time.Duration, maxRetries int, collector *metrics.Collector) *Client {
	return &Client{
		httpClient:     &http.Client{},
		collector:      collector,
		maxRetries:     maxRetries,
		defaultTimeout: timeout,
	}
}

// Do sends the request, retrying on server errors (status >= 500) and
// transport-level failures. 4xx responses are never retried. The last
// response is returned as-is, whatever its status; only transport failures
// surface as errors. Classifying failures is the caller's job.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	log := logging.FromContext(ctx)

	var resp *Response
	var lastErr error

	attempts := 0
	start := time.Now()
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		attempts++
		resp, lastErr = c.send(ctx, req)
		if lastErr == nil && resp.StatusCode < http.StatusInternalServerError {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	elapsed := time.Since(start)

	status := 0
	if lastErr == nil {
		status = resp.StatusCode
	}
	if c.collector != nil {
		c.collector.ObserveSouthbound(req.Target, req.Route, req.Method, status, elapsed)
	}

	if lastErr != nil {
		log.Error("upstream call failed",
			"target", req.Target,
			"method", req.Method,
			"url", req.URL,
			"attempts", attempts,
			"duration_ms", elapsed.Milliseconds(),
			"error", lastErr,
		)
		return nil, fmt.Errorf("httpclient: %s %s: %w", req.Method, req.URL, lastErr)
	}

	log.Info("upstream call completed",
		"target", req.Target,
		"method", req.Method,
		"url", req.URL,
		"status", status,
		"attempts", attempts,
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	timeout := c.defaultTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, values := range req.Header {
		httpReq.Header[name] = values
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
