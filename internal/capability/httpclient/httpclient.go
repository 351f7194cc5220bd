// Package httpclient implements the outbound HTTP capability (spec
// §4.8): a handler-side client used to bypass browser CORS, exposing
// request/fetch/fetchJson with configurable timeout and header/body
// shape. Grounded in the teacher's repeated &http.Client{Timeout: ...}
// construction pattern (e.g. agents/k8s-agent/main.go, api/internal/
// handlers/notifications.go) — a stdlib client is the idiom this corpus
// uses everywhere for outbound calls, so no third-party HTTP client
// library is introduced here.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

// Request describes one outbound call.
type Request struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
	Timeout time.Duration     `json:"timeout"`
}

// Response is what the handler side receives back.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Client is the capability's backend. It needs no per-platform variant —
// it is pure Go wrapping net/http.
type Client struct {
	http *http.Client
}

// New constructs a Client. defaultTimeout applies when a Request doesn't
// set its own Timeout; zero means no default (net/http's own zero-value
// "no timeout" behavior).
func New(defaultTimeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: defaultTimeout}}
}

// Request performs req and returns the raw response, decoded as text.
func (c *Client) Request(ctx context.Context, req Request) (Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader([]byte(req.Body)))
	if err != nil {
		return Response{}, errors.Wrap(errors.BadRequest, "build request", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, errors.Wrap(errors.Timeout, "request timed out", err)
		}
		return Response{}, errors.Wrap(errors.TransientSystem, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrap(errors.TransientSystem, "read response body", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return Response{Status: resp.StatusCode, Headers: headers, Body: string(raw)}, nil
}

// Fetch is an alias for Request matching the frontend-facing `fetch`
// command name.
func (c *Client) Fetch(ctx context.Context, req Request) (Response, error) {
	return c.Request(ctx, req)
}

// FetchJSON performs req and decodes the response body as JSON into a
// generic value, returning kind=SerializationError on a malformed body.
func (c *Client) FetchJSON(ctx context.Context, req Request) (any, error) {
	resp, err := c.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal([]byte(resp.Body), &decoded); err != nil {
		return nil, errors.Wrap(errors.SerializationError, "decode JSON response", err)
	}
	return map[string]any{
		"status":  resp.Status,
		"headers": resp.Headers,
		"body":    decoded,
	}, nil
}
