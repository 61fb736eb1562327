// Package webhook posts run_completed events to an HTTP endpoint.
//
// The body is the JSON event. Network errors and 5xx answers are retried
// with exponential backoff; a 4xx answer ends delivery at once.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justapithecus/pathbench/adapter"
	"github.com/justapithecus/pathbench/iox"
)

const (
	// DefaultTimeout bounds one POST, connection and body included.
	DefaultTimeout = 10 * time.Second
	// DefaultRetries is how many times a failed POST is repeated.
	DefaultRetries = 3
)

// Request headers set on every delivery besides Content-Type.
const (
	HeaderEvent = "X-Pathbench-Event"
	HeaderRunID = "X-Pathbench-Run-Id"
)

// errorBodyLimit caps how much of a failed response is kept for the error.
const errorBodyLimit = 512

// Config configures the webhook adapter.
type Config struct {
	// URL receives the POST. Required.
	URL string
	// Headers are added to each request, e.g. Authorization.
	// They may override the default headers.
	Headers map[string]string
	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retries after the first attempt. Zero disables retrying.
	Retries int
}

// Adapter delivers events over HTTP.
type Adapter struct {
	config Config
	client *http.Client
}

// New validates cfg and returns a ready adapter.
func New(cfg Config) (*Adapter, error) {
	switch {
	case cfg.URL == "":
		return nil, errors.New("webhook adapter requires a URL")
	case cfg.Retries < 0:
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Adapter{config: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

// StatusError is a delivery the endpoint answered with a non-2xx status.
type StatusError struct {
	Code int
	// Body is the start of the response body, if any.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint answered %d", e.Code)
	}
	return fmt.Sprintf("endpoint answered %d: %s", e.Code, e.Body)
}

// permanent is true for client errors; repeating the same body won't help.
func permanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500
}

// Publish posts the event, retrying transient failures.
func (a *Adapter) Publish(ctx context.Context, event *adapter.RunCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: encode event: %w", err)
	}

	attempts, err := adapter.Retry(ctx, a.config.Retries, permanent, func(ctx context.Context) error {
		return a.post(ctx, event, body)
	})
	if err == nil {
		return nil
	}
	if permanent(err) {
		return fmt.Errorf("webhook: non-retriable error: %w", err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("webhook: context canceled: %w", err)
	}
	return fmt.Errorf("webhook: failed after %d attempts: %w", attempts, err)
}

func (a *Adapter) post(ctx context.Context, event *adapter.RunCompletedEvent, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pathbench")
	req.Header.Set(HeaderEvent, event.EventType)
	req.Header.Set(HeaderRunID, event.RunID)
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", a.config.URL, err)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	_, _ = io.Copy(io.Discard, resp.Body)
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

// Close drops idle connections.
func (a *Adapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

var _ adapter.Adapter = (*Adapter)(nil)
