// Package status talks to the intent status endpoint. Client polls it;
// Board serves it.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hammamikhairi/intentcast/internal/domain"
	"github.com/hammamikhairi/intentcast/internal/logger"
)

// Compile-time interface check.
var _ domain.StatusSource = (*Client)(nil)

// DefaultURL is where the status board listens by default.
const DefaultURL = "http://localhost:5000/status"

// maxBody caps how much of a status response is read.
const maxBody = 64 << 10

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for polling.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client fetches the current intent with GET <url>. No timeout is set on
// requests; callers cancel through the context.
type Client struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a status client for the given endpoint URL.
func NewClient(url string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint being polled.
func (c *Client) URL() string { return c.url }

type payload struct {
	Intent *string `json:"intent"`
}

// Fetch returns the intent currently published by the endpoint. Every
// failure is returned as a *PollError.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", &PollError{Kind: FailureNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "intentcast/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &PollError{Kind: FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &PollError{Kind: FailureNetwork, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &PollError{
			Kind:       FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return "", &PollError{Kind: FailureDecode, Err: err}
	}
	if p.Intent == nil {
		return "", &PollError{Kind: FailureDecode, Err: errors.New(`missing "intent" field`)}
	}

	c.log.Debug("status: %s -> %q", c.url, *p.Intent)
	return *p.Intent, nil
}
