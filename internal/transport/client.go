// Package transport provides the HTTP client shared by all outbound calls.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/qualifier/internal/domain"
	"github.com/google/uuid"
)

const (
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
	// maxSnippetBytes caps the body echoed into a TransportError.
	maxSnippetBytes = 512
)

// Client is a reusable JSON-over-HTTP client with a finite timeout.
type Client struct {
	client    *http.Client
	base      http.RoundTripper
	userAgent string
}

// New creates a Client whose requests time out after timeout and carry
// userAgent plus a fresh X-Request-Id.
func New(timeout time.Duration, userAgent string) *Client {
	c := &Client{
		base:      http.DefaultTransport,
		userAgent: userAgent,
	}
	c.client = &http.Client{
		Timeout:   timeout,
		Transport: c,
		// A redirect would be replayed as a bodiless GET; surface the 3xx instead.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c
}

// RoundTrip stamps identifying headers and delegates to the base transport.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.New().String())
	}
	return c.base.RoundTrip(req)
}

// PostJSON marshals payload, POSTs it to url with the given extra headers and
// returns the response body. Transport failures and non-2xx statuses are
// returned as *domain.TransportError.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Op: http.MethodPost, URL: url, Err: err}
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: http.MethodPost, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: http.MethodPost, URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{
			Op:         http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       snippet(respBody),
		}
	}

	return respBody, nil
}

// snippet trims a response body for inclusion in an error message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetBytes {
		s = s[:maxSnippetBytes] + "..."
	}
	return s
}
