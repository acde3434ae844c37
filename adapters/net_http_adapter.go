package adapters

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single upload round trip so a stuck
// request resolves as a failure instead of hanging indefinitely.
const DefaultRequestTimeout = 30 * time.Second

// NetHTTPAdapter is the standard HTTP adapter implementation using the
// net/http package.
type NetHTTPAdapter struct {
	client *http.Client
}

// Ensure NetHTTPAdapter implements HTTPAdapter interface
var _ HTTPAdapter = (*NetHTTPAdapter)(nil)

// NewNetHTTPAdapter creates a new NetHTTPAdapter instance with the
// default request timeout.
func NewNetHTTPAdapter() HTTPAdapter {
	return NewNetHTTPAdapterWithTimeout(DefaultRequestTimeout)
}

// NewNetHTTPAdapterWithTimeout creates a new NetHTTPAdapter instance
// with a custom request timeout.
func NewNetHTTPAdapterWithTimeout(timeout time.Duration) HTTPAdapter {
	return &NetHTTPAdapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Post sends the raw body to the given URL and captures the response body.
func (h *NetHTTPAdapter) Post(url string, body []byte) (*HTTPResponse, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Response bodies are tiny ("OK" on success), but cap the read so a
	// misbehaving server cannot balloon memory.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &HTTPResponse{
		Status: resp.StatusCode,
		Body:   string(data),
	}, nil
}
