// ABOUTME: HTTP client for the upstream plugin registry
// ABOUTME: Fetches the catalog map and surfaces upstream failures as explicit errors

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUpstream marks registry fetch failures (unreachable, non-2xx, bad body).
// Handlers translate it to a 502-class response.
var ErrUpstream = errors.New("plugin registry upstream error")

// Client fetches the plugin catalog from the upstream registry.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a registry client for the given catalog URL. Every
// request is bounded by timeout, so a stalled upstream cannot hang callers.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves and transforms the full catalog.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var payload map[string]upstreamEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding catalog: %v", ErrUpstream, err)
	}

	return transform(payload), nil
}
