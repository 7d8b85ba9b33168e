// Package weatherfeed fetches the current weather condition from an HTTP
// feed, optionally authenticated with OAuth2 client credentials.
package weatherfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/josepaz/rumbo/auth"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	url  string
	http *http.Client
	auth *auth.ClientCred
}

// New creates a feed client for the given endpoint.
func New(url string, opts ...Option) (*Client, error) {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.url == "" {
		return nil, fmt.Errorf("weather feed url is required")
	}
	return c, nil
}

// Current fetches and normalizes the feed condition. A feed outage is an
// error; callers decide the fallback condition.
func (c *Client) Current(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(req); err != nil {
			return "", fmt.Errorf("set auth header: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather feed returned %s", resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}
	return body.normalized(), nil
}
