package weatherfeed

import (
	"net/http"
	"time"

	"github.com/josepaz/rumbo/auth"
)

// Option configures a Client.
type Option func(*Client) error

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.http.Timeout = d
		return nil
	}
}

// WithAuth authenticates requests with OAuth2 client credentials.
func WithAuth(cred *auth.ClientCred) Option {
	return func(c *Client) error {
		c.auth = cred
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) error {
		c.http = h
		return nil
	}
}
