package api

import (
	"net/http"
	"time"
)

type ClientOption func(c *Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCSRFToken sets the token sent in the X-CSRFToken header.
func WithCSRFToken(token string) ClientOption {
	return func(c *Client) {
		c.csrfToken = token
	}
}

// WithSessionID sets the session cookie sent with every request.
func WithSessionID(id string) ClientOption {
	return func(c *Client) {
		c.sessionID = id
	}
}

// WithTimeout bounds every HTTP call.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCatalogueCache keeps the module catalogue for ttl instead of fetching it with
// every snapshot.
func WithCatalogueCache(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.catalogueTTL = ttl
	}
}
