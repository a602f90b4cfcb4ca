// Package anticheat implements the AreWeAntiCheatYet status source.
package anticheat

import (
	"net/http"

	"github.com/okian/deckcheck/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithDatasetURL overrides the dataset URL. Used by tests.
func WithDatasetURL(datasetURL string) Option {
	return func(c *Client) {
		if datasetURL != "" {
			c.datasetURL = datasetURL
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}
