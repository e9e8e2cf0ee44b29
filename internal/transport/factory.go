package transport

import (
	"time"

	"atoma-accounts-client/internal/config"
)

// Factory builds per-API clients. Each call produces a fresh client bound to
// the API base URL and the current credential, mirroring how the session
// engine swaps bearer tokens between requests.
type Factory struct {
	authURL  string
	titleURL string
	storeURL string
	timeout  time.Duration
}

// NewFactory creates a client factory from API configuration.
func NewFactory(cfg *config.APIConfig) *Factory {
	return &Factory{
		authURL:  cfg.AuthAPIURL(),
		titleURL: cfg.TitleAPIURL(),
		storeURL: cfg.StoreAPIURL(),
		timeout:  cfg.Timeout,
	}
}

// AuthAPI returns a client for the queue-gated auth API.
func (f *Factory) AuthAPI(authorization string) *Client {
	return NewClient(f.authURL, authorization, f.timeout)
}

// TitleAPI returns a client for the title API.
func (f *Factory) TitleAPI(authorization string) *Client {
	return NewClient(f.titleURL, authorization, f.timeout)
}

// StoreAPI returns a client for the store API.
func (f *Factory) StoreAPI(authorization string) *Client {
	return NewClient(f.storeURL, authorization, f.timeout)
}
