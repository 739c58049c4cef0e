package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
)

// Client implements provisioning.Provider using the Hetzner Cloud API.
type Client struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

var _ provisioning.Provider = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client with optional configuration.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("genesis", "")),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
