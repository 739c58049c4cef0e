package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
)

// Client implements provisioning.Provider using the Compute Engine API.
type Client struct {
	service  *compute.Service
	timeouts *config.Timeouts
}

var _ provisioning.Provider = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	api      []option.ClientOption
	timeouts *config.Timeouts
}

// WithAPIOptions passes options to the Compute Engine client, for example
// option.WithEndpoint or option.WithCredentialsFile.
func WithAPIOptions(opts ...option.ClientOption) ClientOption {
	return func(o *clientOptions) {
		o.api = append(o.api, opts...)
	}
}

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(o *clientOptions) {
		o.timeouts = t
	}
}

// NewClient creates a Compute Engine client. Credentials come from
// Application Default Credentials unless overridden by WithAPIOptions.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	o := &clientOptions{timeouts: config.LoadTimeouts()}
	for _, opt := range opts {
		opt(o)
	}

	svc, err := compute.NewService(ctx, o.api...)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute service: %w", err)
	}
	return &Client{service: svc, timeouts: o.timeouts}, nil
}
