package provisioning

import (
	"context"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/metrics"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Target   Target
	Provider Provider
	Observer Observer
	Metrics  *metrics.Recorder
	State    *State
}

// NewContext creates a new provisioning context with a console observer.
// The target is derived from the configuration.
func NewContext(ctx context.Context, cfg *config.Config, provider Provider) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Target:   NewTarget(cfg.ProjectID, cfg.Zone),
		Provider: provider,
		Observer: NewConsoleObserver(),
		State:    NewState(),
	}
}
