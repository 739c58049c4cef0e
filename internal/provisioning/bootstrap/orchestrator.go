package bootstrap

import (
	"context"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/metrics"
	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/provisioning/compute"
	"github.com/imamik/genesis/internal/provisioning/infrastructure"
	"github.com/imamik/genesis/internal/provisioning/reachability"
	"github.com/imamik/genesis/internal/util/retry"
)

// Result describes a ready instance.
type Result struct {
	Target   provisioning.Target
	Instance *provisioning.Instance
	Address  string
	// Attempts is the number of SSH probes made before the host answered.
	Attempts int
	// FirewallExisted is set when the access rule was already present.
	FirewallExisted bool
}

// Orchestrator wires the bootstrap phases together.
type Orchestrator struct {
	cfg      *config.Config
	provider provisioning.Provider
	prober   reachability.Prober

	startup  compute.ScriptLoader
	keys     []provisioning.AuthorizedKey
	observer provisioning.Observer
	metrics  *metrics.Recorder
	sleep    retry.Sleeper
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStartup sets the startup script loader.
func WithStartup(l compute.ScriptLoader) Option {
	return func(o *Orchestrator) {
		o.startup = l
	}
}

// WithSSHKeys authorizes keys on the instance.
func WithSSHKeys(keys ...provisioning.AuthorizedKey) Option {
	return func(o *Orchestrator) {
		o.keys = append(o.keys, keys...)
	}
}

// WithObserver replaces the console observer.
func WithObserver(obs provisioning.Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithMetrics records phase and probe metrics in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = r
	}
}

// WithSleeper replaces the wait between SSH probes.
func WithSleeper(s retry.Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleep = s
	}
}

// New creates an Orchestrator. cfg must have defaults applied.
func New(cfg *config.Config, provider provisioning.Provider, prober reachability.Prober, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		provider: provider,
		prober:   prober,
		observer: provisioning.NewConsoleObserver(),
		sleep:    retry.ContextSleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run bootstraps instanceName in target. On failure the error of the
// failing step is returned unchanged.
func (o *Orchestrator) Run(ctx context.Context, target provisioning.Target, instanceName string) (*Result, error) {
	cfg := *o.cfg
	cfg.InstanceName = instanceName

	pctx := provisioning.NewContext(ctx, &cfg, o.provider)
	pctx.Target = target
	pctx.Observer = o.observer.WithFields(map[string]string{
		"project": target.Project,
		"zone":    target.Zone,
	})
	pctx.Metrics = o.metrics

	phases := []provisioning.Phase{
		infrastructure.NewProvisioner(),
		compute.NewProvisioner(o.startup, o.keys...),
		reachability.NewProvisioner(o.prober, reachability.WithSleeper(o.sleep)),
	}

	err := provisioning.RunPhases(pctx, phases)
	o.metrics.RunCompleted(err)
	if err != nil {
		return nil, err
	}

	return &Result{
		Target:          target,
		Instance:        pctx.State.Instance,
		Address:         pctx.State.Address,
		Attempts:        pctx.State.ProbeAttempts,
		FirewallExisted: pctx.State.FirewallExisted,
	}, nil
}
