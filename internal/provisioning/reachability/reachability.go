package reachability

import (
	"context"
	"errors"

	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/retry"
)

const phase = "reachability"

// Prober makes one connection attempt to host.
type Prober interface {
	Probe(ctx context.Context, host string) error
}

// Provisioner is the phase that waits for SSH on the instance address.
type Provisioner struct {
	prober Prober
	sleep  retry.Sleeper
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithSleeper replaces the wait between attempts.
func WithSleeper(s retry.Sleeper) Option {
	return func(p *Provisioner) {
		p.sleep = s
	}
}

// NewProvisioner creates a reachability provisioner around prober.
func NewProvisioner(prober Prober, opts ...Option) *Provisioner {
	p := &Provisioner{prober: prober, sleep: retry.ContextSleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return p.WaitReachable(ctx, ctx.State.Address, ctx.Config.Probe.MaxAttempts)
}

// WaitReachable probes address up to maxAttempts times, sleeping the
// configured interval between attempts but not after the last one. The
// number of attempts made is stored in State.ProbeAttempts. When no attempt
// succeeds the error is a *provisioning.ReachabilityTimeoutError.
func (p *Provisioner) WaitReachable(ctx *provisioning.Context, address string, maxAttempts int) error {
	ctx.Observer.Printf("[%s] Waiting for SSH on %s...", phase, address)

	attempts, err := retry.Poll(ctx, maxAttempts, ctx.Config.Probe.Interval,
		func(attempt int) error {
			ctx.Observer.Progress(phase, attempt, maxAttempts)
			probeErr := p.prober.Probe(ctx, address)
			ctx.Metrics.ProbeAttempt(probeErr)
			return probeErr
		},
		retry.WithSleeper(p.sleep),
		retry.WithFailureHook(func(attempt int, err error) {
			ctx.Observer.Printf("[%s] Attempt %d/%d failed: %v", phase, attempt, maxAttempts, err)
		}),
	)
	ctx.State.ProbeAttempts = attempts

	if err == nil {
		ctx.Observer.Printf("[%s] SSH is ready on %s after %d attempt(s)", phase, address, attempts)
		return nil
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &provisioning.ReachabilityTimeoutError{
			Address:  address,
			Attempts: exhausted.Attempts,
			Err:      exhausted.Err,
		}
	}
	return err
}
