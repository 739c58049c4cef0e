package infrastructure

import "github.com/imamik/genesis/internal/provisioning"

// Provisioner is the phase that ensures the inbound access rule.
type Provisioner struct{}

// NewProvisioner creates a new access provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	return EnsureAccess(ctx, ctx.Target, RuleFromConfig(ctx.Config))
}
