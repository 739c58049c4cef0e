package compute

import (
	"context"

	"github.com/imamik/genesis/internal/provisioning"
)

const phase = "compute"

// ScriptLoader supplies the startup script handed to the instance.
type ScriptLoader interface {
	Load(ctx context.Context) (string, error)
}

// Provisioner is the phase that creates the instance and records its address.
type Provisioner struct {
	startup ScriptLoader
	keys    []provisioning.AuthorizedKey
}

// NewProvisioner creates a compute provisioner. A nil startup loader
// creates the instance without a startup script.
func NewProvisioner(startup ScriptLoader, keys ...provisioning.AuthorizedKey) *Provisioner {
	return &Provisioner{startup: startup, keys: keys}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	inst, err := p.EnsureInstance(ctx, ctx.Target, ctx.Config.InstanceName, ctx.Config.MachineType)
	if err != nil {
		return err
	}

	ctx.State.Instance = inst
	ctx.State.Address = ExternalAddress(inst)
	ctx.Observer.Printf("[%s] Instance external IP: %s", phase, ctx.State.Address)
	return nil
}

// EnsureInstance creates the instance, waits for the creation to finish and
// returns the provider's description of it. Startup script and provider
// errors are returned unchanged.
func (p *Provisioner) EnsureInstance(ctx *provisioning.Context, target provisioning.Target, name, machineType string) (*provisioning.Instance, error) {
	var script string
	if p.startup != nil {
		s, err := p.startup.Load(ctx)
		if err != nil {
			return nil, err
		}
		script = s
	}

	spec := BuildSpec(ctx.Config, name, machineType, script, p.keys)

	provisioning.LogResourceCreating(ctx.Observer, phase, "instance", name)
	op, err := ctx.Provider.InsertInstance(ctx, target, spec)
	if err != nil {
		return nil, err
	}
	if err := op.Wait(ctx); err != nil {
		return nil, err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "instance", name)

	return ctx.Provider.GetInstance(ctx, target, name)
}
