package compute

import (
	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/labels"
)

// BuildSpec assembles the instance spec for name from cfg, the startup
// script and the SSH keys to authorize.
func BuildSpec(cfg *config.Config, name, machineType, script string, keys []provisioning.AuthorizedKey) provisioning.InstanceSpec {
	return provisioning.InstanceSpec{
		Name:           name,
		MachineType:    machineType,
		Image:          cfg.Image,
		Network:        cfg.Network,
		StartupScript:  script,
		Tags:           []string{cfg.Firewall.TargetTag},
		Labels:         labels.NewLabelBuilder(name).Build(),
		SSHKeys:        append([]provisioning.AuthorizedKey(nil), keys...),
		ServiceAccount: cfg.ServiceAccount.Email,
		Scopes:         append([]string(nil), cfg.ServiceAccount.Scopes...),
	}
}

// ExternalAddress returns the address of the first access config on the
// first network interface. An instance without either is a programming
// error and panics.
func ExternalAddress(inst *provisioning.Instance) string {
	return inst.NetworkInterfaces[0].AccessConfigs[0].NatIP
}
