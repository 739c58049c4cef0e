package infrastructure

import (
	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
)

const phase = "access"

// RuleFromConfig builds the inbound access rule described by cfg.
func RuleFromConfig(cfg *config.Config) provisioning.FirewallRule {
	fw := cfg.Firewall
	return provisioning.FirewallRule{
		Name:         fw.Name,
		Network:      cfg.Network,
		Description:  "Allow inbound " + fw.Protocol + " traffic to " + fw.TargetTag + " instances",
		Protocol:     fw.Protocol,
		Ports:        append([]string(nil), fw.Ports...),
		SourceRanges: append([]string(nil), fw.SourceRanges...),
		TargetTags:   []string{fw.TargetTag},
	}
}

// EnsureAccess creates rule and waits for it to take effect. A rule that
// already exists, reported either by the insert call or by its operation,
// counts as success and sets State.FirewallExisted. Any other error is
// returned unchanged.
func EnsureAccess(ctx *provisioning.Context, target provisioning.Target, rule provisioning.FirewallRule) error {
	provisioning.LogResourceCreating(ctx.Observer, phase, "firewall", rule.Name)

	op, err := ctx.Provider.InsertFirewall(ctx, target, rule)
	if err == nil {
		err = op.Wait(ctx)
	}

	switch {
	case err == nil:
		provisioning.LogResourceCreated(ctx.Observer, phase, "firewall", rule.Name)
		return nil
	case provisioning.IsAlreadyExists(err):
		ctx.State.FirewallExisted = true
		provisioning.LogResourceExists(ctx.Observer, phase, "firewall", rule.Name)
		return nil
	default:
		return err
	}
}
