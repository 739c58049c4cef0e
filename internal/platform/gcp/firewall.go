package gcp

import (
	"context"

	"google.golang.org/api/compute/v1"

	"github.com/imamik/genesis/internal/provisioning"
)

// InsertFirewall implements provisioning.Provider. Firewalls are global
// resources, so only target.Project is used.
func (c *Client) InsertFirewall(ctx context.Context, target provisioning.Target, rule provisioning.FirewallRule) (provisioning.Operation, error) {
	op, err := c.service.Firewalls.Insert(target.Project, toFirewall(rule)).Context(ctx).Do()
	if err != nil {
		return nil, translateError("insert firewall", rule.Name, err)
	}
	return c.newOperation(target.Project, "", "insert firewall", rule.Name, op), nil
}

func toFirewall(rule provisioning.FirewallRule) *compute.Firewall {
	return &compute.Firewall{
		Name:        rule.Name,
		Description: rule.Description,
		Network:     networkURL(rule.Network),
		Direction:   "INGRESS",
		Allowed: []*compute.FirewallAllowed{
			{
				IPProtocol: rule.Protocol,
				Ports:      rule.Ports,
			},
		},
		SourceRanges: rule.SourceRanges,
		TargetTags:   rule.TargetTags,
	}
}
