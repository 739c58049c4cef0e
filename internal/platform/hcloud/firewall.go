package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/labels"
	"github.com/imamik/genesis/internal/util/naming"
)

// InsertFirewall implements provisioning.Provider. The firewall applies to
// every server carrying one of the rule's target tags.
func (c *Client) InsertFirewall(ctx context.Context, _ provisioning.Target, rule provisioning.FirewallRule) (provisioning.Operation, error) {
	opts, err := firewallCreateOpts(rule)
	if err != nil {
		return nil, &provisioning.APIError{Op: "insert firewall", Resource: rule.Name, Code: provisioning.ErrorCodeInvalidInput, Err: err}
	}

	res, _, err := c.client.Firewall.Create(ctx, opts)
	if err != nil {
		return nil, translateError("insert firewall", rule.Name, err)
	}
	return c.newOperation("insert firewall", rule.Name, res.Actions...), nil
}

func firewallCreateOpts(rule provisioning.FirewallRule) (hcloud.FirewallCreateOpts, error) {
	sources, err := parseCIDRs(rule.SourceRanges)
	if err != nil {
		return hcloud.FirewallCreateOpts{}, err
	}

	opts := hcloud.FirewallCreateOpts{
		Name:   rule.Name,
		Labels: map[string]string{labels.KeyManagedBy: labels.ManagedByGenesis},
	}
	for _, port := range rule.Ports {
		r := hcloud.FirewallRule{
			Direction: hcloud.FirewallRuleDirectionIn,
			Protocol:  parseProtocol(rule.Protocol),
			Port:      hcloud.Ptr(port),
			SourceIPs: sources,
		}
		if rule.Description != "" {
			r.Description = hcloud.Ptr(rule.Description)
		}
		opts.Rules = append(opts.Rules, r)
	}
	for _, tag := range rule.TargetTags {
		opts.ApplyTo = append(opts.ApplyTo, hcloud.FirewallResource{
			Type: hcloud.FirewallResourceTypeLabelSelector,
			LabelSelector: &hcloud.FirewallResourceLabelSelector{
				Selector: naming.TagLabel(tag),
			},
		})
	}
	return opts, nil
}

// parseCIDRs parses a slice of CIDR strings into net.IPNet.
func parseCIDRs(cidrs []string) ([]net.IPNet, error) {
	nets := make([]net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid source range %q: %w", cidr, err)
		}
		nets = append(nets, *n)
	}
	return nets, nil
}

// parseProtocol converts a protocol string to hcloud FirewallRuleProtocol.
func parseProtocol(proto string) hcloud.FirewallRuleProtocol {
	switch proto {
	case "udp":
		return hcloud.FirewallRuleProtocolUDP
	default:
		return hcloud.FirewallRuleProtocolTCP
	}
}
