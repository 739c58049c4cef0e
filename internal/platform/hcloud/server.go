package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/util/naming"
)

// InsertInstance implements provisioning.Provider. Authorized keys are
// registered first; the server lands in the location derived from the zone.
func (c *Client) InsertInstance(ctx context.Context, target provisioning.Target, spec provisioning.InstanceSpec) (provisioning.Operation, error) {
	serverLabels := make(map[string]string, len(spec.Labels)+len(spec.Tags))
	for k, v := range spec.Labels {
		serverLabels[k] = v
	}
	for _, tag := range spec.Tags {
		serverLabels[naming.TagLabel(tag)] = ""
	}

	sshKeys, err := c.ensureSSHKeys(ctx, spec.Name, spec.SSHKeys, spec.Labels)
	if err != nil {
		return nil, err
	}

	opts := hcloud.ServerCreateOpts{
		Name:       spec.Name,
		ServerType: &hcloud.ServerType{Name: spec.MachineType},
		Image:      &hcloud.Image{Name: spec.Image},
		Location:   &hcloud.Location{Name: target.Region},
		SSHKeys:    sshKeys,
		UserData:   spec.StartupScript,
		Labels:     serverLabels,
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: true,
		},
	}

	res, _, err := c.client.Server.Create(ctx, opts)
	if err != nil {
		return nil, translateError("insert instance", spec.Name, err)
	}

	actions := append([]*hcloud.Action{res.Action}, res.NextActions...)
	return c.newOperation("insert instance", spec.Name, actions...), nil
}

// GetInstance implements provisioning.Provider.
func (c *Client) GetInstance(ctx context.Context, _ provisioning.Target, name string) (*provisioning.Instance, error) {
	server, _, err := c.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, translateError("get instance", name, err)
	}
	if server == nil {
		return nil, &provisioning.APIError{
			Op:       "get instance",
			Resource: name,
			Code:     provisioning.ErrorCodeNotFound,
			Err:      fmt.Errorf("server not found: %s", name),
		}
	}
	return fromServer(server), nil
}

// fromServer describes the public network as a single interface whose
// access config holds the public IPv4 address.
func fromServer(s *hcloud.Server) *provisioning.Instance {
	nic := provisioning.NetworkInterface{Name: "eth0", Network: "public"}
	if len(s.PrivateNet) > 0 && s.PrivateNet[0].IP != nil {
		nic.InternalIP = s.PrivateNet[0].IP.String()
	}
	if ip := s.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		nic.AccessConfigs = append(nic.AccessConfigs, provisioning.AccessConfig{
			Name:  "ipv4",
			Type:  "PUBLIC_IPV4",
			NatIP: ip.String(),
		})
	}

	return &provisioning.Instance{
		ID:                strconv.FormatInt(s.ID, 10),
		Name:              s.Name,
		Status:            string(s.Status),
		NetworkInterfaces: []provisioning.NetworkInterface{nic},
	}
}
