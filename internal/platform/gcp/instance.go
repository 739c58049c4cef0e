package gcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/compute/v1"

	"github.com/imamik/genesis/internal/provisioning"
)

// Metadata keys understood by the Compute Engine guest environment.
const (
	metadataStartupScript = "startup-script"
	metadataSSHKeys       = "ssh-keys"
)

const (
	accessConfigName = "External NAT"
	accessConfigType = "ONE_TO_ONE_NAT"
)

// InsertInstance implements provisioning.Provider.
func (c *Client) InsertInstance(ctx context.Context, target provisioning.Target, spec provisioning.InstanceSpec) (provisioning.Operation, error) {
	op, err := c.service.Instances.Insert(target.Project, target.Zone, toInstance(target.Zone, spec)).Context(ctx).Do()
	if err != nil {
		return nil, translateError("insert instance", spec.Name, err)
	}
	return c.newOperation(target.Project, target.Zone, "insert instance", spec.Name, op), nil
}

// GetInstance implements provisioning.Provider.
func (c *Client) GetInstance(ctx context.Context, target provisioning.Target, name string) (*provisioning.Instance, error) {
	inst, err := c.service.Instances.Get(target.Project, target.Zone, name).Context(ctx).Do()
	if err != nil {
		return nil, translateError("get instance", name, err)
	}
	return fromInstance(inst), nil
}

func toInstance(zone string, spec provisioning.InstanceSpec) *compute.Instance {
	inst := &compute.Instance{
		Name:        spec.Name,
		MachineType: fmt.Sprintf("zones/%s/machineTypes/%s", zone, spec.MachineType),
		Disks: []*compute.AttachedDisk{
			{
				Boot:       true,
				AutoDelete: true,
				InitializeParams: &compute.AttachedDiskInitializeParams{
					SourceImage: spec.Image,
				},
			},
		},
		NetworkInterfaces: []*compute.NetworkInterface{
			{
				Network: networkURL(spec.Network),
				AccessConfigs: []*compute.AccessConfig{
					{Name: accessConfigName, Type: accessConfigType},
				},
			},
		},
		Labels:   spec.Labels,
		Metadata: &compute.Metadata{},
	}

	if spec.StartupScript != "" {
		script := spec.StartupScript
		inst.Metadata.Items = append(inst.Metadata.Items, &compute.MetadataItems{
			Key:   metadataStartupScript,
			Value: &script,
		})
	}
	if keys := sshKeysMetadata(spec.SSHKeys); keys != "" {
		inst.Metadata.Items = append(inst.Metadata.Items, &compute.MetadataItems{
			Key:   metadataSSHKeys,
			Value: &keys,
		})
	}
	if len(spec.Tags) > 0 {
		inst.Tags = &compute.Tags{Items: spec.Tags}
	}
	if spec.ServiceAccount != "" {
		inst.ServiceAccounts = []*compute.ServiceAccount{
			{Email: spec.ServiceAccount, Scopes: spec.Scopes},
		}
	}
	return inst
}

// sshKeysMetadata renders keys in the "user:key" line format of the
// ssh-keys metadata entry.
func sshKeysMetadata(keys []provisioning.AuthorizedKey) string {
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k.User+":"+k.PublicKey)
	}
	return strings.Join(lines, "\n")
}

func fromInstance(inst *compute.Instance) *provisioning.Instance {
	out := &provisioning.Instance{
		ID:     strconv.FormatUint(inst.Id, 10),
		Name:   inst.Name,
		Status: inst.Status,
	}
	for _, nic := range inst.NetworkInterfaces {
		n := provisioning.NetworkInterface{
			Name:       nic.Name,
			Network:    nic.Network,
			InternalIP: nic.NetworkIP,
		}
		for _, ac := range nic.AccessConfigs {
			n.AccessConfigs = append(n.AccessConfigs, provisioning.AccessConfig{
				Name:  ac.Name,
				Type:  ac.Type,
				NatIP: ac.NatIP,
			})
		}
		out.NetworkInterfaces = append(out.NetworkInterfaces, n)
	}
	return out
}

// networkURL expands a bare network name to its partial URL.
func networkURL(network string) string {
	if network == "" || strings.Contains(network, "/") {
		return network
	}
	return "global/networks/" + network
}
