package provisioning

import "strings"

// Target identifies where the instance is deployed. It is immutable once
// built by NewTarget.
type Target struct {
	Project string
	Zone    string
	Region  string
}

// NewTarget builds a Target, deriving the region from the zone.
func NewTarget(project, zone string) Target {
	return Target{
		Project: project,
		Zone:    zone,
		Region:  RegionFromZone(zone),
	}
}

// RegionFromZone drops the last hyphen-separated segment of a zone:
// "us-central1-a" becomes "us-central1". A zone without a hyphen has no
// region and yields "".
func RegionFromZone(zone string) string {
	i := strings.LastIndex(zone, "-")
	if i < 0 {
		return ""
	}
	return zone[:i]
}

// FirewallRule describes an inbound traffic allowance. Rules are identified
// by Name; creating an existing rule is not an error for callers.
type FirewallRule struct {
	Name         string
	Network      string
	Description  string
	Protocol     string
	Ports        []string
	SourceRanges []string
	TargetTags   []string
}

// AuthorizedKey is an SSH public key to install for User.
type AuthorizedKey struct {
	User string
	// PublicKey is in OpenSSH authorized_keys format.
	PublicKey string
}

// InstanceSpec is the desired shape of the VM.
type InstanceSpec struct {
	Name          string
	MachineType   string
	Image         string
	Network       string
	StartupScript string
	Tags          []string
	Labels        map[string]string
	SSHKeys       []AuthorizedKey

	ServiceAccount string
	Scopes         []string
}

// Instance is the provider's description of an existing VM.
type Instance struct {
	ID                string
	Name              string
	Status            string
	NetworkInterfaces []NetworkInterface
}

// NetworkInterface is one NIC of an instance.
type NetworkInterface struct {
	Name          string
	Network       string
	InternalIP    string
	AccessConfigs []AccessConfig
}

// AccessConfig is an externally routable address attached to a NIC.
type AccessConfig struct {
	Name  string
	Type  string
	NatIP string
}
