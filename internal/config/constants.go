package config

import "time"

// Providers supported by genesis.
const (
	ProviderGCP    = "gcp"
	ProviderHCloud = "hcloud"
)

// DefaultConfigFile is read when present and no --config flag is given.
const DefaultConfigFile = "genesis.yaml"

// Defaults shared by every provider.
const (
	DefaultInstanceName   = "pulumi-websocket-vm"
	DefaultFirewallName   = "allow-http"
	DefaultFirewallProto  = "tcp"
	DefaultTargetTag      = "http-server"
	DefaultStartupScript  = "bigbang.sh"
	DefaultStartupURL     = "https://raw.githubusercontent.com/miguelemosreverte/pulumi-k8s-websocket/main/bigbang.sh"
	DefaultStartupTimeout = time.Minute
	DefaultSSHPort        = 22
	DefaultProbeAttempts  = 30
	DefaultProbeInterval  = 10 * time.Second
	DefaultProbeTimeout   = 5 * time.Second
	DefaultKnownHostsFile = ".genesis/known_hosts"
)

// Compute Engine defaults.
const (
	DefaultGCPZone           = "us-central1-a"
	DefaultGCPMachineType    = "e2-medium"
	DefaultGCPImage          = "projects/debian-cloud/global/images/debian-11-bullseye-v20240110"
	DefaultGCPNetwork        = "default"
	DefaultGCPServiceAccount = "default"
	DefaultGCPScope          = "https://www.googleapis.com/auth/cloud-platform"
	DefaultGCPUser           = "genesis"
)

// Hetzner Cloud defaults. The zone is a datacenter so that dropping its
// suffix yields the location ("fsn1-dc14" -> "fsn1").
const (
	DefaultHCloudZone        = "fsn1-dc14"
	DefaultHCloudMachineType = "cx22"
	DefaultHCloudImage       = "debian-12"
	DefaultHCloudUser        = "root"
)

// DefaultFirewallPorts are opened by the default access rule.
var DefaultFirewallPorts = []string{"80", "8080"}

// DefaultSourceRanges allow traffic from anywhere.
var DefaultSourceRanges = []string{"0.0.0.0/0"}
