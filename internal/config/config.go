package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"
)

// HostKeyPolicy controls how the reachability probe treats the host key
// presented by the instance.
type HostKeyPolicy string

const (
	// HostKeyTOFU trusts a host key the first time it is seen and records it
	// in the known_hosts file. A changed key is rejected.
	HostKeyTOFU HostKeyPolicy = "tofu"
	// HostKeyInsecure accepts any host key. It exists for throwaway bootstrap
	// hosts and must not be used where host identity matters.
	HostKeyInsecure HostKeyPolicy = "insecure"
	// HostKeyStrict only accepts keys already present in the known_hosts file.
	HostKeyStrict HostKeyPolicy = "strict"
)

// Config is the complete description of one bootstrap run.
type Config struct {
	Provider     string `yaml:"provider,omitempty"`
	ProjectID    string `yaml:"project_id,omitempty"`
	Zone         string `yaml:"zone,omitempty"`
	InstanceName string `yaml:"instance_name,omitempty"`
	MachineType  string `yaml:"machine_type,omitempty"`
	Image        string `yaml:"image,omitempty"`
	Network      string `yaml:"network,omitempty"`

	ServiceAccount ServiceAccountConfig `yaml:"service_account,omitempty"`
	Firewall       FirewallConfig       `yaml:"firewall,omitempty"`
	Startup        StartupConfig        `yaml:"startup,omitempty"`
	SSH            SSHConfig            `yaml:"ssh,omitempty"`
	Probe          ProbeConfig          `yaml:"probe,omitempty"`

	// MetricsFile receives Prometheus text-format metrics after the run.
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// ServiceAccountConfig is the identity attached to the instance (GCP only).
type ServiceAccountConfig struct {
	Email  string   `yaml:"email,omitempty"`
	Scopes []string `yaml:"scopes,omitempty"`
}

// FirewallConfig describes the inbound access rule.
type FirewallConfig struct {
	Name         string   `yaml:"name,omitempty"`
	Protocol     string   `yaml:"protocol,omitempty"`
	Ports        []string `yaml:"ports,omitempty"`
	SourceRanges []string `yaml:"source_ranges,omitempty"`
	TargetTag    string   `yaml:"target_tag,omitempty"`
}

// StartupConfig locates the startup script handed to the instance.
type StartupConfig struct {
	// Path is read when the file exists. Relative paths are resolved against
	// the directory of the genesis executable.
	Path string `yaml:"path,omitempty"`
	// URL is fetched when Path does not exist. http(s)://, s3:// and gs://
	// are supported.
	URL string `yaml:"url,omitempty"`
	// Timeout bounds the download of URL.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// SSHConfig configures the reachability probe's SSH client.
type SSHConfig struct {
	User           string        `yaml:"user,omitempty"`
	Port           int           `yaml:"port,omitempty"`
	PrivateKeyPath string        `yaml:"private_key_path,omitempty"`
	HostKeyPolicy  HostKeyPolicy `yaml:"host_key_policy,omitempty"`
	KnownHostsPath string        `yaml:"known_hosts_path,omitempty"`

	// HandshakeOnly skips key injection and treats a completed key exchange
	// as success.
	HandshakeOnly bool `yaml:"handshake_only,omitempty"`
}

// ProbeConfig bounds the reachability probe.
type ProbeConfig struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	Interval    time.Duration `yaml:"interval,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ApplyDefaults fills every unset field with the provider's default.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGCP
	}

	switch c.Provider {
	case ProviderHCloud:
		setDefault(&c.Zone, DefaultHCloudZone)
		setDefault(&c.MachineType, DefaultHCloudMachineType)
		setDefault(&c.Image, DefaultHCloudImage)
		setDefault(&c.SSH.User, DefaultHCloudUser)
	default:
		setDefault(&c.Zone, DefaultGCPZone)
		setDefault(&c.MachineType, DefaultGCPMachineType)
		setDefault(&c.Image, DefaultGCPImage)
		setDefault(&c.Network, DefaultGCPNetwork)
		setDefault(&c.SSH.User, DefaultGCPUser)
		setDefault(&c.ServiceAccount.Email, DefaultGCPServiceAccount)
		if len(c.ServiceAccount.Scopes) == 0 {
			c.ServiceAccount.Scopes = []string{DefaultGCPScope}
		}
	}

	setDefault(&c.InstanceName, DefaultInstanceName)

	setDefault(&c.Firewall.Name, DefaultFirewallName)
	setDefault(&c.Firewall.Protocol, DefaultFirewallProto)
	setDefault(&c.Firewall.TargetTag, DefaultTargetTag)
	if len(c.Firewall.Ports) == 0 {
		c.Firewall.Ports = slices.Clone(DefaultFirewallPorts)
	}
	if len(c.Firewall.SourceRanges) == 0 {
		c.Firewall.SourceRanges = slices.Clone(DefaultSourceRanges)
	}

	setDefault(&c.Startup.Path, DefaultStartupScript)
	setDefault(&c.Startup.URL, DefaultStartupURL)
	if c.Startup.Timeout == 0 {
		c.Startup.Timeout = DefaultStartupTimeout
	}

	if c.SSH.Port == 0 {
		c.SSH.Port = DefaultSSHPort
	}
	if c.SSH.HostKeyPolicy == "" {
		c.SSH.HostKeyPolicy = HostKeyTOFU
	}
	if c.SSH.KnownHostsPath == "" {
		c.SSH.KnownHostsPath = defaultKnownHostsPath()
	}

	if c.Probe.MaxAttempts == 0 {
		c.Probe.MaxAttempts = DefaultProbeAttempts
	}
	if c.Probe.Interval == 0 {
		c.Probe.Interval = DefaultProbeInterval
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = DefaultProbeTimeout
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// defaultKnownHostsPath keeps genesis host keys apart from ~/.ssh/known_hosts,
// since bootstrap hosts are recreated under recycled addresses.
func defaultKnownHostsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultKnownHostsFile
	}
	return filepath.Join(home, DefaultKnownHostsFile)
}
