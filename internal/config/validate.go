package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/imamik/genesis/internal/util/naming"
)

// ValidProviders lists the accepted values of Config.Provider.
var ValidProviders = map[string]bool{
	ProviderGCP:    true,
	ProviderHCloud: true,
}

// ValidHostKeyPolicies lists the accepted values of SSHConfig.HostKeyPolicy.
var ValidHostKeyPolicies = map[HostKeyPolicy]bool{
	HostKeyTOFU:     true,
	HostKeyInsecure: true,
	HostKeyStrict:   true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if !ValidProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be %q or %q", c.Provider, ProviderGCP, ProviderHCloud)
	}
	if c.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if err := validateZone(c.Zone); err != nil {
		return err
	}
	if err := naming.Validate("instance", c.InstanceName); err != nil {
		return err
	}
	if c.MachineType == "" {
		return fmt.Errorf("machine_type is required")
	}
	if c.Image == "" {
		return fmt.Errorf("image is required")
	}

	if err := c.validateFirewall(); err != nil {
		return fmt.Errorf("firewall validation failed: %w", err)
	}
	if err := c.validateSSH(); err != nil {
		return fmt.Errorf("ssh validation failed: %w", err)
	}
	if err := c.validateProbe(); err != nil {
		return fmt.Errorf("probe validation failed: %w", err)
	}

	return nil
}

// validateZone requires a "<region>-<suffix>" zone so a region can be derived.
func validateZone(zone string) error {
	if zone == "" {
		return fmt.Errorf("zone is required")
	}
	i := strings.LastIndex(zone, "-")
	if i <= 0 || i == len(zone)-1 {
		return fmt.Errorf("invalid zone %q: expected <region>-<suffix>, e.g. us-central1-a", zone)
	}
	return nil
}

func (c *Config) validateFirewall() error {
	fw := &c.Firewall
	if err := naming.Validate("firewall", fw.Name); err != nil {
		return err
	}
	if err := naming.Validate("target tag", fw.TargetTag); err != nil {
		return err
	}
	if fw.Protocol != "tcp" && fw.Protocol != "udp" {
		return fmt.Errorf("invalid protocol %q: must be tcp or udp", fw.Protocol)
	}
	if len(fw.Ports) == 0 {
		return fmt.Errorf("at least one port is required")
	}
	for _, p := range fw.Ports {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	if len(fw.SourceRanges) == 0 {
		return fmt.Errorf("at least one source range is required")
	}
	for _, cidr := range fw.SourceRanges {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid source range %q: %w", cidr, err)
		}
	}
	return nil
}

// validatePort accepts a single port ("80") or an inclusive range ("8000-8100").
func validatePort(p string) error {
	lo, hi, isRange := strings.Cut(p, "-")
	start, err := parsePortNumber(lo)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", p, err)
	}
	if !isRange {
		return nil
	}
	end, err := parsePortNumber(hi)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", p, err)
	}
	if end < start {
		return fmt.Errorf("invalid port %q: range end before start", p)
	}
	return nil
}

func parsePortNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("must be between 1 and 65535")
	}
	return n, nil
}

func (c *Config) validateSSH() error {
	if c.SSH.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.SSH.Port)
	}
	if !ValidHostKeyPolicies[c.SSH.HostKeyPolicy] {
		return fmt.Errorf("invalid host_key_policy %q: must be tofu, insecure or strict", c.SSH.HostKeyPolicy)
	}
	if c.SSH.HostKeyPolicy != HostKeyInsecure && c.SSH.KnownHostsPath == "" {
		return fmt.Errorf("known_hosts_path is required for host_key_policy %q", c.SSH.HostKeyPolicy)
	}
	if c.SSH.HandshakeOnly && c.SSH.PrivateKeyPath != "" {
		return fmt.Errorf("private_key_path cannot be combined with handshake_only")
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	if c.Probe.Interval < 0 {
		return fmt.Errorf("interval cannot be negative")
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
