package testing

import (
	"time"

	"github.com/imamik/genesis/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a builder for a GCP config with project "demo"
// and a probe that does not sleep.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Provider:  config.ProviderGCP,
			ProjectID: "demo",
			SSH: config.SSHConfig{
				HostKeyPolicy: config.HostKeyInsecure,
			},
			Probe: config.ProbeConfig{
				Interval: time.Nanosecond,
			},
		},
	}
}

// WithProject sets the project ID.
func (b *ConfigBuilder) WithProject(project string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ProjectID = project
	return nb
}

// WithZone sets the zone.
func (b *ConfigBuilder) WithZone(zone string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Zone = zone
	return nb
}

// WithInstanceName sets the instance name.
func (b *ConfigBuilder) WithInstanceName(name string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.InstanceName = name
	return nb
}

// WithProvider sets the provider.
func (b *ConfigBuilder) WithProvider(provider string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Provider = provider
	return nb
}

// WithMaxAttempts sets the probe attempt budget.
func (b *ConfigBuilder) WithMaxAttempts(n int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Probe.MaxAttempts = n
	return nb
}

// WithHandshakeOnly disables key generation and injection.
func (b *ConfigBuilder) WithHandshakeOnly() *ConfigBuilder {
	nb := b.clone()
	nb.cfg.SSH.HandshakeOnly = true
	return nb
}

// WithStartupPath sets the startup script path.
func (b *ConfigBuilder) WithStartupPath(path string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Startup.Path = path
	return nb
}

// Build applies defaults and returns the config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	cfg.ApplyDefaults()
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cp := *b
	cp.cfg.Firewall.Ports = append([]string(nil), b.cfg.Firewall.Ports...)
	cp.cfg.Firewall.SourceRanges = append([]string(nil), b.cfg.Firewall.SourceRanges...)
	return &cp
}
