package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/genesis/internal/config"
)

func TestDeploy_Flags(t *testing.T) {
	cmd := Deploy()

	for _, name := range []string{
		"config", "provider", "project-id", "zone", "instance-name", "machine-type",
		"startup-script", "startup-url", "ssh-user", "ssh-key", "host-key-policy",
		"known-hosts", "max-attempts", "metrics-file", "handshake-only",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}

	assert.Equal(t, config.DefaultGCPZone, cmd.Flags().Lookup("zone").DefValue)
	assert.Equal(t, config.DefaultInstanceName, cmd.Flags().Lookup("instance-name").DefValue)
}

func TestDeployFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := Deploy()
	require.NoError(t, cmd.Flags().Parse([]string{"--project-id", "demo", "--max-attempts", "5"}))

	var f deployFlags
	f.projectID = "demo"
	f.maxAttempts = 5
	f.zone = config.DefaultGCPZone

	override, err := f.overrides(cmd.Flags())
	require.NoError(t, err)

	cfg := &config.Config{Zone: "europe-west1-b", InstanceName: "from-file"}
	override(cfg)

	assert.Equal(t, "demo", cfg.ProjectID)
	assert.Equal(t, 5, cfg.Probe.MaxAttempts)
	assert.Equal(t, "europe-west1-b", cfg.Zone)
	assert.Equal(t, "from-file", cfg.InstanceName)
}

func TestDeployFlags_StartupScriptMadeAbsolute(t *testing.T) {
	cmd := Deploy()
	require.NoError(t, cmd.Flags().Parse([]string{"--startup-script", "scripts/boot.sh"}))

	f := deployFlags{startupScript: "scripts/boot.sh"}
	override, err := f.overrides(cmd.Flags())
	require.NoError(t, err)

	cfg := &config.Config{}
	override(cfg)

	assert.True(t, filepath.IsAbs(cfg.Startup.Path))
	assert.Equal(t, "boot.sh", filepath.Base(cfg.Startup.Path))
}

func TestDeployFlags_HostKeyPolicy(t *testing.T) {
	cmd := Deploy()
	require.NoError(t, cmd.Flags().Parse([]string{"--host-key-policy", "strict", "--handshake-only"}))

	f := deployFlags{hostKeyPolicy: "strict", handshakeOnly: true}
	override, err := f.overrides(cmd.Flags())
	require.NoError(t, err)

	cfg := &config.Config{}
	override(cfg)

	assert.Equal(t, config.HostKeyStrict, cfg.SSH.HostKeyPolicy)
	assert.True(t, cfg.SSH.HandshakeOnly)
}
