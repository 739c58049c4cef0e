package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	data := []byte(`
provider: gcp
project_id: demo
zone: us-central1-a
instance_name: web-1
firewall:
  ports: ["80", "443"]
ssh:
  host_key_policy: insecure
probe:
  max_attempts: 10
  interval: 2s
`)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.ProjectID)
	assert.Equal(t, "web-1", cfg.InstanceName)
	assert.Equal(t, []string{"80", "443"}, cfg.Firewall.Ports)
	assert.Equal(t, HostKeyInsecure, cfg.SSH.HostKeyPolicy)
	assert.Equal(t, 10, cfg.Probe.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Probe.Interval)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("cluster_name: old\n"))
	assert.ErrorContains(t, err, "failed to unmarshal yaml")
}

func TestLoadOptional(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cfg, err := LoadOptional(filepath.Join(dir, "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	_, err = LoadOptional(filepath.Join(dir, "missing.yaml"), true)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	in := &Config{Provider: ProviderHCloud, ProjectID: "demo", InstanceName: "web-1"}

	require.NoError(t, Save(in, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
