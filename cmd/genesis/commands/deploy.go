package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/genesis/cmd/genesis/handlers"
	"github.com/imamik/genesis/internal/config"
)

// deployFlags holds the raw flag values. Only flags the user set override
// the configuration file.
type deployFlags struct {
	configPath    string
	provider      string
	projectID     string
	zone          string
	instanceName  string
	machineType   string
	startupScript string
	startupURL    string
	sshUser       string
	sshKey        string
	hostKeyPolicy string
	knownHosts    string
	maxAttempts   int
	metricsFile   string
	handshakeOnly bool
}

// Deploy returns the command that bootstraps the VM.
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (--provider hcloud)
//	GOOGLE_APPLICATION_CREDENTIALS: GCP credentials (default provider)
func Deploy() *cobra.Command {
	var f deployFlags

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the VM, open HTTP access and wait for SSH",
		Long: `Create the VM, open HTTP access and wait for SSH.

The firewall rule is created first; an existing rule is reused. The
instance is then created with the startup script (bigbang.sh next to the
genesis binary, or --startup-url) and genesis polls SSH until the host
answers or the attempt budget is spent.

Examples:
  # Deploy with defaults on Compute Engine
  genesis deploy --project-id my-project

  # Deploy to Hetzner Cloud
  HCLOUD_TOKEN=... genesis deploy --provider hcloud --project-id demo`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override, err := f.overrides(cmd.Flags())
			if err != nil {
				return err
			}
			return handlers.Deploy(cmd.Context(), handlers.DeployOptions{
				ConfigPath:     f.configPath,
				ConfigExplicit: cmd.Flags().Changed("config"),
				Override:       override,
				Out:            cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", config.DefaultConfigFile, "Path to configuration file")
	flags.StringVar(&f.provider, "provider", config.ProviderGCP, "Cloud provider (gcp or hcloud)")
	flags.StringVar(&f.projectID, "project-id", "", "Project that owns the VM")
	flags.StringVar(&f.zone, "zone", config.DefaultGCPZone, "Zone to create the VM in")
	flags.StringVar(&f.instanceName, "instance-name", config.DefaultInstanceName, "Name of the VM")
	flags.StringVar(&f.machineType, "machine-type", "", "Machine type (provider default when empty)")
	flags.StringVar(&f.startupScript, "startup-script", "", "Local startup script (default bigbang.sh next to the binary)")
	flags.StringVar(&f.startupURL, "startup-url", "", "Startup script URL used when the local file is missing")
	flags.StringVar(&f.sshUser, "ssh-user", "", "User the probe authenticates as")
	flags.StringVar(&f.sshKey, "ssh-key", "", "Private key for the probe (generated when empty)")
	flags.StringVar(&f.hostKeyPolicy, "host-key-policy", string(config.HostKeyTOFU), "Host key policy: tofu, strict or insecure")
	flags.StringVar(&f.knownHosts, "known-hosts", "", "known_hosts file for tofu and strict policies")
	flags.IntVar(&f.maxAttempts, "max-attempts", config.DefaultProbeAttempts, "SSH probe attempts before giving up")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	flags.BoolVar(&f.handshakeOnly, "handshake-only", false, "Do not inject a key; a completed SSH handshake counts as reachable")

	return cmd
}

// overrides returns a function applying every changed flag to a config.
// The project is required unless the configuration file provides it.
func (f *deployFlags) overrides(flags *pflag.FlagSet) (func(*config.Config), error) {
	startupScript := f.startupScript
	if flags.Changed("startup-script") && startupScript != "" {
		abs, err := filepath.Abs(startupScript)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve startup script path: %w", err)
		}
		startupScript = abs
	}

	return func(cfg *config.Config) {
		set := func(name string, apply func()) {
			if flags.Changed(name) {
				apply()
			}
		}
		set("provider", func() { cfg.Provider = f.provider })
		set("project-id", func() { cfg.ProjectID = f.projectID })
		set("zone", func() { cfg.Zone = f.zone })
		set("instance-name", func() { cfg.InstanceName = f.instanceName })
		set("machine-type", func() { cfg.MachineType = f.machineType })
		set("startup-script", func() { cfg.Startup.Path = startupScript })
		set("startup-url", func() { cfg.Startup.URL = f.startupURL })
		set("ssh-user", func() { cfg.SSH.User = f.sshUser })
		set("ssh-key", func() { cfg.SSH.PrivateKeyPath = f.sshKey })
		set("host-key-policy", func() { cfg.SSH.HostKeyPolicy = config.HostKeyPolicy(f.hostKeyPolicy) })
		set("known-hosts", func() { cfg.SSH.KnownHostsPath = f.knownHosts })
		set("max-attempts", func() { cfg.Probe.MaxAttempts = f.maxAttempts })
		set("metrics-file", func() { cfg.MetricsFile = f.metricsFile })
		set("handshake-only", func() { cfg.SSH.HandshakeOnly = f.handshakeOnly })
	}, nil
}
