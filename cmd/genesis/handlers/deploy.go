// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package and
// can be tested without cobra.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/metrics"
	"github.com/imamik/genesis/internal/platform/gcp"
	"github.com/imamik/genesis/internal/platform/hcloud"
	"github.com/imamik/genesis/internal/provisioning"
	"github.com/imamik/genesis/internal/provisioning/bootstrap"
	"github.com/imamik/genesis/internal/provisioning/reachability"
	"github.com/imamik/genesis/internal/provisioning/startup"
	"github.com/imamik/genesis/internal/util/keygen"
	"github.com/imamik/genesis/internal/util/retry"
)

// EnvHCloudToken holds the Hetzner Cloud API token.
const EnvHCloudToken = "HCLOUD_TOKEN"

// DeployOptions carries the inputs of the deploy command.
type DeployOptions struct {
	ConfigPath string
	// ConfigExplicit makes a missing ConfigPath an error.
	ConfigExplicit bool
	// Override applies command-line values on top of the file.
	Override func(*config.Config)
	Out      io.Writer
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newProvider creates the cloud client for cfg.Provider.
	newProvider = func(ctx context.Context, cfg *config.Config) (provisioning.Provider, error) {
		switch cfg.Provider {
		case config.ProviderHCloud:
			token := os.Getenv(EnvHCloudToken)
			if token == "" {
				return nil, fmt.Errorf("%s environment variable is required for provider %q", EnvHCloudToken, cfg.Provider)
			}
			return hcloud.NewClient(token), nil
		default:
			client, err := gcp.NewClient(ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	// newProber creates the reachability prober.
	newProber = func(cfg *config.Config, kp *keygen.KeyPair) (reachability.Prober, error) {
		return bootstrap.NewProber(cfg, kp)
	}

	// loadCredentials loads or generates the probe's SSH key.
	loadCredentials = bootstrap.LoadCredentials

	// sleep waits between probe attempts.
	sleep retry.Sleeper = retry.ContextSleep

	// isTerminal reports whether styled output should be used.
	isTerminal = stdoutIsTerminal

	// newObserver creates the observer shared by every step of the run.
	newObserver = func() provisioning.Observer {
		return provisioning.NewConsoleObserver()
	}
)

// Deploy bootstraps the VM described by the configuration file and flags.
//
// The workflow:
//  1. Loads the optional configuration file and applies flag overrides
//  2. Prepares SSH credentials and the reachability prober
//  3. Creates the provider client
//  4. Runs the bootstrap sequence: firewall, instance, SSH reachability
//  5. Writes metrics when a metrics file is configured
//
// Errors from the bootstrap sequence are returned unchanged.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	kp, err := loadCredentials(cfg.SSH)
	if err != nil {
		return err
	}

	prober, err := newProber(cfg, kp)
	if err != nil {
		return fmt.Errorf("failed to create SSH prober: %w", err)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	observer := newObserver()
	recorder := metrics.NewRecorder()
	orchestrator := bootstrap.New(cfg, provider, prober,
		bootstrap.WithStartup(startup.NewSource(cfg.Startup, startup.WithLogger(observer))),
		bootstrap.WithObserver(observer),
		bootstrap.WithSSHKeys(bootstrap.AuthorizedKeys(cfg.SSH.User, kp)...),
		bootstrap.WithMetrics(recorder),
		bootstrap.WithSleeper(sleep),
	)

	log.Printf("Deploying %s to %s (%s/%s)", cfg.InstanceName, cfg.Provider, cfg.ProjectID, cfg.Zone)

	result, runErr := orchestrator.Run(ctx, provisioning.NewTarget(cfg.ProjectID, cfg.Zone), cfg.InstanceName)

	if err := recorder.WriteFile(cfg.MetricsFile); err != nil {
		log.Printf("Warning: %v", err)
	}

	if runErr != nil {
		return runErr
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printDeploySuccess(out, result, newLoginHint(cfg, kp != nil, result.Address), isTerminal())
	return nil
}

// loadConfig merges file, flags and defaults, then validates.
func loadConfig(opts DeployOptions) (*config.Config, error) {
	cfg, err := config.LoadOptional(opts.ConfigPath, opts.ConfigExplicit)
	if err != nil {
		return nil, err
	}

	if opts.Override != nil {
		opts.Override(cfg)
	}
	cfg.ApplyDefaults()

	if cfg.ProjectID == "" {
		return nil, errors.New("--project-id is required (or set project_id in the config file)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
