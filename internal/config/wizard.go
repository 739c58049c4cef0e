package config

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/imamik/genesis/internal/util/naming"
)

// WizardResult holds the answers collected by RunWizard.
type WizardResult struct {
	Provider     string
	ProjectID    string
	Zone         string
	InstanceName string
	MachineType  string
	HostKey      HostKeyPolicy
}

// RunWizard asks for the handful of values a first run needs.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Provider:     ProviderGCP,
		InstanceName: DefaultInstanceName,
		HostKey:      HostKeyTOFU,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Description("Where the VM is created").
				Options(
					huh.NewOption("Google Compute Engine", ProviderGCP),
					huh.NewOption("Hetzner Cloud", ProviderHCloud),
				).
				Value(&result.Provider),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Project ID").
				Description("GCP project, or a label value on Hetzner").
				Placeholder("my-project").
				Value(&result.ProjectID).
				Validate(validateRequired("project ID")),

			huh.NewInput().
				Title("Zone").
				Description("Leave empty for the provider default (us-central1-a / fsn1-dc14)").
				Value(&result.Zone).
				Validate(validateOptionalZone),

			huh.NewInput().
				Title("Instance name").
				Value(&result.InstanceName).
				Validate(func(s string) error { return naming.Validate("instance", s) }),

			huh.NewInput().
				Title("Machine type (optional)").
				Description("Leave empty for the provider default (e2-medium / cx22)").
				Value(&result.MachineType),
		),

		huh.NewGroup(
			huh.NewSelect[HostKeyPolicy]().
				Title("Host key policy").
				Description("How the SSH probe treats the VM's host key").
				Options(
					huh.NewOption("Trust on first use (recommended)", HostKeyTOFU),
					huh.NewOption("Strict known_hosts", HostKeyStrict),
					huh.NewOption("Accept any key (insecure, throwaway hosts only)", HostKeyInsecure),
				).
				Value(&result.HostKey),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the answers into a sparse Config; unset fields keep
// their defaults at load time.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		Provider:     r.Provider,
		ProjectID:    r.ProjectID,
		Zone:         r.Zone,
		InstanceName: r.InstanceName,
		MachineType:  r.MachineType,
	}
	if r.HostKey != HostKeyTOFU {
		cfg.SSH.HostKeyPolicy = r.HostKey
	}
	return cfg
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalZone(s string) error {
	if s == "" {
		return nil
	}
	return validateZone(s)
}
