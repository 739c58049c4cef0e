package testing

import (
	"context"
	"errors"

	"github.com/imamik/genesis/internal/provisioning"
)

// ProviderFixture provides pre-configured fake providers for common scenarios.
type ProviderFixture struct {
	mock *MockProvider
}

// NewProviderFixture creates a new provider fixture.
func NewProviderFixture() *ProviderFixture {
	return &ProviderFixture{mock: &MockProvider{}}
}

// Mock returns the underlying MockProvider for custom configuration.
func (f *ProviderFixture) Mock() *MockProvider {
	return f.mock
}

// Successful configures every call to succeed, with the read-back instance
// exposing address as its external IP.
func (f *ProviderFixture) Successful(address string) *MockProvider {
	f.mock.InsertFirewallFunc = func(_ context.Context, _ provisioning.Target, _ provisioning.FirewallRule) (provisioning.Operation, error) {
		return provisioning.Done, nil
	}
	f.mock.InsertInstanceFunc = func(_ context.Context, _ provisioning.Target, _ provisioning.InstanceSpec) (provisioning.Operation, error) {
		return provisioning.Done, nil
	}
	f.mock.GetInstanceFunc = func(_ context.Context, _ provisioning.Target, name string) (*provisioning.Instance, error) {
		return InstanceWithAddress(name, address), nil
	}
	return f.mock
}

// FirewallExists configures InsertFirewall to report an existing rule.
func (f *ProviderFixture) FirewallExists() *ProviderFixture {
	f.mock.InsertFirewallFunc = func(_ context.Context, _ provisioning.Target, rule provisioning.FirewallRule) (provisioning.Operation, error) {
		return nil, &provisioning.APIError{
			Op:       "insert firewall",
			Resource: rule.Name,
			Code:     provisioning.ErrorCodeAlreadyExists,
			Err:      errors.New("already exists"),
		}
	}
	return f
}

// InstanceWithAddress builds a running instance description with one
// interface and one external access config.
func InstanceWithAddress(name, address string) *provisioning.Instance {
	return &provisioning.Instance{
		ID:     "1234567890",
		Name:   name,
		Status: "RUNNING",
		NetworkInterfaces: []provisioning.NetworkInterface{
			{
				Name:       "nic0",
				Network:    "default",
				InternalIP: "10.128.0.2",
				AccessConfigs: []provisioning.AccessConfig{
					{Name: "External NAT", Type: "ONE_TO_ONE_NAT", NatIP: address},
				},
			},
		},
	}
}
