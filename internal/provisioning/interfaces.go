package provisioning

import "context"

// Operation is an in-flight mutating provider call. A resource is not usable
// until Wait has returned nil.
type Operation interface {
	Wait(ctx context.Context) error
}

// OperationFunc adapts a function to Operation.
type OperationFunc func(ctx context.Context) error

// Wait calls f.
func (f OperationFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

// Done is an Operation that has already completed.
var Done Operation = OperationFunc(func(context.Context) error { return nil })

// Provider is the cloud API used by the bootstrap phases.
// Implementations return *APIError for provider failures.
type Provider interface {
	// InsertFirewall starts creating an inbound rule.
	InsertFirewall(ctx context.Context, target Target, rule FirewallRule) (Operation, error)

	// InsertInstance starts creating a VM.
	InsertInstance(ctx context.Context, target Target, spec InstanceSpec) (Operation, error)

	// GetInstance returns the current description of a VM.
	GetInstance(ctx context.Context, target Target, name string) (*Instance, error)
}

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}
