// Package provisioning provides shared types, interfaces, and the phase runner
// for bootstrapping a single VM.
//
// # Subpackages
//
//   - infrastructure/: inbound access rule (firewall)
//   - compute/: instance creation, read-back, external address
//   - reachability/: bounded SSH polling
//   - startup/: startup script resolution
//   - bootstrap/: the orchestrator wiring the phases together
//
// # Core Types
//
// Provider is the injected cloud client; Operation is the handle returned by
// its mutating calls. Context carries the configuration, target, provider,
// observer and accumulated State through each Phase.
package provisioning
