// Package testing provides test utilities, builders, and fakes shared by the
// provisioning packages.
//
//   - ConfigBuilder: fluent builder for test configurations
//   - MockProvider: function-field fake of provisioning.Provider that records calls
//   - ProviderFixture: MockProvider preset for common scenarios
//   - RecordingObserver: provisioning.Observer that keeps every message and event
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().WithProject("demo").Build()
//	provider := testing.NewProviderFixture().Successful("34.1.2.3")
package testing
