// Package compute creates the bootstrap VM and reads back its description.
//
// The instance is created once, its creation operation is awaited, and the
// provider is asked for the authoritative description, from which the
// external address is taken. Errors are returned unchanged and nothing is
// retried at this level.
package compute
