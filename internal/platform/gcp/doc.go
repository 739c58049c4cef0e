// Package gcp implements provisioning.Provider on Google Compute Engine.
//
// It talks to the Compute Engine v1 REST API through
// google.golang.org/api/compute/v1. Mutating calls return an operation
// handle; waiting polls the zonal or global operations endpoint until the
// operation is DONE. API and operation failures are translated into
// *provisioning.APIError using the structured status code, error reason and
// operation error code, never the message text.
package gcp
