// Package keygen generates throwaway SSH credentials for a bootstrap run.
//
// The public half is injected into the instance (metadata on GCP, an SSH key
// resource on Hetzner) and the private half authenticates the reachability
// probe. Nothing is written to disk.
package keygen
