// Package naming derives and validates cloud resource names.
//
// Compute Engine and Hetzner Cloud both accept RFC 1035 labels for instance
// and firewall names, so a single validator serves both providers.
package naming
