// Package labels provides consistent labeling for genesis-managed resources.
//
// Keys are plain lowercase identifiers so the same set is accepted by
// Compute Engine labels and Hetzner Cloud labels.
package labels
