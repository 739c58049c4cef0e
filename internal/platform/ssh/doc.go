// Package ssh probes remote hosts over SSH.
//
// A probe dials the host, completes the SSH key exchange under an explicit
// host-key policy and, when a signer is configured, authenticates. No
// session is opened and no command is run.
//
// Host-key policies:
//   - tofu: trust on first use; new keys are appended to a known_hosts file
//     and a changed key is rejected
//   - strict: only keys already in the known_hosts file are accepted
//   - insecure: any key is accepted; unsuitable where host identity matters
package ssh
