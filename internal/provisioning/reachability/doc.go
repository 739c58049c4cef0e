// Package reachability waits until the bootstrap VM answers over SSH.
//
// Probing uses a fixed interval with a bounded number of attempts. Every
// failed attempt is treated the same, whether the port is closed, the
// handshake times out or authentication is refused.
package reachability
