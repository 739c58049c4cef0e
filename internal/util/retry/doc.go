// Package retry provides retry loops for transient failures.
//
// [Backoff] retries an operation with doubling, capped delays and is used
// while waiting on cloud provider operations. [Poll] retries an operation at a
// constant interval for a bounded number of attempts and drives the SSH
// reachability probe.
package retry
