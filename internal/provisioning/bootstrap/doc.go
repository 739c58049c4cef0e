// Package bootstrap runs the full single-VM bootstrap sequence.
//
// The sequence is fixed: open inbound access, create the instance, take
// its external address, wait for SSH. The first failure stops the run and
// is returned unchanged. Nothing already created is rolled back.
package bootstrap
