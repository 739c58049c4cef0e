// Package infrastructure opens inbound network access to the bootstrap VM.
//
// The access rule is created idempotently: a rule that already exists under
// the same name is accepted as is, even if its content differs.
package infrastructure
