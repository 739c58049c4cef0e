// Package config defines the configuration model for a genesis run.
//
// A [Config] is assembled from an optional YAML file, command-line overrides
// and provider-specific defaults, then checked by [Config.Validate]. Timeouts
// that operators tune per environment are read from GENESIS_* variables by
// [LoadTimeouts].
package config
