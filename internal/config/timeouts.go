package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	OperationWait     time.Duration // Upper bound for waiting on one provider operation
	RetryMaxAttempts  int           // Retries of transient errors while polling an operation
	RetryInitialDelay time.Duration // Initial delay between those retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - GENESIS_TIMEOUT_OPERATION (default: 10m)
//   - GENESIS_RETRY_MAX_ATTEMPTS (default: 5)
//   - GENESIS_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		OperationWait:     parseDuration("GENESIS_TIMEOUT_OPERATION", 10*time.Minute),
		RetryMaxAttempts:  parseInt("GENESIS_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("GENESIS_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
