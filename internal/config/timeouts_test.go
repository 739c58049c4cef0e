package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	t.Setenv("GENESIS_TIMEOUT_OPERATION", "")
	t.Setenv("GENESIS_RETRY_MAX_ATTEMPTS", "")
	t.Setenv("GENESIS_RETRY_INITIAL_DELAY", "")

	to := LoadTimeouts()
	assert.Equal(t, 10*time.Minute, to.OperationWait)
	assert.Equal(t, 5, to.RetryMaxAttempts)
	assert.Equal(t, time.Second, to.RetryInitialDelay)
}

func TestLoadTimeouts_FromEnv(t *testing.T) {
	t.Setenv("GENESIS_TIMEOUT_OPERATION", "3m")
	t.Setenv("GENESIS_RETRY_MAX_ATTEMPTS", "9")
	t.Setenv("GENESIS_RETRY_INITIAL_DELAY", "250ms")

	to := LoadTimeouts()
	assert.Equal(t, 3*time.Minute, to.OperationWait)
	assert.Equal(t, 9, to.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, to.RetryInitialDelay)
}

func TestLoadTimeouts_InvalidFallsBack(t *testing.T) {
	t.Setenv("GENESIS_TIMEOUT_OPERATION", "soon")
	t.Setenv("GENESIS_RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("GENESIS_RETRY_INITIAL_DELAY", "")

	to := LoadTimeouts()
	assert.Equal(t, 10*time.Minute, to.OperationWait)
	assert.Equal(t, 5, to.RetryMaxAttempts)
}
