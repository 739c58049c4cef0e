package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewProvisioningContext builds a provisioning.Context around cfg and
// provider with a RecordingObserver in place of the console.
func NewProvisioningContext(t *testing.T, cfg *config.Config, provider provisioning.Provider) (*provisioning.Context, *RecordingObserver) {
	t.Helper()
	obs := NewRecordingObserver()
	pctx := provisioning.NewContext(TestContext(t), cfg, provider)
	pctx.Observer = obs
	return pctx, obs
}
