package provisioning

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferObserver() (*ConsoleObserver, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewConsoleObserverWithLogger(log.New(&buf, "", 0)), &buf
}

func TestConsoleObserver_Event(t *testing.T) {
	t.Parallel()
	obs, buf := newBufferObserver()

	LogResourceExists(obs, "access", "firewall", "allow-http")

	assert.Equal(t, "resource.exists [access] resource=allow-http firewall already exists (type=firewall)\n", buf.String())
}

func TestConsoleObserver_WithFields(t *testing.T) {
	t.Parallel()
	obs, buf := newBufferObserver()

	scoped := obs.WithFields(map[string]string{"zone": "us-central1-a", "project": "demo"})
	scoped.Event(Event{Type: EventPhaseStarted, Phase: "compute", Message: "starting"})

	assert.Equal(t, "phase.started [compute] starting (project=demo, zone=us-central1-a)\n", buf.String())

	buf.Reset()
	obs.Event(Event{Type: EventPhaseStarted, Phase: "compute", Message: "starting"})
	assert.Equal(t, "phase.started [compute] starting\n", buf.String(), "parent must not inherit fields")
}

func TestConsoleObserver_EventFieldsWinOverContext(t *testing.T) {
	t.Parallel()
	obs, buf := newBufferObserver()

	scoped := obs.WithFields(map[string]string{"type": "context"})
	LogResourceCreated(scoped, "compute", "instance", "vm")

	assert.Contains(t, buf.String(), "(type=instance)")
}

func TestConsoleObserver_Progress(t *testing.T) {
	t.Parallel()
	obs, buf := newBufferObserver()

	obs.Progress("reachability", 3, 30)
	obs.Progress("reachability", 0, 0)

	assert.Equal(t, "[reachability] Progress: 3/30 (10%)\n[reachability] Progress: 0/0\n", buf.String())
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()
	obs, buf := newBufferObserver()

	LogPhaseStart(obs, "access")
	LogPhaseComplete(obs, "access", 1500*time.Millisecond)
	LogPhaseFailed(obs, "compute", errors.New("quota exceeded"))
	LogResourceCreating(obs, "compute", "instance", "vm")

	out := buf.String()
	assert.Contains(t, out, "phase.started [access] starting")
	assert.Contains(t, out, "phase.completed [access] completed in 1.5s")
	assert.Contains(t, out, "phase.failed [compute] failed: quota exceeded")
	assert.Contains(t, out, "resource.creating [compute] resource=vm creating instance")
}
