package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/genesis/internal/provisioning"
)

// MockProvider is a fake provisioning.Provider. Unset functions return an
// error so tests fail loudly on unexpected calls.
type MockProvider struct {
	InsertFirewallFunc func(ctx context.Context, target provisioning.Target, rule provisioning.FirewallRule) (provisioning.Operation, error)
	InsertInstanceFunc func(ctx context.Context, target provisioning.Target, spec provisioning.InstanceSpec) (provisioning.Operation, error)
	GetInstanceFunc    func(ctx context.Context, target provisioning.Target, name string) (*provisioning.Instance, error)

	mu    sync.Mutex
	calls []string
}

var _ provisioning.Provider = (*MockProvider)(nil)

// InsertFirewall implements provisioning.Provider.
func (m *MockProvider) InsertFirewall(ctx context.Context, target provisioning.Target, rule provisioning.FirewallRule) (provisioning.Operation, error) {
	m.record("InsertFirewall")
	if m.InsertFirewallFunc == nil {
		return nil, fmt.Errorf("unexpected call to InsertFirewall")
	}
	return m.InsertFirewallFunc(ctx, target, rule)
}

// InsertInstance implements provisioning.Provider.
func (m *MockProvider) InsertInstance(ctx context.Context, target provisioning.Target, spec provisioning.InstanceSpec) (provisioning.Operation, error) {
	m.record("InsertInstance")
	if m.InsertInstanceFunc == nil {
		return nil, fmt.Errorf("unexpected call to InsertInstance")
	}
	return m.InsertInstanceFunc(ctx, target, spec)
}

// GetInstance implements provisioning.Provider.
func (m *MockProvider) GetInstance(ctx context.Context, target provisioning.Target, name string) (*provisioning.Instance, error) {
	m.record("GetInstance")
	if m.GetInstanceFunc == nil {
		return nil, fmt.Errorf("unexpected call to GetInstance")
	}
	return m.GetInstanceFunc(ctx, target, name)
}

// Calls returns the provider methods invoked so far, in order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockProvider) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// FailingOperation returns an Operation whose Wait fails with err.
func FailingOperation(err error) provisioning.Operation {
	return provisioning.OperationFunc(func(context.Context) error { return err })
}

// RecordingObserver is a provisioning.Observer that keeps everything it is given.
type RecordingObserver struct {
	mu       sync.Mutex
	Messages []string
	Events   []provisioning.Event
	Fields   map[string]string
}

var _ provisioning.Observer = (*RecordingObserver)(nil)

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{Fields: make(map[string]string)}
}

// Printf implements provisioning.Logger.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Events = append(o.Events, event)
}

// Progress implements provisioning.Observer.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Phase:   phase,
		Message: fmt.Sprintf("%d/%d", current, total),
	})
}

// WithFields implements provisioning.Observer. The returned observer shares
// the recorded messages and events with its parent.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	for k, v := range fields {
		o.Fields[k] = v
	}
	return o
}

// EventTypes returns the type of every recorded event, in order.
func (o *RecordingObserver) EventTypes() []provisioning.EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]provisioning.EventType, 0, len(o.Events))
	for _, e := range o.Events {
		types = append(types, e.Type)
	}
	return types
}
