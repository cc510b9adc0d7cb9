package testutil

import (
	"sync"

	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

// CallLog collects events from several plugins in order
type CallLog struct {
	mu     sync.Mutex
	events []string
}

// Add appends an event
func (l *CallLog) Add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns a copy of the recorded events
func (l *CallLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// Reset forgets all events
func (l *CallLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// Recorder is a plugin that logs "<name>:decorate:<handler>",
// "<name>:before" and "<name>:after" events
type Recorder struct {
	*plugin.Base
	Log *CallLog
}

// NewRecorder creates a Recorder writing to log
func NewRecorder(name string, log *CallLog) *Recorder {
	return &Recorder{Base: plugin.NewBase(name, nil), Log: log}
}

// OnDecorate records the registration
func (r *Recorder) OnDecorate(entry *types.Entry, _ plugin.Host) error {
	r.Log.Add(r.Name() + ":decorate:" + entry.Name())
	return nil
}

// WrapHandler records entry and exit around next
func (r *Recorder) WrapHandler(_ plugin.Host, _ *types.Entry, next types.Func) types.Func {
	return func(call types.Call) (any, error) {
		r.Log.Add(r.Name() + ":before")
		defer r.Log.Add(r.Name() + ":after")
		return next(call)
	}
}

// RecorderFactory returns a factory building Recorders on log
func RecorderFactory(log *CallLog) plugin.Factory {
	return func(name string, settings map[string]any) (plugin.Plugin, error) {
		if name == "" {
			name = "recorder"
		}
		r := NewRecorder(name, log)
		if err := r.UpdateSettings(settings); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// MockPlugin is a scriptable plugin. Unset funcs fall back to a no-op
// decorate and a pass-through wrapper.
type MockPlugin struct {
	NameValue    string
	DecorateFunc func(entry *types.Entry, host plugin.Host) error
	WrapFunc     func(host plugin.Host, entry *types.Entry, next types.Func) types.Func
}

// Name returns the mock's name.
func (m *MockPlugin) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// OnDecorate calls DecorateFunc if set.
func (m *MockPlugin) OnDecorate(entry *types.Entry, host plugin.Host) error {
	if m.DecorateFunc != nil {
		return m.DecorateFunc(entry, host)
	}
	return nil
}

// WrapHandler calls WrapFunc if set.
func (m *MockPlugin) WrapHandler(host plugin.Host, entry *types.Entry, next types.Func) types.Func {
	if m.WrapFunc != nil {
		return m.WrapFunc(host, entry, next)
	}
	return next
}
