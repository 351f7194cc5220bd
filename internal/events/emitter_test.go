package events_test

import (
	"sync"
	"testing"

	"github.com/krema-build/krema/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	label string
	mu    sync.Mutex
	names []string
}

func (f *fakeSink) Label() string { return f.label }
func (f *fakeSink) DeliverEvent(name string, payload any, timestampMS int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return nil
}

func TestEmitBroadcastsToAllWindows(t *testing.T) {
	e := events.New()
	main := &fakeSink{label: "main"}
	child := &fakeSink{label: "child"}
	e.Register(main)
	e.Register(child)

	e.Emit("tick", 1)

	assert.Equal(t, []string{"tick"}, main.names)
	assert.Equal(t, []string{"tick"}, child.names)
}

func TestEmitOrderingWithinOneWindow(t *testing.T) {
	e := events.New()
	main := &fakeSink{label: "main"}
	e.Register(main)

	e.Emit("tick", 1)
	e.Emit("tick", 2)
	e.Emit("tick", 3)

	require.Len(t, main.names, 3)
	assert.Equal(t, []string{"tick", "tick", "tick"}, main.names)
}

func TestEmitToTargetsOneWindow(t *testing.T) {
	e := events.New()
	main := &fakeSink{label: "main"}
	child := &fakeSink{label: "child"}
	e.Register(main)
	e.Register(child)

	e.EmitTo("child", "window:closed", nil)

	assert.Empty(t, main.names)
	assert.Equal(t, []string{"window:closed"}, child.names)
}

func TestEmitToUnknownLabelIsSilent(t *testing.T) {
	e := events.New()
	assert.NotPanics(t, func() {
		e.EmitTo("nonexistent", "window:closed", nil)
	})
}

func TestUnregisterStopsDelivery(t *testing.T) {
	e := events.New()
	main := &fakeSink{label: "main"}
	e.Register(main)
	e.Unregister("main")

	e.Emit("tick", 1)

	assert.Empty(t, main.names)
}
