// Package events implements the host-to-frontend event bus (spec §4.5):
// emit() broadcasts to every live window, emit_to() targets one, and the
// core's own lifecycle events (app:ready, window:closed, ...) flow through
// the same path handlers and plugins use.
//
// The fan-out design is grounded in the teacher's plugins.EventBus
// (broadcast) combined with its websocket.Hub (per-client targeting). The
// sinks live in one sync.RWMutex-guarded map: Register/Unregister take the
// write lock, and Emit/EmitTo look targets up under the read lock, then
// deliver synchronously on the caller's goroutine.
package events

import (
	"sync"
	"time"
)

// Sink is the minimal surface a window exposes to the emitter: deliver one
// event, identified by the window's label. The window manager implements
// this; events imports nothing from window to avoid a cycle (per spec
// §9 "Event emitter cycles" — the emitter fans out to windows, windows
// hold weak references back for subscription management, never the
// reverse).
type Sink interface {
	Label() string
	DeliverEvent(name string, payload any, timestampMS int64) error
}

// Emitter broadcasts named events to registered window sinks.
type Emitter struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

// New constructs an empty Emitter.
func New() *Emitter {
	return &Emitter{sinks: make(map[string]Sink)}
}

// Register adds a window sink so it starts receiving broadcasts. Called by
// the window manager when a window finishes loading the bridge shim.
func (e *Emitter) Register(sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks[sink.Label()] = sink
}

// Unregister removes a window sink. Called by the window manager the
// moment a window's close event fires — no event is delivered to a window
// after that point (spec §3 invariant).
func (e *Emitter) Unregister(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sinks, label)
}

// Emit broadcasts name/payload to every currently-registered window. An
// event emitted before a window has finished loading the shim is dropped
// for that window (it isn't registered yet) — see spec §4.5.
func (e *Emitter) Emit(name string, payload any) {
	ts := nowMS()
	e.mu.RLock()
	sinks := make([]Sink, 0, len(e.sinks))
	for _, s := range e.sinks {
		sinks = append(sinks, s)
	}
	e.mu.RUnlock()

	for _, s := range sinks {
		_ = s.DeliverEvent(name, payload, ts)
	}
}

// EmitTo targets a single named window. It fails silently (spec §4.5) if
// the label no longer exists — not every caller checks the window still
// exists before firing an event at it.
func (e *Emitter) EmitTo(label string, name string, payload any) {
	ts := nowMS()
	e.mu.RLock()
	s, ok := e.sinks[label]
	e.mu.RUnlock()
	if !ok {
		return
	}
	_ = s.DeliverEvent(name, payload, ts)
}

func nowMS() int64 {
	return time.Now().UnixMilli()
}

// Lifecycle event names emitted by the core itself (spec §4.5).
const (
	AppReady            = "app:ready"
	AppBeforeQuit        = "app:before-quit"
	AppSecondInstance    = "app:second-instance"
	AppWindowAllClosed   = "app:window-all-closed"
	WindowCreated        = "window:created"
	WindowClosed         = "window:closed"
	MenuClick            = "menu:click"
	ShortcutTriggered    = "shortcut:triggered"
	FileDrop             = "file-drop"
	FileDropHover        = "file-drop-hover"
	DeepLinkReceived     = "deep-link:received"
	UpdateAvailable      = "update:available"
	UpdateReady          = "update:ready"
)
