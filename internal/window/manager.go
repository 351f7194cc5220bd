// Package window implements the multi-window manager (spec §4.7): window
// creation/lookup/close, state queries, targeted/broadcast event delivery,
// and modal child windows.
//
// The broadcast/registration design is grounded in the teacher's
// internal/websocket Hub: the live-window set is a sync.Mutex-guarded map,
// and event fan-out is delegated to the events.Emitter. Here the "clients" are
// in-process windows instead of network connections, and "broadcast
// payloads" are JS-eval scripts delivered through the bridge's Evaluator
// rather than raw bytes over a socket.
package window

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
)

// MainLabel is the reserved label for the application's first window.
const MainLabel = "main"

// Handle is the platform host's per-window native handle. The window
// manager drives state transitions through it; it never touches OS APIs
// directly (those live in internal/host's per-platform backends).
type Handle interface {
	SetTitle(string) error
	SetPosition(x, y int) error
	SetSize(w, h int) error
	SetMinSize(w, h int) error
	SetMaxSize(w, h int) error
	Center() error
	Show() error
	Hide() error
	Focus() error
	SetFullscreen(bool) error
	SetAlwaysOnTop(bool) error
	SetResizable(bool) error
	SetOpacity(float64) error
	Close() error
}

// HandleFactory creates the native window+webview pair for a new window.
// Supplied by internal/host, which owns the actual OS calls.
type HandleFactory func(label string, opts Options) (Handle, error)

// Window is one live window record (spec §3 "Window record").
type Window struct {
	label       string
	parentLabel string
	handle      Handle
	evaluator   bridge.Evaluator

	mu    sync.Mutex
	state State
}

// Label implements events.Sink.
func (w *Window) Label() string { return w.label }

// DeliverEvent implements events.Sink by evaluating the shim's dispatch
// call inside this window's webview.
func (w *Window) DeliverEvent(name string, payload any, timestampMS int64) error {
	script := bridge.RenderEventDelivery(bridge.EventMessage{Name: name, Payload: payload, Timestamp: timestampMS})
	return w.evaluator.EvaluateJS(w.label, script)
}

// State returns a copy of the window's current observable state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Manager owns the set of live windows. Exactly one Manager exists per
// process.
type Manager struct {
	factory   HandleFactory
	emitter   *events.Emitter
	evaluator bridge.Evaluator
	bridge    *bridge.Bridge

	mu       sync.Mutex
	windows  map[string]*Window
	order    []string // creation order, for deterministic List()
}

// NewManager constructs a Manager. factory builds the native handle for
// each new window; emitter is the event bus new windows register with;
// evaluator delivers events/responses into a window's webview; br is used
// to cancel pending invocations when a window closes.
func NewManager(factory HandleFactory, emitter *events.Emitter, evaluator bridge.Evaluator, br *bridge.Bridge) *Manager {
	return &Manager{
		factory:   factory,
		emitter:   emitter,
		evaluator: evaluator,
		bridge:    br,
		windows:   make(map[string]*Window),
	}
}

// Create makes a new window, returning its (possibly generated) label.
// A label already in use by a live window is rejected. The reserved "main"
// label gets no other check: Create accepts it whenever no live window
// holds it, including outside of bootstrap.
func (m *Manager) Create(opts Options) (string, error) {
	label := opts.Label
	if label == "" {
		label = uuid.NewString()
	}

	m.mu.Lock()
	if _, exists := m.windows[label]; exists {
		m.mu.Unlock()
		return "", errors.E(errors.BadRequest, fmt.Sprintf("window label %q already in use", label))
	}
	m.mu.Unlock()

	handle, err := m.factory(label, opts)
	if err != nil {
		return "", errors.Wrap(errors.IO, "create window", err)
	}

	w := &Window{
		label:       label,
		parentLabel: opts.ParentLabel,
		handle:      handle,
		evaluator:   m.evaluator,
		state: State{
			Phase:  PhaseCreated,
			Title:  opts.Title,
			Width:  opts.Width,
			Height: opts.Height,
		},
	}

	m.mu.Lock()
	m.windows[label] = w
	m.order = append(m.order, label)
	m.mu.Unlock()

	m.emitter.Register(w)
	w.mu.Lock()
	w.state.Phase = PhaseReady
	w.state.Visible = true
	w.mu.Unlock()

	m.emitter.Emit(events.WindowCreated, map[string]any{"label": label})
	return label, nil
}

// Close tears a window down synchronously, returning once the handle is
// closed. It emits window:closed exactly once; when the close leaves no
// window live, whichever window closed last, it also emits
// app:window-all-closed.
func (m *Manager) Close(label string) error {
	m.mu.Lock()
	w, ok := m.windows[label]
	if !ok {
		m.mu.Unlock()
		return errors.E(errors.UnknownWindow, label)
	}
	delete(m.windows, label)
	m.order = removeLabel(m.order, label)
	remaining := len(m.windows)
	m.mu.Unlock()

	w.mu.Lock()
	w.state.Phase = PhaseClosing
	w.mu.Unlock()

	m.bridge.CancelWindow(label)
	m.emitter.Unregister(label) // no event reaches a window after this point

	if err := w.handle.Close(); err != nil {
		return errors.Wrap(errors.IO, "close window", err)
	}

	w.mu.Lock()
	w.state.Phase = PhaseClosed
	w.mu.Unlock()

	m.emitter.Emit(events.WindowClosed, map[string]any{"label": label})

	if remaining == 0 {
		m.emitter.Emit(events.AppWindowAllClosed, nil)
	}
	return nil
}

// List returns the labels of every non-Closed window, in creation order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Get looks up a live window by label.
func (m *Manager) Get(label string) (*Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[label]
	if !ok {
		return nil, errors.E(errors.UnknownWindow, label)
	}
	return w, nil
}

// SendTo delegates to the emitter's targeted delivery.
func (m *Manager) SendTo(label, eventName string, payload any) {
	m.emitter.EmitTo(label, eventName, payload)
}

// Broadcast delegates to the emitter's broadcast delivery.
func (m *Manager) Broadcast(eventName string, payload any) {
	m.emitter.Emit(eventName, payload)
}

// ShowModal creates a child window whose parent is disabled for
// interaction until the child closes. Disabling the parent is a host-level
// concern (implemented by the Handle the factory returns when ParentLabel
// is set); the manager's job here is just wiring the parent/child
// relationship and guaranteeing window:closed still fires on dismissal.
func (m *Manager) ShowModal(opts Options) (string, error) {
	if opts.ParentLabel == "" {
		return "", errors.E(errors.BadRequest, "showModal requires a parent label")
	}
	if _, err := m.Get(opts.ParentLabel); err != nil {
		return "", err
	}
	return m.Create(opts)
}

func removeLabel(labels []string, target string) []string {
	out := labels[:0]
	for _, l := range labels {
		if l != target {
			out = append(out, l)
		}
	}
	return out
}
