package host

import (
	"context"
	"encoding/json"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/config"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/window"
)

// Backend is the per-platform webview driver. Exactly one implementation
// is compiled in per GOOS (host_darwin.go / host_windows.go / host_linux.go)
// via build tags; main.go never branches on runtime.GOOS itself.
type Backend interface {
	// CreateWindow creates a native window+webview pair and returns a
	// window.Handle the manager drives thereafter, plus an Evaluator
	// scoped to that single webview. onMessage must be invoked by the
	// backend's native message handler (WKScriptMessageHandler,
	// window.chrome.webview.MessageReceived,
	// WebKitUserContentManager::script-message-received) with the raw JSON
	// body of every window.__krema postMessage call, so the invoke->dispatch
	// pipeline in internal/bridge has a receiver (spec §4.3).
	CreateWindow(label string, opts window.Options, startURL string, onMessage func(raw string)) (window.Handle, bridge.Evaluator, error)
	// Run blocks on the platform's native UI event loop (Cocoa/GTK/Win32)
	// until Quit is called. Every window/webview/menu/clipboard/dialog/
	// tray call must happen on this same thread (spec §5).
	Run() error
	// Quit unblocks Run.
	Quit()
}

// evaluatorSet fans EvaluateJS out to the right per-window Evaluator;
// it is the bridge.Evaluator the Host gives to bridge.New, since one
// Bridge instance serves every window by label.
type evaluatorSet struct {
	byLabel map[string]bridge.Evaluator
}

func newEvaluatorSet() *evaluatorSet {
	return &evaluatorSet{byLabel: make(map[string]bridge.Evaluator)}
}

func (s *evaluatorSet) EvaluateJS(windowLabel, script string) error {
	ev, ok := s.byLabel[windowLabel]
	if !ok {
		return errors.E(errors.UnknownWindow, windowLabel)
	}
	return ev.EvaluateJS(windowLabel, script)
}

// Host wires the webview backend, the window manager, the bridge, and the
// event emitter into one running application (spec §4.2's "Creates,
// configures, drives the OS webview; owns the main event loop").
type Host struct {
	backend Backend
	assets  *AssetServer
	evals   *evaluatorSet

	Windows *window.Manager
	Events  *events.Emitter
	Bridge  *bridge.Bridge
}

// New assembles a Host. dispatcher is usually *registry.Registry.
func New(backend Backend, dispatcher bridge.Dispatcher, assets *AssetServer) *Host {
	evals := newEvaluatorSet()
	em := events.New()
	br := bridge.New(dispatcher, evals, bridge.RenderResponseDelivery)
	wm := window.NewManager(func(label string, opts window.Options) (window.Handle, error) {
		startURL := ""
		if assets != nil {
			startURL = assets.Addr()
		}
		onMessage := func(raw string) {
			var req bridge.Request
			if err := json.Unmarshal([]byte(raw), &req); err != nil {
				return
			}
			br.HandleInvoke(context.Background(), label, req)
		}
		handle, eval, err := backend.CreateWindow(label, opts, startURL, onMessage)
		if err != nil {
			return nil, err
		}
		evals.byLabel[label] = eval
		return handle, nil
	}, em, evals, br)

	return &Host{backend: backend, assets: assets, evals: evals, Windows: wm, Events: em, Bridge: br}
}

// Bootstrap creates the reserved main window from cfg's [window] defaults
// and emits app:ready exactly once, before returning control so the caller
// can invoke Run (spec §5 "app:ready fires exactly once and before the
// first user-invoked command completes").
func (h *Host) Bootstrap(cfg *config.Config) error {
	_, err := h.Windows.Create(window.Options{
		Label:       window.MainLabel,
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		MinWidth:    cfg.Window.MinWidth,
		MinHeight:   cfg.Window.MinHeight,
		Resizable:   cfg.Window.Resizable,
		Fullscreen:  cfg.Window.Fullscreen,
		Decorations: cfg.Window.Decorations,
		AlwaysOnTop: cfg.Window.AlwaysOnTop,
	})
	if err != nil {
		return err
	}
	h.Events.Emit(events.AppReady, nil)
	return nil
}

// Run blocks on the backend's native event loop.
func (h *Host) Run() error {
	return h.backend.Run()
}

// Shutdown cancels all pending bridge invocations with kind=ShuttingDown,
// stops the asset server, and quits the native event loop.
func (h *Host) Shutdown(ctx context.Context) {
	h.Events.Emit(events.AppBeforeQuit, nil)
	h.Bridge.CancelAll()
	if h.assets != nil {
		_ = h.assets.Shutdown(ctx)
	}
	h.backend.Quit()
}
