package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/krema-build/krema/internal/errors"
)

// Dispatcher is the minimal surface the bridge needs from the command
// registry, kept as an interface here so this package doesn't import
// registry (registry depends on bridge's types, not the other way round).
//
// Dispatch may run the handler asynchronously; it must deliver the result
// by calling back.Resolve/Reject exactly once regardless of whether the
// handler is declared synchronous or asynchronous (spec §4.4 step 4).
type Dispatcher interface {
	Dispatch(ctx context.Context, windowLabel string, req Request, back ResultSink)
}

// ResultSink receives exactly one of Resolve or Reject for a dispatched
// request.
type ResultSink interface {
	Resolve(result any)
	Reject(err error)
}

// Evaluator runs a JavaScript expression inside a specific webview to
// deliver a response or event back to the frontend. Each platform host
// backend supplies its own implementation (WKWebView evaluateJavaScript,
// WebView2 ExecuteScriptAsync, WebKitGTK webkit_web_view_run_javascript).
type Evaluator interface {
	EvaluateJS(windowLabel, script string) error
}

// Bridge owns per-webview sequence correlation and the evaluator used to
// deliver responses/events back into a webview. One Bridge serves every
// window; windows are distinguished purely by label.
type Bridge struct {
	dispatcher Dispatcher
	evaluator  Evaluator
	render     func(Response) string

	mu      sync.Mutex
	pending map[string]map[uint64]*invocation // windowLabel -> seq -> invocation
	nextSeq uint64
}

type invocation struct {
	seq    uint64
	window string
	done   chan struct{}
}

// RenderFunc produces the JS expression that resolves/rejects the
// frontend's promise for resp. New takes one so the bridge stays agnostic
// of the exact shim wire format (see shim.go).
type RenderFunc func(Response) string

// New constructs a Bridge wired to a command dispatcher, a JS evaluator,
// and the shim's response-delivery renderer.
func New(dispatcher Dispatcher, evaluator Evaluator, render RenderFunc) *Bridge {
	return &Bridge{
		dispatcher: dispatcher,
		evaluator:  evaluator,
		render:     render,
		pending:    make(map[string]map[uint64]*invocation),
	}
}

// NextSeq allocates a fresh sequence identifier for a new invocation.
func (b *Bridge) NextSeq() uint64 {
	return atomic.AddUint64(&b.nextSeq, 1)
}

// HandleInvoke dispatches req and, once the handler completes (synchronously
// or asynchronously), evaluates the JS expression that resolves the
// frontend's pending promise for req.Seq. If the owning window has since
// closed or the process is shutting down, the invocation was already
// resolved with WindowClosed/ShuttingDown by CancelWindow/CancelAll and this
// call is a no-op.
func (b *Bridge) HandleInvoke(ctx context.Context, windowLabel string, req Request) {
	inv := &invocation{seq: req.Seq, window: windowLabel, done: make(chan struct{})}

	b.mu.Lock()
	if _, ok := b.pending[windowLabel]; !ok {
		b.pending[windowLabel] = make(map[uint64]*invocation)
	}
	b.pending[windowLabel][req.Seq] = inv
	b.mu.Unlock()

	sink := &sink{bridge: b, inv: inv}
	b.dispatcher.Dispatch(ctx, windowLabel, req, sink)
}

type sink struct {
	bridge *Bridge
	inv    *invocation
	once   sync.Once
}

func (s *sink) Resolve(result any) { s.finish(OK(s.inv.seq, result)) }
func (s *sink) Reject(err error)   { s.finish(Err(s.inv.seq, err.Error())) }

func (s *sink) finish(resp Response) {
	s.once.Do(func() {
		if !s.bridge.complete(s.inv) {
			return // already cancelled out from under us
		}
		script := s.bridge.render(resp)
		_ = s.bridge.evaluator.EvaluateJS(s.inv.window, script)
	})
}

// complete removes inv from the pending table, returning false if it was
// already removed (by a cancellation racing the handler's completion).
func (b *Bridge) complete(inv *invocation) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	bySeq, ok := b.pending[inv.window]
	if !ok {
		return false
	}
	if _, ok := bySeq[inv.seq]; !ok {
		return false
	}
	delete(bySeq, inv.seq)
	if len(bySeq) == 0 {
		delete(b.pending, inv.window)
	}
	return true
}

// CancelWindow fails every pending invocation for a closed window with
// kind=WindowClosed, matching the cancellation rule in spec §5.
func (b *Bridge) CancelWindow(windowLabel string) {
	b.cancel(windowLabel, errors.E(errors.WindowClosed, "window closed"))
}

// CancelAll fails every pending invocation across every window with
// kind=ShuttingDown, for use during process shutdown.
func (b *Bridge) CancelAll() {
	b.mu.Lock()
	labels := make([]string, 0, len(b.pending))
	for label := range b.pending {
		labels = append(labels, label)
	}
	b.mu.Unlock()

	for _, label := range labels {
		b.cancel(label, errors.E(errors.ShuttingDown, "process shutting down"))
	}
}

func (b *Bridge) cancel(windowLabel string, cause *errors.Error) {
	b.mu.Lock()
	bySeq := b.pending[windowLabel]
	delete(b.pending, windowLabel)
	b.mu.Unlock()

	for _, inv := range bySeq {
		script := b.render(Err(inv.seq, cause.Error()))
		_ = b.evaluator.EvaluateJS(windowLabel, script)
	}
}
