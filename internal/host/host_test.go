package host_test

import (
	"context"
	"sync"
	"testing"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/config"
	"github.com/krema-build/krema/internal/host"
	"github.com/krema-build/krema/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct{ closed bool }

func (f *fakeHandle) SetTitle(string) error     { return nil }
func (f *fakeHandle) SetPosition(int, int) error { return nil }
func (f *fakeHandle) SetSize(int, int) error     { return nil }
func (f *fakeHandle) SetMinSize(int, int) error  { return nil }
func (f *fakeHandle) SetMaxSize(int, int) error  { return nil }
func (f *fakeHandle) Center() error              { return nil }
func (f *fakeHandle) Show() error                { return nil }
func (f *fakeHandle) Hide() error                { return nil }
func (f *fakeHandle) Focus() error               { return nil }
func (f *fakeHandle) SetFullscreen(bool) error   { return nil }
func (f *fakeHandle) SetAlwaysOnTop(bool) error   { return nil }
func (f *fakeHandle) SetResizable(bool) error    { return nil }
func (f *fakeHandle) SetOpacity(float64) error   { return nil }
func (f *fakeHandle) Close() error               { f.closed = true; return nil }

func (f *fakeHandle) EvaluateJS(windowLabel, script string) error { return nil }

type fakeBackend struct {
	created    []string
	quit       bool
	onMessages map[string]func(string)
}

func (b *fakeBackend) CreateWindow(label string, opts window.Options, startURL string, onMessage func(raw string)) (window.Handle, bridge.Evaluator, error) {
	b.created = append(b.created, label)
	if b.onMessages == nil {
		b.onMessages = make(map[string]func(string))
	}
	b.onMessages[label] = onMessage
	h := &fakeHandle{}
	return h, h, nil
}

func (b *fakeBackend) Run() error { return nil }
func (b *fakeBackend) Quit()      { b.quit = true }

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []bridge.Request
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, windowLabel string, req bridge.Request, back bridge.ResultSink) {
	d.mu.Lock()
	d.calls = append(d.calls, req)
	d.mu.Unlock()
	back.Resolve(nil)
}

type fakeDispatcher struct{}

func (fakeDispatcher) Dispatch(ctx context.Context, windowLabel string, req bridge.Request, back bridge.ResultSink) {
	back.Resolve(nil)
}

func TestBootstrapCreatesMainWindowAndEmitsAppReady(t *testing.T) {
	backend := &fakeBackend{}
	h := host.New(backend, fakeDispatcher{}, nil)

	cfg := &config.Config{Window: config.WindowSection{Title: "Test", Width: 800, Height: 600}}
	require.NoError(t, h.Bootstrap(cfg))

	assert.Contains(t, h.Windows.List(), window.MainLabel)
	assert.Contains(t, backend.created, window.MainLabel)
}

func TestShutdownQuitsBackend(t *testing.T) {
	backend := &fakeBackend{}
	h := host.New(backend, fakeDispatcher{}, nil)
	cfg := &config.Config{Window: config.WindowSection{Title: "Test"}}
	require.NoError(t, h.Bootstrap(cfg))

	h.Shutdown(context.Background())
	assert.True(t, backend.quit)
}

func TestBackendOnMessageCallbackReachesDispatcher(t *testing.T) {
	backend := &fakeBackend{}
	dispatcher := &recordingDispatcher{}
	h := host.New(backend, dispatcher, nil)

	cfg := &config.Config{Window: config.WindowSection{Title: "Test"}}
	require.NoError(t, h.Bootstrap(cfg))

	onMessage := backend.onMessages[window.MainLabel]
	require.NotNil(t, onMessage)

	onMessage(`{"seq":1,"cmd":"greet","args":{"name":"World"}}`)

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "greet", dispatcher.calls[0].Cmd)
	assert.Equal(t, uint64(1), dispatcher.calls[0].Seq)
}

func TestParseTitleBarStyleDefaultsOnUnknown(t *testing.T) {
	assert.Equal(t, host.TitleBarDefault, host.ParseTitleBarStyle(""))
	assert.Equal(t, host.TitleBarDefault, host.ParseTitleBarStyle("bogus"))
	assert.Equal(t, host.TitleBarHidden, host.ParseTitleBarStyle("hidden"))
	assert.Equal(t, host.TitleBarHiddenInset, host.ParseTitleBarStyle("hidden-inset"))
}
