package window_test

import (
	"context"
	"sync"
	"testing"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct{ closed bool }

func (f *fakeHandle) SetTitle(string) error      { return nil }
func (f *fakeHandle) SetPosition(int, int) error  { return nil }
func (f *fakeHandle) SetSize(int, int) error      { return nil }
func (f *fakeHandle) SetMinSize(int, int) error   { return nil }
func (f *fakeHandle) SetMaxSize(int, int) error   { return nil }
func (f *fakeHandle) Center() error               { return nil }
func (f *fakeHandle) Show() error                 { return nil }
func (f *fakeHandle) Hide() error                 { return nil }
func (f *fakeHandle) Focus() error                { return nil }
func (f *fakeHandle) SetFullscreen(bool) error     { return nil }
func (f *fakeHandle) SetAlwaysOnTop(bool) error    { return nil }
func (f *fakeHandle) SetResizable(bool) error      { return nil }
func (f *fakeHandle) SetOpacity(float64) error     { return nil }
func (f *fakeHandle) Close() error                 { f.closed = true; return nil }

type recordingEvaluator struct {
	mu      sync.Mutex
	scripts []string
}

func (r *recordingEvaluator) EvaluateJS(windowLabel, script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, script)
	return nil
}

type fakeDispatcher struct{}

func (fakeDispatcher) Dispatch(ctx context.Context, windowLabel string, req bridge.Request, back bridge.ResultSink) {
}

func newManager(t *testing.T) (*window.Manager, *events.Emitter) {
	t.Helper()
	emitter := events.New()
	eval := &recordingEvaluator{}
	br := bridge.New(fakeDispatcher{}, eval, bridge.RenderResponseDelivery)
	factory := func(label string, opts window.Options) (window.Handle, error) {
		return &fakeHandle{}, nil
	}
	return window.NewManager(factory, emitter, eval, br), emitter
}

func TestCreateMainThenChildAppearsInList(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Create(window.Options{Label: window.MainLabel, Title: "Main"})
	require.NoError(t, err)

	childLabel, err := m.Create(window.Options{Title: "child", Width: 600, Height: 400})
	require.NoError(t, err)

	labels := m.List()
	assert.Contains(t, labels, window.MainLabel)
	assert.Contains(t, labels, childLabel)
}

func TestCreateWithDuplicateLabelRejected(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Create(window.Options{Label: "main"})
	require.NoError(t, err)

	_, err = m.Create(window.Options{Label: "main"})
	require.Error(t, err)
}

func TestCloseRemovesFromList(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Create(window.Options{Label: window.MainLabel})
	require.NoError(t, err)
	childLabel, err := m.Create(window.Options{})
	require.NoError(t, err)

	require.NoError(t, m.Close(childLabel))

	labels := m.List()
	assert.NotContains(t, labels, childLabel)
	assert.Contains(t, labels, window.MainLabel)
}

func TestCloseUnknownWindowFails(t *testing.T) {
	m, _ := newManager(t)
	err := m.Close("does-not-exist")
	require.Error(t, err)
}

func TestCloseLastWindowEmptiesList(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Create(window.Options{Label: window.MainLabel})
	require.NoError(t, err)

	require.NoError(t, m.Close(window.MainLabel))
	assert.Empty(t, m.List())
}

func TestShowModalRequiresKnownParent(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.ShowModal(window.Options{ParentLabel: "main"})
	require.Error(t, err)
}

func TestShowModalCreatesChildUnderParent(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Create(window.Options{Label: window.MainLabel})
	require.NoError(t, err)

	childLabel, err := m.ShowModal(window.Options{ParentLabel: window.MainLabel, Title: "dialog"})
	require.NoError(t, err)
	assert.Contains(t, m.List(), childLabel)
}

func TestBroadcastReachesEveryWindow(t *testing.T) {
	emitter := events.New()
	eval := &recordingEvaluator{}
	br := bridge.New(fakeDispatcher{}, eval, bridge.RenderResponseDelivery)
	m := window.NewManager(func(label string, opts window.Options) (window.Handle, error) {
		return &fakeHandle{}, nil
	}, emitter, eval, br)
	_, err := m.Create(window.Options{Label: window.MainLabel})
	require.NoError(t, err)
	_, err = m.Create(window.Options{})
	require.NoError(t, err)

	eval.mu.Lock()
	before := len(eval.scripts)
	eval.mu.Unlock()

	m.Broadcast("tick", 1)

	eval.mu.Lock()
	delivered := len(eval.scripts) - before
	eval.mu.Unlock()
	assert.Equal(t, 2, delivered)

	w, err := m.Get(window.MainLabel)
	require.NoError(t, err)
	assert.Equal(t, window.MainLabel, w.Label())
}
