package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/commands"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/permission"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	result any
	err    error
}

func (s *recordingSink) Resolve(result any) { s.result = result }
func (s *recordingSink) Reject(err error)   { s.err = err }

type noopEvaluator struct{}

func (noopEvaluator) EvaluateJS(windowLabel, script string) error { return nil }

func newHarness(t *testing.T, allow ...string) (*registry.Registry, *window.Manager) {
	t.Helper()
	reg := registry.New(permission.NewSet(allow))
	em := events.New()
	eval := noopEvaluator{}
	br := bridge.New(reg, eval, bridge.RenderResponseDelivery)
	wm := window.NewManager(func(label string, opts window.Options) (window.Handle, error) {
		return fakeHandle{}, nil
	}, em, eval, br)
	require.NoError(t, commands.RegisterCore(reg, wm))
	return reg, wm
}

type fakeHandle struct{}

func (fakeHandle) SetTitle(string) error       { return nil }
func (fakeHandle) SetPosition(int, int) error  { return nil }
func (fakeHandle) SetSize(int, int) error      { return nil }
func (fakeHandle) SetMinSize(int, int) error   { return nil }
func (fakeHandle) SetMaxSize(int, int) error   { return nil }
func (fakeHandle) Center() error               { return nil }
func (fakeHandle) Show() error                 { return nil }
func (fakeHandle) Hide() error                 { return nil }
func (fakeHandle) Focus() error                { return nil }
func (fakeHandle) SetFullscreen(bool) error    { return nil }
func (fakeHandle) SetAlwaysOnTop(bool) error    { return nil }
func (fakeHandle) SetResizable(bool) error      { return nil }
func (fakeHandle) SetOpacity(float64) error     { return nil }
func (fakeHandle) Close() error                 { return nil }

func TestGreetReturnsGreeting(t *testing.T) {
	reg, _ := newHarness(t)
	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "greet", Args: map[string]any{"name": "World"}}, sink)
	require.NoError(t, sink.err)
	assert.Equal(t, "Hello, World!", sink.result)
}

func TestCalculateAdd(t *testing.T) {
	reg, _ := newHarness(t)
	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "calculate",
		Args: map[string]any{"a": float64(10), "b": float64(5), "operation": "add"},
	}, sink)
	require.NoError(t, sink.err)
	assert.Equal(t, float64(15), sink.result)
}

func TestCalculateDivideByZeroIsBadRequest(t *testing.T) {
	reg, _ := newHarness(t)
	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "calculate",
		Args: map[string]any{"a": float64(10), "b": float64(0), "operation": "divide"},
	}, sink)
	require.Error(t, sink.err)
	assert.Equal(t, "BadRequest: division by zero", sink.err.Error())
}

func TestFsReadRequiresPermission(t *testing.T) {
	reg, _ := newHarness(t) // no permissions granted
	path := filepath.Join(t.TempDir(), "x")
	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "fs:readTextFile",
		Args: map[string]any{"path": path},
	}, sink)
	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.PermissionDenied))
}

func TestFsReadSucceedsWhenGranted(t *testing.T) {
	reg, _ := newHarness(t, "fs:read", "fs:write")
	path := filepath.Join(t.TempDir(), "x")

	writeSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "fs:writeTextFile",
		Args: map[string]any{"path": path, "content": "hi"},
	}, writeSink)
	require.NoError(t, writeSink.err)

	readSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "fs:readTextFile",
		Args: map[string]any{"path": path},
	}, readSink)
	require.NoError(t, readSink.err)
	assert.Equal(t, "hi", readSink.result)
}

func TestFsWriteDeniedWhenOnlyReadGranted(t *testing.T) {
	reg, _ := newHarness(t, "fs:read")
	path := filepath.Join(t.TempDir(), "x")
	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "fs:writeTextFile",
		Args: map[string]any{"path": path, "content": "y"},
	}, sink)
	require.Error(t, sink.err)
	assert.Equal(t, "PermissionDenied: fs:write", sink.err.Error())
}

func TestFsReadDirListsEntries(t *testing.T) {
	reg, _ := newHarness(t, "fs:read", "fs:write")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bye"), 0o644))

	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "fs:readDir",
		Args: map[string]any{"path": dir},
	}, sink)
	require.NoError(t, sink.err)

	entries := sink.result.([]map[string]any)
	assert.Len(t, entries, 2)
}

func TestFsExistsReportsTrueAndFalse(t *testing.T) {
	reg, _ := newHarness(t, "fs:read", "fs:write")
	path := filepath.Join(t.TempDir(), "x")

	missingSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "fs:exists", Args: map[string]any{"path": path}}, missingSink)
	require.NoError(t, missingSink.err)
	assert.Equal(t, false, missingSink.result)

	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	presentSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "fs:exists", Args: map[string]any{"path": path}}, presentSink)
	require.NoError(t, presentSink.err)
	assert.Equal(t, true, presentSink.result)
}

func TestFsStatReportsSize(t *testing.T) {
	reg, _ := newHarness(t, "fs:read", "fs:write")
	path := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "fs:stat", Args: map[string]any{"path": path}}, sink)
	require.NoError(t, sink.err)
	stat := sink.result.(map[string]any)
	assert.Equal(t, int64(5), stat["size"])
	assert.Equal(t, false, stat["isDir"])
}

func TestWindowLifecycleScenario(t *testing.T) {
	reg, _ := newHarness(t)

	createSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "window:create",
		Args: map[string]any{"title": "child", "width": float64(600), "height": float64(400)},
	}, createSink)
	require.NoError(t, createSink.err)
	label := createSink.result.(map[string]any)["label"].(string)
	assert.NotEmpty(t, label)

	listSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "window:list"}, listSink)
	require.NoError(t, listSink.err)
	assert.Contains(t, listSink.result.([]string), label)

	closeSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "window:close",
		Args: map[string]any{"label": label},
	}, closeSink)
	require.NoError(t, closeSink.err)

	listAfterSink := &recordingSink{}
	reg.Dispatch(context.Background(), "main", bridge.Request{Cmd: "window:list"}, listAfterSink)
	require.NoError(t, listAfterSink.err)
	assert.NotContains(t, listAfterSink.result.([]string), label)
}
