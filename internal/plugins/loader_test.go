package plugins_test

import (
	"testing"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/permission"
	"github.com/krema-build/krema/internal/plugins"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/window"
	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	manifest  plugins.Manifest
	initOrder *[]string
	failWith  error
}

func (h *recordingHandler) Manifest() plugins.Manifest { return h.manifest }

func (h *recordingHandler) Init(ctx *plugins.Context) error {
	if h.failWith != nil {
		return h.failWith
	}
	*h.initOrder = append(*h.initOrder, h.manifest.Name)
	return nil
}

func newTestContext(t *testing.T) *plugins.Context {
	t.Helper()
	em := events.New()
	eval := evaluatorFunc(func(string, string) error { return nil })
	br := bridge.New(registry.New(permission.NewSet(nil)), eval, bridge.RenderResponseDelivery)
	wm := window.NewManager(func(label string, opts window.Options) (window.Handle, error) {
		return nil, errors.E(errors.Unsupported, "no native backend in tests")
	}, em, eval, br)
	return &plugins.Context{
		Windows:  wm,
		Events:   em,
		Commands: registry.New(permission.NewSet(nil)),
	}
}

type evaluatorFunc func(windowLabel, script string) error

func (f evaluatorFunc) EvaluateJS(windowLabel, script string) error { return f(windowLabel, script) }

func TestLoadOrdersByDependency(t *testing.T) {
	defer resetBuiltins(t)

	var order []string
	plugins.RegisterBuiltin("base", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "base"}, initOrder: &order}
	})
	plugins.RegisterBuiltin("derived", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "derived", Dependencies: []string{"base"}}, initOrder: &order}
	})

	l := plugins.New(newTestContext(t))
	manifests, err := l.Load()
	require.NoError(t, err)
	assert.Len(t, manifests, 2)
	assert.Equal(t, []string{"base", "derived"}, order)
}

func TestLoadDetectsCycle(t *testing.T) {
	defer resetBuiltins(t)

	plugins.RegisterBuiltin("a", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "a", Dependencies: []string{"b"}}, initOrder: &[]string{}}
	})
	plugins.RegisterBuiltin("b", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "b", Dependencies: []string{"a"}}, initOrder: &[]string{}}
	})

	l := plugins.New(newTestContext(t))
	_, err := l.Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.PluginCycle))
}

func TestLoadUnknownDependencyFails(t *testing.T) {
	defer resetBuiltins(t)

	plugins.RegisterBuiltin("lonely", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "lonely", Dependencies: []string{"ghost"}}, initOrder: &[]string{}}
	})

	l := plugins.New(newTestContext(t))
	_, err := l.Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.PluginLoadFailed))
}

func TestLoadDuplicateNameBetweenBuiltinAndDiscoveredFails(t *testing.T) {
	defer resetBuiltins(t)

	plugins.RegisterBuiltin("dup", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "dup"}, initOrder: &[]string{}}
	})

	l := plugins.New(newTestContext(t))
	l.Discover("dup", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "dup"}, initOrder: &[]string{}}
	})

	_, err := l.Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.CommandCollision))
}

func TestLoadInitFailureAbortsAndWrapsAsPluginLoadFailed(t *testing.T) {
	defer resetBuiltins(t)

	plugins.RegisterBuiltin("broken", func() plugins.Handler {
		return &recordingHandler{manifest: plugins.Manifest{Name: "broken"}, initOrder: &[]string{}, failWith: assertErr("boom")}
	})

	l := plugins.New(newTestContext(t))
	_, err := l.Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.PluginLoadFailed))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// resetBuiltins clears the process-global builtin registry between tests.
// It is implemented via the package's exported test-only reset hook.
func resetBuiltins(t *testing.T) {
	t.Helper()
	plugins.ResetBuiltinsForTest()
}
