package shortcut_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/shortcut"
	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizesModifiersAndKey(t *testing.T) {
	acc, err := shortcut.Parse("cmd+Shift+k")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cmd", "Shift"}, acc.Modifiers)
	assert.Equal(t, "K", acc.Key)
}

func TestParseRejectsUnknownModifier(t *testing.T) {
	_, err := shortcut.Parse("Banana+K")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.BadRequest))
}

func TestParseRejectsMissingKey(t *testing.T) {
	_, err := shortcut.Parse("Cmd+")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.BadRequest))
}

// fakeRegistry pins down shortcut.Registry's contract independent of any
// platform backend.
type fakeRegistry struct {
	handlers map[string]shortcut.Handler
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{handlers: map[string]shortcut.Handler{}}
}

func (f *fakeRegistry) Register(accelerator string, handler shortcut.Handler) error {
	if _, exists := f.handlers[accelerator]; exists {
		return errors.E(errors.BadRequest, "already registered")
	}
	f.handlers[accelerator] = handler
	return nil
}

func (f *fakeRegistry) Unregister(accelerator string) error {
	delete(f.handlers, accelerator)
	return nil
}

func (f *fakeRegistry) UnregisterAll() error {
	f.handlers = map[string]shortcut.Handler{}
	return nil
}

var _ shortcut.Registry = (*fakeRegistry)(nil)

func TestRegisterThenTriggerInvokesHandler(t *testing.T) {
	r := newFakeRegistry()
	var fired string
	require.NoError(t, r.Register("Cmd+Shift+K", func(accelerator string) { fired = accelerator }))

	r.handlers["Cmd+Shift+K"]("Cmd+Shift+K")
	assert.Equal(t, "Cmd+Shift+K", fired)
}

func TestUnregisterAllClearsEverything(t *testing.T) {
	r := newFakeRegistry()
	require.NoError(t, r.Register("Cmd+K", func(string) {}))
	require.NoError(t, r.Register("Cmd+Q", func(string) {}))

	require.NoError(t, r.UnregisterAll())
	assert.Empty(t, r.handlers)
}
