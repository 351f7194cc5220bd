package ssoauth

import (
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/permission"
	"github.com/krema-build/krema/internal/plugins"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/window"
)

// fakeStore is an in-memory securestorage.Store stand-in, avoiding any
// dependency on the real OS credential backend in tests.
type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeStore) Has(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok, nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func newTestPlugin() (*Plugin, *fakeStore) {
	store := newFakeStore()
	return &Plugin{secrets: store}, store
}

func TestManifestReportsNameAndVersion(t *testing.T) {
	p := &Plugin{}
	m := p.Manifest()
	assert.Equal(t, "ssoauth", m.Name)
	assert.NotEmpty(t, m.Version)
}

type evaluatorFunc func(windowLabel, script string) error

func (f evaluatorFunc) EvaluateJS(windowLabel, script string) error { return f(windowLabel, script) }

func newTestPluginContext(t *testing.T, reg *registry.Registry) *plugins.Context {
	t.Helper()
	em := events.New()
	eval := evaluatorFunc(func(string, string) error { return nil })
	br := bridge.New(reg, eval, bridge.RenderResponseDelivery)
	wm := window.NewManager(func(label string, opts window.Options) (window.Handle, error) {
		return nil, errors.E(errors.Unsupported, "no native backend in tests")
	}, em, eval, br)
	return &plugins.Context{Windows: wm, Events: em, Commands: reg}
}

func TestInitRegistersAllCommandsUnderTheSsoauthNamespace(t *testing.T) {
	p := &Plugin{}
	reg := registry.New(permission.NewSet([]string{"net:http", "shell:open", "securestorage:write"}))

	err := p.Init(newTestPluginContext(t, reg))
	require.NoError(t, err)

	for _, name := range []string{"ssoauth:startOidcLogin", "ssoauth:startSamlLogin", "ssoauth:verifyTotp", "ssoauth:checkSession"} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
}

func TestVerifyTotpAcceptsAValidCodeAndCachesTheSecret(t *testing.T) {
	p, store := newTestPlugin()

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "krema-test", AccountName: "user@example.com"})
	require.NoError(t, err)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	result, err := p.verifyTotp(nil, map[string]any{"secret": key.Secret(), "code": code})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"valid": true}, result)

	cached, ok, err := store.Get("session:totp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key.Secret(), cached)
}

func TestVerifyTotpRejectsAnIncorrectCodeWithoutCachingAnything(t *testing.T) {
	p, store := newTestPlugin()

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "krema-test", AccountName: "user@example.com"})
	require.NoError(t, err)

	result, err := p.verifyTotp(nil, map[string]any{"secret": key.Secret(), "code": "000000"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"valid": false}, result)

	_, ok, err := store.Get("session:totp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyTotpRejectsMissingArguments(t *testing.T) {
	p, _ := newTestPlugin()

	_, err := p.verifyTotp(nil, map[string]any{"secret": "", "code": ""})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.BadRequest))
}

func TestStringSliceConvertsJSONArrayOfStrings(t *testing.T) {
	assert.Equal(t, []string{"openid", "profile"}, stringSlice([]any{"openid", "profile"}))
}

func TestStringSliceIgnoresNonArrayInput(t *testing.T) {
	assert.Nil(t, stringSlice("openid"))
	assert.Nil(t, stringSlice(nil))
}

func TestRandomTokenProducesDistinctNonEmptyValues(t *testing.T) {
	a := randomToken()
	b := randomToken()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
