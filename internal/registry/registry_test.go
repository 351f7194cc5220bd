package registry_test

import (
	"context"
	"testing"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/permission"
	"github.com/krema-build/krema/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	result any
	err    error
}

func (s *recordingSink) Resolve(result any) { s.result = result }
func (s *recordingSink) Reject(err error)   { s.err = err }

func newRegistry(allow ...string) *registry.Registry {
	return registry.New(permission.NewSet(allow))
}

func TestDispatchUnknownCommandRejects(t *testing.T) {
	r := newRegistry()
	sink := &recordingSink{}

	r.Dispatch(context.Background(), "main", bridge.Request{Cmd: "nope"}, sink)

	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.UnknownCommand))
}

func TestDispatchMissingPermissionRejects(t *testing.T) {
	r := newRegistry() // nothing allowed
	err := r.Register(&registry.Descriptor{
		Name:                 "fs:readTextFile",
		RequiredCapabilities: []string{"fs:read"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "contents", nil
		},
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	r.Dispatch(context.Background(), "main", bridge.Request{Cmd: "fs:readTextFile"}, sink)

	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.PermissionDenied))
}

func TestDispatchCoercesAndInvokesHandler(t *testing.T) {
	r := newRegistry("greet:*")
	err := r.Register(&registry.Descriptor{
		Name: "greet",
		Params: []registry.Param{
			{Name: "name", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"greet:say"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "hello " + args["name"].(string), nil
		},
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	r.Dispatch(context.Background(), "main", bridge.Request{
		Cmd:  "greet",
		Args: map[string]any{"name": "krema"},
	}, sink)

	require.NoError(t, sink.err)
	assert.Equal(t, "hello krema", sink.result)
}

func TestDispatchMissingRequiredArgRejectsAsBadRequest(t *testing.T) {
	r := newRegistry("greet:*")
	err := r.Register(&registry.Descriptor{
		Name: "greet",
		Params: []registry.Param{
			{Name: "name", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"greet:say"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "hello " + args["name"].(string), nil
		},
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	r.Dispatch(context.Background(), "main", bridge.Request{Cmd: "greet"}, sink)

	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.BadRequest))
}

func TestDispatchHandlerErrorBecomesHandlerFault(t *testing.T) {
	r := newRegistry("boom:*")
	err := r.Register(&registry.Descriptor{
		Name:                 "boom",
		RequiredCapabilities: []string{"boom:go"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, assertErr("disk on fire")
		},
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	r.Dispatch(context.Background(), "main", bridge.Request{Cmd: "boom"}, sink)

	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.HandlerFault))
}

func TestDispatchHandlerPanicBecomesHandlerFault(t *testing.T) {
	r := newRegistry("boom:*")
	err := r.Register(&registry.Descriptor{
		Name:                 "boom",
		RequiredCapabilities: []string{"boom:go"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			panic("unexpected nil pointer")
		},
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	require.NotPanics(t, func() {
		r.Dispatch(context.Background(), "main", bridge.Request{Cmd: "boom"}, sink)
	})

	require.Error(t, sink.err)
	assert.True(t, errors.IsKind(sink.err, errors.HandlerFault))
}

func TestRegisterDuplicateNameRejected(t *testing.T) {
	r := newRegistry()
	d := &registry.Descriptor{Name: "dup", Handler: func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	}}
	require.NoError(t, r.Register(d))

	err := r.Register(d)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.CommandCollision))
}

func TestRegisterAfterFreezeRejected(t *testing.T) {
	r := newRegistry()
	r.Freeze()

	err := r.Register(&registry.Descriptor{Name: "late", Handler: func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	}})
	require.Error(t, err)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
