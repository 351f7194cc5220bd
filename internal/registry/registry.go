// Package registry implements the command registry (spec §4.4): command
// descriptors, lookup, permission checks, argument coercion, and handler
// invocation — wired end to end so Dispatch satisfies bridge.Dispatcher.
//
// Structurally this plays the role the teacher's plugins.GlobalPluginRegistry
// plays for plugin factories: a concurrency-safe name->descriptor map
// populated at startup and read-mostly thereafter (spec §5's "command
// registry ... protected such that concurrent reads proceed without
// contention").
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/permission"
)

// ParamType is the declared type of one command parameter, used by Coerce
// to validate and convert an incoming JSON argument.
type ParamType int

const (
	TypeString ParamType = iota
	TypeNumber
	TypeBool
	TypeObject
	TypeArray
	TypeAny
)

// Param describes one declared parameter of a command.
type Param struct {
	Name     string
	Type     ParamType
	Required bool
	Default  any // used when absent and not Required
}

// Handler is the function a command dispatches to. ctx carries cancellation
// for long-running I/O (filesystem, network, subprocess, dialog return);
// args has already been coerced into native Go types per the command's
// declared Params. A handler that needs to run asynchronously should do its
// work in a goroutine and is still expected to return once it has kicked
// that work off — Async on the Descriptor is purely documentation; the
// registry itself always calls Handler synchronously and lets the handler
// decide whether to block.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor is a registered command's full, immutable definition.
type Descriptor struct {
	Name               string
	Params             []Param
	RequiredCapabilities []string
	Handler            Handler
	Async              bool
}

// Registry holds the name->Descriptor map. Safe for concurrent dispatch
// once Freeze has been called; registration itself is not meant to race
// with dispatch (all registration happens at startup).
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	frozen      bool
	permissions *permission.Set
}

// New constructs an empty Registry gated by the application's permission
// set.
func New(permissions *permission.Set) *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
		permissions: permissions,
	}
}

// Register adds a command descriptor. A name collision — across core and
// plugins alike — is a startup error (spec §3 invariant), not a warning;
// unlike the teacher's global plugin registry (which logs and overwrites to
// support plugin hot-reload), Krema treats a duplicate command name as a
// broken build.
func (r *Registry) Register(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.E(errors.CommandCollision, "registry already frozen, cannot register "+d.Name)
	}
	if _, exists := r.descriptors[d.Name]; exists {
		return errors.E(errors.CommandCollision, d.Name)
	}
	r.descriptors[d.Name] = d
	return nil
}

// Freeze marks registration complete; no further Register calls succeed.
// Call once, after core commands and every plugin have registered.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the descriptor for name, or ok=false if none is
// registered.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// Dispatch implements bridge.Dispatcher: look the command up, check
// permissions, coerce arguments, invoke the handler, and resolve/reject
// back through the sink.
func (r *Registry) Dispatch(ctx context.Context, windowLabel string, req bridge.Request, back bridge.ResultSink) {
	d, ok := r.Lookup(req.Cmd)
	if !ok {
		back.Reject(errors.E(errors.UnknownCommand, req.Cmd))
		return
	}

	if missing, ok := r.permissions.Check(d.RequiredCapabilities); !ok {
		back.Reject(errors.E(errors.PermissionDenied, missing))
		return
	}

	coerced, err := Coerce(d.Params, req.Args)
	if err != nil {
		back.Reject(err)
		return
	}

	result, err := invoke(ctx, d, coerced)
	if err != nil {
		back.Reject(toStructured(err))
		return
	}
	back.Resolve(result)
}

// invoke runs the handler, converting any panic into kind=HandlerFault so a
// misbehaving handler can't take the host process down.
func invoke(ctx context.Context, d *Descriptor, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.E(errors.HandlerFault, fmt.Sprintf("panic in handler %s: %v", d.Name, r))
		}
	}()
	return d.Handler(ctx, args)
}

// toStructured maps any error a handler returned into the bridge's
// structured form: a *errors.Error passes through unchanged (a handler that
// threw with a structured domain error), anything else becomes
// kind=HandlerFault (spec §4.4 edge-case policy).
func toStructured(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Wrap(errors.HandlerFault, err.Error(), err)
}
