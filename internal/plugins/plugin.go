// Package plugins implements the plugin loader (spec §4.9): descriptors,
// dependency-ordered loading, and the context object each plugin's
// initializer runs against.
//
// Auto-registration is grounded in the teacher's internal/plugins global
// registry — a package-level singleton populated by plugin init()
// functions — but Krema tightens one behavior: the teacher logs a warning
// and overwrites on a duplicate name ("supports hot-reload"); Krema treats
// a name collision, builtin or directory-discovered, as a startup error
// (spec §4.9a), because a command name already means something specific to
// the frontend calling it.
package plugins

import (
	"sync"

	"github.com/krema-build/krema/internal/config"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/window"
	"github.com/rs/zerolog"
)

// Manifest is a plugin's self-description (spec §3 "Plugin descriptor").
type Manifest struct {
	Name         string
	Version      string
	Dependencies []string // names of other plugins this one must load after
}

// Context is what a plugin's Init receives: the subset of host state it's
// allowed to touch. Plugins register commands against Commands and may emit
// through Events; they must never spin their own OS event loop (spec
// §4.9's "must not spin OS event loops").
type Context struct {
	Windows  *window.Manager
	Events   *events.Emitter
	Commands *registry.Registry
	Log      zerolog.Logger
	Config   *config.Config
}

// Handler is the interface every plugin implements.
type Handler interface {
	Manifest() Manifest
	Init(ctx *Context) error
}

// Factory constructs a fresh Handler instance. Factories, not instances,
// are registered — each Load call gets its own plugin state, matching the
// teacher's "defer initialization until runtime starts" rationale.
type Factory func() Handler

var (
	builtinMu  sync.RWMutex
	builtin    = make(map[string]Factory)
)

// RegisterBuiltin adds a factory to the process-global builtin registry.
// Called from a plugin package's init(), mirroring the teacher's
// plugins.Register pattern. Panics on a duplicate name: two builtin
// plugins claiming the same name in the same binary is a build-time bug,
// caught the moment init() runs rather than deferred to Load().
func RegisterBuiltin(name string, factory Factory) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	if _, exists := builtin[name]; exists {
		panic("plugins: builtin " + name + " already registered")
	}
	builtin[name] = factory
}

// ResetBuiltinsForTest clears the process-global builtin registry. Builtin
// plugins normally self-register once via init() at process startup and
// never unregister; tests that exercise RegisterBuiltin/Load repeatedly
// need a way back to a clean slate between cases.
func ResetBuiltinsForTest() {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	builtin = make(map[string]Factory)
}

// builtinFactories returns a snapshot of the process-global builtin
// registry.
func builtinFactories() map[string]Factory {
	builtinMu.RLock()
	defer builtinMu.RUnlock()
	out := make(map[string]Factory, len(builtin))
	for name, f := range builtin {
		out[name] = f
	}
	return out
}

// Loader resolves dependency order and drives plugin initialization.
type Loader struct {
	ctx       *Context
	discovery map[string]Factory // directory-discovered plugins, merged on top of builtins
}

// New constructs a Loader that will initialize plugins against ctx.
func New(ctx *Context) *Loader {
	return &Loader{ctx: ctx, discovery: make(map[string]Factory)}
}

// Discover registers an additional factory found outside the binary (e.g. a
// plugins/ directory scanned at startup). Krema's reference implementation
// ships all plugins compiled in, so this exists for embedders that load
// plugin packages dynamically via their own build step; it is exercised
// directly in tests.
func (l *Loader) Discover(name string, factory Factory) {
	l.discovery[name] = factory
}

// merged combines the builtin registry with directory-discovered plugins.
// A name present in both is a startup error (spec §4.9a), not silently
// overwritten.
func (l *Loader) merged() (map[string]Factory, error) {
	out := builtinFactories()
	for name, factory := range l.discovery {
		if _, exists := out[name]; exists {
			return nil, errors.E(errors.CommandCollision, "plugin "+name+" registered both as builtin and discovered")
		}
		out[name] = factory
	}
	return out, nil
}
