// Package shortcut implements global keyboard accelerators (spec §4.8):
// register/unregister system-wide shortcuts by textual form (e.g.
// "Cmd+Shift+K"); a triggered shortcut emits shortcut:triggered through
// the event emitter. macOS requires Accessibility permission — absent
// permission, Register returns kind=PermissionDenied.
package shortcut

import (
	"fmt"
	"strings"

	"github.com/krema-build/krema/internal/errors"
)

// Accelerator is a parsed textual shortcut such as "Cmd+Shift+K".
type Accelerator struct {
	Raw       string
	Modifiers []string // normalized: "Cmd", "Ctrl", "Alt", "Shift"
	Key       string   // normalized single key, e.g. "K", "F5", "Space"
}

// Parse normalizes a textual accelerator and rejects malformed input.
func Parse(raw string) (Accelerator, error) {
	parts := strings.Split(raw, "+")
	if len(parts) < 2 {
		return Accelerator{}, errors.E(errors.BadRequest, fmt.Sprintf("malformed accelerator %q", raw))
	}
	var mods []string
	for _, p := range parts[:len(parts)-1] {
		mod, ok := normalizeModifier(p)
		if !ok {
			return Accelerator{}, errors.E(errors.BadRequest, fmt.Sprintf("unknown modifier %q in %q", p, raw))
		}
		mods = append(mods, mod)
	}
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return Accelerator{}, errors.E(errors.BadRequest, fmt.Sprintf("missing key in %q", raw))
	}
	return Accelerator{Raw: raw, Modifiers: mods, Key: strings.ToUpper(key)}, nil
}

func normalizeModifier(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cmd", "command", "super", "meta":
		return "Cmd", true
	case "ctrl", "control":
		return "Ctrl", true
	case "alt", "option":
		return "Alt", true
	case "shift":
		return "Shift", true
	default:
		return "", false
	}
}

// Handler is invoked when a registered accelerator fires. The macOS
// backend calls it from the Carbon hotkey event handler; the Linux and
// Windows backends call it on a new goroutine, not on the UI thread.
type Handler func(accelerator string)

// Registry is the per-platform backend.
type Registry interface {
	Register(accelerator string, handler Handler) error
	Unregister(accelerator string) error
	UnregisterAll() error
}
