//go:build darwin

package shortcut

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework Carbon

#include <stdlib.h>

// Mirrors host_darwin.go and screen_darwin.go: krema_hotkey_* is
// implemented by this package's own Objective-C/Carbon shim,
// shortcut_darwin.m, registering a Carbon RegisterEventHotKey
// per accelerator and routing GetApplicationEventTarget callbacks back
// into krema_hotkey_dispatch.
extern int krema_hotkey_register(const char *accelerator, int keyCode, int modifierMask, int handle);
extern void krema_hotkey_unregister(int handle);
extern int krema_accessibility_trusted(void);
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

type cocoaRegistry struct {
	mu       sync.Mutex
	handlers map[string]Handler
	handles  map[string]int
	nextID   int
}

// New returns the platform global-shortcut backend.
func New() Registry {
	return &cocoaRegistry{handlers: map[string]Handler{}, handles: map[string]int{}}
}

func (r *cocoaRegistry) Register(accelerator string, handler Handler) error {
	if C.krema_accessibility_trusted() == 0 {
		return errors.E(errors.PermissionDenied, "accessibility permission required for global shortcuts")
	}
	acc, err := Parse(accelerator)
	if err != nil {
		return err
	}

	keyCode, ok := carbonKeyCode(acc.Key)
	if !ok {
		return errors.E(errors.BadRequest, "unsupported key in accelerator: "+accelerator)
	}
	mask := carbonModifierMask(acc.Modifiers)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[accelerator]; exists {
		return errors.E(errors.BadRequest, "accelerator already registered: "+accelerator)
	}
	r.nextID++
	handle := r.nextID

	cAccel := C.CString(accelerator)
	defer C.free(unsafe.Pointer(cAccel))
	if C.krema_hotkey_register(cAccel, C.int(keyCode), C.int(mask), C.int(handle)) == 0 {
		return errors.E(errors.HandlerFault, "failed to register global shortcut: "+accelerator)
	}

	r.handlers[accelerator] = handler
	r.handles[accelerator] = handle
	registryHandlers.store(handle, handler, accelerator)
	return nil
}

func (r *cocoaRegistry) Unregister(accelerator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, ok := r.handles[accelerator]
	if !ok {
		return nil
	}
	C.krema_hotkey_unregister(C.int(handle))
	registryHandlers.remove(handle)
	delete(r.handlers, accelerator)
	delete(r.handles, accelerator)
	return nil
}

func (r *cocoaRegistry) UnregisterAll() error {
	r.mu.Lock()
	accelerators := make([]string, 0, len(r.handlers))
	for acc := range r.handlers {
		accelerators = append(accelerators, acc)
	}
	r.mu.Unlock()
	for _, acc := range accelerators {
		if err := r.Unregister(acc); err != nil {
			return err
		}
	}
	return nil
}

// carbonKeyCode maps a normalized single key to its Carbon virtual key
// code. Only the common subset used by application shortcuts is covered;
// anything else is rejected at Register time.
func carbonKeyCode(key string) (int, bool) {
	switch key {
	case "A":
		return 0x00, true
	case "B":
		return 0x0B, true
	case "K":
		return 0x28, true
	case "N":
		return 0x2D, true
	case "Q":
		return 0x0C, true
	case "S":
		return 0x01, true
	case "SPACE":
		return 0x31, true
	default:
		return 0, false
	}
}

const (
	cmdKeyBit   = 1 << 8
	shiftKeyBit = 1 << 9
	optionKeyBit = 1 << 11
	controlKeyBit = 1 << 12
)

func carbonModifierMask(mods []string) int {
	mask := 0
	for _, m := range mods {
		switch m {
		case "Cmd":
			mask |= cmdKeyBit
		case "Shift":
			mask |= shiftKeyBit
		case "Alt":
			mask |= optionKeyBit
		case "Ctrl":
			mask |= controlKeyBit
		}
	}
	return mask
}

// registryHandlers lets the Obj-C/Carbon shim dispatch a firing hotkey
// back into Go by integer handle without exposing Go function pointers
// across the cgo boundary.
var registryHandlers = newHandlerTable()

type handlerTable struct {
	mu       sync.Mutex
	byHandle map[int]Handler
	accel    map[int]string
}

func newHandlerTable() *handlerTable {
	return &handlerTable{byHandle: map[int]Handler{}, accel: map[int]string{}}
}

func (t *handlerTable) store(handle int, h Handler, accelerator string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byHandle[handle] = h
	t.accel[handle] = accelerator
}

func (t *handlerTable) remove(handle int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byHandle, handle)
	delete(t.accel, handle)
}

//export krema_hotkey_dispatch
func krema_hotkey_dispatch(handle C.int) {
	registryHandlers.mu.Lock()
	h := registryHandlers.byHandle[int(handle)]
	accelerator := registryHandlers.accel[int(handle)]
	registryHandlers.mu.Unlock()
	if h != nil {
		h(accelerator)
	}
}
