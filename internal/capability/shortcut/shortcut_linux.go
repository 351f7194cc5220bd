//go:build linux

package shortcut

/*
#cgo pkg-config: x11

#include <X11/Xlib.h>
#include <X11/keysym.h>
#include <stdlib.h>

static Display *krema_x11_open(void) {
	return XOpenDisplay(NULL);
}

static Window krema_x11_root(Display *d) {
	return DefaultRootWindow(d);
}

static int krema_x11_grab(Display *d, Window root, KeySym keysym, unsigned int modMask) {
	KeyCode code = XKeysymToKeycode(d, keysym);
	if (code == 0) {
		return 0;
	}
	// Grab with and without common lock/numlock modifier combinations so
	// the shortcut still fires regardless of their state.
	unsigned int ignored[] = {0, LockMask, Mod2Mask, LockMask | Mod2Mask};
	for (int i = 0; i < 4; i++) {
		XGrabKey(d, code, modMask | ignored[i], root, True, GrabModeAsync, GrabModeAsync);
	}
	XFlush(d);
	return 1;
}

static KeyCode krema_x11_keycode(Display *d, KeySym keysym) {
	return XKeysymToKeycode(d, keysym);
}

static void krema_x11_ungrab(Display *d, Window root, KeySym keysym, unsigned int modMask) {
	KeyCode code = XKeysymToKeycode(d, keysym);
	unsigned int ignored[] = {0, LockMask, Mod2Mask, LockMask | Mod2Mask};
	for (int i = 0; i < 4; i++) {
		XUngrabKey(d, code, modMask | ignored[i], root);
	}
	XFlush(d);
}
*/
import "C"

import (
	"strings"
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

type grabbedKey struct {
	keycode uint
	mask    uint
}

type x11Registry struct {
	mu       sync.Mutex
	display  *C.Display
	root     C.Window
	handlers map[string]Handler
	grabs    map[string]grabbedKey
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New returns the platform global-shortcut backend.
func New() Registry {
	display := C.krema_x11_open()
	r := &x11Registry{
		display:  display,
		handlers: map[string]Handler{},
		grabs:    map[string]grabbedKey{},
		stop:     make(chan struct{}),
	}
	if display != nil {
		r.root = C.krema_x11_root(display)
		r.wg.Add(1)
		go r.eventLoop()
	}
	return r
}

func (r *x11Registry) Register(accelerator string, handler Handler) error {
	if r.display == nil {
		return errors.E(errors.Unsupported, "no X11 display available for global shortcuts")
	}
	acc, err := Parse(accelerator)
	if err != nil {
		return err
	}
	keysym, ok := x11KeySym(acc.Key)
	if !ok {
		return errors.E(errors.BadRequest, "unsupported key in accelerator: "+accelerator)
	}
	mask := x11ModifierMask(acc.Modifiers)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[accelerator]; exists {
		return errors.E(errors.BadRequest, "accelerator already registered: "+accelerator)
	}
	if C.krema_x11_grab(r.display, r.root, C.KeySym(keysym), C.uint(mask)) == 0 {
		return errors.E(errors.HandlerFault, "XGrabKey failed for: "+accelerator)
	}
	r.handlers[accelerator] = handler
	r.grabs[accelerator] = grabbedKey{keycode: uint(C.krema_x11_keycode(r.display, C.KeySym(keysym))), mask: mask}
	return nil
}

func (r *x11Registry) Unregister(accelerator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[accelerator]; !ok {
		return nil
	}
	acc, err := Parse(accelerator)
	if err != nil {
		return err
	}
	keysym, _ := x11KeySym(acc.Key)
	mask := x11ModifierMask(acc.Modifiers)
	C.krema_x11_ungrab(r.display, r.root, C.KeySym(keysym), C.uint(mask))
	delete(r.handlers, accelerator)
	delete(r.grabs, accelerator)
	return nil
}

func (r *x11Registry) UnregisterAll() error {
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

func x11KeySym(key string) (uint, bool) {
	if len(key) == 1 {
		c := strings.ToLower(key)[0]
		if c >= 'a' && c <= 'z' {
			return uint(C.XK_a) + uint(c-'a'), true
		}
	}
	switch key {
	case "SPACE":
		return uint(C.XK_space), true
	default:
		return 0, false
	}
}

const (
	x11Shift = 1 << 0
	x11Ctrl  = 1 << 2
	x11Alt   = 1 << 3 // Mod1Mask
	x11Super = 1 << 6 // Mod4Mask
)

func x11ModifierMask(mods []string) uint {
	var mask uint
	for _, m := range mods {
		switch m {
		case "Shift":
			mask |= x11Shift
		case "Ctrl":
			mask |= x11Ctrl
		case "Alt":
			mask |= x11Alt
		case "Cmd":
			mask |= x11Super
		}
	}
	return mask
}

// lockIgnoredMask strips CapsLock/NumLock (the modifiers XGrabKey was
// asked to ignore) from an XKeyEvent's state before comparing against a
// registered accelerator's mask.
const lockIgnoredMask = C.LockMask | C.Mod2Mask

// eventLoop drains XNextEvent for KeyPress events and dispatches the
// handler whose grabbed keycode/modifier-mask matches the event.
func (r *x11Registry) eventLoop() {
	defer r.wg.Done()
	var ev C.XEvent
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		C.XNextEvent(r.display, &ev)
		keyEvent := (*C.XKeyEvent)(unsafe.Pointer(&ev))
		if keyEvent._type != C.KeyPress {
			continue
		}
		state := uint(keyEvent.state) &^ uint(lockIgnoredMask)

		r.mu.Lock()
		for accelerator, grab := range r.grabs {
			if grab.keycode == uint(keyEvent.keycode) && grab.mask == state {
				if h := r.handlers[accelerator]; h != nil {
					go h(accelerator)
				}
				break
			}
		}
		r.mu.Unlock()
	}
}
