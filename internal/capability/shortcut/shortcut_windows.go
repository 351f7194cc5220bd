//go:build windows

package shortcut

import (
	"runtime"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

func lockOSThread() { runtime.LockOSThread() }

func currentThreadID() uint32 {
	id, _, _ := procGetCurrentThreadID.Call()
	return uint32(id)
}

const (
	modAlt     = 0x0001
	modControl = 0x0002
	modShift   = 0x0004
	modWin     = 0x0008

	wmHotkey = 0x0312
	wmQuit   = 0x0012
)

type msgW struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

type win32Registry struct {
	mu       sync.Mutex
	handlers map[string]Handler
	ids      map[string]int
	accel    map[int]string
	nextID   int
	threadID uint32
	wg       sync.WaitGroup
}

// New returns the platform global-shortcut backend. The actual
// RegisterHotKey/UnregisterHotKey calls and the WM_HOTKEY message loop
// must run on the same thread, so this backend pins a dedicated
// goroutine with runtime.LockOSThread and funnels Register/Unregister
// calls through it.
func New() Registry {
	r := &win32Registry{
		handlers: map[string]Handler{},
		ids:      map[string]int{},
		accel:    map[int]string{},
	}
	started := make(chan uint32)
	r.wg.Add(1)
	go r.run(started)
	r.threadID = <-started
	return r
}

func (r *win32Registry) run(started chan<- uint32) {
	defer r.wg.Done()
	lockOSThread()
	started <- currentThreadID()

	var m msgW
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if ret == 0 {
			return // WM_QUIT
		}
		if m.message == wmHotkey {
			id := int(m.wParam)
			r.mu.Lock()
			accelerator := r.accel[id]
			handler := r.handlers[accelerator]
			r.mu.Unlock()
			if handler != nil {
				go handler(accelerator)
			}
		}
	}
}

func (r *win32Registry) Register(accelerator string, handler Handler) error {
	acc, err := Parse(accelerator)
	if err != nil {
		return err
	}
	vk, ok := virtualKeyCode(acc.Key)
	if !ok {
		return errors.E(errors.BadRequest, "unsupported key in accelerator: "+accelerator)
	}
	mods := win32ModifierMask(acc.Modifiers)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[accelerator]; exists {
		return errors.E(errors.BadRequest, "accelerator already registered: "+accelerator)
	}
	r.nextID++
	id := r.nextID

	ret, _, _ := procRegisterHotKey.Call(0, uintptr(id), uintptr(mods), uintptr(vk))
	if ret == 0 {
		return errors.E(errors.HandlerFault, "RegisterHotKey failed for: "+accelerator)
	}

	r.handlers[accelerator] = handler
	r.ids[accelerator] = id
	r.accel[id] = accelerator
	return nil
}

func (r *win32Registry) Unregister(accelerator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[accelerator]
	if !ok {
		return nil
	}
	procUnregisterHotKey.Call(0, uintptr(id))
	delete(r.handlers, accelerator)
	delete(r.ids, accelerator)
	delete(r.accel, id)
	return nil
}

func (r *win32Registry) UnregisterAll() error {
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

func virtualKeyCode(key string) (int, bool) {
	if len(key) == 1 {
		c := strings.ToUpper(key)[0]
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return int(c), true
		}
	}
	switch key {
	case "SPACE":
		return 0x20, true
	default:
		return 0, false
	}
}

func win32ModifierMask(mods []string) int {
	mask := 0
	for _, m := range mods {
		switch m {
		case "Alt":
			mask |= modAlt
		case "Ctrl":
			mask |= modControl
		case "Shift":
			mask |= modShift
		case "Cmd":
			mask |= modWin
		}
	}
	return mask
}
