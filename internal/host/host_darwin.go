//go:build darwin

package host

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework WebKit

#include <stdlib.h>

void krema_cocoa_run(void);
void krema_cocoa_quit(void);
void *krema_cocoa_create_window(const char *label, const char *title, int width, int height,
                                 int minWidth, int minHeight, int resizable, int fullscreen,
                                 int decorations, int alwaysOnTop, const char *startURL);
void krema_cocoa_window_set_title(void *win, const char *title);
void krema_cocoa_window_set_position(void *win, int x, int y);
void krema_cocoa_window_set_size(void *win, int w, int h);
void krema_cocoa_window_set_min_size(void *win, int w, int h);
void krema_cocoa_window_set_max_size(void *win, int w, int h);
void krema_cocoa_window_center(void *win);
void krema_cocoa_window_show(void *win);
void krema_cocoa_window_hide(void *win);
void krema_cocoa_window_focus(void *win);
void krema_cocoa_window_set_fullscreen(void *win, int v);
void krema_cocoa_window_set_always_on_top(void *win, int v);
void krema_cocoa_window_set_resizable(void *win, int v);
void krema_cocoa_window_set_opacity(void *win, double v);
void krema_cocoa_window_close(void *win);
void krema_cocoa_webview_evaluate_js(void *win, const char *script);
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/window"
)

// cocoaBackend drives WKWebView inside a Cocoa NSApplication run loop. The
// krema_cocoa_* C functions declared above are implemented in host_darwin.m,
// compiled alongside this file by cgo's normal GOOS-suffixed source
// selection; this Go side only owns marshaling and the Handle/Evaluator
// adapters, matching the split the teacher's platform-specific files keep
// between Go state tracking and native calls.
type cocoaBackend struct{}

// messageHandlers maps a window's native token (the krema_cocoa_window_t*
// returned by krema_cocoa_create_window) to the onMessage callback Host.New
// wired for it, so krema_cocoa_dispatch_message (called from the
// WKScriptMessageHandler shim in host_darwin.m) can reach bridge.HandleInvoke.
var (
	messageHandlersMu sync.Mutex
	messageHandlers   = map[unsafe.Pointer]func(string){}
)

//export krema_cocoa_dispatch_message
func krema_cocoa_dispatch_message(win unsafe.Pointer, message *C.char) {
	messageHandlersMu.Lock()
	cb, ok := messageHandlers[win]
	messageHandlersMu.Unlock()
	if ok {
		cb(C.GoString(message))
	}
}

// NewBackend returns the platform webview backend for the current GOOS.
func NewBackend() Backend {
	return &cocoaBackend{}
}

func (b *cocoaBackend) Run() error {
	C.krema_cocoa_run()
	return nil
}

func (b *cocoaBackend) Quit() {
	C.krema_cocoa_quit()
}

func (b *cocoaBackend) CreateWindow(label string, opts window.Options, startURL string, onMessage func(raw string)) (window.Handle, bridge.Evaluator, error) {
	cLabel := C.CString(label)
	cTitle := C.CString(opts.Title)
	cURL := C.CString(startURL)
	defer C.free(unsafe.Pointer(cLabel))
	defer C.free(unsafe.Pointer(cTitle))
	defer C.free(unsafe.Pointer(cURL))

	ptr := C.krema_cocoa_create_window(cLabel, cTitle,
		C.int(opts.Width), C.int(opts.Height),
		C.int(opts.MinWidth), C.int(opts.MinHeight),
		boolToC(opts.Resizable), boolToC(opts.Fullscreen),
		boolToC(opts.Decorations), boolToC(opts.AlwaysOnTop), cURL)

	messageHandlersMu.Lock()
	messageHandlers[ptr] = onMessage
	messageHandlersMu.Unlock()

	win := &cocoaWindow{ptr: ptr}
	return win, win, nil
}

func boolToC(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

// cocoaWindow implements both window.Handle and bridge.Evaluator over a
// single native NSWindow+WKWebView pair.
type cocoaWindow struct {
	ptr unsafe.Pointer
}

func (w *cocoaWindow) SetTitle(title string) error {
	c := C.CString(title)
	defer C.free(unsafe.Pointer(c))
	C.krema_cocoa_window_set_title(w.ptr, c)
	return nil
}

func (w *cocoaWindow) SetPosition(x, y int) error {
	C.krema_cocoa_window_set_position(w.ptr, C.int(x), C.int(y))
	return nil
}

func (w *cocoaWindow) SetSize(width, height int) error {
	C.krema_cocoa_window_set_size(w.ptr, C.int(width), C.int(height))
	return nil
}

func (w *cocoaWindow) SetMinSize(width, height int) error {
	C.krema_cocoa_window_set_min_size(w.ptr, C.int(width), C.int(height))
	return nil
}

func (w *cocoaWindow) SetMaxSize(width, height int) error {
	C.krema_cocoa_window_set_max_size(w.ptr, C.int(width), C.int(height))
	return nil
}

func (w *cocoaWindow) Center() error {
	C.krema_cocoa_window_center(w.ptr)
	return nil
}

func (w *cocoaWindow) Show() error {
	C.krema_cocoa_window_show(w.ptr)
	return nil
}

func (w *cocoaWindow) Hide() error {
	C.krema_cocoa_window_hide(w.ptr)
	return nil
}

func (w *cocoaWindow) Focus() error {
	C.krema_cocoa_window_focus(w.ptr)
	return nil
}

func (w *cocoaWindow) SetFullscreen(v bool) error {
	C.krema_cocoa_window_set_fullscreen(w.ptr, boolToC(v))
	return nil
}

func (w *cocoaWindow) SetAlwaysOnTop(v bool) error {
	C.krema_cocoa_window_set_always_on_top(w.ptr, boolToC(v))
	return nil
}

func (w *cocoaWindow) SetResizable(v bool) error {
	C.krema_cocoa_window_set_resizable(w.ptr, boolToC(v))
	return nil
}

func (w *cocoaWindow) SetOpacity(v float64) error {
	C.krema_cocoa_window_set_opacity(w.ptr, C.double(v))
	return nil
}

func (w *cocoaWindow) Close() error {
	messageHandlersMu.Lock()
	delete(messageHandlers, w.ptr)
	messageHandlersMu.Unlock()
	C.krema_cocoa_window_close(w.ptr)
	return nil
}

func (w *cocoaWindow) EvaluateJS(windowLabel, script string) error {
	c := C.CString(script)
	defer C.free(unsafe.Pointer(c))
	C.krema_cocoa_webview_evaluate_js(w.ptr, c)
	return nil
}
