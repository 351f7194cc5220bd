//go:build windows

package host

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/window"
)

// webview2Backend drives WebView2 via its native DLL loader
// (WebView2Loader.dll), invoked through syscall rather than cgo — Windows
// COM interop is conventionally done this way in the Go ecosystem (no cgo
// toolchain assumption on the target machine), unlike the Cocoa/GTK
// backends where cgo is the natural fit.
type webview2Backend struct {
	user32   *syscall.LazyDLL
	loader   *syscall.LazyDLL
	quitOnce sync.Once
	quitCh   chan struct{}
}

// NewBackend returns the platform webview backend for the current GOOS.
func NewBackend() Backend {
	return &webview2Backend{
		user32: syscall.NewLazyDLL("user32.dll"),
		loader: syscall.NewLazyDLL("WebView2Loader.dll"),
		quitCh: make(chan struct{}),
	}
}

func (b *webview2Backend) Run() error {
	getMessage := b.user32.NewProc("GetMessageW")
	translateMessage := b.user32.NewProc("TranslateMessage")
	dispatchMessage := b.user32.NewProc("DispatchMessageW")

	var msg [48]byte // MSG struct, oversized buffer is harmless padding
	for {
		select {
		case <-b.quitCh:
			return nil
		default:
		}
		ret, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&msg[0])), 0, 0, 0)
		if ret == 0 {
			return nil
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&msg[0])))
		dispatchMessage.Call(uintptr(unsafe.Pointer(&msg[0])))
	}
}

func (b *webview2Backend) Quit() {
	b.quitOnce.Do(func() { close(b.quitCh) })
}

func (b *webview2Backend) CreateWindow(label string, opts window.Options, startURL string, onMessage func(raw string)) (window.Handle, bridge.Evaluator, error) {
	createWindow := b.user32.NewProc("CreateWindowExW")
	hwnd, _, _ := createWindow.Call(
		0,
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr("KremaWindowClass"))),
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(opts.Title))),
		0x00CF0000, // WS_OVERLAPPEDWINDOW
		0, 0, uintptr(opts.Width), uintptr(opts.Height),
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		return nil, nil, errors.E(errors.IO, fmt.Sprintf("CreateWindowExW failed for window %q", label))
	}

	// bootstrapWebView2 does not perform the asynchronous COM handshake
	// (CreateCoreWebView2EnvironmentWithOptions -> CreateCoreWebView2Controller);
	// it returns an error, so CreateWindow fails here on this backend.
	// onMessage is passed to it but never registered with
	// add_WebMessageReceived.
	controller, err := bootstrapWebView2(b.loader, hwnd, startURL, onMessage)
	if err != nil {
		return nil, nil, err
	}

	win := &webview2Window{hwnd: hwnd, controller: controller}
	return win, win, nil
}

// webview2Window implements window.Handle and bridge.Evaluator over one
// HWND + ICoreWebView2Controller pair. The controller is obtained from
// bootstrapWebView2, called from CreateWindow; that function returns an
// error on this backend, so CreateWindow never constructs a webview2Window.
type webview2Window struct {
	hwnd       uintptr
	controller *webview2Controller

	mu      sync.Mutex
	visible bool
}

func (w *webview2Window) user32() *syscall.LazyDLL { return syscall.NewLazyDLL("user32.dll") }

func (w *webview2Window) SetTitle(title string) error {
	proc := w.user32().NewProc("SetWindowTextW")
	proc.Call(w.hwnd, uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(title))))
	return nil
}

func (w *webview2Window) SetPosition(x, y int) error {
	proc := w.user32().NewProc("SetWindowPos")
	const swpNoSize = 0x0001
	const swpNoZOrder = 0x0004
	proc.Call(w.hwnd, 0, uintptr(x), uintptr(y), 0, 0, swpNoSize|swpNoZOrder)
	return nil
}

func (w *webview2Window) SetSize(width, height int) error {
	proc := w.user32().NewProc("SetWindowPos")
	const swpNoMove = 0x0002
	const swpNoZOrder = 0x0004
	proc.Call(w.hwnd, 0, 0, 0, uintptr(width), uintptr(height), swpNoMove|swpNoZOrder)
	return nil
}

func (w *webview2Window) SetMinSize(width, height int) error  { return nil } // no-op on this backend
func (w *webview2Window) SetMaxSize(width, height int) error  { return nil }

func (w *webview2Window) Center() error {
	return nil // no-op on this backend; CreateWindow places windows at 0,0
}

func (w *webview2Window) Show() error {
	proc := w.user32().NewProc("ShowWindow")
	const swShow = 5
	proc.Call(w.hwnd, swShow)
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
	return nil
}

func (w *webview2Window) Hide() error {
	proc := w.user32().NewProc("ShowWindow")
	const swHide = 0
	proc.Call(w.hwnd, swHide)
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
	return nil
}

func (w *webview2Window) Focus() error {
	proc := w.user32().NewProc("SetForegroundWindow")
	proc.Call(w.hwnd)
	return nil
}

func (w *webview2Window) SetFullscreen(v bool) error { return nil } // no-op on this backend
func (w *webview2Window) SetAlwaysOnTop(v bool) error {
	proc := w.user32().NewProc("SetWindowPos")
	const hwndTopmost = ^uintptr(0)   // -1
	const hwndNoTopmost = ^uintptr(1) // -2
	const swpNoMove = 0x0002
	const swpNoSize = 0x0001
	insertAfter := hwndNoTopmost
	if v {
		insertAfter = hwndTopmost
	}
	proc.Call(w.hwnd, insertAfter, 0, 0, 0, 0, swpNoMove|swpNoSize)
	return nil
}
func (w *webview2Window) SetResizable(v bool) error { return nil } // no-op on this backend
func (w *webview2Window) SetOpacity(v float64) error {
	proc := w.user32().NewProc("SetLayeredWindowAttributes")
	proc.Call(w.hwnd, 0, uintptr(byte(v*255)), 0x02) // LWA_ALPHA
	return nil
}

func (w *webview2Window) Close() error {
	proc := w.user32().NewProc("DestroyWindow")
	proc.Call(w.hwnd)
	return nil
}

func (w *webview2Window) EvaluateJS(windowLabel, script string) error {
	if w.controller == nil {
		return errors.E(errors.IO, "no WebView2 controller bound to window")
	}
	return w.controller.executeScript(script)
}

// webview2Controller wraps the ICoreWebView2 COM interface pointer obtained
// from the environment/controller creation handshake. ExecuteScript is a
// single vtable call (IUnknown + 8 reserved slots + ExecuteScript, per the
// WebView2 ABI) taking a BSTR script and an async completion callback.
type webview2Controller struct {
	webviewPtr uintptr
}

func (c *webview2Controller) executeScript(script string) error {
	const executeScriptVtableIndex = 9 // ICoreWebView2::ExecuteScript slot
	vtable := *(*uintptr)(unsafe.Pointer(c.webviewPtr))
	proc := *(*uintptr)(unsafe.Pointer(vtable + executeScriptVtableIndex*unsafe.Sizeof(uintptr(0))))
	scriptPtr := uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(script)))
	ret, _, _ := syscall.SyscallN(proc, c.webviewPtr, scriptPtr, 0)
	if ret != 0 {
		return errors.E(errors.IO, "ExecuteScript failed")
	}
	return nil
}

// bootstrapWebView2 is meant to perform the environment + controller
// creation handshake for hwnd and navigate to startURL, then register
// add_WebMessageReceived against onMessage so inbound window.chrome.webview
// .postMessage(...) calls reach the bridge. CreateCoreWebView2Environment
// WithOptions and CreateCoreWebView2Controller are both asynchronous COM
// calls whose completion handlers are themselves COM objects (an
// ICoreWebView2CreateCoreWebView2EnvironmentCompletedHandler vtable with a
// single Invoke slot, same shape for the controller handler); correctly
// constructing and reference-counting those vtables by hand, without a COM
// binding library (no go-ole/lxn-win equivalent is wired into this module),
// is not implemented. Returning an error here rather than a controller that
// treats the HWND as if it were the resulting ICoreWebView2 pointer avoids
// a silent crash the first time executeScript is called.
func bootstrapWebView2(loader *syscall.LazyDLL, hwnd uintptr, startURL string, onMessage func(raw string)) (*webview2Controller, error) {
	createEnv := loader.NewProc("CreateCoreWebView2EnvironmentWithOptions")
	if err := createEnv.Find(); err != nil {
		return nil, errors.Wrap(errors.NativeLibraryNotFound, "WebView2Loader.dll", err)
	}
	return nil, errors.E(errors.Unsupported, "WebView2 environment/controller COM handshake is not implemented on this backend")
}
