//go:build windows

package tray

import (
	"sync"
	"syscall"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

var (
	user32  = syscall.NewLazyDLL("user32.dll")
	shell32 = syscall.NewLazyDLL("shell32.dll")

	procRegisterClassExW   = user32.NewProc("RegisterClassExW")
	procCreateWindowExW    = user32.NewProc("CreateWindowExW")
	procDefWindowProcW     = user32.NewProc("DefWindowProcW")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procTranslateMessage   = user32.NewProc("TranslateMessage")
	procDispatchMessageW   = user32.NewProc("DispatchMessageW")
	procCreatePopupMenu    = user32.NewProc("CreatePopupMenu")
	procAppendMenuW        = user32.NewProc("AppendMenuW")
	procTrackPopupMenu     = user32.NewProc("TrackPopupMenu")
	procGetCursorPos       = user32.NewProc("GetCursorPos")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procPostMessageW       = user32.NewProc("PostMessageW")
	procDestroyMenu        = user32.NewProc("DestroyMenu")

	procShellNotifyIconW = shell32.NewProc("Shell_NotifyIconW")
)

const (
	wmTrayIcon    = 0x8000 + 1 // app-defined message delivered via the icon's uCallbackMessage
	wmCommand     = 0x0111
	wmRButtonUp   = 0x0205
	wmLButtonUp   = 0x0202
	nimAdd        = 0x00000000
	nimModify     = 0x00000001
	nimDelete     = 0x00000002
	nifMessage    = 0x00000001
	nifIcon       = 0x00000002
	nifTip        = 0x00000004
	tpmRightAlign = 0x0008
	mfString      = 0x00000000
	mfSeparator   = 0x00000800
	mfDisabled    = 0x00000002
	mfChecked     = 0x00000008
)

type pointW struct{ X, Y int32 }

// notifyIconDataW mirrors Win32's NOTIFYICONDATAW (ANSI padding trimmed
// to the fields this package actually sets).
type notifyIconDataW struct {
	cbSize           uint32
	hWnd             uintptr
	uID              uint32
	uFlags           uint32
	uCallbackMessage uint32
	hIcon            uintptr
	szTip            [128]uint16
}

type win32Tray struct {
	mu       sync.Mutex
	hwnd     uintptr
	menu     []MenuItem
	ids      map[uint32]string
	nextID   uint32
	onClick  ClickHandler
	created  bool
}

var instance = &win32Tray{ids: map[uint32]string{}}

// New returns the process-singleton platform tray backend.
func New() Tray { return instance }

func (t *win32Tray) Create(iconPath, tooltip string, menu []MenuItem, onClick ClickHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.created {
		return errAlreadyCreated()
	}

	hwnd, err := createMessageOnlyWindow()
	if err != nil {
		return err
	}
	t.hwnd = hwnd
	t.onClick = onClick
	t.menu = menu

	var data notifyIconDataW
	data.cbSize = uint32(unsafe.Sizeof(data))
	data.hWnd = hwnd
	data.uID = 1
	data.uFlags = nifMessage | nifTip
	data.uCallbackMessage = wmTrayIcon
	copy(data.szTip[:], syscall.StringToUTF16(tooltip))

	ret, _, _ := procShellNotifyIconW.Call(nimAdd, uintptr(unsafe.Pointer(&data)))
	if ret == 0 {
		return errors.E(errors.HandlerFault, "Shell_NotifyIcon add failed")
	}
	t.created = true
	return nil
}

func (t *win32Tray) SetTooltip(tooltip string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	var data notifyIconDataW
	data.cbSize = uint32(unsafe.Sizeof(data))
	data.hWnd = t.hwnd
	data.uID = 1
	data.uFlags = nifTip
	copy(data.szTip[:], syscall.StringToUTF16(tooltip))
	procShellNotifyIconW.Call(nimModify, uintptr(unsafe.Pointer(&data)))
	return nil
}

func (t *win32Tray) SetMenu(menu []MenuItem) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	t.menu = menu
	return nil
}

func (t *win32Tray) ShowMessage(title, body string) error {
	// A full balloon/Action-Center toast needs NIF_INFO + szInfo/szInfoTitle
	// fields this minimal NOTIFYICONDATAW layout doesn't carry; the
	// notification capability is the supported surface for this on
	// Windows.
	return errors.E(errors.Unsupported, "tray balloon messages are not supported; use the notification capability instead")
}

func (t *win32Tray) Remove() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return nil
	}
	var data notifyIconDataW
	data.cbSize = uint32(unsafe.Sizeof(data))
	data.hWnd = t.hwnd
	data.uID = 1
	procShellNotifyIconW.Call(nimDelete, uintptr(unsafe.Pointer(&data)))
	t.created = false
	t.onClick = nil
	return nil
}

func (t *win32Tray) showContextMenu() {
	t.mu.Lock()
	menu := t.menu
	t.mu.Unlock()

	hMenu, _, _ := procCreatePopupMenu.Call()
	if hMenu == 0 {
		return
	}
	defer procDestroyMenu.Call(hMenu)

	t.mu.Lock()
	t.ids = map[uint32]string{}
	for _, item := range menu {
		if item.ID == "" && item.Label == "" {
			procAppendMenuW.Call(hMenu, mfSeparator, 0, 0)
			continue
		}
		t.nextID++
		id := t.nextID
		t.ids[id] = item.ID

		flags := uintptr(mfString)
		if item.Disabled {
			flags |= mfDisabled
		}
		if item.Checked {
			flags |= mfChecked
		}
		labelPtr, _ := syscall.UTF16PtrFromString(item.Label)
		procAppendMenuW.Call(hMenu, flags, uintptr(id), uintptr(unsafe.Pointer(labelPtr)))
	}
	t.mu.Unlock()

	var pt pointW
	procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	procSetForegroundWindow.Call(t.hwnd)
	procTrackPopupMenu.Call(hMenu, tpmRightAlign, uintptr(pt.X), uintptr(pt.Y), 0, t.hwnd, 0)
}

func (t *win32Tray) dispatchCommand(id uint32) {
	t.mu.Lock()
	itemID, ok := t.ids[id]
	handler := t.onClick
	t.mu.Unlock()
	if ok && handler != nil {
		handler(itemID)
	}
}

// createMessageOnlyWindow registers a minimal window class and creates a
// message-only window whose WndProc demultiplexes WM_TRAYICON and
// WM_COMMAND back into the Tray singleton — mirroring the pattern
// Shell_NotifyIcon + TrackPopupMenu requires (the hidden window receives
// WM_TRAYICON and routes right-click to the popup, per spec §4.8).
func createMessageOnlyWindow() (uintptr, error) {
	className, _ := syscall.UTF16PtrFromString("KremaTrayWindow")
	wndProc := syscall.NewCallback(trayWndProc)

	type wndClassExW struct {
		cbSize        uint32
		style         uint32
		lpfnWndProc   uintptr
		cbClsExtra    int32
		cbWndExtra    int32
		hInstance     uintptr
		hIcon         uintptr
		hCursor       uintptr
		hbrBackground uintptr
		lpszMenuName  *uint16
		lpszClassName *uint16
		hIconSm       uintptr
	}
	var wc wndClassExW
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	wc.lpfnWndProc = wndProc
	wc.lpszClassName = className

	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	const hwndMessage = ^uintptr(2) // HWND_MESSAGE, (HWND)-3
	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(className)),
		0, 0, 0, 0, 0,
		hwndMessage, 0, 0, 0,
	)
	if hwnd == 0 {
		return 0, errors.E(errors.HandlerFault, "failed to create tray message window")
	}
	return hwnd, nil
}

func trayWndProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	switch msg {
	case wmTrayIcon:
		if lParam == wmRButtonUp || lParam == wmLButtonUp {
			instance.showContextMenu()
		}
		return 0
	case wmCommand:
		instance.dispatchCommand(uint32(wParam & 0xFFFF))
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wParam, lParam)
	return ret
}
