//go:build darwin

package tray

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa

#include <stdlib.h>

// Mirrors host_darwin.go: krema_tray_* is implemented by the Objective-C
// shim tray_darwin.m, wrapping NSStatusBar/NSStatusItem/NSMenu and a proxy
// target class that routes NSMenuItem actions back into
// krema_tray_dispatch by item-ID string.
extern int krema_tray_create(const char *iconPath, const char *tooltip);
extern void krema_tray_set_tooltip(const char *tooltip);
extern void krema_tray_clear_menu(void);
extern void krema_tray_add_item(const char *itemID, const char *label, int disabled, int checked, int indentLevel);
extern void krema_tray_add_separator(void);
extern void krema_tray_show_message(const char *title, const char *body);
extern void krema_tray_remove(void);
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

type cocoaTray struct {
	mu      sync.Mutex
	created bool
	onClick ClickHandler
}

var instance = &cocoaTray{}

// New returns the process-singleton platform tray backend.
func New() Tray { return instance }

func (t *cocoaTray) Create(iconPath, tooltip string, menu []MenuItem, onClick ClickHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.created {
		return errAlreadyCreated()
	}

	cIcon := C.CString(iconPath)
	cTooltip := C.CString(tooltip)
	defer C.free(unsafe.Pointer(cIcon))
	defer C.free(unsafe.Pointer(cTooltip))

	if C.krema_tray_create(cIcon, cTooltip) == 0 {
		return errors.E(errors.HandlerFault, "failed to create tray icon")
	}
	t.created = true
	t.onClick = onClick
	applyMenu(menu, 0)
	return nil
}

func applyMenu(menu []MenuItem, depth int) {
	C.krema_tray_clear_menu()
	for _, item := range menu {
		if item.ID == "" && item.Label == "" {
			C.krema_tray_add_separator()
			continue
		}
		cID := C.CString(item.ID)
		cLabel := C.CString(item.Label)
		C.krema_tray_add_item(cID, cLabel, boolToC(item.Disabled), boolToC(item.Checked), C.int(depth))
		C.free(unsafe.Pointer(cID))
		C.free(unsafe.Pointer(cLabel))
	}
}

func boolToC(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

func (t *cocoaTray) SetTooltip(tooltip string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	cTooltip := C.CString(tooltip)
	defer C.free(unsafe.Pointer(cTooltip))
	C.krema_tray_set_tooltip(cTooltip)
	return nil
}

func (t *cocoaTray) SetMenu(menu []MenuItem) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	applyMenu(menu, 0)
	return nil
}

func (t *cocoaTray) ShowMessage(title, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	cTitle := C.CString(title)
	cBody := C.CString(body)
	defer C.free(unsafe.Pointer(cTitle))
	defer C.free(unsafe.Pointer(cBody))
	C.krema_tray_show_message(cTitle, cBody)
	return nil
}

func (t *cocoaTray) Remove() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return nil
	}
	C.krema_tray_remove()
	t.created = false
	t.onClick = nil
	return nil
}

//export krema_tray_dispatch
func krema_tray_dispatch(itemID *C.char) {
	instance.mu.Lock()
	handler := instance.onClick
	instance.mu.Unlock()
	if handler != nil {
		handler(C.GoString(itemID))
	}
}
