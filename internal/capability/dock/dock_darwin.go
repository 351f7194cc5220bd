//go:build darwin

package dock

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa

#include <stdlib.h>

// Mirrors host_darwin.go and tray_darwin.go: krema_dock_* wraps
// NSApplication's dockTile (NSDockTile, badgeLabel), applicationIconImage
// and requestUserAttention in the Objective-C shim dock_darwin.m.
extern void krema_dock_set_badge(const char *text);
extern int krema_dock_set_icon(const char *imagePath);
extern void krema_dock_bounce(int critical);
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

type cocoaDock struct {
	mu   sync.Mutex
	menu []MenuItem
}

var instance = &cocoaDock{}

// New returns the platform dock backend.
func New() Dock { return instance }

func (d *cocoaDock) SetBadge(text string) error {
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))
	C.krema_dock_set_badge(cText)
	return nil
}

func (d *cocoaDock) SetIcon(imagePath string) error {
	cPath := C.CString(imagePath)
	defer C.free(unsafe.Pointer(cPath))
	if C.krema_dock_set_icon(cPath) == 0 {
		return errors.E(errors.HandlerFault, "failed to load dock icon image: "+imagePath)
	}
	return nil
}

func (d *cocoaDock) SetMenu(menu []MenuItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.menu = menu
	// The menu is only recorded here: no native call hands it to the
	// dock tile, so it does not appear in the dock's right-click menu.
	return nil
}

func (d *cocoaDock) Bounce(critical bool) error {
	mode := C.int(0)
	if critical {
		mode = 1
	}
	C.krema_dock_bounce(mode)
	return nil
}
