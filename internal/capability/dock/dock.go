// Package dock implements the macOS-only dock icon/badge/menu
// capability mentioned alongside tray in spec §4.8's native capability
// suite. On Windows and Linux there is no dock concept, so the backend
// there returns kind=Unsupported for every operation rather than being
// compiled out — handler code can call it unconditionally and branch on
// the error kind instead of build-tag-gating its own logic.
package dock

import "github.com/krema-build/krema/internal/errors"

// Dock is the per-platform backend.
type Dock interface {
	SetBadge(text string) error
	SetIcon(imagePath string) error
	SetMenu(menu []MenuItem) error
	Bounce(critical bool) error
}

// MenuItem mirrors tray.MenuItem's shape for the dock's right-click
// menu; duplicated rather than imported to keep the two capabilities
// independently buildable.
type MenuItem struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Disabled bool       `json:"disabled"`
	Checked  bool       `json:"checked"`
	Children []MenuItem `json:"children,omitempty"`
}

func errUnsupported(op string) error {
	return errors.E(errors.Unsupported, "dock:"+op+" is only available on macOS")
}
