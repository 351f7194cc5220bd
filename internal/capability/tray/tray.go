// Package tray implements the system tray capability (spec §4.8): a
// singleton-per-process status icon with tooltip and menu, plus
// transient notification-style messages on macOS (the Windows and Linux
// backends return kind=Unsupported for messages). Backends: NSStatusBar +
// NSMenu (macOS), Shell_NotifyIcon + TrackPopupMenu (Windows),
// AppIndicator + GtkMenu (Linux, linked through pkg-config at build time;
// there is no startup probe, so a missing library fails the build).
package tray

import "github.com/krema-build/krema/internal/errors"

// MenuItem is one entry in the tray's popup menu. Separator items carry
// an empty Label and ID.
type MenuItem struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Disabled bool       `json:"disabled"`
	Checked  bool       `json:"checked"`
	Children []MenuItem `json:"children,omitempty"`
}

// ClickHandler is invoked with the item's ID when the user activates a
// menu item. Clicking the tray icon itself opens the menu and does not
// invoke it.
type ClickHandler func(id string)

// Tray is the per-platform backend. Only one Tray may be active per
// process; a second Create call returns kind=HandlerFault.
type Tray interface {
	Create(iconPath, tooltip string, menu []MenuItem, onClick ClickHandler) error
	SetTooltip(tooltip string) error
	SetMenu(menu []MenuItem) error
	ShowMessage(title, body string) error
	Remove() error
}

// errAlreadyCreated is returned by Create when a tray icon already exists
// for this process.
func errAlreadyCreated() error {
	return errors.E(errors.HandlerFault, "tray icon already created for this process")
}
