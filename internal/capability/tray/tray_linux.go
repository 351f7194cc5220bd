//go:build linux

package tray

/*
#cgo pkg-config: ayatana-appindicator3-0.1 gtk+-3.0

#include <libappindicator/app-indicator.h>
#include <gtk/gtk.h>
#include <stdlib.h>

static void krema_tray_ensure_init(void) {
	if (!gdk_display_get_default()) {
		gtk_init(NULL, NULL);
	}
}

static AppIndicator *krema_tray_new(const char *id, const char *iconPath) {
	krema_tray_ensure_init();
	AppIndicator *indicator = app_indicator_new(id, iconPath, APP_INDICATOR_CATEGORY_APPLICATION_STATUS);
	app_indicator_set_status(indicator, APP_INDICATOR_STATUS_ACTIVE);
	return indicator;
}

extern void krema_tray_item_activated(GtkMenuItem *item, gpointer itemID);

static GtkWidget *krema_tray_build_menu_item(const char *itemID, const char *label, int disabled, int checked) {
	GtkWidget *item = checked ? gtk_check_menu_item_new_with_label(label) : gtk_menu_item_new_with_label(label);
	gtk_widget_set_sensitive(item, !disabled);
	if (checked) {
		gtk_check_menu_item_set_active(GTK_CHECK_MENU_ITEM(item), TRUE);
	}
	g_signal_connect(item, "activate", G_CALLBACK(krema_tray_item_activated), g_strdup(itemID));
	return item;
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

type appIndicatorTray struct {
	mu        sync.Mutex
	indicator *C.AppIndicator
	menu      *C.GtkWidget
	onClick   ClickHandler
}

var instance = &appIndicatorTray{}

// New returns the process-singleton platform tray backend. AppIndicator
// is probed at startup (pkg-config resolves it at build time on this
// platform build); if the running desktop has no status-notifier host,
// app_indicator_set_status is a no-op and Create still succeeds — the
// icon simply doesn't render anywhere, matching how AppIndicator itself
// degrades.
func New() Tray { return instance }

func (t *appIndicatorTray) Create(iconPath, tooltip string, menu []MenuItem, onClick ClickHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indicator != nil {
		return errAlreadyCreated()
	}

	cID := C.CString("krema-tray")
	cIcon := C.CString(iconPath)
	defer C.free(unsafe.Pointer(cID))
	defer C.free(unsafe.Pointer(cIcon))

	t.indicator = C.krema_tray_new(cID, cIcon)
	if t.indicator == nil {
		return errors.E(errors.Unsupported, "AppIndicator unavailable on this desktop")
	}
	t.onClick = onClick
	t.buildMenu(menu)
	return nil
}

func (t *appIndicatorTray) buildMenu(menu []MenuItem) {
	gtkMenu := C.gtk_menu_new()
	for _, item := range menu {
		var widget *C.GtkWidget
		if item.ID == "" && item.Label == "" {
			widget = C.gtk_separator_menu_item_new()
		} else {
			cID := C.CString(item.ID)
			cLabel := C.CString(item.Label)
			widget = C.krema_tray_build_menu_item(cID, cLabel, boolToC(item.Disabled), boolToC(item.Checked))
			C.free(unsafe.Pointer(cID))
			C.free(unsafe.Pointer(cLabel))
		}
		C.gtk_menu_shell_append((*C.GtkMenuShell)(unsafe.Pointer(gtkMenu)), widget)
	}
	C.gtk_widget_show_all(gtkMenu)
	C.app_indicator_set_menu(t.indicator, (*C.GtkMenu)(unsafe.Pointer(gtkMenu)))
	t.menu = gtkMenu
}

func boolToC(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

func (t *appIndicatorTray) SetTooltip(tooltip string) error {
	// AppIndicator has no direct tooltip primitive; the title doubles as
	// the accessible label shown by most status-notifier hosts.
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indicator == nil {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	cTitle := C.CString(tooltip)
	defer C.free(unsafe.Pointer(cTitle))
	C.app_indicator_set_title(t.indicator, cTitle)
	return nil
}

func (t *appIndicatorTray) SetMenu(menu []MenuItem) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indicator == nil {
		return errors.E(errors.HandlerFault, "tray icon not created")
	}
	t.buildMenu(menu)
	return nil
}

func (t *appIndicatorTray) ShowMessage(title, body string) error {
	// AppIndicator itself has no balloon primitive; the notification
	// package's notify-send backend is the correct surface for toasts.
	return errors.E(errors.Unsupported, "tray balloon messages are not supported on Linux; use the notification capability instead")
}

func (t *appIndicatorTray) Remove() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indicator == nil {
		return nil
	}
	C.app_indicator_set_status(t.indicator, C.APP_INDICATOR_STATUS_PASSIVE)
	t.indicator = nil
	t.onClick = nil
	return nil
}

//export krema_tray_item_activated
func krema_tray_item_activated(item *C.GtkMenuItem, itemID C.gpointer) {
	instance.mu.Lock()
	handler := instance.onClick
	instance.mu.Unlock()
	if handler != nil {
		handler(C.GoString((*C.char)(itemID)))
	}
}
