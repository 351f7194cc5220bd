//go:build linux

package host

/*
#cgo pkg-config: gtk+-3.0 webkit2gtk-4.0
#include <stdlib.h>
#include <gtk/gtk.h>
#include <webkit2/webkit2.h>

// krema_gtk_dispatch_message is implemented on the Go side (//export below)
// and forwards the raw postMessage body to bridge.HandleInvoke for the
// window identified by the webview pointer.
extern void krema_gtk_dispatch_message(void *webview, char *message);

static void krema_on_script_message(WebKitUserContentManager *manager, WebKitJavascriptResult *result, gpointer user_data) {
	JSCValue *value = webkit_javascript_result_get_js_value(result);
	char *str = jsc_value_to_string(value);
	krema_gtk_dispatch_message(user_data, str);
	g_free(str);
}

static GtkWidget *krema_gtk_window_new(const char *title, int width, int height, int resizable, int decorations) {
	GtkWidget *win = gtk_window_new(GTK_WINDOW_TOPLEVEL);
	gtk_window_set_title(GTK_WINDOW(win), title);
	gtk_window_set_default_size(GTK_WINDOW(win), width, height);
	gtk_window_set_resizable(GTK_WINDOW(win), resizable);
	gtk_window_set_decorated(GTK_WINDOW(win), decorations);
	g_signal_connect(win, "destroy", G_CALLBACK(gtk_main_quit), NULL);
	return win;
}

// krema_gtk_webview_new registers a "krema" script-message handler on the
// webview's user content manager before navigation, so the injected shim's
// window.webkit.messageHandlers.krema.postMessage(...) calls (bridge/shim.go)
// reach krema_on_script_message and, from there, Go.
static GtkWidget *krema_gtk_webview_new(GtkWidget *win, const char *startURL) {
	WebKitUserContentManager *ucm = webkit_user_content_manager_new();
	webkit_user_content_manager_register_script_message_handler(ucm, "krema");

	GtkWidget *webview = webkit_web_view_new_with_user_content_manager(ucm);
	gtk_container_add(GTK_CONTAINER(win), webview);
	g_signal_connect(ucm, "script-message-received::krema", G_CALLBACK(krema_on_script_message), (gpointer)webview);

	webkit_web_view_load_uri(WEBKIT_WEB_VIEW(webview), startURL);
	gtk_widget_show_all(win);
	return webview;
}

static void krema_gtk_eval_js(GtkWidget *webview, const char *script) {
	webkit_web_view_run_javascript(WEBKIT_WEB_VIEW(webview), script, NULL, NULL, NULL);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/krema-build/krema/internal/bridge"
	"github.com/krema-build/krema/internal/window"
)

// messageHandlers maps a webview's native pointer to the onMessage callback
// Host.New wired for its window, so krema_gtk_dispatch_message (called from
// C on the GTK main thread) can find the right bridge.HandleInvoke closure.
var (
	messageHandlersMu sync.Mutex
	messageHandlers   = map[unsafe.Pointer]func(string){}
)

//export krema_gtk_dispatch_message
func krema_gtk_dispatch_message(webview unsafe.Pointer, message *C.char) {
	messageHandlersMu.Lock()
	cb, ok := messageHandlers[webview]
	messageHandlersMu.Unlock()
	if ok {
		cb(C.GoString(message))
	}
}

// gtkBackend drives WebKitGTK inside a GTK main loop, the Linux analogue of
// the teacher-pack's bnema-dumber webkit2gtk cgo shim (other_examples'
// pkg/webkit/webview_cgo.go): gtk_main/gtk_main_quit for the event loop,
// webkit_web_view_run_javascript for evaluation.
type gtkBackend struct {
	initialized bool
}

// NewBackend returns the platform webview backend for the current GOOS.
func NewBackend() Backend {
	if !gtkInitialized {
		C.gtk_init(nil, nil)
		gtkInitialized = true
	}
	return &gtkBackend{initialized: true}
}

var gtkInitialized bool

func (b *gtkBackend) Run() error {
	C.gtk_main()
	return nil
}

func (b *gtkBackend) Quit() {
	C.gtk_main_quit()
}

func (b *gtkBackend) CreateWindow(label string, opts window.Options, startURL string, onMessage func(raw string)) (window.Handle, bridge.Evaluator, error) {
	cTitle := C.CString(opts.Title)
	cURL := C.CString(startURL)
	defer C.free(unsafe.Pointer(cTitle))
	defer C.free(unsafe.Pointer(cURL))

	win := C.krema_gtk_window_new(cTitle, C.int(opts.Width), C.int(opts.Height), boolToC(opts.Resizable), boolToC(opts.Decorations))
	webview := C.krema_gtk_webview_new(win, cURL)

	messageHandlersMu.Lock()
	messageHandlers[unsafe.Pointer(webview)] = onMessage
	messageHandlersMu.Unlock()

	gw := &gtkWindow{win: win, webview: webview}
	return gw, gw, nil
}

func boolToC(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

// gtkWindow implements window.Handle and bridge.Evaluator over one
// GtkWindow+WebKitWebView pair.
type gtkWindow struct {
	win     *C.GtkWidget
	webview *C.GtkWidget
}

func (w *gtkWindow) SetTitle(title string) error {
	c := C.CString(title)
	defer C.free(unsafe.Pointer(c))
	C.gtk_window_set_title((*C.GtkWindow)(unsafe.Pointer(w.win)), c)
	return nil
}

func (w *gtkWindow) SetPosition(x, y int) error {
	C.gtk_window_move((*C.GtkWindow)(unsafe.Pointer(w.win)), C.int(x), C.int(y))
	return nil
}

func (w *gtkWindow) SetSize(width, height int) error {
	C.gtk_window_resize((*C.GtkWindow)(unsafe.Pointer(w.win)), C.int(width), C.int(height))
	return nil
}

func (w *gtkWindow) SetMinSize(width, height int) error {
	var hints C.GdkGeometry
	hints.min_width = C.gint(width)
	hints.min_height = C.gint(height)
	C.gtk_window_set_geometry_hints((*C.GtkWindow)(unsafe.Pointer(w.win)), nil, &hints, C.GDK_HINT_MIN_SIZE)
	return nil
}

func (w *gtkWindow) SetMaxSize(width, height int) error {
	var hints C.GdkGeometry
	hints.max_width = C.gint(width)
	hints.max_height = C.gint(height)
	C.gtk_window_set_geometry_hints((*C.GtkWindow)(unsafe.Pointer(w.win)), nil, &hints, C.GDK_HINT_MAX_SIZE)
	return nil
}

func (w *gtkWindow) Center() error {
	C.gtk_window_set_position((*C.GtkWindow)(unsafe.Pointer(w.win)), C.GTK_WIN_POS_CENTER)
	return nil
}

func (w *gtkWindow) Show() error {
	C.gtk_widget_show_all(w.win)
	return nil
}

func (w *gtkWindow) Hide() error {
	C.gtk_widget_hide(w.win)
	return nil
}

func (w *gtkWindow) Focus() error {
	C.gtk_window_present((*C.GtkWindow)(unsafe.Pointer(w.win)))
	return nil
}

func (w *gtkWindow) SetFullscreen(v bool) error {
	if v {
		C.gtk_window_fullscreen((*C.GtkWindow)(unsafe.Pointer(w.win)))
	} else {
		C.gtk_window_unfullscreen((*C.GtkWindow)(unsafe.Pointer(w.win)))
	}
	return nil
}

func (w *gtkWindow) SetAlwaysOnTop(v bool) error {
	C.gtk_window_set_keep_above((*C.GtkWindow)(unsafe.Pointer(w.win)), boolToC(v) != 0)
	return nil
}

func (w *gtkWindow) SetResizable(v bool) error {
	C.gtk_window_set_resizable((*C.GtkWindow)(unsafe.Pointer(w.win)), boolToC(v) != 0)
	return nil
}

func (w *gtkWindow) SetOpacity(v float64) error {
	C.gtk_widget_set_opacity(w.win, C.double(v))
	return nil
}

func (w *gtkWindow) Close() error {
	messageHandlersMu.Lock()
	delete(messageHandlers, unsafe.Pointer(w.webview))
	messageHandlersMu.Unlock()
	C.gtk_widget_destroy(w.win)
	return nil
}

func (w *gtkWindow) EvaluateJS(windowLabel, script string) error {
	c := C.CString(script)
	defer C.free(unsafe.Pointer(c))
	C.krema_gtk_eval_js(w.webview, c)
	return nil
}
