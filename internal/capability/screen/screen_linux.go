//go:build linux

package screen

/*
#cgo pkg-config: gtk+-3.0

#include <gtk/gtk.h>
#include <gdk/gdk.h>

static void krema_gdk_ensure_init(void) {
	if (!gdk_display_get_default()) {
		gtk_init(NULL, NULL);
	}
}

static int krema_gdk_monitor_count(void) {
	krema_gdk_ensure_init();
	GdkDisplay *display = gdk_display_get_default();
	return display ? gdk_display_get_n_monitors(display) : 0;
}

static GdkMonitor *krema_gdk_monitor_at(int index) {
	GdkDisplay *display = gdk_display_get_default();
	return gdk_display_get_monitor(display, index);
}

static void krema_gdk_cursor_position(double *x, double *y) {
	krema_gdk_ensure_init();
	GdkDisplay *display = gdk_display_get_default();
	GdkSeat *seat = gdk_display_get_default_seat(display);
	GdkDevice *pointer = gdk_seat_get_pointer(seat);
	int ix, iy;
	gdk_device_get_position(pointer, NULL, &ix, &iy);
	*x = (double)ix;
	*y = (double)iy;
}

static int krema_gdk_monitor_index_at_point(double x, double y) {
	GdkDisplay *display = gdk_display_get_default();
	GdkMonitor *m = gdk_display_get_monitor_at_point(display, (int)x, (int)y);
	int n = gdk_display_get_n_monitors(display);
	for (int i = 0; i < n; i++) {
		if (gdk_display_get_monitor(display, i) == m) {
			return i;
		}
	}
	return 0;
}
*/
import "C"

type gtkScreen struct{}

// New returns the platform screen backend.
func New() Screen {
	return &gtkScreen{}
}

func monitorAt(index int) Display {
	m := C.krema_gdk_monitor_at(C.int(index))

	var geom, workarea C.GdkRectangle
	C.gdk_monitor_get_geometry(m, &geom)
	C.gdk_monitor_get_workarea(m, &workarea)

	model := C.gdk_monitor_get_model(m)
	name := ""
	if model != nil {
		name = C.GoString(model)
	}

	refreshMilliHz := int(C.gdk_monitor_get_refresh_rate(m))

	return Display{
		Name: name,
		Frame: Rect{
			X: float64(geom.x), Y: float64(geom.y),
			Width: float64(geom.width), Height: float64(geom.height),
		},
		VisibleFrame: Rect{
			X: float64(workarea.x), Y: float64(workarea.y),
			Width: float64(workarea.width), Height: float64(workarea.height),
		},
		ScaleFactor: float64(C.gdk_monitor_get_scale_factor(m)),
		RefreshRate: float64(refreshMilliHz) / 1000.0,
		Primary:     C.gdk_monitor_is_primary(m) != 0,
	}
}

func (s *gtkScreen) Displays() ([]Display, error) {
	count := int(C.krema_gdk_monitor_count())
	displays := make([]Display, 0, count)
	for i := 0; i < count; i++ {
		displays = append(displays, monitorAt(i))
	}
	return displays, nil
}

func (s *gtkScreen) CursorPosition() (Point, error) {
	var x, y C.double
	C.krema_gdk_cursor_position(&x, &y)
	return Point{X: float64(x), Y: float64(y)}, nil
}

func (s *gtkScreen) DisplayUnderCursor() (Display, error) {
	x, y := C.double(0), C.double(0)
	C.krema_gdk_cursor_position(&x, &y)
	index := int(C.krema_gdk_monitor_index_at_point(x, y))
	return monitorAt(index), nil
}
