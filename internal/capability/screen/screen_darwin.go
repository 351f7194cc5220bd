//go:build darwin

package screen

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa

#include <stdlib.h>

// Mirrors host_darwin.go: the krema_cocoa_* symbols are implemented by the
// small Objective-C shim compiled alongside this package (screen_darwin.m)
// that bridges NSScreen/NSEvent into these C entry points.
typedef struct {
	double x, y, width, height;
	double visibleX, visibleY, visibleWidth, visibleHeight;
	double scaleFactor;
	double refreshRate;
	int primary;
	char name[256];
} krema_cocoa_display;

extern int krema_cocoa_display_count(void);
extern krema_cocoa_display krema_cocoa_display_at(int index);
extern void krema_cocoa_cursor_position(double *x, double *y);
extern int krema_cocoa_display_index_under_cursor(void);
*/
import "C"

type cocoaScreen struct{}

// New returns the platform screen backend.
func New() Screen {
	return &cocoaScreen{}
}

func fromC(d C.krema_cocoa_display) Display {
	return Display{
		Name:         C.GoString(&d.name[0]),
		Frame:        Rect{X: float64(d.x), Y: float64(d.y), Width: float64(d.width), Height: float64(d.height)},
		VisibleFrame: Rect{X: float64(d.visibleX), Y: float64(d.visibleY), Width: float64(d.visibleWidth), Height: float64(d.visibleHeight)},
		ScaleFactor:  float64(d.scaleFactor),
		RefreshRate:  float64(d.refreshRate),
		Primary:      d.primary != 0,
	}
}

func (s *cocoaScreen) Displays() ([]Display, error) {
	count := int(C.krema_cocoa_display_count())
	displays := make([]Display, 0, count)
	for i := 0; i < count; i++ {
		displays = append(displays, fromC(C.krema_cocoa_display_at(C.int(i))))
	}
	return displays, nil
}

func (s *cocoaScreen) CursorPosition() (Point, error) {
	var x, y C.double
	C.krema_cocoa_cursor_position(&x, &y)
	return Point{X: float64(x), Y: float64(y)}, nil
}

func (s *cocoaScreen) DisplayUnderCursor() (Display, error) {
	index := int(C.krema_cocoa_display_index_under_cursor())
	return fromC(C.krema_cocoa_display_at(C.int(index))), nil
}
