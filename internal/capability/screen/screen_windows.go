//go:build windows

package screen

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procMonitorFromPoint    = user32.NewProc("MonitorFromPoint")
)

const monitorDefaultToNearest = 2

type rectW struct {
	Left, Top, Right, Bottom int32
}

type pointW struct {
	X, Y int32
}

// monitorInfoExW mirrors Win32's MONITORINFOEXW.
type monitorInfoExW struct {
	cbSize    uint32
	rcMonitor rectW
	rcWork    rectW
	dwFlags   uint32
	szDevice  [32]uint16
}

const monitorInfoFPrimary = 0x1

type win32Screen struct{}

// New returns the platform screen backend.
func New() Screen {
	return &win32Screen{}
}

func (s *win32Screen) Displays() ([]Display, error) {
	var handles []uintptr
	cb := syscall.NewCallback(func(hMonitor uintptr, hdc uintptr, rect uintptr, lParam uintptr) uintptr {
		handles = append(handles, hMonitor)
		return 1
	})
	ret, _, _ := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if ret == 0 {
		return nil, errors.E(errors.HandlerFault, "EnumDisplayMonitors failed")
	}

	displays := make([]Display, 0, len(handles))
	for _, h := range handles {
		displays = append(displays, monitorInfoToDisplay(h))
	}
	return displays, nil
}

func monitorInfoToDisplay(handle uintptr) Display {
	var info monitorInfoExW
	info.cbSize = uint32(unsafe.Sizeof(info))
	procGetMonitorInfoW.Call(handle, uintptr(unsafe.Pointer(&info)))

	name := syscall.UTF16ToString(info.szDevice[:])
	return Display{
		Name: name,
		Frame: Rect{
			X:      float64(info.rcMonitor.Left),
			Y:      float64(info.rcMonitor.Top),
			Width:  float64(info.rcMonitor.Right - info.rcMonitor.Left),
			Height: float64(info.rcMonitor.Bottom - info.rcMonitor.Top),
		},
		VisibleFrame: Rect{
			X:      float64(info.rcWork.Left),
			Y:      float64(info.rcWork.Top),
			Width:  float64(info.rcWork.Right - info.rcWork.Left),
			Height: float64(info.rcWork.Bottom - info.rcWork.Top),
		},
		// DPI/scale-factor and refresh rate require a Shcore.dll
		// GetDpiForMonitor / EnumDisplaySettingsW follow-up call this
		// package does not yet make; default to unscaled, unknown-rate.
		ScaleFactor: 1.0,
		RefreshRate: 0,
		Primary:     info.dwFlags&monitorInfoFPrimary != 0,
	}
}

func (s *win32Screen) CursorPosition() (Point, error) {
	var pt pointW
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return Point{}, errors.E(errors.HandlerFault, "GetCursorPos failed")
	}
	return Point{X: float64(pt.X), Y: float64(pt.Y)}, nil
}

func (s *win32Screen) DisplayUnderCursor() (Display, error) {
	cursor, err := s.CursorPosition()
	if err != nil {
		return Display{}, err
	}
	pt := pointW{X: int32(cursor.X), Y: int32(cursor.Y)}
	// MonitorFromPoint takes its POINT argument by value; on the Win64 ABI
	// an 8-byte-or-smaller struct is passed packed into a single register,
	// so the two int32 fields are packed into one uintptr here rather than
	// passed as separate arguments.
	packed := *(*uintptr)(unsafe.Pointer(&pt))
	handle, _, _ := procMonitorFromPoint.Call(packed, monitorDefaultToNearest)
	if handle == 0 {
		return Display{}, errors.E(errors.HandlerFault, fmt.Sprintf("no monitor at (%d,%d)", pt.X, pt.Y))
	}
	return monitorInfoToDisplay(handle), nil
}
