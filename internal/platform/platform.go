// Package platform detects the host OS/arch and exposes the conventional
// paths and native-library naming rules the rest of Krema builds on. It is
// the foundation every other internal package sits on (§4.1), so the only
// other internal package it imports is internal/errors.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// OS identifies the host operating system family.
type OS string

const (
	MacOS   OS = "macos"
	Windows OS = "windows"
	Linux   OS = "linux"
	Unknown OS = "unknown"
)

// Arch identifies the host CPU architecture.
type Arch string

const (
	AArch64 Arch = "aarch64"
	X86_64  Arch = "x86_64"
	ArchUnknown Arch = "unknown"
)

// Current returns the detected OS of the running process.
func Current() OS {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// CurrentArch returns the detected CPU architecture of the running process.
func CurrentArch() Arch {
	switch runtime.GOARCH {
	case "arm64":
		return AArch64
	case "amd64":
		return X86_64
	default:
		return ArchUnknown
	}
}

// LibraryFileName formats a bare library name (e.g. "foo") into the
// OS-conventional shared-library filename.
func LibraryFileName(name string) string {
	switch Current() {
	case MacOS:
		return "lib" + name + ".dylib"
	case Windows:
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

// Paths holds the conventional application directories for the running OS,
// namespaced under the application identifier.
type Paths struct {
	Home      string
	AppData   string
	AppConfig string
	AppCache  string
	AppLog    string
	Temp      string
}

// ConventionalPaths computes Paths for the given application identifier
// (e.g. "com.example.myapp"), following each OS's convention.
func ConventionalPaths(identifier string) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}

	var p Paths
	p.Home = home
	p.Temp = os.TempDir()

	switch Current() {
	case MacOS:
		support := filepath.Join(home, "Library", "Application Support", identifier)
		p.AppData = support
		p.AppConfig = support
		p.AppCache = filepath.Join(home, "Library", "Caches", identifier)
		p.AppLog = filepath.Join(home, "Library", "Logs", identifier)
	case Windows:
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		p.AppData = filepath.Join(appData, identifier)
		p.AppConfig = filepath.Join(appData, identifier, "Config")
		p.AppCache = filepath.Join(localAppData, identifier, "Cache")
		p.AppLog = filepath.Join(localAppData, identifier, "Logs")
	default: // Linux and anything XDG-shaped
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData == "" {
			xdgData = filepath.Join(home, ".local", "share")
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		xdgCache := os.Getenv("XDG_CACHE_HOME")
		if xdgCache == "" {
			xdgCache = filepath.Join(home, ".cache")
		}
		p.AppData = filepath.Join(xdgData, identifier)
		p.AppConfig = filepath.Join(xdgConfig, identifier)
		p.AppCache = filepath.Join(xdgCache, identifier)
		p.AppLog = filepath.Join(xdgData, identifier, "logs")
	}
	return p, nil
}
