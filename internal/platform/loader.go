package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/krema-build/krema/internal/errors"
)

// LibrarySource describes where ResolveLibrary found a candidate, for
// diagnostics.
type LibrarySource string

const (
	SourceOverride LibrarySource = "override"
	SourceBundled  LibrarySource = "bundled"
	SourceSystem   LibrarySource = "system"
	SourceConventional LibrarySource = "conventional"
)

// Resolved is the outcome of a successful ResolveLibrary call.
type Resolved struct {
	Path   string
	Source LibrarySource
}

// BundleExtractor extracts an embedded native resource named fileName to
// dir, returning the path it wrote. Callers that have no embedded native
// resources (most of them, in this tree) pass a nil extractor.
type BundleExtractor func(dir, fileName string) (string, error)

// ResolveLibrary searches, in the order the spec documents, for a native
// library: explicit env override, bundled resource extracted to a per-run
// temp directory, system library path, then platform-conventional
// locations. Every candidate missing is kind=NativeLibraryNotFound.
func ResolveLibrary(name string, extractor BundleExtractor) (Resolved, error) {
	fileName := LibraryFileName(name)

	envKey := "KREMA_NATIVE_LIB_" + envSafe(name)
	if override := os.Getenv(envKey); override != "" {
		if fileExists(override) {
			return Resolved{Path: override, Source: SourceOverride}, nil
		}
	}

	if extractor != nil {
		runDir, err := os.MkdirTemp("", "krema-native-*")
		if err == nil {
			if path, err := extractor(runDir, fileName); err == nil && fileExists(path) {
				return Resolved{Path: path, Source: SourceBundled}, nil
			}
		}
	}

	for _, dir := range systemLibraryDirs() {
		candidate := filepath.Join(dir, fileName)
		if fileExists(candidate) {
			return Resolved{Path: candidate, Source: SourceSystem}, nil
		}
	}

	for _, dir := range conventionalLibraryDirs() {
		candidate := filepath.Join(dir, fileName)
		if fileExists(candidate) {
			return Resolved{Path: candidate, Source: SourceConventional}, nil
		}
	}

	return Resolved{}, errors.E(errors.NativeLibraryNotFound,
		fmt.Sprintf("no candidate found for %s (tried override, bundled, system, conventional)", fileName))
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func envSafe(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - 32
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func systemLibraryDirs() []string {
	switch Current() {
	case MacOS:
		return []string{"/usr/local/lib", "/opt/homebrew/lib"}
	case Windows:
		return []string{os.Getenv("SystemRoot") + `\System32`}
	default:
		return []string{"/usr/lib", "/usr/local/lib", "/lib"}
	}
}

func conventionalLibraryDirs() []string {
	switch Current() {
	case MacOS:
		return []string{"/Library/Frameworks", "/System/Library/Frameworks"}
	case Windows:
		return []string{`C:\Windows\System32`}
	default:
		return []string{"/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu"}
	}
}
