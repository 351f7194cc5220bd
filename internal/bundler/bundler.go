// Package bundler implements the bundling/packaging pipeline (spec §4.12):
// given a compiled binary, its native runtime support libraries, and the
// application manifest, produce a platform-native installable bundle —
// a .app directory on macOS, a directory holding the .exe on Windows (no
// .msi is produced), an AppDir on Linux.
//
// There is no teacher precedent for desktop packaging in the example pack
// (StreamSpace ships as a server), so this package is grounded instead on
// the other_examples/ lightshell build.go file, the closest thing in the
// retrieval pack to "compile, then assemble a platform bundle around the
// binary" — its packageDarwin/generatePlist shape is what macos.go
// generalizes to the manifest-driven configuration this spec requires.
// Shell-outs (codesign, xcrun notarytool, signtool) follow the
// exec.CommandContext + CombinedOutput idiom from the teacher's
// api/internal/sync/git.go, the pack's one example of shelling out to an
// external tool and surfacing its output on failure.
package bundler

import (
	"fmt"
	"runtime"

	"github.com/krema-build/krema/internal/errors"
)

// Config is the common bundle configuration every platform backend accepts
// (spec §4.12: "Each backend accepts a common bundle configuration ...").
type Config struct {
	AppName     string
	Identifier  string
	Version     string
	Copyright   string
	BinaryPath  string   // the already-compiled host binary
	LibraryPath string   // directory of native runtime support libraries to copy alongside
	IconPath    string   // platform-appropriate icon source (.icns/.ico/.png)
	AssetsPath  string   // frontend asset bundle to embed under Resources/
	OutDir      string   // directory the bundle is written into
	DeepLinks   []string // URL schemes to register for deep-link dispatch

	MacOS   MacOSSigning
	Windows WindowsSigning
}

// MacOSSigning carries the macOS-specific signing/appearance parameters from
// [bundle.macos] in the manifest.
type MacOSSigning struct {
	SigningIdentity string // codesign -s identity; empty skips signing
	Entitlements    string // path to an entitlements plist, optional
	LSUIElement     bool   // hide from Dock when true
	TitleBarStyle   string // default | hidden | hidden-inset
	Notarize        bool
	NotaryProfile   string // xcrun notarytool keychain profile name
}

// WindowsSigning carries the Windows-specific signing parameters from
// [bundle.windows].
type WindowsSigning struct {
	CertificateThumbprint string
	TimestampURL          string
}

// Result is what a successful bundle produces.
type Result struct {
	// OutputPath is the produced bundle: a .app directory, the directory
	// containing the .exe, or the AppDir.
	OutputPath string
	// GeneratedScripts lists auxiliary scripts the bundler wrote alongside
	// the bundle but did not itself execute (protocol-registration .reg/.ps1
	// on Windows, the appimagetool invocation on Linux) — spec §4.12's
	// "not auto-imported" / "invocations the user can run".
	GeneratedScripts []string
}

// Bundle produces a platform-native bundle for runtime.GOOS. Callers that
// need a specific target platform (cross-packaging, CI matrices) should call
// the platform function directly instead.
func Bundle(cfg Config) (Result, error) {
	switch runtime.GOOS {
	case "darwin":
		return BundleMacOS(cfg)
	case "windows":
		return BundleWindows(cfg)
	case "linux":
		return BundleLinux(cfg)
	default:
		return Result{}, errors.E(errors.Unsupported, fmt.Sprintf("bundling is not supported on %s", runtime.GOOS))
	}
}

func validate(cfg Config) error {
	if cfg.AppName == "" {
		return errors.E(errors.ConfigInvalid, "bundler: AppName is required")
	}
	if cfg.Identifier == "" {
		return errors.E(errors.ConfigInvalid, "bundler: Identifier is required")
	}
	if cfg.BinaryPath == "" {
		return errors.E(errors.ConfigInvalid, "bundler: BinaryPath is required")
	}
	if cfg.OutDir == "" {
		return errors.E(errors.ConfigInvalid, "bundler: OutDir is required")
	}
	return nil
}
