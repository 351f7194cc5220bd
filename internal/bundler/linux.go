package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BundleLinux produces an AppDir skeleton (spec §4.12 Linux bullet):
// AppRun, usr/bin, usr/lib, usr/share/<app>, a .desktop file with
// MimeType=x-scheme-handler/<scheme> entries for each configured deep-link
// scheme, and the copied native support libraries. Per spec, it emits the
// appimagetool invocation rather than running it, since appimagetool is not
// guaranteed present on the build machine.
func BundleLinux(cfg Config) (Result, error) {
	if err := validate(cfg); err != nil {
		return Result{}, err
	}

	appDir := filepath.Join(cfg.OutDir, cfg.AppName+".AppDir")
	if err := os.RemoveAll(appDir); err != nil {
		return Result{}, wrapIO("remove previous AppDir", err)
	}

	binDir := filepath.Join(appDir, "usr", "bin")
	libDir := filepath.Join(appDir, "usr", "lib")
	shareDir := filepath.Join(appDir, "usr", "share", cfg.AppName)
	applicationsDir := filepath.Join(appDir, "usr", "share", "applications")
	for _, dir := range []string{binDir, libDir, shareDir, applicationsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, wrapIO("create "+dir, err)
		}
	}

	if err := copyFile(cfg.BinaryPath, filepath.Join(binDir, cfg.AppName), 0o755); err != nil {
		return Result{}, err
	}
	if cfg.LibraryPath != "" {
		if err := copyDir(cfg.LibraryPath, libDir); err != nil {
			return Result{}, err
		}
	}
	if cfg.AssetsPath != "" {
		if err := copyDir(cfg.AssetsPath, filepath.Join(shareDir, "assets")); err != nil {
			return Result{}, err
		}
	}

	var iconName string
	if cfg.IconPath != "" {
		iconName = cfg.AppName
		if err := copyFile(cfg.IconPath, filepath.Join(appDir, iconName+filepath.Ext(cfg.IconPath)), 0o644); err != nil {
			return Result{}, err
		}
	}

	appRunPath := filepath.Join(appDir, "AppRun")
	if err := os.WriteFile(appRunPath, []byte(linuxAppRun(cfg)), 0o755); err != nil {
		return Result{}, wrapIO("write AppRun", err)
	}

	desktopPath := filepath.Join(applicationsDir, cfg.Identifier+".desktop")
	desktopContent := linuxDesktopEntry(cfg, iconName)
	if err := os.WriteFile(desktopPath, []byte(desktopContent), 0o644); err != nil {
		return Result{}, wrapIO("write .desktop entry", err)
	}
	// AppImage tooling also expects a copy of the .desktop file at the
	// AppDir root.
	if err := os.WriteFile(filepath.Join(appDir, cfg.Identifier+".desktop"), []byte(desktopContent), 0o644); err != nil {
		return Result{}, wrapIO("write root .desktop entry", err)
	}

	appImageToolScript := filepath.Join(cfg.OutDir, "build-appimage.sh")
	if err := os.WriteFile(appImageToolScript, []byte(linuxAppImageToolScript(cfg, appDir)), 0o755); err != nil {
		return Result{}, wrapIO("write appimagetool script", err)
	}

	return Result{OutputPath: appDir, GeneratedScripts: []string{appImageToolScript}}, nil
}

func linuxAppRun(cfg Config) string {
	return fmt.Sprintf(`#!/bin/sh
HERE="$(dirname "$(readlink -f "${0}")")"
export LD_LIBRARY_PATH="${HERE}/usr/lib:${LD_LIBRARY_PATH}"
exec "${HERE}/usr/bin/%s" "$@"
`, cfg.AppName)
}

func linuxDesktopEntry(cfg Config, iconName string) string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	fmt.Fprintf(&sb, "Name=%s\n", cfg.AppName)
	sb.WriteString("Type=Application\n")
	fmt.Fprintf(&sb, "Exec=%s %%u\n", cfg.AppName)
	sb.WriteString("Terminal=false\n")
	fmt.Fprintf(&sb, "Categories=Utility;\n")
	if iconName != "" {
		fmt.Fprintf(&sb, "Icon=%s\n", iconName)
	}
	if len(cfg.DeepLinks) > 0 {
		var mimeTypes []string
		for _, scheme := range cfg.DeepLinks {
			mimeTypes = append(mimeTypes, "x-scheme-handler/"+scheme)
		}
		fmt.Fprintf(&sb, "MimeType=%s;\n", strings.Join(mimeTypes, ";"))
	}
	return sb.String()
}

func linuxAppImageToolScript(cfg Config, appDir string) string {
	return fmt.Sprintf(`#!/bin/sh
# Produces %[1]s-%[2]s-x86_64.AppImage from the AppDir the bundler just
# assembled. Not run automatically: appimagetool isn't guaranteed present
# on the build machine.
set -e
appimagetool "%[3]s" "%[1]s-%[2]s-x86_64.AppImage"
`, cfg.AppName, cfg.Version, appDir)
}
