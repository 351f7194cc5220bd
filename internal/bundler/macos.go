package bundler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/logger"
)

// BundleMacOS produces a .app directory (spec §4.12 macOS bullet), generalizing
// the lightshell example's packageDarwin/generatePlist shape: fixed
// Contents/MacOS + Contents/Resources layout, a generated Info.plist, then an
// optional codesign and notarization pass.
func BundleMacOS(cfg Config) (Result, error) {
	if err := validate(cfg); err != nil {
		return Result{}, err
	}
	log := logger.Named("bundler.macos")

	appPath := filepath.Join(cfg.OutDir, cfg.AppName+".app")
	if err := os.RemoveAll(appPath); err != nil {
		return Result{}, wrapIO("remove previous .app", err)
	}

	macosDir := filepath.Join(appPath, "Contents", "MacOS")
	resourcesDir := filepath.Join(appPath, "Contents", "Resources")
	if err := os.MkdirAll(macosDir, 0o755); err != nil {
		return Result{}, wrapIO("create Contents/MacOS", err)
	}
	if err := os.MkdirAll(resourcesDir, 0o755); err != nil {
		return Result{}, wrapIO("create Contents/Resources", err)
	}

	exeName := cfg.AppName
	if err := copyFile(cfg.BinaryPath, filepath.Join(macosDir, exeName), 0o755); err != nil {
		return Result{}, err
	}
	if cfg.LibraryPath != "" {
		if err := copyDir(cfg.LibraryPath, macosDir); err != nil {
			return Result{}, err
		}
	}
	if cfg.AssetsPath != "" {
		if err := copyDir(cfg.AssetsPath, filepath.Join(resourcesDir, "assets")); err != nil {
			return Result{}, err
		}
	}
	if cfg.IconPath != "" {
		if err := copyFile(cfg.IconPath, filepath.Join(resourcesDir, "icon.icns"), 0o644); err != nil {
			return Result{}, err
		}
	}

	plistPath := filepath.Join(appPath, "Contents", "Info.plist")
	if err := os.WriteFile(plistPath, []byte(macosInfoPlist(cfg, exeName)), 0o644); err != nil {
		return Result{}, wrapIO("write Info.plist", err)
	}

	if cfg.MacOS.SigningIdentity != "" {
		log.Info().Str("identity", cfg.MacOS.SigningIdentity).Msg("codesigning app bundle")
		if err := codesign(appPath, cfg.MacOS); err != nil {
			return Result{}, err
		}
		if cfg.MacOS.Notarize {
			log.Info().Str("profile", cfg.MacOS.NotaryProfile).Msg("submitting for notarization")
			if err := notarize(appPath, cfg.MacOS.NotaryProfile); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{OutputPath: appPath}, nil
}

func macosInfoPlist(cfg Config, exeName string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	sb.WriteString("<plist version=\"1.0\">\n<dict>\n")
	fmt.Fprintf(&sb, "\t<key>CFBundleExecutable</key>\n\t<string>%s</string>\n", exeName)
	fmt.Fprintf(&sb, "\t<key>CFBundleIdentifier</key>\n\t<string>%s</string>\n", cfg.Identifier)
	fmt.Fprintf(&sb, "\t<key>CFBundleName</key>\n\t<string>%s</string>\n", cfg.AppName)
	fmt.Fprintf(&sb, "\t<key>CFBundleVersion</key>\n\t<string>%s</string>\n", cfg.Version)
	fmt.Fprintf(&sb, "\t<key>CFBundleShortVersionString</key>\n\t<string>%s</string>\n", cfg.Version)
	sb.WriteString("\t<key>CFBundlePackageType</key>\n\t<string>APPL</string>\n")
	sb.WriteString("\t<key>NSHighResolutionCapable</key>\n\t<true/>\n")
	if cfg.MacOS.LSUIElement {
		sb.WriteString("\t<key>LSUIElement</key>\n\t<true/>\n")
	}
	if cfg.IconPath != "" {
		sb.WriteString("\t<key>CFBundleIconFile</key>\n\t<string>icon.icns</string>\n")
	}
	if len(cfg.DeepLinks) > 0 {
		sb.WriteString("\t<key>CFBundleURLTypes</key>\n\t<array>\n\t\t<dict>\n")
		fmt.Fprintf(&sb, "\t\t\t<key>CFBundleURLName</key>\n\t\t\t<string>%s</string>\n", cfg.Identifier)
		sb.WriteString("\t\t\t<key>CFBundleURLSchemes</key>\n\t\t\t<array>\n")
		for _, scheme := range cfg.DeepLinks {
			fmt.Fprintf(&sb, "\t\t\t\t<string>%s</string>\n", scheme)
		}
		sb.WriteString("\t\t\t</array>\n\t\t</dict>\n\t</array>\n")
	}
	sb.WriteString("</dict>\n</plist>")
	return sb.String()
}

// codesign shells out to the system codesign tool, grounded on the
// exec.CommandContext + CombinedOutput error-surfacing idiom from the
// teacher's api/internal/sync/git.go.
func codesign(appPath string, signing MacOSSigning) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	args := []string{"--force", "--deep", "--sign", signing.SigningIdentity}
	if signing.Entitlements != "" {
		args = append(args, "--entitlements", signing.Entitlements)
	}
	args = append(args, appPath)

	cmd := exec.CommandContext(ctx, "codesign", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapSubprocess("codesign", output, err)
	}
	return nil
}

// notarize submits the signed bundle for notarization and staples the
// resulting ticket; both steps shell out to Apple's own CLI tools since
// there is no Go SDK for either.
func notarize(appPath, profile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	zipPath := appPath + ".zip"
	if output, err := exec.CommandContext(ctx, "ditto", "-c", "-k", "--keepParent", appPath, zipPath).CombinedOutput(); err != nil {
		return wrapSubprocess("ditto", output, err)
	}
	defer os.Remove(zipPath)

	submitArgs := []string{"notarytool", "submit", zipPath, "--keychain-profile", profile, "--wait"}
	if output, err := exec.CommandContext(ctx, "xcrun", submitArgs...).CombinedOutput(); err != nil {
		return wrapSubprocess("xcrun notarytool submit", output, err)
	}

	if output, err := exec.CommandContext(ctx, "xcrun", "stapler", "staple", appPath).CombinedOutput(); err != nil {
		return wrapSubprocess("xcrun stapler staple", output, err)
	}
	return nil
}
