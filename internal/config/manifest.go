// Package config parses the application manifest (§6), applies environment
// profile overrides, overlays .env files, and produces an immutable Config.
//
// The manifest is TOML, parsed with github.com/BurntSushi/toml — the same
// library the rest of the example pack reaches for when it needs a
// table-shaped config format, rather than a hand-rolled parser.
package config

import "github.com/krema-build/krema/internal/errors"

// Manifest mirrors the external manifest format from spec §6 field for
// field. Parsed directly from TOML; see Load.
type Manifest struct {
	Package     PackageSection          `toml:"package"`
	Window      WindowSection           `toml:"window"`
	Build       BuildSection            `toml:"build"`
	Bundle      BundleSection           `toml:"bundle"`
	Permissions PermissionsSection      `toml:"permissions"`
	Updater     UpdaterSection          `toml:"updater"`
	DeepLink    DeepLinkSection         `toml:"deep-link"`
	Env         map[string]EnvOverrides `toml:"env"`
}

type PackageSection struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Identifier  string `toml:"identifier"`
	Description string `toml:"description"`
}

type WindowSection struct {
	Title        string `toml:"title"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	MinWidth     int    `toml:"min_width"`
	MinHeight    int    `toml:"min_height"`
	Resizable    bool   `toml:"resizable"`
	Fullscreen   bool   `toml:"fullscreen"`
	Decorations  bool   `toml:"decorations"`
	AlwaysOnTop  bool   `toml:"always_on_top"`
}

type BuildSection struct {
	FrontendCommand    string `toml:"frontend_command"`
	FrontendDevCommand string `toml:"frontend_dev_command"`
	FrontendDevURL     string `toml:"frontend_dev_url"`
	OutDir             string `toml:"out_dir"`
	JavaSourceDir      string `toml:"java_source_dir"`
	MainClass          string `toml:"main_class"`
	AssetsPath         string `toml:"assets_path"`
}

type BundleSection struct {
	Icon       string             `toml:"icon"`
	Identifier string             `toml:"identifier"`
	Copyright  string             `toml:"copyright"`
	MacOS      BundleMacOSSection `toml:"macos"`
	Windows    BundleWindowsSection `toml:"windows"`
}

type BundleMacOSSection struct {
	SigningIdentity string `toml:"signing_identity"`
	Entitlements    string `toml:"entitlements"`
	LSUIElement     bool   `toml:"ls_ui_element"`
	TitleBarStyle   string `toml:"title_bar_style"` // default | hidden | hidden-inset
}

type BundleWindowsSection struct {
	CertificateThumbprint string `toml:"certificate_thumbprint"`
	TimestampURL          string `toml:"timestamp_url"`
}

type PermissionsSection struct {
	Allow []string `toml:"allow"`
}

type UpdaterSection struct {
	Pubkey          string   `toml:"pubkey"`
	Endpoints       []string `toml:"endpoints"`
	CheckOnStartup  bool     `toml:"check_on_startup"`
	CheckCron       string   `toml:"check_cron"`
	TimeoutSeconds  int      `toml:"timeout"`
}

type DeepLinkSection struct {
	Schemes []string `toml:"schemes"`
}

// EnvOverrides is a profile's partial override of any manifest section.
// Every field is a pointer/zero-value-means-absent so merging only touches
// fields the profile actually set.
type EnvOverrides struct {
	Window      *WindowSection      `toml:"window"`
	Build       *BuildSection       `toml:"build"`
	Bundle      *BundleSection      `toml:"bundle"`
	Permissions *PermissionsSection `toml:"permissions"`
	Updater     *UpdaterSection     `toml:"updater"`
	DeepLink    *DeepLinkSection    `toml:"deep-link"`
}

// Config is the immutable, merged configuration result of Load. Nothing
// outside this package may mutate it after Load returns.
type Config struct {
	Package     PackageSection
	Window      WindowSection
	Build       BuildSection
	Bundle      BundleSection
	Permissions PermissionsSection
	Updater     UpdaterSection
	DeepLink    DeepLinkSection
	Profile     string
}

func validate(m *Manifest) error {
	if m.Package.Name == "" {
		return errors.E(errors.ConfigInvalid, "package.name is required")
	}
	if m.Package.Identifier == "" {
		return errors.E(errors.ConfigInvalid, "package.identifier is required")
	}
	if m.Package.Version == "" {
		return errors.E(errors.ConfigInvalid, "package.version is required")
	}
	return nil
}
