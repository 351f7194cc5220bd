package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/krema-build/krema/internal/errors"
)

// ManifestFileName is the conventional manifest filename Load looks for.
const ManifestFileName = "krema.toml"

// Load reads the manifest at path, applies the named profile's overrides
// (profile == "" means the base manifest only), then overlays .env and
// .env.<profile> files (profile-specific wins), and returns the immutable
// merged Config.
func Load(path, profile string) (*Config, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "parse manifest", err)
	}
	if err := validate(&m); err != nil {
		return nil, err
	}

	cfg := &Config{
		Package:     m.Package,
		Window:      m.Window,
		Build:       m.Build,
		Bundle:      m.Bundle,
		Permissions: m.Permissions,
		Updater:     m.Updater,
		DeepLink:    m.DeepLink,
		Profile:     profile,
	}

	if profile != "" {
		if override, ok := m.Env[profile]; ok {
			applyOverrides(cfg, override)
		}
	}

	envVars, err := loadEnvFiles(profile)
	if err != nil {
		return nil, err
	}
	applyEnvVars(cfg, envVars)

	return cfg, nil
}

func applyOverrides(cfg *Config, o EnvOverrides) {
	if o.Window != nil {
		cfg.Window = *o.Window
	}
	if o.Build != nil {
		cfg.Build = *o.Build
	}
	if o.Bundle != nil {
		cfg.Bundle = *o.Bundle
	}
	if o.Permissions != nil {
		cfg.Permissions = *o.Permissions
	}
	if o.Updater != nil {
		cfg.Updater = *o.Updater
	}
	if o.DeepLink != nil {
		cfg.DeepLink = *o.DeepLink
	}
}

// applyEnvVars lets a handful of well-known .env keys override specific
// manifest fields, matching the teacher's own pattern of env-driven
// overrides for per-deployment values that shouldn't live in source
// control (ports, dev URLs, endpoints).
func applyEnvVars(cfg *Config, vars map[string]string) {
	if v, ok := vars["KREMA_FRONTEND_DEV_URL"]; ok && v != "" {
		cfg.Build.FrontendDevURL = v
	}
	if v, ok := vars["KREMA_WINDOW_TITLE"]; ok && v != "" {
		cfg.Window.Title = v
	}
}

func loadEnvFiles(profile string) (map[string]string, error) {
	merged := map[string]string{}

	base, err := parseEnvFile(".env")
	if err != nil {
		return nil, err
	}
	for k, v := range base {
		merged[k] = v
	}

	if profile != "" {
		profiled, err := parseEnvFile(".env." + profile)
		if err != nil {
			return nil, err
		}
		for k, v := range profiled {
			merged[k] = v
		}
	}
	return merged, nil
}

func parseEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.IO, "read env file "+path, err)
	}
	return ParseEnv(string(data)), nil
}
