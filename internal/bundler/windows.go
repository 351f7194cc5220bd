package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"os/exec"

	"github.com/krema-build/krema/internal/logger"
)

// BundleWindows produces a directory holding the .exe (spec §4.12 Windows
// bullet). The compiled binary already exists (spec: "given an
// application's compiled binary"), so unlike a JDK/jpackage pipeline
// there is no separate launcher-synthesis step — the bundler copies the
// binary, injects the native runtime DLLs beside it, writes the deep-link
// registration scripts, and optionally signs the result. It produces no
// .msi and writes no input for an installer tool; per spec's "not
// auto-imported" language, the protocol scripts are written but not run.
func BundleWindows(cfg Config) (Result, error) {
	if err := validate(cfg); err != nil {
		return Result{}, err
	}
	log := logger.Named("bundler.windows")

	outDir := filepath.Join(cfg.OutDir, cfg.AppName)
	if err := os.RemoveAll(outDir); err != nil {
		return Result{}, wrapIO("remove previous output directory", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, wrapIO("create output directory", err)
	}

	exePath := filepath.Join(outDir, cfg.AppName+".exe")
	if err := copyFile(cfg.BinaryPath, exePath, 0o755); err != nil {
		return Result{}, err
	}
	if cfg.LibraryPath != "" {
		if err := copyDir(cfg.LibraryPath, outDir); err != nil {
			return Result{}, err
		}
	}
	if cfg.IconPath != "" {
		if err := copyFile(cfg.IconPath, filepath.Join(outDir, cfg.AppName+".ico"), 0o644); err != nil {
			return Result{}, err
		}
	}

	var generated []string
	for _, scheme := range cfg.DeepLinks {
		regPath := filepath.Join(outDir, fmt.Sprintf("register-%s.reg", scheme))
		if err := os.WriteFile(regPath, []byte(windowsProtocolReg(cfg, scheme, exePath)), 0o644); err != nil {
			return Result{}, wrapIO("write protocol .reg script for "+scheme, err)
		}
		generated = append(generated, regPath)

		ps1Path := filepath.Join(outDir, fmt.Sprintf("register-%s.ps1", scheme))
		if err := os.WriteFile(ps1Path, []byte(windowsProtocolPowerShell(cfg, scheme, exePath)), 0o644); err != nil {
			return Result{}, wrapIO("write protocol PowerShell script for "+scheme, err)
		}
		generated = append(generated, ps1Path)
	}

	if cfg.Windows.CertificateThumbprint != "" {
		log.Info().Str("thumbprint", cfg.Windows.CertificateThumbprint).Msg("signing executable")
		if err := signtool(exePath, cfg.Windows); err != nil {
			return Result{}, err
		}
	}

	return Result{OutputPath: outDir, GeneratedScripts: generated}, nil
}

func windowsProtocolReg(cfg Config, scheme, exePath string) string {
	escapedExe := strings.ReplaceAll(exePath, `\`, `\\`)
	return fmt.Sprintf(`Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER\Software\Classes\%[1]s]
@="URL:%[2]s Protocol"
"URL Protocol"=""

[HKEY_CURRENT_USER\Software\Classes\%[1]s\shell\open\command]
@="\"%[3]s\" \"%%1\""
`, scheme, cfg.AppName, escapedExe)
}

func windowsProtocolPowerShell(cfg Config, scheme, exePath string) string {
	return fmt.Sprintf(`# Registers the %[1]s:// protocol for %[2]s under HKCU. Run manually; not
# auto-imported by the bundler.
New-Item -Path "HKCU:\Software\Classes\%[1]s" -Force | Out-Null
Set-ItemProperty -Path "HKCU:\Software\Classes\%[1]s" -Name "(default)" -Value "URL:%[2]s Protocol"
Set-ItemProperty -Path "HKCU:\Software\Classes\%[1]s" -Name "URL Protocol" -Value ""
New-Item -Path "HKCU:\Software\Classes\%[1]s\shell\open\command" -Force | Out-Null
Set-ItemProperty -Path "HKCU:\Software\Classes\%[1]s\shell\open\command" -Name "(default)" -Value '"%[3]s" "%%1"'
`, scheme, cfg.AppName, exePath)
}

// signtool shells out to the platform's own signtool.exe, the same
// exec.CommandContext + CombinedOutput idiom used for codesign on macOS.
func signtool(exePath string, signing WindowsSigning) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	args := []string{"sign", "/sha1", signing.CertificateThumbprint, "/fd", "sha256"}
	if signing.TimestampURL != "" {
		args = append(args, "/tr", signing.TimestampURL, "/td", "sha256")
	}
	args = append(args, exePath)

	cmd := exec.CommandContext(ctx, "signtool", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapSubprocess("signtool", output, err)
	}
	return nil
}
