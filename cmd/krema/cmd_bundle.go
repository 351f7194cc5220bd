package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/bundler"
	"github.com/krema-build/krema/internal/config"
)

func newBundleCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bundle",
		Short: "Produce a platform-native bundle from the already-built host binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.noBundle {
				fmt.Println("krema: --no-bundle set, skipping")
				return nil
			}

			cfg, err := config.Load(config.ManifestFileName, flags.env)
			if err != nil {
				return err
			}

			outDir := cfg.Build.OutDir
			if outDir == "" {
				outDir = "dist"
			}
			binaryPath := filepath.Join(outDir, hostBinaryName(cfg.Package.Identifier))
			if _, err := os.Stat(binaryPath); err != nil {
				return fmt.Errorf("host binary %s not found; run `krema build` first: %w", binaryPath, err)
			}

			identifier := cfg.Bundle.Identifier
			if identifier == "" {
				identifier = cfg.Package.Identifier
			}

			// Notarization credentials are never read from the manifest
			// (it's typically committed to version control); an operator
			// opts in per-invocation via the environment instead.
			notaryProfile := os.Getenv("KREMA_NOTARY_PROFILE")

			bundleCfg := bundler.Config{
				AppName:    cfg.Package.Name,
				Identifier: identifier,
				Version:    cfg.Package.Version,
				Copyright:  cfg.Bundle.Copyright,
				BinaryPath: binaryPath,
				IconPath:   cfg.Bundle.Icon,
				AssetsPath: cfg.Build.AssetsPath,
				OutDir:     filepath.Join(outDir, "bundle"),
				DeepLinks:  cfg.DeepLink.Schemes,
				MacOS: bundler.MacOSSigning{
					SigningIdentity: cfg.Bundle.MacOS.SigningIdentity,
					Entitlements:    cfg.Bundle.MacOS.Entitlements,
					LSUIElement:     cfg.Bundle.MacOS.LSUIElement,
					TitleBarStyle:   cfg.Bundle.MacOS.TitleBarStyle,
					Notarize:        notaryProfile != "",
					NotaryProfile:   notaryProfile,
				},
				Windows: bundler.WindowsSigning{
					CertificateThumbprint: cfg.Bundle.Windows.CertificateThumbprint,
					TimestampURL:          cfg.Bundle.Windows.TimestampURL,
				},
			}

			result, err := bundler.Bundle(bundleCfg)
			if err != nil {
				return err
			}

			fmt.Printf("krema: bundled %s\n", absOrSelf(result.OutputPath))
			for _, script := range result.GeneratedScripts {
				fmt.Printf("krema: wrote %s (not run automatically)\n", script)
			}
			return nil
		},
	}
}
