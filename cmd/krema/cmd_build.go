package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/config"
)

func newBuildCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile the frontend and the host, embedding assets into the host binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ManifestFileName, flags.env)
			if err != nil {
				return err
			}

			if !flags.noFrontend {
				if err := runFrontendStep(cfg.Build.FrontendCommand); err != nil {
					return err
				}
			}

			if err := stageEmbeddedAssets(cfg.Build.AssetsPath); err != nil {
				return fmt.Errorf("stage assets for embedding: %w", err)
			}

			if flags.noCompile {
				fmt.Println("krema: --no-compile set, skipping host compilation")
				return nil
			}

			outDir := cfg.Build.OutDir
			if outDir == "" {
				outDir = "dist"
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create out dir %s: %w", outDir, err)
			}

			outPath := filepath.Join(outDir, hostBinaryName(cfg.Package.Identifier))
			if err := buildHostBinary(outPath); err != nil {
				return err
			}
			fmt.Printf("krema: built %s\n", absOrSelf(outPath))
			return nil
		},
	}
}

// stageEmbeddedAssets copies the frontend's built output into
// cmd/krema/embedded_assets/ so the go:embed directive in assets_embed.go
// picks it up on the next compile. The directory is cleared first so a
// previous build's stale files never leak into the new binary.
func stageEmbeddedAssets(assetsPath string) error {
	if assetsPath == "" {
		return fmt.Errorf("build.assets_path is not set in the manifest")
	}
	if _, err := os.Stat(assetsPath); err != nil {
		return fmt.Errorf("frontend assets path %s: %w", assetsPath, err)
	}

	dest := filepath.Join("cmd", "krema", "embedded_assets")
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	// go:embed refuses an entirely empty directory, so a placeholder
	// always survives the copy even if assetsPath is empty.
	if err := os.WriteFile(filepath.Join(dest, ".gitkeep"), nil, 0o644); err != nil {
		return err
	}
	return copyTree(assetsPath, dest)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
