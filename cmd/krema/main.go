// Command krema is the host framework's own CLI (spec §6 "CLI surface"):
// init, dev, build, bundle, and signer. Flags and exit codes follow the
// spec exactly: --env, --no-frontend, --no-compile, --no-watch,
// --no-bundle, --port; exit 0 on success, 1 on any failure.
//
// Grounded in the kiosk404-echoryn pack entry's cobra root command shape
// (one *cobra.Command tree, subcommands added via AddCommand, persistent
// flags on the root) — scaled down from that example's k8s-admin-tool
// complexity to the handful of flags this spec actually names.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/config"
)

// globalFlags holds the persistent flags every subcommand reads.
type globalFlags struct {
	env        string
	noFrontend bool
	noCompile  bool
	noWatch    bool
	noBundle   bool
	port       int
}

func main() {
	flags := &globalFlags{}
	root := newRootCommand(flags)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "krema:", err)
		os.Exit(1)
	}
}

func newRootCommand(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "krema",
		Short:         "Krema builds and packages native desktop apps backed by the system webview",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Invoked with no subcommand, krema runs as the application itself:
		// this is what a bundled .app/.exe/AppDir actually launches. Every
		// other Use below is an operator-facing build-time command.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ManifestFileName, flags.env)
			if err != nil {
				return err
			}
			return runHost(cfg, embeddedAssetsFS(), false, flags.port)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.env, "env", "", "environment profile to apply from the manifest's [env.<profile>] tables")
	pf.BoolVar(&flags.noFrontend, "no-frontend", false, "skip running the configured frontend command")
	pf.BoolVar(&flags.noCompile, "no-compile", false, "skip compiling the host binary")
	pf.BoolVar(&flags.noWatch, "no-watch", false, "disable hot-reload of the host on source change")
	pf.BoolVar(&flags.noBundle, "no-bundle", false, "skip producing a platform bundle after build")
	pf.IntVar(&flags.port, "port", 0, "port for the local asset server (0 picks any free port)")

	root.AddCommand(
		newInitCommand(),
		newDevCommand(flags),
		newBuildCommand(flags),
		newBundleCommand(flags),
		newSignerCommand(),
	)
	return root
}
