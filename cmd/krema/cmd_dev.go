package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/config"
)

// watchedSourceDirs are recompiled on change by `dev`'s supervisor loop
// (spec §6: "start frontend + host with hot-reload of the host on source
// change"). Vendored/generated trees aren't watched because nothing under
// them is hand-edited during a dev session.
var watchedSourceDirs = []string{"internal", "cmd", "plugins"}

func newDevCommand(flags *globalFlags) *cobra.Command {
	var internalRunHost bool

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the frontend dev server and the host, rebuilding the host on source change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ManifestFileName, flags.env)
			if err != nil {
				return err
			}

			if internalRunHost {
				// Re-exec'd by the supervisor below after a rebuild: run
				// the host for real, proxying assets from the frontend's
				// dev server rather than serving a built bundle.
				return runHost(cfg, nil, true, flags.port)
			}

			var frontend *exec.Cmd
			if !flags.noFrontend {
				frontend, err = startFrontendBackground(cfg.Build.FrontendDevCommand)
				if err != nil {
					return err
				}
				defer stopProcess(frontend)
			}

			return runSupervisedDevHost(flags)
		},
	}

	cmd.Flags().BoolVar(&internalRunHost, "internal-run-host", false, "internal: run as the supervised host child")
	_ = cmd.Flags().MarkHidden("internal-run-host")
	return cmd
}

// runSupervisedDevHost builds the host into a scratch binary, launches it
// as a child process, and (unless --no-watch) watches the Go source tree,
// rebuilding and restarting the child on every change.
func runSupervisedDevHost(flags *globalFlags) error {
	tmpDir, err := os.MkdirTemp("", "krema-dev-")
	if err != nil {
		return fmt.Errorf("create dev scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	hostBinPath := filepath.Join(tmpDir, "krema-dev-host")

	var child *exec.Cmd
	rebuildAndRestart := func() error {
		if err := buildHostBinary(hostBinPath); err != nil {
			fmt.Fprintln(os.Stderr, "krema: rebuild failed:", err)
			return err
		}
		stopProcess(child)

		childArgs := []string{"dev", "--internal-run-host"}
		if flags.env != "" {
			childArgs = append(childArgs, "--env="+flags.env)
		}
		if flags.port != 0 {
			childArgs = append(childArgs, fmt.Sprintf("--port=%d", flags.port))
		}
		child = exec.Command(hostBinPath, childArgs...)
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		child.Stdin = os.Stdin
		if err := child.Start(); err != nil {
			return fmt.Errorf("start host: %w", err)
		}
		return nil
	}

	if err := rebuildAndRestart(); err != nil {
		return err
	}
	defer stopProcess(child)

	if flags.noWatch {
		return child.Wait()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start source watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchedSourceDirs {
		addWatchRecursive(watcher, dir)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return child.Wait()
			}
			if filepath.Ext(event.Name) != ".go" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fmt.Println("krema: change detected, rebuilding host:", event.Name)
			time.Sleep(100 * time.Millisecond) // let the editor finish writing
			_ = rebuildAndRestart()
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "krema: watcher error:", watchErr)
		}
	}
}

// addWatchRecursive adds root and every subdirectory beneath it to watcher,
// since fsnotify only watches the directories it's explicitly told about.
func addWatchRecursive(watcher *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		_ = watcher.Add(path)
		return nil
	})
}
