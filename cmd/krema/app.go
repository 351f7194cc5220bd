package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krema-build/krema/internal/commands"
	"github.com/krema-build/krema/internal/config"
	"github.com/krema-build/krema/internal/host"
	"github.com/krema-build/krema/internal/logger"
	"github.com/krema-build/krema/internal/permission"
	"github.com/krema-build/krema/internal/plugins"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/singleinstance"
	"github.com/krema-build/krema/internal/updater"
	"github.com/krema-build/krema/internal/window"

	// plugins/ssoauth registers itself as a builtin via init().
	_ "github.com/krema-build/krema/plugins/ssoauth"
)

// runHost wires the registry, permission gate, window manager, plugin
// loader, single-instance guard, and updater into one running application
// and blocks until it quits. assetFS is nil in dev mode, where assets are
// instead proxied from cfg.Build.FrontendDevURL.
func runHost(cfg *config.Config, assetFS fs.FS, pretty bool, port int) error {
	closeLog, err := logger.Initialize(logger.Options{
		AppName:    cfg.Package.Name,
		AppVersion: cfg.Package.Version,
		Level:      "info",
		Pretty:     pretty,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.Named("cmd.krema")

	deepLinks := singleinstance.NewDeepLinkQueue(window.MainLabel)

	instance, err := singleinstance.Acquire(cfg.Package.Identifier, os.Args[1:], func(args []string) {
		if url, ok := singleinstance.ExtractDeepLink(args, cfg.DeepLink.Schemes); ok {
			deepLinks.Enqueue(url)
		}
	})
	if err != nil {
		return err
	}
	defer instance.Release()
	if !instance.IsPrimary() {
		log.Info().Msg("another instance is already running; relayed arguments and exiting")
		return nil
	}

	var assets *host.AssetServer
	if assetFS != nil {
		assets, err = host.NewProductionAssetServer(assetFS, port)
	} else {
		assets, err = host.NewDevProxyAssetServer(cfg.Build.FrontendDevURL, port)
	}
	if err != nil {
		return err
	}

	permissions := permission.NewSet(cfg.Permissions.Allow)
	commandRegistry := registry.New(permissions)
	backend := host.NewBackend()
	h := host.New(backend, commandRegistry, assets)

	deepLinks.Attach(h.Windows)
	if url, ok := singleinstance.ExtractDeepLink(os.Args[1:], cfg.DeepLink.Schemes); ok {
		deepLinks.Enqueue(url)
	}

	if err := commands.RegisterCore(commandRegistry, h.Windows); err != nil {
		return err
	}
	if err := commands.RegisterCapabilities(commandRegistry, h.Events, cfg.Package.Identifier); err != nil {
		return err
	}

	loader := plugins.New(&plugins.Context{
		Windows:  h.Windows,
		Events:   h.Events,
		Commands: commandRegistry,
		Log:      logger.Named("plugins"),
		Config:   cfg,
	})
	if _, err := loader.Load(); err != nil {
		return err
	}
	commandRegistry.Freeze()

	if len(cfg.Updater.Endpoints) > 0 {
		upd := updater.New(updater.Config{
			Pubkey:         cfg.Updater.Pubkey,
			Endpoints:      cfg.Updater.Endpoints,
			CheckOnStartup: cfg.Updater.CheckOnStartup,
			CheckCron:      cfg.Updater.CheckCron,
			Timeout:        time.Duration(cfg.Updater.TimeoutSeconds) * time.Second,
			CurrentVersion: cfg.Package.Version,
			StagingDir:     os.TempDir(),
		}, h.Events)
		if err := upd.Start(context.Background()); err != nil {
			log.Warn().Err(err).Msg("updater failed to start")
		} else {
			defer upd.Stop()
		}
	}

	if err := h.Bootstrap(cfg); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Shutdown(ctx)
	}()

	if err := h.Run(); err != nil {
		return fmt.Errorf("host run: %w", err)
	}
	return nil
}
