package updater

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/logger"
)

// Config configures an Updater, mirroring the manifest's [updater] section.
type Config struct {
	Pubkey         string
	Endpoints      []string
	CheckOnStartup bool
	CheckCron      string
	Timeout        time.Duration
	CurrentVersion string
	StagingDir     string
}

// Updater periodically checks configured endpoints for a newer signed
// release, and on consent downloads and verifies the installer package.
// Install itself is always delegated to the platform on exit (spec §4.13),
// never performed by this package.
type Updater struct {
	cfg       Config
	client    *http.Client
	events    *events.Emitter
	scheduler *Scheduler
}

// New constructs an Updater. emitter receives update:available/update:ready;
// pass nil to run headless (e.g. from the `krema` CLI's own update check).
func New(cfg Config, emitter *events.Emitter) *Updater {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Updater{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		events:    emitter,
		scheduler: NewScheduler(),
	}
}

// Start wires the configured (or default) cron expression to a recurring
// Check, and runs an immediate check first if CheckOnStartup is set.
func (u *Updater) Start(ctx context.Context) error {
	if err := u.scheduler.Schedule(u.cfg.CheckCron, func() {
		checkCtx, cancel := context.WithTimeout(context.Background(), u.cfg.Timeout)
		defer cancel()
		if _, _, err := u.Check(checkCtx); err != nil {
			logger.Named("updater").Warn().Err(err).Msg("scheduled update check failed")
		}
	}); err != nil {
		return err
	}
	u.scheduler.Start()

	if u.cfg.CheckOnStartup {
		if _, _, err := u.Check(ctx); err != nil {
			logger.Named("updater").Warn().Err(err).Msg("startup update check failed")
		}
	}
	return nil
}

// Stop halts the scheduler.
func (u *Updater) Stop() {
	u.scheduler.Stop()
}

// Check fetches the manifest from the first reachable endpoint, verifies
// it, and reports whether it advertises a newer version than
// cfg.CurrentVersion. On a newer version it emits events.UpdateAvailable.
func (u *Updater) Check(ctx context.Context) (available bool, manifest ReleaseManifest, err error) {
	if len(u.cfg.Endpoints) == 0 {
		return false, ReleaseManifest{}, errors.E(errors.ConfigInvalid, "updater has no configured endpoints")
	}

	var lastErr error
	for _, endpoint := range u.cfg.Endpoints {
		manifest, lastErr = u.fetchManifest(ctx, endpoint)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return false, ReleaseManifest{}, lastErr
	}

	if !isNewer(u.cfg.CurrentVersion, manifest.Version) {
		return false, manifest, nil
	}

	if u.events != nil {
		u.events.Emit(events.UpdateAvailable, map[string]any{
			"version": manifest.Version,
			"notes":   manifest.Notes,
		})
	}
	return true, manifest, nil
}

func (u *Updater) fetchManifest(ctx context.Context, endpoint string) (ReleaseManifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ReleaseManifest{}, errors.Wrap(errors.BadRequest, "build update manifest request", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return ReleaseManifest{}, errors.Wrap(errors.TransientSystem, "fetch update manifest from "+endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ReleaseManifest{}, errors.E(errors.TransientSystem, "update endpoint "+endpoint+" returned "+resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ReleaseManifest{}, errors.Wrap(errors.TransientSystem, "read update manifest body", err)
	}
	return parseAndVerify(body, u.cfg.Pubkey)
}

// DownloadAndVerify streams manifest.DownloadURL to the staging directory,
// reporting progress, then checks its SHA-256 against the manifest. On
// success it emits events.UpdateReady with the staged path.
func (u *Updater) DownloadAndVerify(ctx context.Context, manifest ReleaseManifest, onProgress ProgressFunc) (string, error) {
	path, sum, err := download(ctx, u.client, manifest.DownloadURL, u.cfg.StagingDir, onProgress)
	if err != nil {
		return "", err
	}
	if manifest.SHA256 != "" && sum != manifest.SHA256 {
		return "", errors.E(errors.VerificationFailed, "update package checksum mismatch")
	}

	if u.events != nil {
		u.events.Emit(events.UpdateReady, map[string]any{
			"version": manifest.Version,
			"path":    path,
		})
	}
	return path, nil
}
