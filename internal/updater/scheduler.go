package updater

import (
	"github.com/robfig/cron/v3"

	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/logger"
)

// defaultCheckCron matches SPEC_FULL.md §4.13a: "Default, absent a cron
// expression, is hourly."
const defaultCheckCron = "@hourly"

// Scheduler wraps a single *cron.Cron running exactly one job — the
// periodic update check — the same "one shared cron.Cron, one named job
// tracked by cron.EntryID" shape as the teacher's PluginScheduler, scaled
// down to Krema's single always-on job instead of per-plugin jobs.
type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	hasJob  bool
}

// NewScheduler constructs a Scheduler. The caller owns calling Start/Stop.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Schedule (re)schedules checkFn under cronExpr, replacing any previously
// scheduled check. An empty cronExpr falls back to defaultCheckCron.
func (s *Scheduler) Schedule(cronExpr string, checkFn func()) error {
	if cronExpr == "" {
		cronExpr = defaultCheckCron
	}
	if s.hasJob {
		s.cron.Remove(s.entryID)
		s.hasJob = false
	}

	log := logger.Named("updater.scheduler")
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("update check job panicked")
			}
		}()
		checkFn()
	}

	id, err := s.cron.AddFunc(cronExpr, wrapped)
	if err != nil {
		return errors.Wrap(errors.ConfigInvalid, "parse updater check_cron expression", err)
	}
	s.entryID = id
	s.hasJob = true
	return nil
}
