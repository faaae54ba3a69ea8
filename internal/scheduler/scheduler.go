package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs one job on a cron schedule. A tick that fires while the
// previous run is still going is skipped.
type Scheduler struct {
	Cron  *cron.Cron
	job   func()
	log   *zap.Logger
	entry cron.EntryID
}

// NewScheduler creates a scheduler for job. Specs carry a seconds field.
func NewScheduler(job func(), log *zap.Logger) *Scheduler {
	logger := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		job: job,
		log: log,
	}
}

// Register schedules the job under spec, e.g. "0 30 18 * * 1-5".
func (s *Scheduler) Register(spec string) error {
	id, err := s.Cron.AddFunc(spec, s.job)
	if err != nil {
		return fmt.Errorf("register scan task %q: %w", spec, err)
	}
	s.entry = id
	s.log.Info("scan task registered", zap.String("cron", spec))
	return nil
}

// Next is the next scheduled run; zero until the scheduler is started.
func (s *Scheduler) Next() time.Time {
	return s.Cron.Entry(s.entry).Next
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the job immediately (for manual trigger / run_on_start).
func (s *Scheduler) RunNow() {
	s.job()
}
