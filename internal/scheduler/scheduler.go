package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the payloads of the scheduled jobs.
type Reporter interface {
	WeeklyDigest(ctx context.Context, now time.Time) (string, error)
	Snapshot(ctx context.Context, now time.Time) (models.DashboardSnapshot, error)
}

// SnapshotStore archives dashboard snapshots.
type SnapshotStore interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// Messenger delivers text messages.
type Messenger interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Jobs configures the scheduler. An empty schedule, or a missing sink,
// disables the matching job.
type Jobs struct {
	SnapshotSchedule string
	DigestSchedule   string
	DigestRecipient  string
	Location         *time.Location
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	jobs      Jobs
	reporter  Reporter
	snapshots SnapshotStore
	messenger Messenger
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. snapshots and messenger may be nil.
func NewScheduler(jobs Jobs, reporter Reporter, snapshots SnapshotStore, messenger Messenger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if jobs.Location == nil {
		jobs.Location = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(jobs.Location)),
		jobs:      jobs,
		reporter:  reporter,
		snapshots: snapshots,
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the enabled jobs and starts the cron loop. It returns the
// number of registered jobs.
func (s *Scheduler) Start() (int, error) {
	registered := 0

	if s.jobs.SnapshotSchedule != "" && s.snapshots != nil {
		if _, err := s.cron.AddFunc(s.jobs.SnapshotSchedule, s.runJob("snapshot", s.ArchiveSnapshot)); err != nil {
			return 0, fmt.Errorf("schedule snapshot %q: %w", s.jobs.SnapshotSchedule, err)
		}
		registered++
	}

	if s.jobs.DigestSchedule != "" && s.messenger != nil {
		if _, err := s.cron.AddFunc(s.jobs.DigestSchedule, s.runJob("digest", s.SendDigest)); err != nil {
			return 0, fmt.Errorf("schedule digest %q: %w", s.jobs.DigestSchedule, err)
		}
		registered++
	}

	s.logger.Info("starting scheduler", zap.Int("jobs", registered), zap.String("timezone", s.jobs.Location.String()))
	s.cron.Start()
	return registered, nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}

// ArchiveSnapshot folds the ledgers and stores the result.
func (s *Scheduler) ArchiveSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("snapshot store not configured")
	}
	snap, err := s.reporter.Snapshot(ctx, s.now())
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	if err := s.snapshots.SaveDashboardSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// SendDigest renders the weekly digest and sends it to the configured recipient.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	if s.messenger == nil {
		return fmt.Errorf("messenger not configured")
	}
	text, err := s.reporter.WeeklyDigest(ctx, s.now())
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	id, err := s.messenger.SendText(ctx, s.jobs.DigestRecipient, text)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	s.logger.Debug("digest delivered", zap.String("message_id", id))
	return nil
}
