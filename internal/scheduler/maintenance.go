// Package scheduler runs periodic catalog maintenance by enqueuing
// background tasks on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Enqueuer hands maintenance work over to the task queue.
type Enqueuer interface {
	EnqueueAuthorCleanup(ctx context.Context) (string, error)
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
}

// Config selects the jobs to schedule. An empty schedule disables its job.
type Config struct {
	AuthorCleanupSchedule string
	AuditCleanupSchedule  string
	AuditRetentionDays    int
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// MaintenanceScheduler manages periodic orphan-author and audit cleanups.
type MaintenanceScheduler struct {
	enqueuer Enqueuer
	config   Config

	cron      *cron.Cron
	entries   map[string]cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(enqueuer Enqueuer, cfg Config) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer: enqueuer,
		config:   cfg,
		cron:     cron.New(cron.WithParser(parser)),
		entries:  make(map[string]cron.EntryID),
	}
}

// Start registers the configured jobs and starts the cron loop. The
// scheduler stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := map[string]struct {
		schedule string
		run      func(context.Context) error
	}{
		"author_cleanup": {s.config.AuthorCleanupSchedule, s.enqueueAuthorCleanup},
		"audit_cleanup":  {s.config.AuditCleanupSchedule, s.enqueueAuditCleanup},
	}

	for name, job := range jobs {
		if job.schedule == "" {
			log.Info().Str("job", name).Msg("Maintenance job disabled")
			continue
		}
		if err := ValidateSchedule(job.schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.schedule, name, err)
		}

		run := job.run
		jobName := name
		entryID, err := s.cron.AddFunc(job.schedule, func() {
			if err := run(ctx); err != nil {
				log.Error().Err(err).Str("job", jobName).Msg("Failed to enqueue maintenance job")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		s.entries[name] = entryID
		log.Info().Str("job", name).Str("schedule", job.schedule).Msg("Maintenance job scheduled")
	}

	if len(s.entries) == 0 {
		return nil
	}

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Info().Msg("Maintenance scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the named job runs next, or nil when it is not
// scheduled.
func (s *MaintenanceScheduler) NextRunTime(job string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[job]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

func (s *MaintenanceScheduler) enqueueAuthorCleanup(ctx context.Context) error {
	_, err := s.enqueuer.EnqueueAuthorCleanup(ctx)
	return err
}

func (s *MaintenanceScheduler) enqueueAuditCleanup(ctx context.Context) error {
	if s.config.AuditRetentionDays <= 0 {
		return nil
	}
	_, err := s.enqueuer.EnqueueAuditCleanup(ctx, s.config.AuditRetentionDays)
	return err
}
