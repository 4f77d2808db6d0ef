package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/logging"
)

const jobTimeout = 5 * time.Minute

// Job is the work triggered on every tick of a schedule.
type Job func(ctx context.Context) error

// AuditCleanupScheduler periodically triggers removal of expired audit events.
type AuditCleanupScheduler struct {
	schedule string
	job      Job
	logger   logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isCleaning atomic.Bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a scheduler that runs job on schedule.
func NewAuditCleanupScheduler(schedule string, job Job, logger logrus.FieldLogger) *AuditCleanupScheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuditCleanupScheduler{
		schedule: schedule,
		job:      job,
		logger:   logger.WithField("module", "audit_cleanup_scheduler"),
	}
}

// Start registers the cleanup job and starts the cron loop. The scheduler
// stops on its own when ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.cron = cron.New(cron.WithParser(parser))
	entryID, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	s.logger.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"next_run": nextRun,
	}).Info("Audit cleanup scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()

	s.isRunning = false
	s.cancelFunc()
	s.cancelFunc = nil

	s.logger.Info("Audit cleanup scheduler stopped")
}

// RunNow triggers a cleanup outside the schedule.
func (s *AuditCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur, or nil when the
// scheduler is stopped.
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditCleanupScheduler) runCleanup() {
	if !s.isCleaning.CompareAndSwap(false, true) {
		s.logger.Info("Audit cleanup skipped (already running)")
		return
	}
	defer s.isCleaning.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		logging.LogError(s.logger, "scheduler", "runCleanup", nil, err)
		return
	}
	s.logger.WithField("duration", time.Since(start)).Debug("Audit cleanup triggered")
}
