// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/pkg/locker"
)

// SyncLockKey serializes mirror syncs across instances and the CLI.
const SyncLockKey = "content:sync:lock"

// Syncer copies every upstream into the mirror.
type Syncer interface {
	SyncAll(ctx context.Context) []service.SyncResult
}

// SyncScheduler runs periodic mirror synchronization with distributed locking
// to ensure only one instance executes sync jobs at a time.
type SyncScheduler struct {
	syncer   Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SyncConfig holds sync scheduler configuration.
type SyncConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewSyncScheduler creates a new SyncScheduler with distributed locking support.
func NewSyncScheduler(
	syncer Syncer,
	cfg SyncConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *SyncScheduler {
	return &SyncScheduler{
		syncer:   syncer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background sync job.
func (s *SyncScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting sync scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler, canceling an in-flight sync.
// It is a no-op on a nil or unstarted scheduler.
func (s *SyncScheduler) Stop() {
	if s == nil || s.cancel == nil {
		return
	}

	s.logger.Info("stopping sync scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

// run is the main loop of the scheduler.
func (s *SyncScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeSync(s.ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeSync(s.ctx)
		}
	}
}

// executeSync performs a sync operation with distributed locking and timeout.
// It reports whether this instance ran the sync.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: Lock held for full interval to prevent duplicate syncs
//   - Failure: Lock released immediately to allow retry by another instance
func (s *SyncScheduler) executeSync(parent context.Context) bool {
	acquired, err := s.locker.Acquire(parent, SyncLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return false
	}
	if !acquired {
		s.logger.Debug("another instance is running sync, skipping execution")

		return false
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	results := s.syncer.SyncAll(ctx)

	totalSynced, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			s.logger.Warn("source sync failed",
				zap.String("source", r.Source),
				zap.Error(r.Error),
			)
		} else {
			totalSynced += r.Count
		}
	}

	if failed > 0 {
		if err := s.locker.Release(context.WithoutCancel(parent), SyncLockKey); err != nil {
			s.logger.Error("failed to release lock after sync error", zap.Error(err))
		}
		s.logger.Info("sync completed with errors, lock released for retry",
			zap.Int("total_synced", totalSynced),
			zap.Int("sources_failed", failed),
		)

		return true
	}

	// Lock will expire naturally after interval (cooldown period)
	s.logger.Info("sync completed successfully, lock held for cooldown",
		zap.Int("total_synced", totalSynced),
		zap.Duration("cooldown", s.interval),
	)

	return true
}
