package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job schedules
const (
	notificationCleanupSpec = "@every 1h"
	tokenCleanupSpec        = "@every 6h"
	jobTimeout              = 5 * time.Minute
)

// NotificationRepository defines methods for notification housekeeping
type NotificationRepository interface {
	// DeleteReadBefore deletes read notifications created before "cutoff" and returns how many were removed
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// TokenRepository defines methods for refresh token housekeeping
type TokenRepository interface {
	// DeleteExpired deletes refresh tokens that expired before "now" and returns how many were removed
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the periodic cleanup jobs
type Scheduler struct {
	cron             *cron.Cron
	logger           *zap.Logger
	notificationRepo NotificationRepository
	tokenRepo        TokenRepository
	retention        time.Duration
	now              func() time.Time
}

// NewScheduler creates a new scheduler instance.
// Read notifications older than "retention" are deleted.
func NewScheduler(logger *zap.Logger, notificationRepo NotificationRepository, tokenRepo TokenRepository, retention time.Duration) (*Scheduler, error) {
	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger:           logger,
		notificationRepo: notificationRepo,
		tokenRepo:        tokenRepo,
		retention:        retention,
		now:              time.Now,
	}

	if _, err := s.cron.AddFunc(notificationCleanupSpec, s.pruneNotifications); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(tokenCleanupSpec, s.deleteExpiredTokens); err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// pruneNotifications deletes read notifications older than the retention period
func (s *Scheduler) pruneNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	count, err := s.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to prune notifications", zap.Error(err))
		return
	}

	s.logger.Info("Pruned read notifications", zap.Int("count", count), zap.Time("cutoff", cutoff))
}

// deleteExpiredTokens deletes expired refresh tokens
func (s *Scheduler) deleteExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to delete expired tokens", zap.Error(err))
		return
	}

	s.logger.Info("Deleted expired refresh tokens", zap.Int("count", count))
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
