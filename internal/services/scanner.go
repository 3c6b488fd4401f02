package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/pkg/logger"
)

// Checker runs one notification scan.
type Checker interface {
	Check(ctx context.Context) []domain.Notification
}

// ScannerConfig controls how often tasks are scanned.
type ScannerConfig struct {
	Interval time.Duration
	// Timeout bounds a single scan. Defaults to Interval.
	Timeout time.Duration
}

// NotificationScanner triggers notification scans on a schedule. Triggers
// that arrive while a scan is running share its result.
type NotificationScanner struct {
	checker Checker
	sched   scheduler.Scheduler
	logger  *zap.Logger
	cfg     ScannerConfig

	group singleflight.Group

	mu     sync.Mutex
	cancel scheduler.Cancel
}

func NewNotificationScanner(checker Checker, sched scheduler.Scheduler, logger *zap.Logger, cfg ScannerConfig) *NotificationScanner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationScanner{
		checker: checker,
		sched:   sched,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start runs one scan immediately and then schedules the periodic job.
func (s *NotificationScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	s.Trigger(ctx)
	cancel, err := s.sched.Every("notification-scan", s.cfg.Interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		s.Trigger(ctx)
	})
	if err != nil {
		return err
	}
	s.cancel = cancel
	s.logger.Info("notification scanner started", zap.Duration("interval", s.cfg.Interval))
	return nil
}

// Trigger runs a scan now and returns the notifications it emitted.
func (s *NotificationScanner) Trigger(ctx context.Context) []domain.Notification {
	ctx = logger.EnsureOperationID(ctx)
	v, _, shared := s.group.Do("scan", func() (interface{}, error) {
		return s.checker.Check(ctx), nil
	})
	created, _ := v.([]domain.Notification)
	if len(created) > 0 && !shared {
		logger.WithOperationID(ctx, s.logger).Debug("notification scan finished", zap.Int("emitted", len(created)))
	}
	return created
}

// Stop cancels the periodic job.
func (s *NotificationScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.logger.Info("notification scanner stopped")
}
