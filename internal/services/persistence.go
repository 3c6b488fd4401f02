package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/scheduler"
)

// Flusher is a collection that buffers changes in memory.
type Flusher interface {
	Dirty() bool
	Flush(ctx context.Context) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Collection names a Flusher for logging.
type Collection struct {
	Name    string
	Flusher Flusher
}

type SyncConfig struct {
	Interval time.Duration
	// WarnAfter is the number of consecutive failures after which a
	// collection is reported at error level.
	WarnAfter int
}

// PersistenceSync retries the flush of collections whose last write failed.
type PersistenceSync struct {
	collections []Collection
	health      HealthChecker
	sched       scheduler.Scheduler
	logger      *zap.Logger
	cfg         SyncConfig

	mu       sync.Mutex
	failures map[string]int
	cancel   scheduler.Cancel
}

func NewPersistenceSync(collections []Collection, health HealthChecker, sched scheduler.Scheduler, logger *zap.Logger, cfg SyncConfig) *PersistenceSync {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.WarnAfter <= 0 {
		cfg.WarnAfter = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceSync{
		collections: collections,
		health:      health,
		sched:       sched,
		logger:      logger,
		cfg:         cfg,
		failures:    make(map[string]int),
	}
}

// Start schedules the periodic sync.
func (p *PersistenceSync) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}
	cancel, err := p.sched.Every("persistence-sync", p.cfg.Interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Interval)
		defer cancel()
		if err := p.Sync(ctx); err != nil {
			p.logger.Debug("persistence sync incomplete", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	p.cancel = cancel
	p.logger.Info("persistence sync started", zap.Duration("interval", p.cfg.Interval))
	return nil
}

// Sync flushes every dirty collection. It does nothing while the store
// is unreachable.
func (p *PersistenceSync) Sync(ctx context.Context) error {
	if p.health != nil {
		if err := p.health.Ping(ctx); err != nil {
			p.logger.Debug("skipping persistence sync (store unreachable)", zap.Error(err))
			return err
		}
	}

	var result error
	for _, c := range p.collections {
		if !c.Flusher.Dirty() {
			continue
		}
		if err := c.Flusher.Flush(ctx); err != nil {
			result = errors.Join(result, err)
			p.recordFailure(c.Name, err)
			continue
		}
		p.recordSuccess(c.Name)
	}
	return result
}

// FlushAll flushes every collection regardless of store health.
func (p *PersistenceSync) FlushAll(ctx context.Context) error {
	var result error
	for _, c := range p.collections {
		if err := c.Flusher.Flush(ctx); err != nil {
			p.logger.Error("final flush failed", zap.String("collection", c.Name), zap.Error(err))
			result = errors.Join(result, err)
		}
	}
	return result
}

// Failures returns the consecutive failure count of a collection.
func (p *PersistenceSync) Failures(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures[name]
}

func (p *PersistenceSync) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.logger.Info("persistence sync stopped")
}

func (p *PersistenceSync) recordFailure(name string, err error) {
	p.mu.Lock()
	p.failures[name]++
	n := p.failures[name]
	p.mu.Unlock()

	if n >= p.cfg.WarnAfter {
		p.logger.Error("collection still not persisted", zap.String("collection", name), zap.Int("attempts", n), zap.Error(err))
		return
	}
	p.logger.Warn("collection flush failed", zap.String("collection", name), zap.Int("attempts", n), zap.Error(err))
}

func (p *PersistenceSync) recordSuccess(name string) {
	p.mu.Lock()
	n := p.failures[name]
	delete(p.failures, name)
	p.mu.Unlock()

	if n > 0 {
		p.logger.Info("collection persisted after retry", zap.String("collection", name), zap.Int("attempts", n+1))
	}
}
