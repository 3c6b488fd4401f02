package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron is the production scheduler backed by robfig/cron.
type Cron struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu     sync.Mutex
	seq    int
	timers map[int]*time.Timer
	wg     sync.WaitGroup
}

// NewCron creates a scheduler with second precision.
func NewCron(logger *zap.Logger) *Cron {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cron{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
		timers: make(map[int]*time.Timer),
	}
}

func (c *Cron) Now() time.Time {
	return time.Now()
}

// Every registers job on an "@every" schedule.
func (c *Cron) Every(name string, interval time.Duration, job func()) (Cancel, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: job %s: interval must be positive", name)
	}
	schedule := fmt.Sprintf("@every %s", interval)
	id, err := c.cron.AddFunc(schedule, job)
	if err != nil {
		return nil, fmt.Errorf("scheduler: job %s: %w", name, err)
	}
	c.logger.Debug("job scheduled", zap.String("job", name), zap.Duration("interval", interval))

	var once sync.Once
	return func() {
		once.Do(func() { c.cron.Remove(id) })
	}, nil
}

// After runs job once on its own goroutine.
func (c *Cron) After(d time.Duration, job func()) Cancel {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.wg.Add(1)
	c.timers[id] = time.AfterFunc(d, func() {
		defer c.wg.Done()
		if !c.release(id) {
			return
		}
		job()
	})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		t, ok := c.timers[id]
		delete(c.timers, id)
		c.mu.Unlock()
		if ok && t.Stop() {
			c.wg.Done()
		}
	}
}

// release removes the timer and reports whether it was still pending.
func (c *Cron) release(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.timers[id]; !ok {
		return false
	}
	delete(c.timers, id)
	return true
}

// Start launches the cron loop.
func (c *Cron) Start() {
	c.cron.Start()
	c.logger.Info("scheduler started")
}

// Stop halts the cron loop and pending timers.
func (c *Cron) Stop(ctx context.Context) {
	c.mu.Lock()
	for id, t := range c.timers {
		if t.Stop() {
			c.wg.Done()
		}
		delete(c.timers, id)
	}
	c.mu.Unlock()

	stopCtx := c.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-stopCtx.Done()
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	c.logger.Info("scheduler stopped")
}
