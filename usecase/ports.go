package usecase

import (
	"context"
	"time"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/scheduler"
)

// TaskSource is the read side of the task store consumed by derived views.
type TaskSource interface {
	All() []domain.Task
	Subscribe(fn func()) func()
}

// FolderSource is the read side of the folder store.
type FolderSource interface {
	All() []domain.Folder
	Get(id string) (domain.Folder, error)
}

// Wait blocks for d on sched or until ctx is done.
func Wait(ctx context.Context, sched scheduler.Scheduler, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	done := make(chan struct{})
	cancel := sched.After(d, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}
