// Package workspace composes the per-collection use cases into the running
// application: it loads state, keeps folder task counts in sync with the
// task collection and owns the background jobs.
package workspace

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/routing"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/services"
	"github.com/fastygo/planner/usecase/blog"
	"github.com/fastygo/planner/usecase/calendar"
	"github.com/fastygo/planner/usecase/folder"
	"github.com/fastygo/planner/usecase/notification"
	"github.com/fastygo/planner/usecase/task"
)

type Deps struct {
	Tasks         *task.UseCase
	Folders       *folder.UseCase
	Calendar      *calendar.UseCase
	Notifications *notification.UseCase
	Blog          *blog.UseCase

	Scanner   *services.NotificationScanner
	Sync      *services.PersistenceSync
	Scheduler scheduler.Scheduler
	Location  *time.Location
	Logger    *zap.Logger
}

type UseCase struct {
	Deps

	refreshing atomic.Bool
	pending    atomic.Bool

	mu      sync.Mutex
	started bool
	unsub   []func()
}

func New(deps Deps) *UseCase {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &UseCase{Deps: deps}
}

// Load restores folders and tasks and recomputes the cached task counts.
func (w *UseCase) Load(ctx context.Context) {
	w.Folders.Load(ctx)
	w.Tasks.Load(ctx)
	w.RefreshFolderTaskCounts()
}

// Start wires task changes to the folder counts and starts the jobs.
func (w *UseCase) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	w.started = true

	w.unsub = append(w.unsub, w.Tasks.Subscribe(func() { w.RefreshFolderTaskCounts() }))
	w.Scheduler.Start()
	if w.Scanner != nil {
		if err := w.Scanner.Start(ctx); err != nil {
			return err
		}
	}
	if w.Sync != nil {
		if err := w.Sync.Start(); err != nil {
			return err
		}
	}
	w.Logger.Info("workspace started")
	return nil
}

// RefreshFolderTaskCounts recomputes every folder's task count from the
// task collection, writing only the folders whose count changed. Calls
// made while a refresh is running are folded into it. It returns the
// number of folders updated.
func (w *UseCase) RefreshFolderTaskCounts() int {
	w.pending.Store(true)
	changed := 0
	for {
		if !w.refreshing.CompareAndSwap(false, true) {
			return changed
		}
		for w.pending.Swap(false) {
			changed += w.refreshOnce()
		}
		w.refreshing.Store(false)
		if !w.pending.Load() {
			return changed
		}
	}
}

func (w *UseCase) refreshOnce() int {
	counts := make(map[string]int)
	for _, t := range w.Tasks.All() {
		if t.FolderID != "" {
			counts[t.FolderID]++
		}
	}
	changed := 0
	for _, f := range w.Folders.All() {
		if f.TaskCount != counts[f.ID] && w.Folders.UpdateTaskCount(f.ID, counts[f.ID]) {
			changed++
		}
	}
	if changed > 0 {
		w.Logger.Debug("folder task counts refreshed", zap.Int("changed", changed))
		if err := w.Folders.Flush(context.Background()); err != nil {
			w.Logger.Warn("folder count flush failed, will retry", zap.Error(err))
		}
	}
	return changed
}

// ApplyRoute sets the initial filters of every view from a navigation
// location such as "/tasks?folder=3".
func (w *UseCase) ApplyRoute(location string) routing.Params {
	p := routing.Parse(location)
	w.Tasks.SetFilters(p.TaskFilters())
	w.Blog.SetFilters(p.BlogFilters())
	w.Calendar.SetFilters(p.CalendarFilters())
	w.Calendar.SetView(p.CalendarView(w.Calendar.View(), w.Location))
	return p
}

// Close stops the jobs, performs a final flush and cancels toast timers.
func (w *UseCase) Close(ctx context.Context) error {
	w.mu.Lock()
	unsub := w.unsub
	w.unsub = nil
	wasStarted := w.started
	w.started = false
	w.mu.Unlock()

	if w.Scanner != nil {
		w.Scanner.Stop()
	}
	if w.Sync != nil {
		w.Sync.Stop()
	}
	for _, fn := range unsub {
		fn()
	}
	w.Notifications.Close()

	var result error
	if w.Sync != nil {
		result = w.Sync.FlushAll(ctx)
	} else {
		for _, c := range []services.Flusher{w.Folders, w.Tasks} {
			result = errors.Join(result, c.Flush(ctx))
		}
	}
	if wasStarted {
		w.Scheduler.Stop(ctx)
	}
	if result != nil {
		w.Logger.Error("final flush failed", zap.Error(result))
	}
	return result
}
