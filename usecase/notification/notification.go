package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/notify"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/state"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/usecase"
)

const defaultToastDuration = 5 * time.Second

type Options struct {
	ToastDuration time.Duration
	// Settings replaces the default preferences when set.
	Settings *domain.NotificationSettings
	// Seed is the initial inbox, newest first.
	Seed  []domain.Notification
	NewID func() string
}

// UseCase owns the in-memory inbox, the toast queue and the notification
// preferences.
type UseCase struct {
	tasks  usecase.TaskSource
	sched  scheduler.Scheduler
	logger *zap.Logger
	opts   Options

	mu        sync.Mutex
	state     state.NotificationState
	timers    map[string]scheduler.Cancel
	listeners usecase.Listeners
}

func New(tasks usecase.TaskSource, sched scheduler.Scheduler, logger *zap.Logger, opts Options) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = defaultToastDuration
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	settings := domain.DefaultNotificationSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	uc := &UseCase{
		tasks:  tasks,
		sched:  sched,
		logger: logger,
		opts:   opts,
		timers: make(map[string]scheduler.Cancel),
	}
	uc.state = state.ReduceNotifications(state.NotificationState{Settings: settings},
		state.SetNotifications{Notifications: opts.Seed})
	return uc
}

// Check scans the current tasks and prepends the notifications that are
// due. The scan and the append happen under one lock so concurrent checks
// cannot emit the same (type, task) pair twice.
func (uc *UseCase) Check(ctx context.Context) []domain.Notification {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	tasks := uc.tasks.All()

	uc.mu.Lock()
	created := notify.Scan(tasks, uc.state.Notifications, uc.state.Settings, uc.sched.Now(), uc.opts.NewID)
	uc.state = state.ReduceNotifications(uc.state, state.AddNotifications{Notifications: created})
	uc.mu.Unlock()

	for _, n := range created {
		log.Info("notification emitted",
			zap.String("notification_id", n.ID),
			zap.String("type", string(n.Type)),
			zap.String("task_id", n.TaskID()),
		)
	}
	if len(created) > 0 {
		uc.listeners.Notify()
	}
	return created
}

// Notifications returns the inbox, newest first.
func (uc *UseCase) Notifications() []domain.Notification {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]domain.Notification{}, uc.state.Notifications...)
}

func (uc *UseCase) UnreadCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state.UnreadCount
}

func (uc *UseCase) MarkAsRead(id string) {
	uc.reduce(state.MarkAsRead{ID: id})
}

func (uc *UseCase) MarkAllAsRead() {
	uc.reduce(state.MarkAllAsRead{})
}

// Delete removes a notification. A later scan may emit it again while its
// trigger condition still holds.
func (uc *UseCase) Delete(id string) {
	uc.reduce(state.DeleteNotification{ID: id})
}

func (uc *UseCase) UpdateSettings(patch domain.SettingsPatch) domain.NotificationSettings {
	uc.reduce(state.UpdateSettings{Patch: patch})
	return uc.Settings()
}

func (uc *UseCase) Settings() domain.NotificationSettings {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state.Settings
}

// ShowToast queues toast and schedules its dismissal. It returns the id
// assigned to the toast.
func (uc *UseCase) ShowToast(toast domain.Toast) string {
	if toast.ID == "" {
		toast.ID = uc.opts.NewID()
	}
	if toast.Duration <= 0 {
		toast.Duration = uc.opts.ToastDuration
	}
	id := toast.ID

	uc.mu.Lock()
	uc.state = state.ReduceNotifications(uc.state, state.AddToast{Toast: toast})
	uc.timers[id] = uc.sched.After(toast.Duration, func() { uc.DismissToast(id) })
	uc.mu.Unlock()

	uc.listeners.Notify()
	return id
}

func (uc *UseCase) DismissToast(id string) {
	uc.mu.Lock()
	if cancel, ok := uc.timers[id]; ok {
		cancel()
		delete(uc.timers, id)
	}
	uc.state = state.ReduceNotifications(uc.state, state.RemoveToast{ID: id})
	uc.mu.Unlock()

	uc.listeners.Notify()
}

func (uc *UseCase) Toasts() []domain.Toast {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]domain.Toast{}, uc.state.Toasts...)
}

func (uc *UseCase) State() state.NotificationState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.state
	s.Notifications = append([]domain.Notification{}, uc.state.Notifications...)
	s.Toasts = append([]domain.Toast{}, uc.state.Toasts...)
	return s
}

func (uc *UseCase) Subscribe(fn func()) func() {
	return uc.listeners.Add(fn)
}

// Close cancels every pending toast timer.
func (uc *UseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for id, cancel := range uc.timers {
		cancel()
		delete(uc.timers, id)
	}
}

func (uc *UseCase) reduce(action state.NotificationAction) {
	uc.mu.Lock()
	uc.state = state.ReduceNotifications(uc.state, action)
	uc.mu.Unlock()
	uc.listeners.Notify()
}
