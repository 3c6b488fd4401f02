package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/seed"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type taskList struct {
	mu    sync.Mutex
	tasks []domain.Task
}

func (l *taskList) All() []domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Task{}, l.tasks...)
}

func (l *taskList) Subscribe(func()) func() { return func() {} }

func counter() func() string {
	n := 0
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func dueIn(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestCheckEmitsOncePerTask(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tasks := &taskList{tasks: []domain.Task{
		{ID: "1", Title: "Report", Status: domain.StatusTodo, Priority: domain.PriorityHigh, DueDate: dueIn(30 * time.Minute)},
		{ID: "2", Title: "Old", Status: domain.StatusTodo, DueDate: dueIn(-time.Hour)},
		{ID: "3", Title: "Done", Status: domain.StatusCompleted, DueDate: dueIn(-time.Hour)},
	}}
	uc := New(tasks, scheduler.NewManual(now), zap.New(core), Options{NewID: counter()})

	created := uc.Check(context.Background())
	if len(created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(created))
	}
	if again := uc.Check(context.Background()); len(again) != 0 {
		t.Fatalf("re-scan must not duplicate, got %+v", again)
	}

	inbox := uc.Notifications()
	if len(inbox) != 2 || uc.UnreadCount() != 2 {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
	due := inbox[1]
	if due.Type != domain.NotificationTaskDue || due.Message != `Your task "Report" is due in 1 hour` {
		t.Fatalf("unexpected due-soon notification: %+v", due)
	}
	if inbox[0].Type != domain.NotificationTaskOverdue || inbox[0].TaskID() != "2" {
		t.Fatalf("expected overdue notification newest first: %+v", inbox[0])
	}
	if logs.FilterMessage("notification emitted").Len() != 2 {
		t.Fatalf("expected emitted notifications to be logged")
	}
}

func TestConcurrentChecksDoNotDuplicate(t *testing.T) {
	tasks := &taskList{tasks: []domain.Task{
		{ID: "1", Title: "Report", Status: domain.StatusTodo, DueDate: dueIn(2 * time.Hour)},
	}}
	uc := New(tasks, scheduler.NewManual(now), nil, Options{NewID: counter()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.Check(context.Background())
		}()
	}
	wg.Wait()
	if got := len(uc.Notifications()); got != 1 {
		t.Fatalf("expected exactly one notification, got %d", got)
	}
}

func TestDeleteAllowsReemission(t *testing.T) {
	tasks := &taskList{tasks: []domain.Task{
		{ID: "1", Title: "Old", Status: domain.StatusTodo, DueDate: dueIn(-time.Hour)},
	}}
	uc := New(tasks, scheduler.NewManual(now), nil, Options{NewID: counter()})

	first := uc.Check(context.Background())
	uc.Delete(first[0].ID)
	if len(uc.Notifications()) != 0 {
		t.Fatalf("expected empty inbox after delete")
	}
	if again := uc.Check(context.Background()); len(again) != 1 {
		t.Fatalf("expected re-emission after delete, got %d", len(again))
	}
}

func TestSettingsDisableScan(t *testing.T) {
	tasks := &taskList{tasks: []domain.Task{
		{ID: "1", Title: "Old", Status: domain.StatusTodo, DueDate: dueIn(-time.Hour)},
		{ID: "2", Title: "Soon", Status: domain.StatusTodo, DueDate: dueIn(3 * time.Hour)},
	}}
	uc := New(tasks, scheduler.NewManual(now), nil, Options{NewID: counter()})
	off := false
	hours := 2
	settings := uc.UpdateSettings(domain.SettingsPatch{OverdueAlerts: &off, ReminderTime: &hours})
	if settings.OverdueAlerts || settings.ReminderTime != 2 || !settings.TaskReminders {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if got := uc.Check(context.Background()); len(got) != 0 {
		t.Fatalf("task outside the reminder window and disabled overdue must not emit, got %+v", got)
	}
}

func TestSeedAndReadState(t *testing.T) {
	seeded, err := seed.Notifications(now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	uc := New(&taskList{}, scheduler.NewManual(now), nil, Options{Seed: seeded})
	if uc.UnreadCount() != 3 {
		t.Fatalf("expected 3 unread seeds, got %d", uc.UnreadCount())
	}

	uc.MarkAsRead(seeded[0].ID)
	if uc.UnreadCount() != 2 {
		t.Fatalf("expected 2 unread after mark, got %d", uc.UnreadCount())
	}
	uc.MarkAllAsRead()
	if uc.UnreadCount() != 0 || len(uc.Notifications()) != 5 {
		t.Fatalf("unexpected state after mark all: %+v", uc.State())
	}
}

func TestToastAutoDismiss(t *testing.T) {
	sched := scheduler.NewManual(now)
	uc := New(&taskList{}, sched, nil, Options{NewID: counter()})

	short := uc.ShowToast(domain.Toast{Type: domain.ToastSuccess, Title: "Saved", Duration: time.Second})
	long := uc.ShowToast(domain.Toast{Type: domain.ToastInfo, Title: "Hello"})
	if len(uc.Toasts()) != 2 {
		t.Fatalf("expected 2 toasts")
	}

	sched.Advance(time.Second)
	toasts := uc.Toasts()
	if len(toasts) != 1 || toasts[0].ID != long || toasts[0].Duration != 5*time.Second {
		t.Fatalf("expected only the default-duration toast, got %+v", toasts)
	}

	uc.DismissToast(long)
	if len(uc.Toasts()) != 0 || sched.Pending() != 0 {
		t.Fatalf("manual dismiss must cancel the timer")
	}
	uc.DismissToast(short)
}

func TestCloseCancelsTimers(t *testing.T) {
	sched := scheduler.NewManual(now)
	uc := New(&taskList{}, sched, nil, Options{})
	uc.ShowToast(domain.Toast{Title: "a"})
	uc.ShowToast(domain.Toast{Title: "b"})

	uc.Close()
	if sched.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", sched.Pending())
	}
	sched.Advance(time.Minute)
	if len(uc.Toasts()) != 2 {
		t.Fatalf("toasts stay until dismissed once timers are cancelled")
	}
}
