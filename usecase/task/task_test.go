package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/infrastructure/kv"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/repository/kvstore"
)

var start = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu    sync.Mutex
	tasks []domain.Task
	fail  bool
	saves int
}

func (r *fakeRepo) Load(context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return []domain.Task{}, domain.WrapError(domain.ErrCodePersistence, "Failed to load tasks", errors.New("boom"))
	}
	return append([]domain.Task{}, r.tasks...), nil
}

func (r *fakeRepo) Save(_ context.Context, tasks []domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return domain.WrapError(domain.ErrCodePersistence, "Failed to save tasks", errors.New("boom"))
	}
	r.saves++
	r.tasks = append([]domain.Task{}, tasks...)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newUseCase(t *testing.T, repo *fakeRepo) (*UseCase, *scheduler.Manual) {
	t.Helper()
	sched := scheduler.NewManual(start)
	return New(repo, sched, nil, Options{NewID: sequentialIDs()}), sched
}

func input(title string) domain.TaskInput {
	return domain.TaskInput{
		Title:    title,
		Status:   domain.StatusTodo,
		Priority: domain.PriorityMedium,
		FolderID: "f1",
	}
}

func TestCreateAppendsAndPersists(t *testing.T) {
	repo := &fakeRepo{}
	uc, _ := newUseCase(t, repo)
	ctx := context.Background()

	first, err := uc.Create(ctx, input("Anatomy"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Create(ctx, input("Physiology")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.ID != "t1" || !first.CreatedAt.Equal(start) || !first.UpdatedAt.Equal(start) {
		t.Fatalf("unexpected created task: %+v", first)
	}
	all := uc.All()
	if len(all) != 2 || all[0].Title != "Anatomy" || all[1].Title != "Physiology" {
		t.Fatalf("expected tasks in creation order, got %+v", all)
	}
	if uc.Dirty() {
		t.Fatalf("successful save must leave the store clean")
	}
	if len(repo.tasks) != 2 {
		t.Fatalf("expected repository to hold 2 tasks, got %d", len(repo.tasks))
	}
}

func TestCreateValidation(t *testing.T) {
	uc, _ := newUseCase(t, &fakeRepo{})
	past := start.Add(-time.Hour)
	in := domain.TaskInput{Title: "  ", DueDate: &past}

	_, err := uc.Create(context.Background(), in)
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Code != domain.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"title", "folderId", "dueDate"} {
		if derr.Fields[field] == "" {
			t.Fatalf("expected message for %s, got %v", field, derr.Fields)
		}
	}
	if len(uc.All()) != 0 {
		t.Fatalf("invalid input must not create a task")
	}
	if uc.State().Error != "Failed to create task" {
		t.Fatalf("expected error in state, got %q", uc.State().Error)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	uc, sched := newUseCase(t, &fakeRepo{})
	ctx := context.Background()
	in := input("Anatomy")
	in.Description = "chapter 3"
	in.Tags = []string{"exam"}
	created, _ := uc.Create(ctx, in)

	sched.Advance(time.Minute)
	status := domain.StatusCompleted
	updated, err := uc.Update(ctx, created.ID, domain.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusCompleted || updated.Description != "chapter 3" || updated.Tags[0] != "exam" {
		t.Fatalf("omitted fields must survive: %+v", updated)
	}
	if !updated.CreatedAt.Equal(start) || !updated.UpdatedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}
}

func TestUpdateAndDeleteUnknown(t *testing.T) {
	uc, _ := newUseCase(t, &fakeRepo{})
	ctx := context.Background()
	title := "x"
	if _, err := uc.Update(ctx, "missing", domain.TaskPatch{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := uc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if uc.State().Error != "Failed to delete task" {
		t.Fatalf("expected delete error in state, got %q", uc.State().Error)
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	repo := &fakeRepo{}
	uc, _ := newUseCase(t, repo)
	ctx := context.Background()
	a, _ := uc.Create(ctx, input("a"))
	b, _ := uc.Create(ctx, input("b"))

	if err := uc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all := uc.All()
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("unexpected tasks after delete: %+v", all)
	}
	if _, err := uc.Get(a.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("deleted task must not be found")
	}
}

func TestLoadFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	repo := &fakeRepo{fail: true, tasks: []domain.Task{{ID: "old"}}}
	uc := New(repo, scheduler.NewManual(start), zap.New(core), Options{})

	uc.Load(context.Background())

	if len(uc.All()) != 0 {
		t.Fatalf("expected empty collection after failed load")
	}
	if logs.FilterMessage("failed to load tasks").Len() != 1 {
		t.Fatalf("expected load failure to be logged")
	}
}

func TestSaveFailureKeepsChangesDirty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &fakeRepo{fail: true}
	uc := New(repo, scheduler.NewManual(start), zap.New(core), Options{NewID: sequentialIDs()})
	ctx := context.Background()

	if _, err := uc.Create(ctx, input("a")); err != nil {
		t.Fatalf("create must succeed in memory: %v", err)
	}
	if !uc.Dirty() {
		t.Fatalf("failed save must leave changes dirty")
	}
	if logs.FilterMessage("task flush failed, will retry").Len() != 1 {
		t.Fatalf("expected flush failure to be logged")
	}

	repo.mu.Lock()
	repo.fail = false
	repo.mu.Unlock()
	if err := uc.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if uc.Dirty() || len(repo.tasks) != 1 {
		t.Fatalf("expected retry flush to persist the task")
	}
}

func TestLoadFromKVStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := kvstore.NewTaskSnapshots(store, "coursology-tasks", nil)
	sched := scheduler.NewManual(start)

	writer := New(repo, sched, nil, Options{NewID: sequentialIDs()})
	if _, err := writer.Create(ctx, input("persisted")); err != nil {
		t.Fatalf("create: %v", err)
	}

	reader := New(repo, sched, nil, Options{})
	reader.Load(ctx)
	all := reader.All()
	if len(all) != 1 || all[0].Title != "persisted" || all[0].FolderID != "f1" {
		t.Fatalf("unexpected loaded tasks: %+v", all)
	}
}

func TestLatencyHonoursContext(t *testing.T) {
	sched := scheduler.NewManual(start)
	uc := New(&fakeRepo{}, sched, nil, Options{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.Create(ctx, input("late")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if len(uc.All()) != 0 {
		t.Fatalf("aborted mutation must not be applied")
	}
	if sched.Pending() != 0 {
		t.Fatalf("aborted wait must not leave a timer behind")
	}
}

func TestLatencyWaitsOnScheduler(t *testing.T) {
	sched := scheduler.NewManual(start)
	uc := New(&fakeRepo{}, sched, nil, Options{Latency: 50 * time.Millisecond, NewID: sequentialIDs()})

	done := make(chan error, 1)
	go func() {
		_, err := uc.Create(context.Background(), input("slow"))
		done <- err
	}()

	deadline := time.After(2 * time.Second)
	for sched.Pending() == 0 {
		select {
		case <-deadline:
			t.Fatalf("create never started waiting")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if !uc.State().Loading {
		t.Fatalf("expected loading while waiting")
	}
	sched.Advance(50 * time.Millisecond)

	if err := <-done; err != nil {
		t.Fatalf("create: %v", err)
	}
	if uc.State().Loading || len(uc.All()) != 1 {
		t.Fatalf("unexpected state after wait: %+v", uc.State())
	}
}

func TestQueriesAndSubscribe(t *testing.T) {
	uc, _ := newUseCase(t, &fakeRepo{})
	ctx := context.Background()
	calls := 0
	unsubscribe := uc.Subscribe(func() { calls++ })

	a := input("Lab report")
	a.FolderID = "f2"
	uc.Create(ctx, a)
	uc.Create(ctx, input("Reading"))

	uc.SetFilters(domain.TaskFilters{Search: "lab"})
	if got := uc.Filtered(); len(got) != 1 || got[0].Title != "Lab report" {
		t.Fatalf("unexpected filtered tasks: %+v", got)
	}
	if got := uc.ByFolder("f1"); len(got) != 1 || got[0].Title != "Reading" {
		t.Fatalf("unexpected folder tasks: %+v", got)
	}
	board := uc.Board("f2")
	if len(board) != 4 || len(board[0].Tasks) != 1 {
		t.Fatalf("unexpected board: %+v", board)
	}
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}

	unsubscribe()
	uc.SetFilters(domain.TaskFilters{})
	if calls != 3 {
		t.Fatalf("unsubscribed listener must not be called")
	}
}

// gatedRepo blocks the first Save until gate is closed.
type gatedRepo struct {
	fakeRepo
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{entered: make(chan struct{}), gate: make(chan struct{})}
}

func (r *gatedRepo) Save(ctx context.Context, tasks []domain.Task) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.gate
	}
	return r.fakeRepo.Save(ctx, tasks)
}

func (r *gatedRepo) stored() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func TestOverlappingFlushesKeepNewestSnapshot(t *testing.T) {
	repo := newGatedRepo()
	uc := New(repo, scheduler.NewManual(start), nil, Options{NewID: sequentialIDs()})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		uc.Create(ctx, input("first"))
	}()
	<-repo.entered

	go func() {
		defer wg.Done()
		uc.Create(ctx, input("second"))
	}()
	deadline := time.Now().Add(2 * time.Second)
	for len(uc.All()) != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("second task was never applied")
		}
		time.Sleep(time.Millisecond)
	}
	close(repo.gate)
	wg.Wait()

	if got := repo.stored(); got != 2 {
		t.Fatalf("expected stored snapshot with 2 tasks, got %d", got)
	}
	if uc.Dirty() {
		t.Fatalf("store must be clean once the newest snapshot is written")
	}
}
