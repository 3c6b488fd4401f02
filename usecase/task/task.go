package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/query"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/state"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/usecase"
)

// Options tunes the task store.
type Options struct {
	// Latency is waited before every mutation is applied.
	Latency time.Duration
	NewID   func() string
}

// UseCase owns the task collection. Mutations are serialised and each one
// runs to completion before the next starts.
type UseCase struct {
	repo   repository.TaskSnapshots
	sched  scheduler.Scheduler
	logger *zap.Logger
	opts   Options

	opMu sync.Mutex
	// flushMu is held from snapshot capture until saved is updated.
	flushMu sync.Mutex

	mu        sync.RWMutex
	state     state.TaskState
	version   uint64
	saved     uint64
	listeners usecase.Listeners
}

func New(repo repository.TaskSnapshots, sched scheduler.Scheduler, logger *zap.Logger, opts Options) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &UseCase{
		repo:   repo,
		sched:  sched,
		logger: logger,
		opts:   opts,
		state:  state.TaskState{Tasks: []domain.Task{}},
	}
}

// Load replaces the collection with the stored snapshot. Persistence
// failures are logged and leave an empty collection.
func (uc *UseCase) Load(ctx context.Context) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	uc.dispatch(state.SetTaskLoading{Loading: true})
	tasks, err := uc.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load tasks", zap.Error(err))
		tasks = []domain.Task{}
	}
	uc.mu.Lock()
	uc.state = state.ReduceTasks(uc.state, state.SetTasks{Tasks: tasks})
	uc.saved = uc.version
	if err != nil {
		uc.state = state.ReduceTasks(uc.state, state.SetTaskError{Message: "Failed to load tasks"})
	}
	uc.mu.Unlock()
	uc.opMu.Unlock()

	log.Info("tasks loaded", zap.Int("count", len(tasks)))
	uc.listeners.Notify()
}

// Create validates input and appends a new task.
func (uc *UseCase) Create(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	now := uc.sched.Now()
	if err := domain.ValidateTaskInput(in, now); err != nil {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to create task", err)
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to create task", err)
	}

	now = uc.sched.Now()
	created := domain.Task{
		ID:          uc.opts.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		FolderID:    in.FolderID,
		Pinned:      in.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		created.DueDate = &due
	}
	if in.Tags != nil {
		created.Tags = append([]string{}, in.Tags...)
	}
	uc.commit(state.AddTask{Task: created})
	uc.opMu.Unlock()

	log.Info("task created", zap.String("task_id", created.ID))
	uc.afterMutation(ctx, log)
	return created.Clone(), nil
}

// Update shallow-merges patch onto the task with id.
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	if _, ok := uc.find(id); !ok {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to update task", domain.ErrTaskNotFound)
	}
	if err := domain.ValidateTaskPatch(patch, uc.sched.Now()); err != nil {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to update task", err)
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to update task", err)
	}

	current, ok := uc.find(id)
	if !ok {
		uc.opMu.Unlock()
		return domain.Task{}, uc.fail("Failed to update task", domain.ErrTaskNotFound)
	}
	updated := current.Apply(patch)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = uc.sched.Now()
	uc.commit(state.UpdateTask{Task: updated})
	uc.opMu.Unlock()

	log.Info("task updated", zap.String("task_id", id))
	uc.afterMutation(ctx, log)
	return updated.Clone(), nil
}

// Delete removes the task with id.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	if _, ok := uc.find(id); !ok {
		uc.opMu.Unlock()
		return uc.fail("Failed to delete task", domain.ErrTaskNotFound)
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return uc.fail("Failed to delete task", err)
	}
	uc.commit(state.DeleteTask{ID: id})
	uc.opMu.Unlock()

	log.Info("task deleted", zap.String("task_id", id))
	uc.afterMutation(ctx, log)
	return nil
}

// SetFilters replaces the active filters.
func (uc *UseCase) SetFilters(f domain.TaskFilters) {
	uc.dispatch(state.SetTaskFilters{Filters: f})
	uc.listeners.Notify()
}

func (uc *UseCase) Filters() domain.TaskFilters {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Filters
}

// State returns a snapshot of the slice.
func (uc *UseCase) State() state.TaskState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	s := uc.state
	s.Tasks = cloneAll(uc.state.Tasks)
	return s
}

// All returns every task in collection order.
func (uc *UseCase) All() []domain.Task {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return cloneAll(uc.state.Tasks)
}

func (uc *UseCase) Get(id string) (domain.Task, error) {
	t, ok := uc.find(id)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Filtered applies the active filters.
func (uc *UseCase) Filtered() []domain.Task {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return query.Tasks(cloneAll(uc.state.Tasks), uc.state.Filters)
}

func (uc *UseCase) ByFolder(folderID string) []domain.Task {
	return query.TasksByFolder(uc.All(), folderID)
}

// Board groups the tasks of folderID, or of every folder when empty.
func (uc *UseCase) Board(folderID string) []query.StatusColumn {
	tasks := uc.All()
	if folderID != "" {
		tasks = query.TasksByFolder(tasks, folderID)
	}
	return query.Board(tasks)
}

// Upcoming returns the first n open tasks.
func (uc *UseCase) Upcoming(n int) []domain.Task {
	return query.Upcoming(uc.All(), n)
}

// Subscribe registers fn to run after every completed change.
func (uc *UseCase) Subscribe(fn func()) (unsubscribe func()) {
	return uc.listeners.Add(fn)
}

// Dirty reports whether changes are waiting to be flushed.
func (uc *UseCase) Dirty() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.version != uc.saved
}

// Flush writes the collection when it has unsaved changes.
func (uc *UseCase) Flush(ctx context.Context) error {
	uc.flushMu.Lock()
	defer uc.flushMu.Unlock()

	uc.mu.RLock()
	if uc.version == uc.saved {
		uc.mu.RUnlock()
		return nil
	}
	version := uc.version
	snapshot := cloneAll(uc.state.Tasks)
	uc.mu.RUnlock()

	if err := uc.repo.Save(ctx, snapshot); err != nil {
		return err
	}

	uc.mu.Lock()
	uc.saved = version
	uc.mu.Unlock()
	return nil
}

func (uc *UseCase) begin(ctx context.Context) error {
	uc.dispatch(state.SetTaskLoading{Loading: true})
	return usecase.Wait(ctx, uc.sched, uc.opts.Latency)
}

func (uc *UseCase) commit(action state.TaskAction) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceTasks(uc.state, action)
	uc.state.Loading = false
	uc.state.Error = ""
	uc.version++
}

func (uc *UseCase) afterMutation(ctx context.Context, log *zap.Logger) {
	if err := uc.Flush(ctx); err != nil {
		log.Warn("task flush failed, will retry", zap.Error(err))
	}
	uc.listeners.Notify()
}

func (uc *UseCase) fail(msg string, err error) error {
	uc.dispatch(state.SetTaskError{Message: msg})
	uc.logger.Debug(msg, zap.Error(err))
	return err
}

func (uc *UseCase) dispatch(action state.TaskAction) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceTasks(uc.state, action)
}

func (uc *UseCase) find(id string) (domain.Task, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return state.FindTask(uc.state.Tasks, id)
}

func cloneAll(in []domain.Task) []domain.Task {
	out := make([]domain.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
