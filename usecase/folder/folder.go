package folder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/hierarchy"
	"github.com/fastygo/planner/internal/query"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/state"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/usecase"
)

type Options struct {
	Latency time.Duration
	NewID   func() string
}

// DeleteResult describes what a cascading delete removed.
type DeleteResult struct {
	Removed       []string
	AffectedTasks int
}

type UseCase struct {
	repo   repository.FolderSnapshots
	sched  scheduler.Scheduler
	logger *zap.Logger
	opts   Options

	opMu sync.Mutex
	// flushMu is held from snapshot capture until saved is updated.
	flushMu sync.Mutex

	mu        sync.RWMutex
	state     state.FolderState
	version   uint64
	saved     uint64
	listeners usecase.Listeners
}

func New(repo repository.FolderSnapshots, sched scheduler.Scheduler, logger *zap.Logger, opts Options) *UseCase {
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
		state: state.FolderState{
			Folders:  []domain.Folder{},
			Expanded: map[string]bool{},
		},
	}
}

func (uc *UseCase) Load(ctx context.Context) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	uc.dispatch(state.SetFolderLoading{Loading: true})
	folders, err := uc.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load folders", zap.Error(err))
		folders = []domain.Folder{}
	}
	uc.mu.Lock()
	uc.state = state.ReduceFolders(uc.state, state.SetFolders{Folders: folders})
	uc.saved = uc.version
	if err != nil {
		uc.state = state.ReduceFolders(uc.state, state.SetFolderError{Message: "Failed to load folders"})
	}
	uc.mu.Unlock()
	uc.opMu.Unlock()

	log.Info("folders loaded", zap.Int("count", len(folders)))
	uc.listeners.Notify()
}

// Create adds a folder. Names must be unique among siblings, ignoring case.
func (uc *UseCase) Create(ctx context.Context, in domain.FolderInput) (domain.Folder, error) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	if err := uc.checkName(in.Name, in.ParentID, ""); err != nil {
		uc.opMu.Unlock()
		return domain.Folder{}, uc.fail("Failed to create folder", err)
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return domain.Folder{}, uc.fail("Failed to create folder", err)
	}

	now := uc.sched.Now()
	created := domain.Folder{
		ID:          uc.opts.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		ParentID:    in.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	uc.commit(state.AddFolder{Folder: created})
	uc.opMu.Unlock()

	log.Info("folder created", zap.String("folder_id", created.ID), zap.String("parent_id", created.ParentID))
	uc.afterMutation(ctx, log)
	return created, nil
}

// Update merges patch onto the folder. Moving a folder under one of its own
// descendants is not rejected.
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	current, ok := uc.find(id)
	if !ok {
		uc.opMu.Unlock()
		return domain.Folder{}, uc.fail("Failed to update folder", domain.ErrFolderNotFound)
	}
	next := current.Apply(patch)
	if patch.Name != nil || patch.ParentID != nil {
		if err := uc.checkName(next.Name, next.ParentID, id); err != nil {
			uc.opMu.Unlock()
			return domain.Folder{}, uc.fail("Failed to update folder", err)
		}
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return domain.Folder{}, uc.fail("Failed to update folder", err)
	}

	if current, ok = uc.find(id); !ok {
		uc.opMu.Unlock()
		return domain.Folder{}, uc.fail("Failed to update folder", domain.ErrFolderNotFound)
	}
	updated := current.Apply(patch)
	updated.UpdatedAt = uc.sched.Now()
	uc.commit(state.UpdateFolder{Folder: updated})
	uc.opMu.Unlock()

	log.Info("folder updated", zap.String("folder_id", id))
	uc.afterMutation(ctx, log)
	return updated, nil
}

// Delete removes the folder and its direct children. Deeper descendants
// are kept with their parent reference intact.
func (uc *UseCase) Delete(ctx context.Context, id string) (DeleteResult, error) {
	ctx = logger.EnsureOperationID(ctx)
	log := logger.WithOperationID(ctx, uc.logger)

	uc.opMu.Lock()
	if _, ok := uc.find(id); !ok {
		uc.opMu.Unlock()
		return DeleteResult{}, uc.fail("Failed to delete folder", domain.ErrFolderNotFound)
	}
	if err := uc.begin(ctx); err != nil {
		uc.opMu.Unlock()
		return DeleteResult{}, uc.fail("Failed to delete folder", err)
	}

	folders := uc.All()
	result := DeleteResult{
		Removed:       hierarchy.CascadeDeleteIDs(folders, id),
		AffectedTasks: hierarchy.AffectedTaskCount(folders, id),
	}
	uc.commit(state.DeleteFolder{ID: id})
	uc.opMu.Unlock()

	log.Info("folder deleted",
		zap.String("folder_id", id),
		zap.Strings("removed", result.Removed),
		zap.Int("affected_tasks", result.AffectedTasks),
	)
	uc.afterMutation(ctx, log)
	return result, nil
}

// Toggle flips the expansion flag of id. Expansion is not persisted.
func (uc *UseCase) Toggle(id string) {
	uc.dispatch(state.ToggleFolder{ID: id})
	uc.listeners.Notify()
}

func (uc *UseCase) IsExpanded(id string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Expanded[id]
}

// UpdateTaskCount overwrites the cached count of id and reports whether it
// changed. The change is flushed with the next write or sync.
func (uc *UseCase) UpdateTaskCount(id string, count int) bool {
	uc.mu.Lock()
	f, ok := state.FindFolder(uc.state.Folders, id)
	if !ok || f.TaskCount == count {
		uc.mu.Unlock()
		return false
	}
	uc.state = state.ReduceFolders(uc.state, state.UpdateTaskCount{ID: id, Count: count})
	uc.version++
	uc.mu.Unlock()

	uc.listeners.Notify()
	return true
}

// Tree rebuilds the folder forest with the current expansion flags.
func (uc *UseCase) Tree() []*domain.FolderNode {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return hierarchy.BuildTree(uc.state.Folders, uc.state.Expanded)
}

func (uc *UseCase) State() state.FolderState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	s := uc.state
	s.Folders = append([]domain.Folder{}, uc.state.Folders...)
	s.Expanded = make(map[string]bool, len(uc.state.Expanded))
	for id, open := range uc.state.Expanded {
		s.Expanded[id] = open
	}
	return s
}

func (uc *UseCase) All() []domain.Folder {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.Folder{}, uc.state.Folders...)
}

func (uc *UseCase) Get(id string) (domain.Folder, error) {
	f, ok := uc.find(id)
	if !ok {
		return domain.Folder{}, domain.ErrFolderNotFound
	}
	return f, nil
}

func (uc *UseCase) Children(parentID string) []domain.Folder {
	return hierarchy.Children(uc.All(), parentID)
}

// Search matches folder names and descriptions.
func (uc *UseCase) Search(q string) []domain.Folder {
	return query.Folders(uc.All(), q)
}

// ParentCandidates lists the folders a form editing editingID may pick as
// parent.
func (uc *UseCase) ParentCandidates(editingID string) []domain.Folder {
	return hierarchy.ParentCandidates(uc.All(), editingID)
}

func (uc *UseCase) Subscribe(fn func()) func() {
	return uc.listeners.Add(fn)
}

func (uc *UseCase) Dirty() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.version != uc.saved
}

func (uc *UseCase) Flush(ctx context.Context) error {
	uc.flushMu.Lock()
	defer uc.flushMu.Unlock()

	uc.mu.RLock()
	if uc.version == uc.saved {
		uc.mu.RUnlock()
		return nil
	}
	version := uc.version
	snapshot := append([]domain.Folder{}, uc.state.Folders...)
	uc.mu.RUnlock()

	if err := uc.repo.Save(ctx, snapshot); err != nil {
		return err
	}

	uc.mu.Lock()
	uc.saved = version
	uc.mu.Unlock()
	return nil
}

func (uc *UseCase) checkName(name, parentID, excludeID string) error {
	if err := domain.ValidateFolderName(name); err != nil {
		return err
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if _, dup := hierarchy.FindSiblingByName(uc.state.Folders, name, parentID, excludeID); dup {
		return domain.DuplicateFolderNameError()
	}
	return nil
}

func (uc *UseCase) begin(ctx context.Context) error {
	uc.dispatch(state.SetFolderLoading{Loading: true})
	return usecase.Wait(ctx, uc.sched, uc.opts.Latency)
}

func (uc *UseCase) commit(action state.FolderAction) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceFolders(uc.state, action)
	uc.state.Loading = false
	uc.state.Error = ""
	uc.version++
}

func (uc *UseCase) afterMutation(ctx context.Context, log *zap.Logger) {
	if err := uc.Flush(ctx); err != nil {
		log.Warn("folder flush failed, will retry", zap.Error(err))
	}
	uc.listeners.Notify()
}

func (uc *UseCase) fail(msg string, err error) error {
	uc.dispatch(state.SetFolderError{Message: msg})
	uc.logger.Debug(msg, zap.Error(err))
	return err
}

func (uc *UseCase) dispatch(action state.FolderAction) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = state.ReduceFolders(uc.state, action)
}

func (uc *UseCase) find(id string) (domain.Folder, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return state.FindFolder(uc.state.Folders, id)
}
