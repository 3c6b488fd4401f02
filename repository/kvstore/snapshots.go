// Package kvstore implements the snapshot repositories on top of a kv.Store.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/infrastructure/kv"
	"github.com/fastygo/planner/repository"
)

// nonPrintable matches every character outside printable ASCII.
var nonPrintable = regexp.MustCompile(`[^\x20-\x7E]`)

// Sanitize strips characters outside printable ASCII from a raw snapshot.
func Sanitize(raw string) string {
	return nonPrintable.ReplaceAllString(raw, "")
}

type taskSnapshots struct {
	store  kv.Store
	key    string
	logger *zap.Logger
}

// NewTaskSnapshots stores the task collection under key.
func NewTaskSnapshots(store kv.Store, key string, logger *zap.Logger) repository.TaskSnapshots {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskSnapshots{store: store, key: key, logger: logger}
}

// Load sanitises the raw value before parsing it.
func (r *taskSnapshots) Load(ctx context.Context) ([]domain.Task, error) {
	raw, err := r.read(ctx)
	if err != nil || raw == "" {
		return []domain.Task{}, err
	}

	var records []taskRecord
	if err := json.Unmarshal([]byte(Sanitize(raw)), &records); err != nil {
		return []domain.Task{}, domain.WrapError(domain.ErrCodePersistence, "failed to parse stored tasks", err)
	}

	tasks := make([]domain.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, recordToTask(rec))
	}
	r.logger.Debug("tasks loaded", zap.String("key", r.key), zap.Int("count", len(tasks)))
	return tasks, nil
}

func (r *taskSnapshots) Save(ctx context.Context, tasks []domain.Task) error {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, taskToRecord(t))
	}
	return write(ctx, r.store, r.key, records, "failed to save tasks")
}

func (r *taskSnapshots) read(ctx context.Context) (string, error) {
	return read(ctx, r.store, r.key, "failed to read stored tasks")
}

type folderSnapshots struct {
	store  kv.Store
	key    string
	logger *zap.Logger
}

// NewFolderSnapshots stores the folder collection under key. Folder
// snapshots are parsed as stored, without sanitisation.
func NewFolderSnapshots(store kv.Store, key string, logger *zap.Logger) repository.FolderSnapshots {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &folderSnapshots{store: store, key: key, logger: logger}
}

func (r *folderSnapshots) Load(ctx context.Context) ([]domain.Folder, error) {
	raw, err := read(ctx, r.store, r.key, "failed to read stored folders")
	if err != nil || raw == "" {
		return []domain.Folder{}, err
	}

	var records []folderRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return []domain.Folder{}, domain.WrapError(domain.ErrCodePersistence, "failed to parse stored folders", err)
	}

	folders := make([]domain.Folder, 0, len(records))
	for _, rec := range records {
		folders = append(folders, recordToFolder(rec))
	}
	r.logger.Debug("folders loaded", zap.String("key", r.key), zap.Int("count", len(folders)))
	return folders, nil
}

func (r *folderSnapshots) Save(ctx context.Context, folders []domain.Folder) error {
	records := make([]folderRecord, 0, len(folders))
	for _, f := range folders {
		records = append(records, folderToRecord(f))
	}
	return write(ctx, r.store, r.key, records, "failed to save folders")
}

// read treats an absent key as an empty snapshot.
func read(ctx context.Context, store kv.Store, key, msg string) (string, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrCodePersistence, msg, err)
	}
	return raw, nil
}

func write(ctx context.Context, store kv.Store, key string, v any, msg string) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, msg, err)
	}
	if err := store.Set(ctx, key, string(payload)); err != nil {
		return domain.WrapError(domain.ErrCodePersistence, msg, err)
	}
	return nil
}
