package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// TaskSnapshots persists the whole task collection at once. Load returns
// an empty collection when nothing has been saved yet.
type TaskSnapshots interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}

// FolderSnapshots persists the whole folder collection at once.
type FolderSnapshots interface {
	Load(ctx context.Context) ([]domain.Folder, error)
	Save(ctx context.Context, folders []domain.Folder) error
}
