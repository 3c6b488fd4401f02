package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/fastygo/planner/internal/config"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "coursology-tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "coursology-tasks", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "coursology-tasks", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "coursology-tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := store.Delete(ctx, "coursology-tasks"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "coursology-tasks"); err != nil {
		t.Fatalf("delete of missing key: %v", err)
	}
	if _, err := store.Get(ctx, "coursology-tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestBoltStore(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "data", "planner.db"), "")
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestDiskStore(t *testing.T) {
	store, err := OpenDisk(filepath.Join(t.TempDir(), "kv"))
	if err != nil {
		t.Fatalf("open disk: %v", err)
	}
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "planner.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestOpenByDriver(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{name: "memory", cfg: config.StorageConfig{Driver: config.DriverMemory}},
		{name: "bolt", cfg: config.StorageConfig{Driver: config.DriverBolt, Bolt: config.BoltConfig{Path: filepath.Join(dir, "b.db")}}},
		{name: "disk", cfg: config.StorageConfig{Driver: config.DriverDisk, Disk: config.DiskConfig{Path: filepath.Join(dir, "disk")}}},
		{name: "sqlite", cfg: config.StorageConfig{Driver: config.DriverSQLite, SQLite: config.SQLiteConfig{Path: filepath.Join(dir, "s.sqlite")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg, zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()
			exerciseStore(t, store)
		})
	}

	if _, err := Open(context.Background(), config.StorageConfig{Driver: "floppy"}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
