package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/config"
)

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "", config.DriverMemory:
		store = NewMemory()
	case config.DriverBolt:
		store, err = OpenBolt(cfg.Bolt.Path, cfg.Bolt.Bucket)
	case config.DriverDisk:
		store, err = OpenDisk(cfg.Disk.Path)
	case config.DriverRedis:
		store, err = OpenRedis(ctx, cfg.Redis)
	case config.DriverPostgres:
		store, err = OpenPostgres(ctx, cfg.Database, logger)
	case config.DriverSQLite:
		store, err = OpenSQLite(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("kv: unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", cfg.Driver, err)
	}

	logger.Info("storage opened", zap.String("driver", cfg.Driver))
	return store, nil
}
