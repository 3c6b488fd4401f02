package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/internal/infrastructure/kv"
	"github.com/fastygo/planner/internal/scheduler"
	"github.com/fastygo/planner/internal/seed"
	"github.com/fastygo/planner/internal/services"
	"github.com/fastygo/planner/internal/services/lifecycle"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository/kvstore"
	blogUC "github.com/fastygo/planner/usecase/blog"
	calendarUC "github.com/fastygo/planner/usecase/calendar"
	folderUC "github.com/fastygo/planner/usecase/folder"
	notificationUC "github.com/fastygo/planner/usecase/notification"
	taskUC "github.com/fastygo/planner/usecase/task"
	"github.com/fastygo/planner/usecase/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Timing.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.SignalContext(context.Background())
	defer stop()

	store, err := kv.Open(appCtx, cfg.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register("storage", func(ctx context.Context) error {
		return store.Close()
	})

	sched := scheduler.NewCron(zapLogger)

	tasks := taskUC.New(
		kvstore.NewTaskSnapshots(store, cfg.Storage.TasksKey, zapLogger),
		sched,
		zapLogger,
		taskUC.Options{Latency: cfg.Timing.SimulatedLatency},
	)
	folders := folderUC.New(
		kvstore.NewFolderSnapshots(store, cfg.Storage.FoldersKey, zapLogger),
		sched,
		zapLogger,
		folderUC.Options{Latency: cfg.Timing.SimulatedLatency},
	)

	settings := domain.DefaultNotificationSettings()
	settings.ReminderTime = cfg.Notify.ReminderHours
	notifyOpts := notificationUC.Options{
		ToastDuration: cfg.Timing.ToastDuration,
		Settings:      &settings,
	}
	var posts []domain.BlogPost
	if cfg.SeedDemo {
		if notifyOpts.Seed, err = seed.Notifications(sched.Now()); err != nil {
			zapLogger.Fatal("invalid notification seed", zap.Error(err))
		}
		if posts, err = seed.Posts(); err != nil {
			zapLogger.Fatal("invalid blog seed", zap.Error(err))
		}
	}
	notifications := notificationUC.New(tasks, sched, zapLogger, notifyOpts)

	scanner := services.NewNotificationScanner(notifications, sched, zapLogger, services.ScannerConfig{
		Interval: cfg.Timing.NotifyScanInterval,
	})
	persistence := services.NewPersistenceSync(
		[]services.Collection{
			{Name: "folders", Flusher: folders},
			{Name: "tasks", Flusher: tasks},
		},
		store,
		sched,
		zapLogger,
		services.SyncConfig{Interval: cfg.Timing.FlushRetryInterval},
	)

	ws := workspace.New(workspace.Deps{
		Tasks:         tasks,
		Folders:       folders,
		Calendar:      calendarUC.New(tasks, folders, sched, cfg.Location),
		Notifications: notifications,
		Blog:          blogUC.New(posts, sched, zapLogger, blogUC.Options{}),
		Scanner:       scanner,
		Sync:          persistence,
		Scheduler:     sched,
		Location:      cfg.Location,
		Logger:        zapLogger,
	})

	ws.Load(appCtx)
	if cfg.InitialRoute != "" {
		ws.ApplyRoute(cfg.InitialRoute)
	}
	if err := ws.Start(appCtx); err != nil {
		zapLogger.Fatal("failed to start workspace", zap.Error(err))
	}
	manager.Register("workspace", ws.Close)

	zapLogger.Info("planner started",
		zap.String("app", cfg.AppName),
		zap.String("env", cfg.Environment),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("tasks", len(tasks.All())),
		zap.Int("folders", len(folders.All())),
	)

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
