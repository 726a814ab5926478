package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"photoflow-backend/internal/config"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/shared"
	"photoflow-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	retention config.RetentionConfig
}

func NewScheduler(redisAddress string, retention config.RetentionConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		retention: retention,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerCleanupPreviewsJob(); err != nil {
		return err
	}

	if err := s.registerSweepOrphanBlobsJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Cleanup Stale Previews (Hourly)
// ================================================
// Unsaved previews expire after the retention window; an hourly run
// keeps the window overshoot small without hammering the database.
func (s *Scheduler) registerCleanupPreviewsJob() error {
	payload, err := json.Marshal(model.CleanupPreviewsPayload{
		MaxAge: s.retention.PreviewMaxAge,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupPreviews, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // Hourly at minute 0
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register CleanupPreviews job", err)
		return err
	}

	logger.Info("✓ Registered CleanupPreviews: hourly", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Sweep Orphan Blobs (Daily at 3 AM)
// ================================================
// Walking the whole derivative keyspace is the expensive part, so it
// runs once a day in the low-traffic window.
func (s *Scheduler) registerSweepOrphanBlobsJob() error {
	payload, err := json.Marshal(model.SweepOrphanBlobsPayload{
		MaxAge: s.retention.OrphanBlobMaxAge,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanBlobs, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register SweepOrphanBlobs job", err)
		return err
	}

	logger.Info("✓ Registered SweepOrphanBlobs: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
