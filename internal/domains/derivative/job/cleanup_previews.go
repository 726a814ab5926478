package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/pkg/logger"
)

// ================================================
// CLEANUP STALE PREVIEWS JOB HANDLER
// ================================================
//
// Unsaved preview rows past the retention window are deleted together
// with their rendered blobs. Saved derivatives are never touched.

type PreviewStore interface {
	DeleteUnsavedOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

type BlobRemover interface {
	RemoveObjects(ctx context.Context, keys []string) error
}

type CleanupPreviewsHandler struct {
	repo          PreviewStore
	blobs         BlobRemover
	defaultMaxAge time.Duration
}

func NewCleanupPreviewsHandler(repo PreviewStore, blobs BlobRemover, defaultMaxAge time.Duration) *CleanupPreviewsHandler {
	return &CleanupPreviewsHandler{
		repo:          repo,
		blobs:         blobs,
		defaultMaxAge: defaultMaxAge,
	}
}

func (h *CleanupPreviewsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.CleanupPreviewsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal cleanup payload: %w", err)
	}

	maxAge := payload.MaxAge
	if maxAge <= 0 {
		maxAge = h.defaultMaxAge
	}
	cutoff := time.Now().Add(-maxAge)

	logger.Info("Starting CleanupPreviews job", map[string]interface{}{
		"cutoff": cutoff.Format(time.RFC3339),
	})

	keys, err := h.repo.DeleteUnsavedOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete stale previews: %w", err)
	}

	if len(keys) > 0 {
		// Rows are gone; a failed blob removal here is retried by asynq
		// and any leftovers are reclaimed by the orphan sweep.
		if err := h.blobs.RemoveObjects(ctx, keys); err != nil {
			return fmt.Errorf("remove preview blobs: %w", err)
		}
	}

	logger.Info("Completed CleanupPreviews job", map[string]interface{}{
		"deleted_count": len(keys),
	})
	return nil
}
