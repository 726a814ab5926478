package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/infrastructure/storage"
	"photoflow-backend/internal/shared"
	"photoflow-backend/pkg/logger"
)

// ================================================
// SWEEP ORPHAN BLOBS JOB HANDLER
// ================================================
//
// Walks the derivative keyspace and removes blobs no record points at.
// The age floor keeps the sweep from racing an in-flight generation
// whose row has not landed yet.

type BlobWalker interface {
	ListByPrefix(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

type RecordLookup interface {
	GetByBlobKey(ctx context.Context, blobKey string) (*model.GeneratedDerivative, error)
}

type SweepOrphanBlobsHandler struct {
	blobs         BlobWalker
	repo          RecordLookup
	defaultMaxAge time.Duration
}

func NewSweepOrphanBlobsHandler(blobs BlobWalker, repo RecordLookup, defaultMaxAge time.Duration) *SweepOrphanBlobsHandler {
	return &SweepOrphanBlobsHandler{
		blobs:         blobs,
		repo:          repo,
		defaultMaxAge: defaultMaxAge,
	}
}

func (h *SweepOrphanBlobsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.SweepOrphanBlobsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal sweep payload: %w", err)
	}

	maxAge := payload.MaxAge
	if maxAge <= 0 {
		maxAge = h.defaultMaxAge
	}
	ageFloor := time.Now().Add(-maxAge)

	logger.Info("Starting SweepOrphanBlobs job", nil)

	infos, err := h.blobs.ListByPrefix(ctx, shared.DerivativeBlobPrefix)
	if err != nil {
		return fmt.Errorf("list derivative blobs: %w", err)
	}

	swept := 0
	for _, info := range infos {
		if info.LastModified.After(ageFloor) {
			continue
		}

		_, err := h.repo.GetByBlobKey(ctx, info.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrDerivativeNotFound) {
			return fmt.Errorf("lookup blob record %s: %w", info.Key, err)
		}

		if err := h.blobs.Delete(ctx, info.Key); err != nil {
			// Keep sweeping; the next run picks this one up again.
			logger.Error(fmt.Sprintf("SweepOrphanBlobs: delete %s failed", info.Key), err)
			continue
		}
		swept++
	}

	logger.Info("Completed SweepOrphanBlobs job", map[string]interface{}{
		"swept_count": swept,
		"scanned":     len(infos),
	})
	return nil
}
