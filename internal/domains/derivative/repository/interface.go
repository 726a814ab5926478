package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/domains/variant"
)

// Filter narrows a derivative listing. Nil fields are not applied;
// set fields combine with AND.
type Filter struct {
	SourceAssetID *uuid.UUID
	Platform      *variant.Platform
	Exported      *bool
	Saved         *bool
	CreatedAfter  *time.Time
}

type Repository interface {
	Insert(ctx context.Context, d *model.GeneratedDerivative) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedDerivative, error)
	GetByBlobKey(ctx context.Context, blobKey string) (*model.GeneratedDerivative, error)

	// UpdateCrop replaces geometry and score only. UpdateRender also
	// swaps the rendered blob. Both load the row FOR UPDATE first so a
	// concurrent adjustment cannot interleave.
	UpdateCrop(ctx context.Context, id uuid.UUID, rect crop.Rect, score int) (*model.GeneratedDerivative, error)
	UpdateRender(ctx context.Context, id uuid.UUID, rect crop.Rect, score int, blobKey string, outW, outH int) (*model.GeneratedDerivative, error)

	// MarkSaved promotes a preview row. Already-saved rows are left
	// untouched so the operation is idempotent.
	MarkSaved(ctx context.Context, id uuid.UUID) error

	Query(ctx context.Context, f Filter) ([]*model.GeneratedDerivative, error)

	// DeleteUnsavedOlderThan purges stale preview rows and returns their
	// blob keys so the caller can reclaim storage.
	DeleteUnsavedOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
