package asset

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the read-only lookup for source assets.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SourceAsset, error)
}
