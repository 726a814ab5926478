package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"photoflow-backend/internal/domains/asset"
	"photoflow-backend/pkg/cache"
	"photoflow-backend/pkg/logger"
)

// Source metadata barely changes, so a short cache-aside TTL removes
// most lookups during generation bursts.
const sourceCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) asset.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("asset:source:%s", id)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.SourceAsset, error) {
	var cached asset.SourceAsset
	found, err := r.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		// Cache trouble is never fatal for a read path.
		logger.Error("GetByID: cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	const query = `
		SELECT id, blob_key, pixel_width, pixel_height, created_at
		FROM source_assets
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	src := &asset.SourceAsset{}
	err = row.Scan(
		&src.ID,
		&src.BlobKey,
		&src.PixelWidth,
		&src.PixelHeight,
		&src.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, asset.ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to get source asset: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey(id), src, sourceCacheTTL); err != nil {
		logger.Error("GetByID: cache write failed", err)
	}

	return src, nil
}
