package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/shared/utils"
	"photoflow-backend/pkg/database"
)

const derivativeColumns = `
	id, source_asset_id, platform, variant_name,
	crop_x, crop_y, crop_width, crop_height, score,
	source_width, source_height,
	blob_key, output_width, output_height,
	saved, saved_at, exported, exported_at,
	created_at, updated_at
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDerivative(row rowScanner) (*model.GeneratedDerivative, error) {
	d := &model.GeneratedDerivative{}
	err := row.Scan(
		&d.ID,
		&d.SourceAssetID,
		&d.Platform,
		&d.VariantName,
		&d.Crop.X,
		&d.Crop.Y,
		&d.Crop.Width,
		&d.Crop.Height,
		&d.Score,
		&d.SourceWidth,
		&d.SourceHeight,
		&d.BlobKey,
		&d.OutputWidth,
		&d.OutputHeight,
		&d.Saved,
		&d.SavedAt,
		&d.Exported,
		&d.ExportedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresRepository) Insert(ctx context.Context, d *model.GeneratedDerivative) error {
	query := `
		INSERT INTO generated_derivatives (
			id, source_asset_id, platform, variant_name,
			crop_x, crop_y, crop_width, crop_height, score,
			source_width, source_height,
			blob_key, output_width, output_height,
			saved, saved_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		d.ID,
		d.SourceAssetID,
		d.Platform,
		d.VariantName,
		d.Crop.X,
		d.Crop.Y,
		d.Crop.Width,
		d.Crop.Height,
		d.Score,
		d.SourceWidth,
		d.SourceHeight,
		d.BlobKey,
		d.OutputWidth,
		d.OutputHeight,
		d.Saved,
		d.SavedAt,
	)

	if err := row.Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503": // foreign key: source row vanished
				return model.ErrSourceUnavailable
			case "23505": // unique blob_key
				return model.ErrDuplicateBlobKey
			}
		}
		return fmt.Errorf("failed to insert derivative: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedDerivative, error) {
	query := `SELECT ` + derivativeColumns + ` FROM generated_derivatives WHERE id = $1`

	d, err := scanDerivative(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDerivativeNotFound
		}
		return nil, fmt.Errorf("failed to get derivative: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) GetByBlobKey(ctx context.Context, blobKey string) (*model.GeneratedDerivative, error) {
	query := `SELECT ` + derivativeColumns + ` FROM generated_derivatives WHERE blob_key = $1`

	d, err := scanDerivative(r.pool.QueryRow(ctx, query, blobKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDerivativeNotFound
		}
		return nil, fmt.Errorf("failed to get derivative by blob key: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) UpdateCrop(ctx context.Context, id uuid.UUID, rect crop.Rect, score int) (*model.GeneratedDerivative, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.GeneratedDerivative, error) {
		if err := lockRow(ctx, tx, id); err != nil {
			return nil, err
		}

		query := `
			UPDATE generated_derivatives
			SET crop_x = $2, crop_y = $3, crop_width = $4, crop_height = $5,
			    score = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + derivativeColumns

		d, err := scanDerivative(tx.QueryRow(ctx, query, id, rect.X, rect.Y, rect.Width, rect.Height, score))
		if err != nil {
			return nil, fmt.Errorf("failed to update crop: %w", err)
		}
		return d, nil
	})
}

func (r *postgresRepository) UpdateRender(ctx context.Context, id uuid.UUID, rect crop.Rect, score int, blobKey string, outW, outH int) (*model.GeneratedDerivative, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.GeneratedDerivative, error) {
		if err := lockRow(ctx, tx, id); err != nil {
			return nil, err
		}

		query := `
			UPDATE generated_derivatives
			SET crop_x = $2, crop_y = $3, crop_width = $4, crop_height = $5,
			    score = $6, blob_key = $7, output_width = $8, output_height = $9,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING ` + derivativeColumns

		d, err := scanDerivative(tx.QueryRow(ctx, query,
			id, rect.X, rect.Y, rect.Width, rect.Height, score, blobKey, outW, outH))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, model.ErrDuplicateBlobKey
			}
			return nil, fmt.Errorf("failed to update render: %w", err)
		}
		return d, nil
	})
}

func lockRow(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var got uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM generated_derivatives WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrDerivativeNotFound
		}
		return fmt.Errorf("failed to lock derivative: %w", err)
	}
	return nil
}

func (r *postgresRepository) MarkSaved(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE generated_derivatives
		SET saved = TRUE, saved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND saved = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark derivative saved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either already saved (fine) or missing.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM generated_derivatives WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check derivative: %w", err)
		}
		if !exists {
			return model.ErrDerivativeNotFound
		}
	}
	return nil
}

func (r *postgresRepository) Query(ctx context.Context, f Filter) ([]*model.GeneratedDerivative, error) {
	clauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SourceAssetID != nil {
		clauses = append(clauses, "source_asset_id = "+arg(*f.SourceAssetID))
	}
	if f.Platform != nil {
		clauses = append(clauses, "platform = "+arg(*f.Platform))
	}
	if f.Exported != nil {
		clauses = append(clauses, "exported = "+arg(*f.Exported))
	}
	if f.Saved != nil {
		clauses = append(clauses, "saved = "+arg(*f.Saved))
	}
	if f.CreatedAfter != nil {
		clauses = append(clauses, "created_at > "+arg(*f.CreatedAfter))
	}

	query := `SELECT ` + derivativeColumns + ` FROM generated_derivatives`
	if len(clauses) > 0 {
		query += " WHERE " + utils.JoinWithAnd(clauses)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query derivatives: %w", err)
	}
	defer rows.Close()

	derivatives := []*model.GeneratedDerivative{}
	for rows.Next() {
		d, err := scanDerivative(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan derivative: %w", err)
		}
		derivatives = append(derivatives, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate derivatives: %w", err)
	}

	return derivatives, nil
}

func (r *postgresRepository) DeleteUnsavedOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		DELETE FROM generated_derivatives
		WHERE saved = FALSE AND created_at < $1
		RETURNING blob_key
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stale previews: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan blob key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blob keys: %w", err)
	}

	return keys, nil
}
