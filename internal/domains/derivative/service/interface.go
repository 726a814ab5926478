package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/infrastructure/storage"
)

// BlobStorage is the slice of object storage the derivative flows use.
// *storage.MinIOStorage satisfies it.
type BlobStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageRenderer turns source bytes plus a crop rectangle into encoded
// output pixels. *storage.Renderer satisfies it.
type ImageRenderer interface {
	ValidateSource(data []byte) error
	Render(srcBytes []byte, rect crop.Rect, outW, outH int, encoding storage.Encoding) ([]byte, error)
}

type ServiceInterface interface {
	// Generate fans one source asset out across the resolved variant
	// specs. Per-spec failures are isolated; the call errors only when
	// nothing at all could be produced.
	Generate(ctx context.Context, req model.GenerateRequest) (*model.GenerateResponse, error)

	// Adjust replaces one derivative's crop rectangle and re-scores it,
	// optionally re-rendering pixels from the original source.
	Adjust(ctx context.Context, id uuid.UUID, req model.AdjustRequest) (*model.AdjustResponse, error)

	Query(ctx context.Context, req model.QueryRequest) ([]*model.GeneratedDerivative, error)

	// Save promotes preview renders into durable records, idempotently
	// per blob key.
	Save(ctx context.Context, req model.SaveRequest) (*model.SaveResponse, error)

	// ExportToExcel renders the filtered derivative list as a workbook.
	ExportToExcel(ctx context.Context, req model.QueryRequest) (*excelize.File, []*model.GeneratedDerivative, error)
}
