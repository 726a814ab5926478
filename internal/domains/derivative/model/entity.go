package model

import (
	"time"

	"github.com/google/uuid"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/variant"
)

// GeneratedDerivative is one platform-sized crop of a source asset.
// Provenance (SourceAssetID) is immutable for the row's lifetime; the
// adjustment flow may change crop geometry, score and blob fields but
// never id or provenance.
//
// Source dimensions are denormalized onto the row so a crop adjustment
// can be validated and re-scored even after the source row is gone.
type GeneratedDerivative struct {
	ID            uuid.UUID        `json:"id"`
	SourceAssetID uuid.UUID        `json:"source_asset_id"`
	Platform      variant.Platform `json:"platform"`
	VariantName   string           `json:"variant_name"`

	Crop  crop.Rect `json:"crop_rectangle"`
	Score int       `json:"score"`

	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	BlobKey      string `json:"blob_key"`
	OutputWidth  int    `json:"output_width"`
	OutputHeight int    `json:"output_height"`

	// Saved marks the preview as promoted to a durable record; unsaved
	// rows (and their blobs) are reclaimed by the preview cleanup job.
	Saved   bool       `json:"saved"`
	SavedAt *time.Time `json:"saved_at,omitempty"`

	// Exported is flipped by the external export step, never by this
	// engine.
	Exported   bool       `json:"exported"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateCropAgainstSource checks the rectangle sits inside the row's
// recorded source bounds with positive dimensions.
func (d *GeneratedDerivative) ValidateCropAgainstSource(rect crop.Rect) error {
	return ValidateRectWithin(rect, d.SourceWidth, d.SourceHeight)
}
