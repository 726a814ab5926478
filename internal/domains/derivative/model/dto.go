package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"photoflow-backend/internal/crop"
)

// ========================================
// REQUESTS
// ========================================

// GenerateRequest fans one source out to every resolved variant spec.
type GenerateRequest struct {
	SourceAssetID string   `json:"source_asset_id" binding:"required"`
	Platforms     []string `json:"platforms" binding:"required,min=1"`
	VariantNames  []string `json:"variant_names,omitempty"`
	Strategy      string   `json:"strategy,omitempty"`
	Encoding      string   `json:"encoding,omitempty"`
}

// RectDTO mirrors crop.Rect on the wire.
type RectDTO struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r RectDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.X, validation.Min(0)),
		validation.Field(&r.Y, validation.Min(0)),
		validation.Field(&r.Width, validation.Min(1)),
		validation.Field(&r.Height, validation.Min(1)),
	)
}

func (r RectDTO) ToRect() crop.Rect {
	return crop.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// AdjustRequest replaces one derivative's crop, optionally re-rendering
// pixels from the original source.
type AdjustRequest struct {
	CropRectangle RectDTO `json:"crop_rectangle" binding:"required"`
	Regenerate    bool    `json:"regenerate"`
}

// QueryRequest carries the AND-combined list filters.
type QueryRequest struct {
	SourceAssetID string `form:"source_asset_id"`
	Platform      string `form:"platform"`
	Exported      *bool  `form:"exported"`
	Saved         *bool  `form:"saved"`
	CreatedAfter  string `form:"created_after"` // RFC3339
}

// SaveItem is one preview-stage render to promote.
type SaveItem struct {
	Platform      string  `json:"platform" binding:"required"`
	VariantName   string  `json:"variant_name" binding:"required"`
	BlobKey       string  `json:"blob_key" binding:"required"`
	CropRectangle RectDTO `json:"crop_rectangle" binding:"required"`
	Score         int     `json:"score"`
}

// SaveRequest promotes preview renders into durable records.
// Tags are accepted for wire compatibility with older callers; tag
// management lives outside this engine and they are ignored here.
type SaveRequest struct {
	SourceAssetID string     `json:"source_asset_id" binding:"required"`
	Derivatives   []SaveItem `json:"derivatives" binding:"required,min=1"`
	Tags          []string   `json:"tags,omitempty"`
}

// ========================================
// RESPONSES
// ========================================

// VariantResult is one successful derivative in a generate response.
type VariantResult struct {
	DerivativeID  uuid.UUID      `json:"derivative_id"`
	Platform      string         `json:"platform"`
	VariantName   string         `json:"variant_name"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	CropRectangle crop.Rect      `json:"crop_rectangle"`
	Score         int            `json:"score"`
	Warnings      []crop.Warning `json:"warnings,omitempty"`
	PreviewURL    string         `json:"preview_url"`
	BlobKey       string         `json:"blob_key"`
}

// VariantFailure reports one failed or skipped spec. Skipped means the
// spec was never dispatched (request canceled before its turn), which
// callers must be able to tell apart from a real failure.
type VariantFailure struct {
	Platform    string `json:"platform"`
	VariantName string `json:"variant_name"`
	Reason      string `json:"reason"`
	Skipped     bool   `json:"skipped,omitempty"`
}

// Summary groups successes by platform. Recomputable purely from the
// results list; no hidden state.
type Summary struct {
	Total      int            `json:"total"`
	ByPlatform map[string]int `json:"by_platform"`
}

// SourceInfo echoes the source dimensions used for every crop.
type SourceInfo struct {
	ID     uuid.UUID `json:"id"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

type GenerateResponse struct {
	Results     []VariantResult  `json:"results"`
	Failures    []VariantFailure `json:"failures,omitempty"`
	SourceAsset SourceInfo       `json:"source_asset"`
	Summary     Summary          `json:"summary"`
}

// BuildSummary recomputes the platform grouping from a results list.
func BuildSummary(results []VariantResult) Summary {
	s := Summary{
		Total:      len(results),
		ByPlatform: make(map[string]int),
	}
	for _, r := range results {
		s.ByPlatform[r.Platform]++
	}
	return s
}

type AdjustResponse struct {
	Success           bool                 `json:"success"`
	UpdatedDerivative *GeneratedDerivative `json:"updated_derivative"`
	NewPreviewURL     string               `json:"new_preview_url,omitempty"`
}

type SaveResponse struct {
	Saved int         `json:"saved"`
	IDs   []uuid.UUID `json:"ids"`
}

// ========================================
// JOB PAYLOADS
// ========================================

// CleanupPreviewsPayload bounds the preview purge run.
type CleanupPreviewsPayload struct {
	MaxAge time.Duration `json:"max_age"`
}

// SweepOrphanBlobsPayload bounds the orphan blob sweep.
type SweepOrphanBlobsPayload struct {
	MaxAge time.Duration `json:"max_age"`
}
