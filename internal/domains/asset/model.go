package asset

import (
	"time"

	"github.com/google/uuid"
)

// SourceAsset is the original photograph a derivative is cut from.
// Owned by the external asset-management service; the engine only reads
// it and never mutates or deletes a source.
type SourceAsset struct {
	ID          uuid.UUID `json:"id"`
	BlobKey     string    `json:"blob_key"`
	PixelWidth  int       `json:"pixel_width"`
	PixelHeight int       `json:"pixel_height"`
	CreatedAt   time.Time `json:"created_at"`
}
