package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/asset"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/infrastructure/storage"
	"photoflow-backend/internal/shared"
	"photoflow-backend/internal/shared/utils"
	"photoflow-backend/pkg/logger"
)

// Adjust validates the replacement rectangle against the recorded source
// bounds, re-scores it against the safe zone, and persists the change.
// With Regenerate set it also re-renders pixels from the original source,
// which requires the source to still be resolvable; a metadata-only
// adjustment does not.
func (s *DerivativeService) Adjust(ctx context.Context, id uuid.UUID, req model.AdjustRequest) (*model.AdjustResponse, error) {
	if err := req.CropRectangle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCropRect, err)
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rect := req.CropRectangle.ToRect()
	if err := d.ValidateCropAgainstSource(rect); err != nil {
		return nil, err
	}

	zone := crop.SafeZone(d.SourceWidth, d.SourceHeight)
	score := crop.ScoreAgainst(rect, zone)

	if !req.Regenerate {
		updated, err := s.repo.UpdateCrop(ctx, id, rect, score)
		if err != nil {
			return nil, err
		}
		return &model.AdjustResponse{Success: true, UpdatedDerivative: updated}, nil
	}

	return s.regenerate(ctx, d, rect, score)
}

func (s *DerivativeService) regenerate(ctx context.Context, d *model.GeneratedDerivative, rect crop.Rect, score int) (*model.AdjustResponse, error) {
	source, err := s.assets.GetByID(ctx, d.SourceAssetID)
	if err != nil {
		if errors.Is(err, asset.ErrSourceNotFound) {
			return nil, fmt.Errorf("%w: source %s is gone", model.ErrSourceUnavailable, d.SourceAssetID)
		}
		return nil, err
	}

	srcBytes, err := s.blobs.Download(ctx, source.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	encoding := encodingForBlobKey(d.BlobKey)
	rendered, err := s.renderer.Render(srcBytes, rect, d.OutputWidth, d.OutputHeight, encoding)
	if err != nil {
		return nil, err
	}

	newKey := fmt.Sprintf("%s%s/%s/%s/%d.%s",
		shared.DerivativeBlobPrefix,
		d.SourceAssetID,
		utils.SanitizeKeyPart(string(d.Platform)),
		utils.SanitizeKeyPart(d.VariantName),
		time.Now().UnixNano(),
		encoding.Ext(),
	)

	if err := s.blobs.Upload(ctx, newKey, rendered, encoding.ContentType()); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBlobUnavailable, err)
	}

	oldKey := d.BlobKey
	updated, err := s.repo.UpdateRender(ctx, d.ID, rect, score, newKey, d.OutputWidth, d.OutputHeight)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, newKey); delErr != nil {
			logger.Error("regenerate: new blob cleanup failed", delErr)
		}
		return nil, err
	}

	// The old render is unreachable once the row points at the new key.
	if oldKey != "" && oldKey != newKey {
		if err := s.blobs.Delete(ctx, oldKey); err != nil {
			// Orphan sweep will reclaim it.
			logger.Error("regenerate: old blob delete failed", err)
		}
	}

	previewURL, err := s.blobs.PresignedGetURL(ctx, newKey, s.previewTTL)
	if err != nil {
		logger.Error("regenerate: presign failed", err)
	}

	return &model.AdjustResponse{
		Success:           true,
		UpdatedDerivative: updated,
		NewPreviewURL:     previewURL,
	}, nil
}

func encodingForBlobKey(key string) storage.Encoding {
	if strings.HasSuffix(key, ".png") {
		return storage.EncodingPNG
	}
	return storage.EncodingJPEG
}
