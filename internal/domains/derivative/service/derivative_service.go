package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/asset"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/domains/derivative/repository"
	"photoflow-backend/internal/domains/variant"
	"photoflow-backend/internal/infrastructure/storage"
	"photoflow-backend/internal/shared"
	"photoflow-backend/internal/shared/utils"
	"photoflow-backend/pkg/logger"
)

// DerivativeService implements ServiceInterface.
type DerivativeService struct {
	repo       repository.Repository
	assets     asset.Repository
	blobs      BlobStorage
	renderer   ImageRenderer
	catalog    *variant.Catalog
	previewTTL time.Duration
}

func NewDerivativeService(
	repo repository.Repository,
	assets asset.Repository,
	blobs BlobStorage,
	renderer ImageRenderer,
	catalog *variant.Catalog,
	previewTTL time.Duration,
) *DerivativeService {
	return &DerivativeService{
		repo:       repo,
		assets:     assets,
		blobs:      blobs,
		renderer:   renderer,
		catalog:    catalog,
		previewTTL: previewTTL,
	}
}

// ========================================
// GENERATE
// ========================================

func (s *DerivativeService) Generate(ctx context.Context, req model.GenerateRequest) (*model.GenerateResponse, error) {
	sourceID := utils.ParseStringToUUID(req.SourceAssetID)
	if sourceID == uuid.Nil {
		return nil, fmt.Errorf("%w: %q", asset.ErrSourceNotFound, req.SourceAssetID)
	}

	strategy, err := crop.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	encoding, err := storage.ParseEncoding(req.Encoding)
	if err != nil {
		return nil, err
	}

	platforms := make([]variant.Platform, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platform, err := variant.ParsePlatform(p)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, platform)
	}

	specs := s.catalog.Resolve(platforms, req.VariantNames)
	if len(specs) == 0 {
		return nil, model.ErrNoVariantSpecs
	}

	source, err := s.assets.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	srcBytes, err := s.blobs.Download(ctx, source.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	if err := s.renderer.ValidateSource(srcBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	resp := &model.GenerateResponse{
		Results:  []model.VariantResult{},
		Failures: []model.VariantFailure{},
		SourceAsset: model.SourceInfo{
			ID:     source.ID,
			Width:  source.PixelWidth,
			Height: source.PixelHeight,
		},
	}

	if ctx.Err() != nil {
		// Canceled before anything was dispatched: no spec starts.
		for _, spec := range specs {
			resp.Failures = append(resp.Failures, model.VariantFailure{
				Platform:    string(spec.Platform),
				VariantName: spec.Name,
				Reason:      "canceled before dispatch",
				Skipped:     true,
			})
		}
	} else {
		// One render per spec, joined before returning. A slow or failed
		// variant never blocks or fails its siblings, and a cancellation
		// arriving mid-flight never abandons a dispatched render.
		results := make([]*model.VariantResult, len(specs))
		renderErrs := make([]error, len(specs))

		var wg sync.WaitGroup
		for i, spec := range specs {
			wg.Add(1)
			go func(i int, spec variant.VariantSpec) {
				defer wg.Done()
				results[i], renderErrs[i] = s.generateOne(ctx, source, srcBytes, spec, strategy, encoding)
			}(i, spec)
		}
		wg.Wait()

		// Indexed slots keep the response in catalog resolve order.
		for i, spec := range specs {
			if renderErrs[i] != nil {
				logger.Error(fmt.Sprintf("Generate: %s/%s failed", spec.Platform, spec.Name), renderErrs[i])
				resp.Failures = append(resp.Failures, model.VariantFailure{
					Platform:    string(spec.Platform),
					VariantName: spec.Name,
					Reason:      renderErrs[i].Error(),
				})
				continue
			}
			resp.Results = append(resp.Results, *results[i])
		}
	}

	if len(resp.Results) == 0 {
		return nil, model.ErrAllVariantsFailed
	}

	resp.Summary = model.BuildSummary(resp.Results)
	return resp, nil
}

// generateOne renders, stores and records a single variant. Runs to
// completion once dispatched even if the request context is canceled.
func (s *DerivativeService) generateOne(
	ctx context.Context,
	source *asset.SourceAsset,
	srcBytes []byte,
	spec variant.VariantSpec,
	strategy crop.Strategy,
	encoding storage.Encoding,
) (*model.VariantResult, error) {
	ctx = context.WithoutCancel(ctx)

	placed, err := crop.Compute(source.PixelWidth, source.PixelHeight, spec.AspectW, spec.AspectH, strategy)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.Render(srcBytes, placed.Rect, spec.TargetWidth, spec.TargetHeight, encoding)
	if err != nil {
		return nil, err
	}

	blobKey := fmt.Sprintf("%s%s/%s/%s/%d.%s",
		shared.DerivativeBlobPrefix,
		source.ID,
		utils.SanitizeKeyPart(string(spec.Platform)),
		utils.SanitizeKeyPart(spec.Name),
		time.Now().UnixNano(),
		encoding.Ext(),
	)

	if err := s.blobs.Upload(ctx, blobKey, rendered, encoding.ContentType()); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBlobUnavailable, err)
	}

	d := &model.GeneratedDerivative{
		ID:            uuid.New(),
		SourceAssetID: source.ID,
		Platform:      spec.Platform,
		VariantName:   spec.Name,
		Crop:          placed.Rect,
		Score:         placed.Score,
		SourceWidth:   source.PixelWidth,
		SourceHeight:  source.PixelHeight,
		BlobKey:       blobKey,
		OutputWidth:   spec.TargetWidth,
		OutputHeight:  spec.TargetHeight,
		Saved:         false,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		// Do not leak the blob when the record never landed.
		if delErr := s.blobs.Delete(ctx, blobKey); delErr != nil {
			logger.Error("generateOne: orphan blob cleanup failed", delErr)
		}
		return nil, err
	}

	previewURL, err := s.blobs.PresignedGetURL(ctx, blobKey, s.previewTTL)
	if err != nil {
		// The derivative exists either way; the client can re-request a
		// preview handle through the query path.
		logger.Error("generateOne: presign failed", err)
	}

	return &model.VariantResult{
		DerivativeID:  d.ID,
		Platform:      string(spec.Platform),
		VariantName:   spec.Name,
		Width:         spec.TargetWidth,
		Height:        spec.TargetHeight,
		CropRectangle: placed.Rect,
		Score:         placed.Score,
		Warnings:      crop.WarningsFor(placed.Score),
		PreviewURL:    previewURL,
		BlobKey:       blobKey,
	}, nil
}

// ========================================
// QUERY
// ========================================

func (s *DerivativeService) Query(ctx context.Context, req model.QueryRequest) ([]*model.GeneratedDerivative, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, filter)
}

func buildFilter(req model.QueryRequest) (repository.Filter, error) {
	var f repository.Filter

	if req.SourceAssetID != "" {
		id := utils.ParseStringToUUID(req.SourceAssetID)
		if id == uuid.Nil {
			return f, fmt.Errorf("%w: %q", asset.ErrSourceNotFound, req.SourceAssetID)
		}
		f.SourceAssetID = &id
	}
	if req.Platform != "" {
		platform, err := variant.ParsePlatform(req.Platform)
		if err != nil {
			return f, err
		}
		f.Platform = &platform
	}
	f.Exported = req.Exported
	f.Saved = req.Saved
	if req.CreatedAfter != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAfter)
		if err != nil {
			return f, fmt.Errorf("invalid created_after %q: %w", req.CreatedAfter, err)
		}
		f.CreatedAfter = &t
	}

	return f, nil
}

// ========================================
// SAVE
// ========================================

func (s *DerivativeService) Save(ctx context.Context, req model.SaveRequest) (*model.SaveResponse, error) {
	sourceID := utils.ParseStringToUUID(req.SourceAssetID)
	if sourceID == uuid.Nil {
		return nil, fmt.Errorf("%w: %q", asset.ErrSourceNotFound, req.SourceAssetID)
	}

	resp := &model.SaveResponse{IDs: []uuid.UUID{}}

	for _, item := range req.Derivatives {
		id, err := s.saveOne(ctx, sourceID, item)
		if err != nil {
			return nil, fmt.Errorf("save %s/%s: %w", item.Platform, item.VariantName, err)
		}
		resp.IDs = append(resp.IDs, id)
	}

	resp.Saved = len(resp.IDs)
	return resp, nil
}

// saveOne marks an existing preview row saved, or records the render
// fresh when no row exists for the blob key. Re-saving is a no-op.
func (s *DerivativeService) saveOne(ctx context.Context, sourceID uuid.UUID, item model.SaveItem) (uuid.UUID, error) {
	platform, err := variant.ParsePlatform(item.Platform)
	if err != nil {
		return uuid.Nil, err
	}
	if err := item.CropRectangle.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", model.ErrInvalidCropRect, err)
	}

	existing, err := s.repo.GetByBlobKey(ctx, item.BlobKey)
	if err == nil {
		if err := s.repo.MarkSaved(ctx, existing.ID); err != nil {
			return uuid.Nil, err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, model.ErrDerivativeNotFound) {
		return uuid.Nil, err
	}

	// Preview row already reclaimed; re-record from the request payload.
	source, err := s.assets.GetByID(ctx, sourceID)
	if err != nil {
		return uuid.Nil, err
	}
	rect := item.CropRectangle.ToRect()
	if err := model.ValidateRectWithin(rect, source.PixelWidth, source.PixelHeight); err != nil {
		return uuid.Nil, err
	}

	spec, ok := s.catalog.Get(platform, item.VariantName)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: no variant %s/%s", model.ErrNoVariantSpecs, item.Platform, item.VariantName)
	}

	now := time.Now()
	d := &model.GeneratedDerivative{
		ID:            uuid.New(),
		SourceAssetID: sourceID,
		Platform:      platform,
		VariantName:   item.VariantName,
		Crop:          rect,
		Score:         item.Score,
		SourceWidth:   source.PixelWidth,
		SourceHeight:  source.PixelHeight,
		BlobKey:       item.BlobKey,
		OutputWidth:   spec.TargetWidth,
		OutputHeight:  spec.TargetHeight,
		Saved:         true,
		SavedAt:       &now,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		if errors.Is(err, model.ErrDuplicateBlobKey) {
			// Raced another save of the same blob; the record exists.
			if existing, getErr := s.repo.GetByBlobKey(ctx, item.BlobKey); getErr == nil {
				if markErr := s.repo.MarkSaved(ctx, existing.ID); markErr == nil {
					return existing.ID, nil
				}
			}
		}
		return uuid.Nil, err
	}

	return d.ID, nil
}
