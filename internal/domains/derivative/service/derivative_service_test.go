package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/asset"
	"photoflow-backend/internal/domains/derivative/model"
	"photoflow-backend/internal/domains/derivative/repository"
	"photoflow-backend/internal/domains/variant"
	"photoflow-backend/internal/infrastructure/storage"
)

// ========================================
// FAKES
// ========================================

type fakeRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*model.GeneratedDerivative
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*model.GeneratedDerivative{}}
}

func (r *fakeRepo) Insert(_ context.Context, d *model.GeneratedDerivative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.BlobKey == d.BlobKey {
			return model.ErrDuplicateBlobKey
		}
	}
	cp := *d
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.rows[d.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.GeneratedDerivative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, model.ErrDerivativeNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) GetByBlobKey(_ context.Context, blobKey string) (*model.GeneratedDerivative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.BlobKey == blobKey {
			cp := *row
			return &cp, nil
		}
	}
	return nil, model.ErrDerivativeNotFound
}

func (r *fakeRepo) UpdateCrop(_ context.Context, id uuid.UUID, rect crop.Rect, score int) (*model.GeneratedDerivative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, model.ErrDerivativeNotFound
	}
	row.Crop = rect
	row.Score = score
	row.UpdatedAt = time.Now()
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) UpdateRender(_ context.Context, id uuid.UUID, rect crop.Rect, score int, blobKey string, outW, outH int) (*model.GeneratedDerivative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, model.ErrDerivativeNotFound
	}
	row.Crop = rect
	row.Score = score
	row.BlobKey = blobKey
	row.OutputWidth = outW
	row.OutputHeight = outH
	row.UpdatedAt = time.Now()
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) MarkSaved(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return model.ErrDerivativeNotFound
	}
	if !row.Saved {
		now := time.Now()
		row.Saved = true
		row.SavedAt = &now
	}
	return nil
}

func (r *fakeRepo) Query(_ context.Context, f repository.Filter) ([]*model.GeneratedDerivative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.GeneratedDerivative{}
	for _, row := range r.rows {
		if f.SourceAssetID != nil && row.SourceAssetID != *f.SourceAssetID {
			continue
		}
		if f.Platform != nil && row.Platform != *f.Platform {
			continue
		}
		if f.Saved != nil && row.Saved != *f.Saved {
			continue
		}
		if f.Exported != nil && row.Exported != *f.Exported {
			continue
		}
		if f.CreatedAfter != nil && !row.CreatedAt.After(*f.CreatedAfter) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) DeleteUnsavedOlderThan(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := []string{}
	for id, row := range r.rows {
		if !row.Saved && row.CreatedAt.Before(cutoff) {
			keys = append(keys, row.BlobKey)
			delete(r.rows, id)
		}
	}
	return keys, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (b *fakeBlobs) Upload(_ context.Context, key string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *fakeBlobs) Download(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object %s", key)
	}
	return data, nil
}

func (b *fakeBlobs) PresignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// fakeRenderer returns placeholder bytes, failing any render whose
// output width matches failWidth.
type fakeRenderer struct {
	failWidth int
}

func (r *fakeRenderer) ValidateSource([]byte) error { return nil }

func (r *fakeRenderer) Render(_ []byte, rect crop.Rect, outW, outH int, _ storage.Encoding) ([]byte, error) {
	if r.failWidth != 0 && outW == r.failWidth {
		return nil, storage.ErrDecode
	}
	return []byte(fmt.Sprintf("render-%dx%d-%+v", outW, outH, rect)), nil
}

type fakeAssets struct {
	sources map[uuid.UUID]*asset.SourceAsset
}

func (a *fakeAssets) GetByID(_ context.Context, id uuid.UUID) (*asset.SourceAsset, error) {
	src, ok := a.sources[id]
	if !ok {
		return nil, asset.ErrSourceNotFound
	}
	cp := *src
	return &cp, nil
}

// ========================================
// FIXTURE
// ========================================

func testCatalog(t *testing.T) *variant.Catalog {
	t.Helper()
	catalog, err := variant.NewCatalog([]variant.VariantSpec{
		{Platform: variant.PlatformInstagram, Name: "square", AspectW: 1, AspectH: 1, TargetWidth: 100, TargetHeight: 100},
		{Platform: variant.PlatformInstagram, Name: "portrait", AspectW: 4, AspectH: 5, TargetWidth: 80, TargetHeight: 100},
		{Platform: variant.PlatformWebsite, Name: "hero", AspectW: 16, AspectH: 9, TargetWidth: 160, TargetHeight: 90},
	})
	require.NoError(t, err)
	return catalog
}

type fixture struct {
	svc      *DerivativeService
	repo     *fakeRepo
	blobs    *fakeBlobs
	assets   *fakeAssets
	renderer *fakeRenderer
	sourceID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sourceID := uuid.New()
	assets := &fakeAssets{sources: map[uuid.UUID]*asset.SourceAsset{
		sourceID: {
			ID:          sourceID,
			BlobKey:     "sources/" + sourceID.String() + ".jpg",
			PixelWidth:  4000,
			PixelHeight: 3000,
			CreatedAt:   time.Now(),
		},
	}}

	blobs := newFakeBlobs()
	blobs.objects["sources/"+sourceID.String()+".jpg"] = []byte("source-bytes")

	repo := newFakeRepo()
	renderer := &fakeRenderer{}

	return &fixture{
		svc:      NewDerivativeService(repo, assets, blobs, renderer, testCatalog(t), time.Hour),
		repo:     repo,
		blobs:    blobs,
		assets:   assets,
		renderer: renderer,
		sourceID: sourceID,
	}
}

// ========================================
// GENERATE
// ========================================

func TestGenerateAllVariants(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram", "website"},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 3)
	assert.Empty(t, resp.Failures)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.ByPlatform["instagram"])
	assert.Equal(t, 1, resp.Summary.ByPlatform["website"])
	assert.Equal(t, f.sourceID, resp.SourceAsset.ID)
	assert.Equal(t, 4000, resp.SourceAsset.Width)

	// Every result has a stored blob, a persisted preview row and a URL.
	for _, r := range resp.Results {
		assert.True(t, f.blobs.has(r.BlobKey), r.BlobKey)
		row, err := f.repo.GetByID(context.Background(), r.DerivativeID)
		require.NoError(t, err)
		assert.False(t, row.Saved)
		assert.NotEmpty(t, r.PreviewURL)
	}
}

func TestGenerateSquareCropGeometry(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"square"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, crop.Rect{X: 500, Y: 0, Width: 3000, Height: 3000}, r.CropRectangle)
	assert.Equal(t, 100, r.Score)
	assert.Empty(t, r.Warnings)
}

func TestGenerateIsolatesVariantFailures(t *testing.T) {
	f := newFixture(t)
	f.renderer.failWidth = 80 // instagram/portrait renders at 80 wide

	resp, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram", "website"},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 2)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "portrait", resp.Failures[0].VariantName)
	assert.False(t, resp.Failures[0].Skipped)
	assert.Equal(t, 2, resp.Summary.Total)

	// The failed variant left nothing behind.
	assert.Equal(t, 2, f.repo.count())
}

func TestGenerateAllVariantsFailed(t *testing.T) {
	f := newFixture(t)
	f.renderer.failWidth = 100

	_, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"square"},
	})
	assert.ErrorIs(t, err, model.ErrAllVariantsFailed)
	assert.Equal(t, 0, f.repo.count())
}

func TestGenerateIsAdditive(t *testing.T) {
	f := newFixture(t)

	req := model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"square"},
	}
	_, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	_, err = f.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	// Regenerating never overwrites earlier previews.
	assert.Equal(t, 2, f.repo.count())
}

func TestGenerateUnknownPlatform(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"myspace"},
	})
	assert.ErrorIs(t, err, variant.ErrUnknownPlatform)
}

func TestGenerateNoVariantSpecs(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"does-not-exist"},
	})
	assert.ErrorIs(t, err, model.ErrNoVariantSpecs)
}

func TestGenerateSourceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: uuid.New().String(),
		Platforms:     []string{"instagram"},
	})
	assert.ErrorIs(t, err, asset.ErrSourceNotFound)
}

// cancelingRenderer cancels the request context as soon as its first
// render starts, standing in for a caller timeout firing while variants
// are in flight.
type cancelingRenderer struct {
	inner  *fakeRenderer
	cancel context.CancelFunc
	calls  atomic.Int32
}

func (r *cancelingRenderer) ValidateSource(src []byte) error {
	return r.inner.ValidateSource(src)
}

func (r *cancelingRenderer) Render(src []byte, rect crop.Rect, outW, outH int, enc storage.Encoding) ([]byte, error) {
	r.calls.Add(1)
	r.cancel()
	return r.inner.Render(src, rect, outW, outH, enc)
}

func TestGenerateCancelMidRenderCompletesAllSpecs(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := &cancelingRenderer{inner: f.renderer, cancel: cancel}
	svc := NewDerivativeService(f.repo, f.assets, f.blobs, renderer, testCatalog(t), time.Hour)

	resp, err := svc.Generate(ctx, model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram", "website"},
	})
	require.NoError(t, err)

	// Every spec was dispatched before the cancellation landed, so every
	// variant renders and persists.
	assert.Len(t, resp.Results, 3)
	assert.Empty(t, resp.Failures)
	assert.Equal(t, int32(3), renderer.calls.Load())
	assert.Equal(t, 3, f.repo.count())
}

func TestGenerateCanceledContextSkipsAllSpecs(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Generate(ctx, model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram", "website"},
	})
	// Nothing was dispatched, so nothing was produced.
	assert.ErrorIs(t, err, model.ErrAllVariantsFailed)
	assert.Equal(t, 0, f.repo.count())
}

// ========================================
// ADJUST
// ========================================

func seedDerivative(t *testing.T, f *fixture) *model.GeneratedDerivative {
	t.Helper()
	resp, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"square"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	d, err := f.repo.GetByID(context.Background(), resp.Results[0].DerivativeID)
	require.NoError(t, err)
	return d
}

func TestAdjustCropOnly(t *testing.T) {
	f := newFixture(t)
	d := seedDerivative(t, f)

	resp, err := f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 0, Y: 0, Width: 2000, Height: 2000},
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, crop.Rect{Width: 2000, Height: 2000}, resp.UpdatedDerivative.Crop)
	assert.Empty(t, resp.NewPreviewURL)
	// The stored render is untouched by a metadata-only adjustment.
	assert.Equal(t, d.BlobKey, resp.UpdatedDerivative.BlobKey)
	assert.True(t, f.blobs.has(d.BlobKey))
	// Provenance never changes.
	assert.Equal(t, d.SourceAssetID, resp.UpdatedDerivative.SourceAssetID)
}

func TestAdjustRescoresAgainstSafeZone(t *testing.T) {
	f := newFixture(t)
	d := seedDerivative(t, f)

	// A corner crop far from the center zone scores worse than the
	// original centered placement.
	resp, err := f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 0, Y: 0, Width: 1000, Height: 1000},
	})
	require.NoError(t, err)
	assert.Less(t, resp.UpdatedDerivative.Score, d.Score)
}

func TestAdjustOutOfBoundsLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	d := seedDerivative(t, f)

	_, err := f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 3500, Y: 0, Width: 1000, Height: 1000},
	})
	assert.ErrorIs(t, err, model.ErrInvalidCropRect)

	after, err := f.repo.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Crop, after.Crop)
	assert.Equal(t, d.Score, after.Score)
}

func TestAdjustNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Adjust(context.Background(), uuid.New(), model.AdjustRequest{
		CropRectangle: model.RectDTO{Width: 100, Height: 100},
	})
	assert.ErrorIs(t, err, model.ErrDerivativeNotFound)
}

func TestAdjustRegenerateReplacesBlob(t *testing.T) {
	f := newFixture(t)
	d := seedDerivative(t, f)

	resp, err := f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 100, Y: 0, Width: 3000, Height: 3000},
		Regenerate:    true,
	})
	require.NoError(t, err)

	assert.NotEqual(t, d.BlobKey, resp.UpdatedDerivative.BlobKey)
	assert.NotEmpty(t, resp.NewPreviewURL)
	assert.True(t, f.blobs.has(resp.UpdatedDerivative.BlobKey))
	// Old render is reclaimed once unreachable.
	assert.False(t, f.blobs.has(d.BlobKey))
}

func TestAdjustAfterSourceDeletion(t *testing.T) {
	f := newFixture(t)
	d := seedDerivative(t, f)

	// Source row disappears after generation.
	delete(f.assets.sources, f.sourceID)

	// A metadata-only adjustment still works from the denormalized
	// source bounds.
	resp, err := f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 200, Y: 100, Width: 2500, Height: 2500},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Re-rendering needs live pixels and must fail cleanly.
	_, err = f.svc.Adjust(context.Background(), d.ID, model.AdjustRequest{
		CropRectangle: model.RectDTO{X: 200, Y: 100, Width: 2500, Height: 2500},
		Regenerate:    true,
	})
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

// ========================================
// SAVE
// ========================================

func TestSaveMarksPreviewRows(t *testing.T) {
	f := newFixture(t)

	gen, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
	})
	require.NoError(t, err)

	items := make([]model.SaveItem, 0, len(gen.Results))
	for _, r := range gen.Results {
		items = append(items, model.SaveItem{
			Platform:    r.Platform,
			VariantName: r.VariantName,
			BlobKey:     r.BlobKey,
			CropRectangle: model.RectDTO{
				X: r.CropRectangle.X, Y: r.CropRectangle.Y,
				Width: r.CropRectangle.Width, Height: r.CropRectangle.Height,
			},
			Score: r.Score,
		})
	}

	resp, err := f.svc.Save(context.Background(), model.SaveRequest{
		SourceAssetID: f.sourceID.String(),
		Derivatives:   items,
	})
	require.NoError(t, err)
	assert.Equal(t, len(items), resp.Saved)

	for _, id := range resp.IDs {
		row, err := f.repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, row.Saved)
		assert.NotNil(t, row.SavedAt)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	f := newFixture(t)

	gen, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
		VariantNames:  []string{"square"},
	})
	require.NoError(t, err)
	r := gen.Results[0]

	req := model.SaveRequest{
		SourceAssetID: f.sourceID.String(),
		Derivatives: []model.SaveItem{{
			Platform:    r.Platform,
			VariantName: r.VariantName,
			BlobKey:     r.BlobKey,
			CropRectangle: model.RectDTO{
				X: r.CropRectangle.X, Y: r.CropRectangle.Y,
				Width: r.CropRectangle.Width, Height: r.CropRectangle.Height,
			},
			Score: r.Score,
		}},
	}

	first, err := f.svc.Save(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Save(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.IDs, second.IDs)
	assert.Equal(t, 1, f.repo.count())
}

func TestSaveRecordsReclaimedPreview(t *testing.T) {
	f := newFixture(t)

	// The preview row was purged; only the blob key survives on the
	// client side.
	resp, err := f.svc.Save(context.Background(), model.SaveRequest{
		SourceAssetID: f.sourceID.String(),
		Derivatives: []model.SaveItem{{
			Platform:      "instagram",
			VariantName:   "square",
			BlobKey:       "derivatives/stale/key.jpg",
			CropRectangle: model.RectDTO{X: 500, Y: 0, Width: 3000, Height: 3000},
			Score:         100,
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.IDs, 1)

	row, err := f.repo.GetByID(context.Background(), resp.IDs[0])
	require.NoError(t, err)
	assert.True(t, row.Saved)
	assert.Equal(t, 4000, row.SourceWidth)
	assert.Equal(t, 100, row.OutputWidth)
}

func TestSaveUnknownPlatformFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Save(context.Background(), model.SaveRequest{
		SourceAssetID: f.sourceID.String(),
		Derivatives: []model.SaveItem{{
			Platform:      "myspace",
			VariantName:   "square",
			BlobKey:       "derivatives/x.jpg",
			CropRectangle: model.RectDTO{Width: 100, Height: 100},
		}},
	})
	assert.ErrorIs(t, err, variant.ErrUnknownPlatform)
}

// ========================================
// QUERY
// ========================================

func TestQueryFiltersCombineWithAnd(t *testing.T) {
	f := newFixture(t)

	gen, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram", "website"},
	})
	require.NoError(t, err)
	require.Len(t, gen.Results, 3)

	all, err := f.svc.Query(context.Background(), model.QueryRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	instagramOnly, err := f.svc.Query(context.Background(), model.QueryRequest{Platform: "instagram"})
	require.NoError(t, err)
	assert.Len(t, instagramOnly, 2)

	saved := true
	none, err := f.svc.Query(context.Background(), model.QueryRequest{Platform: "instagram", Saved: &saved})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQueryRejectsUnknownPlatform(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Query(context.Background(), model.QueryRequest{Platform: "friendster"})
	assert.ErrorIs(t, err, variant.ErrUnknownPlatform)
}

// ========================================
// EXPORT
// ========================================

func TestExportToExcel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), model.GenerateRequest{
		SourceAssetID: f.sourceID.String(),
		Platforms:     []string{"instagram"},
	})
	require.NoError(t, err)

	file, rows, err := f.svc.ExportToExcel(context.Background(), model.QueryRequest{})
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Len(t, rows, 2)

	got, err := file.GetCellValue("Derivatives", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", got)
}

// Guard against fakes drifting from the real interfaces.
var (
	_ repository.Repository = (*fakeRepo)(nil)
	_ BlobStorage           = (*fakeBlobs)(nil)
	_ ImageRenderer         = (*fakeRenderer)(nil)
	_ ImageRenderer         = (*cancelingRenderer)(nil)
	_ asset.Repository      = (*fakeAssets)(nil)
)
