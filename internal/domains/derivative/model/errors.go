package model

import (
	"errors"
	"fmt"
	"net/http"

	"photoflow-backend/internal/crop"
	"photoflow-backend/internal/domains/asset"
	"photoflow-backend/internal/domains/variant"
	"photoflow-backend/internal/infrastructure/storage"
)

var (
	// ErrDerivativeNotFound: id does not resolve to a row.
	ErrDerivativeNotFound = errors.New("derivative not found")

	// ErrNoVariantSpecs: the request resolved to zero variant specs.
	ErrNoVariantSpecs = errors.New("no valid variant specifications")

	// ErrAllVariantsFailed: every spec in the batch failed; nothing was
	// produced.
	ErrAllVariantsFailed = errors.New("all variant specs failed")

	// ErrSourceUnavailable: regeneration or save needs the live source
	// and it cannot be resolved. A crop-only adjustment still succeeds.
	ErrSourceUnavailable = errors.New("source asset unavailable")

	// ErrInvalidCropRect: rectangle outside source bounds or with
	// non-positive dimensions.
	ErrInvalidCropRect = errors.New("invalid crop rectangle")

	// ErrDuplicateBlobKey: insert raced another save of the same blob.
	ErrDuplicateBlobKey = errors.New("derivative blob key already recorded")

	// ErrBlobUnavailable: transient blob store failure, caller may retry.
	ErrBlobUnavailable = errors.New("blob storage unavailable")
)

// ValidateRectWithin enforces the crop invariants against given source
// bounds.
func ValidateRectWithin(rect crop.Rect, srcW, srcH int) error {
	if rect.Width <= 0 || rect.Height <= 0 {
		return fmt.Errorf("%w: non-positive dimensions %dx%d", ErrInvalidCropRect, rect.Width, rect.Height)
	}
	if rect.X < 0 || rect.Y < 0 {
		return fmt.Errorf("%w: negative origin (%d,%d)", ErrInvalidCropRect, rect.X, rect.Y)
	}
	if rect.X+rect.Width > srcW || rect.Y+rect.Height > srcH {
		return fmt.Errorf("%w: %dx%d at (%d,%d) exceeds source %dx%d",
			ErrInvalidCropRect, rect.Width, rect.Height, rect.X, rect.Y, srcW, srcH)
	}
	return nil
}

// GetHTTPStatusCode maps domain errors to HTTP status codes.
// Client errors 400/404/422, transient upstream 502, everything else
// (invariant violations included) 500.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrDerivativeNotFound),
		errors.Is(err, asset.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoVariantSpecs),
		errors.Is(err, ErrInvalidCropRect),
		errors.Is(err, variant.ErrUnknownPlatform),
		errors.Is(err, crop.ErrUnknownStrategy),
		errors.Is(err, crop.ErrInvalidDimensions),
		errors.Is(err, storage.ErrUnknownEncoding):
		return http.StatusBadRequest
	case errors.Is(err, ErrSourceUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrDuplicateBlobKey):
		return http.StatusConflict
	case errors.Is(err, ErrAllVariantsFailed),
		errors.Is(err, ErrBlobUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
