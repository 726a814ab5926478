package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"

	"photoflow-backend/internal/crop"
)

// ========================================
// ENCODINGS
// ========================================

type Encoding string

const (
	EncodingJPEG Encoding = "jpeg"
	EncodingPNG  Encoding = "png"
)

var ErrUnknownEncoding = errors.New("unknown output encoding")

// ParseEncoding resolves an encoding name. Empty string means JPEG.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "jpeg", "jpg":
		return EncodingJPEG, nil
	case "png":
		return EncodingPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

func (e Encoding) ContentType() string {
	if e == EncodingPNG {
		return "image/png"
	}
	return "image/jpeg"
}

func (e Encoding) Ext() string {
	if e == EncodingPNG {
		return "png"
	}
	return "jpg"
}

// ========================================
// RENDERER
// ========================================

var (
	// ErrDecode means the source bytes are corrupt or an unsupported
	// format. Fatal for one variant, never for the batch.
	ErrDecode = errors.New("cannot decode source image")

	// ErrInvalidCrop means the rectangle falls outside the decoded
	// bounds. The crop engine guarantees this never happens, so hitting
	// it is a programming-error-class failure.
	ErrInvalidCrop = errors.New("crop rectangle outside source bounds")
)

// Renderer extracts a crop rectangle from source bytes and resamples it
// to the target dimensions. Pure function of its inputs: identical calls
// produce byte-identical output.
type Renderer struct {
	JPEGQuality int
}

func NewRenderer(jpegQuality int) *Renderer {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 90
	}
	return &Renderer{JPEGQuality: jpegQuality}
}

// ValidateSource checks that bytes decode as JPEG or PNG without paying
// for a full pixel decode.
func (r *Renderer) ValidateSource(data []byte) error {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w: format %s not supported", ErrDecode, format)
	}
}

// Render decodes srcBytes, extracts rect, scales to outW x outH and
// re-encodes. The rect ratio equals the output ratio by the crop engine's
// contract, so scaling never re-crops. Upscales when the region is
// smaller than the output.
func (r *Renderer) Render(srcBytes []byte, rect crop.Rect, outW, outH int, encoding Encoding) ([]byte, error) {
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", ErrInvalidCrop, outW, outH)
	}

	src, err := imaging.Decode(bytes.NewReader(srcBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	if rect.Width <= 0 || rect.Height <= 0 ||
		rect.X < 0 || rect.Y < 0 ||
		rect.X+rect.Width > bounds.Dx() ||
		rect.Y+rect.Height > bounds.Dy() {
		return nil, fmt.Errorf("%w: rect %+v source %dx%d",
			ErrInvalidCrop, rect, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(src, image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
	resized := imaging.Resize(cropped, outW, outH, imaging.Lanczos)

	buf := new(bytes.Buffer)
	switch encoding {
	case EncodingPNG:
		if err := png.Encode(buf, resized); err != nil {
			return nil, fmt.Errorf("png encode failed: %w", err)
		}
	case EncodingJPEG:
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: r.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("jpeg encode failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}

	return buf.Bytes(), nil
}
