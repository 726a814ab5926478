package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoflow-backend/internal/crop"
)

// testImageJPEG builds a w x h gradient JPEG in memory.
func testImageJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestParseEncoding(t *testing.T) {
	for _, s := range []string{"", "jpeg", "jpg"} {
		enc, err := ParseEncoding(s)
		require.NoError(t, err)
		assert.Equal(t, EncodingJPEG, enc)
	}

	enc, err := ParseEncoding("png")
	require.NoError(t, err)
	assert.Equal(t, EncodingPNG, enc)
	assert.Equal(t, "image/png", enc.ContentType())
	assert.Equal(t, "png", enc.Ext())

	_, err = ParseEncoding("webp")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestRenderOutputDimensions(t *testing.T) {
	r := NewRenderer(90)
	src := testImageJPEG(t, 400, 300)

	out, err := r.Render(src, crop.Rect{X: 50, Y: 0, Width: 300, Height: 300}, 150, 150, EncodingJPEG)
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 150, decoded.Bounds().Dx())
	assert.Equal(t, 150, decoded.Bounds().Dy())
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(90)
	src := testImageJPEG(t, 200, 200)

	out, err := r.Render(src, crop.Rect{X: 0, Y: 0, Width: 200, Height: 200}, 100, 100, EncodingPNG)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

// Identical inputs must produce byte-identical output; downstream blob
// keys and save idempotence rely on the renderer being a pure function.
func TestRenderIdempotent(t *testing.T) {
	r := NewRenderer(90)
	src := testImageJPEG(t, 320, 240)
	rect := crop.Rect{X: 40, Y: 0, Width: 240, Height: 240}

	first, err := r.Render(src, rect, 120, 120, EncodingJPEG)
	require.NoError(t, err)
	second, err := r.Render(src, rect, 120, 120, EncodingJPEG)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Source region smaller than the output: the renderer upscales.
func TestRenderUpscales(t *testing.T) {
	r := NewRenderer(90)
	src := testImageJPEG(t, 100, 100)

	out, err := r.Render(src, crop.Rect{X: 10, Y: 10, Width: 50, Height: 50}, 400, 400, EncodingJPEG)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 400, decoded.Bounds().Dy())
}

func TestRenderRejectsOutOfBoundsRect(t *testing.T) {
	r := NewRenderer(90)
	src := testImageJPEG(t, 200, 100)

	cases := []crop.Rect{
		{X: 0, Y: 0, Width: 201, Height: 100},
		{X: 150, Y: 0, Width: 100, Height: 100},
		{X: 0, Y: 50, Width: 200, Height: 60},
		{X: -1, Y: 0, Width: 100, Height: 100},
		{X: 0, Y: 0, Width: 0, Height: 100},
		{X: 0, Y: 0, Width: 100, Height: -5},
	}

	for _, rect := range cases {
		_, err := r.Render(src, rect, 100, 100, EncodingJPEG)
		assert.ErrorIs(t, err, ErrInvalidCrop, "rect %+v", rect)
	}
}

func TestRenderRejectsCorruptSource(t *testing.T) {
	r := NewRenderer(90)

	_, err := r.Render([]byte("not an image at all"), crop.Rect{X: 0, Y: 0, Width: 10, Height: 10}, 10, 10, EncodingJPEG)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestValidateSource(t *testing.T) {
	r := NewRenderer(90)

	assert.NoError(t, r.ValidateSource(testImageJPEG(t, 50, 50)))
	assert.ErrorIs(t, r.ValidateSource([]byte{0x00, 0x01}), ErrDecode)
}
