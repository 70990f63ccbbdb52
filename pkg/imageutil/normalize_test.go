package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalizePNGToJPG(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 100, 60), 512, 85)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err, "output must be a decodable JPEG")
	assert.Equal(t, 100, img.Bounds().Dx(), "images under the cap keep their size")
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestNormalizeCapsWidth(t *testing.T) {
	out, err := NormalizeToJPG(jpegBytes(t, 1600, 800), 512, 85)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy(), "aspect ratio is preserved")
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := NormalizeToJPG([]byte("not an image at all"), 512, 85)
	assert.Error(t, err)

	_, err = NormalizeToJPG(nil, 512, 85)
	assert.Error(t, err)
}

func TestNormalizeZeroMaxWidthSkipsResize(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 1024, 100), 0, 85)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
}

func TestApplyOrientationRotates(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))

	rotated := applyOrientation(src, 6)
	assert.Equal(t, 2, rotated.Bounds().Dx())
	assert.Equal(t, 4, rotated.Bounds().Dy())

	same := applyOrientation(src, 1)
	assert.Equal(t, src.Bounds(), same.Bounds())
}
