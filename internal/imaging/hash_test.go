package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantOK  bool
	}{
		{"photo.jpg", "jpg", true},
		{"PHOTO.JPEG", "jpeg", true},
		{"anim.gif", "gif", true},
		{"icon.PNG", "png", true},
		{"doc.pdf", "pdf", false},
		{"noext", "", false},
		{"archive.tar.gz", "gz", false},
	}
	for _, tt := range tests {
		ext, ok := Extension(tt.name)
		assert.Equal(t, tt.wantExt, ext, tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
	}
}

func TestStableHash_SamePixelsSameHash(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	first := StableHash(encodePNG(t, img))
	second := StableHash(encodePNG(t, img))

	assert.Equal(t, first, second)
}

func TestStableHash_DifferentPixelsDifferentHash(t *testing.T) {
	red := encodePNG(t, solidImage(8, 8, color.RGBA{R: 200, A: 255}))
	blue := encodePNG(t, solidImage(8, 8, color.RGBA{B: 200, A: 255}))

	assert.NotEqual(t, StableHash(red), StableHash(blue))
}

func TestStableHash_DimensionsMatter(t *testing.T) {
	c := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	small := encodePNG(t, solidImage(4, 8, c))
	wide := encodePNG(t, solidImage(8, 4, c))

	assert.NotEqual(t, StableHash(small), StableHash(wide))
}

func TestStableHash_UndecodableFallsBackToRawBytes(t *testing.T) {
	raw := []byte("not an image at all")

	first := StableHash(raw)
	second := StableHash(raw)
	other := StableHash([]byte("different bytes"))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 32)
}
