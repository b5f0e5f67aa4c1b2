package imageprocessor

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail_ScalesDownKeepingRatio(t *testing.T) {
	p := NewProcessor(80)
	out, err := p.Thumbnail(pngOf(t, 1200, 600))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestThumbnail_DoesNotUpscale(t *testing.T) {
	p := NewProcessor(0)
	out, err := p.Thumbnail(pngOf(t, 100, 50))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestIsValidImage(t *testing.T) {
	assert.True(t, IsValidImage(pngOf(t, 4, 4)))
	assert.False(t, IsValidImage([]byte("PK\x03\x04 not an image")))
}

func TestThumbnail_FlattensTransparencyOntoWhite(t *testing.T) {
	p := NewProcessor(90)
	out, err := p.Thumbnail(pngOf(t, 32, 32))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(20, 20).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestInspect_RejectsHugeDeclaredSize(t *testing.T) {
	_, _, _, err := Inspect(pngOf(t, 4, 4))
	require.NoError(t, err)

	// заголовок PNG с заявленным размером 50000x50000
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:20], 50000)
	binary.BigEndian.PutUint32(data[20:24], 50000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	w, h, format, err := Inspect(data)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, 50000, w)
	assert.Equal(t, 50000, h)
	assert.Equal(t, "png", format)

	_, err = NewProcessor(80).Thumbnail(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFit(t *testing.T) {
	w, h := fit(960, 960, ThumbnailBounds)
	assert.Equal(t, 320, w)
	assert.Equal(t, 320, h)

	w, h = fit(5000, 1, ThumbnailBounds)
	assert.Equal(t, 480, w)
	assert.Equal(t, 1, h)
}
