package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Bounds is the box an image is scaled down into.
type Bounds struct {
	Width  int
	Height int
}

// ThumbnailBounds matches the listing card size on the frontend.
var ThumbnailBounds = Bounds{Width: 480, Height: 320}

// MaxPixels rejects images whose decoded size would be unreasonable,
// e.g. a tiny PNG that declares 50000x50000.
const MaxPixels = 40_000_000

var (
	ErrNotImage = errors.New("not a supported image")
	ErrTooLarge = errors.New("image dimensions are too large")
)

// Processor produces derived images for uploads
type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Inspect reads only the image header and validates the declared size.
func Inspect(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", ErrNotImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", ErrNotImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return cfg.Width, cfg.Height, format, ErrTooLarge
	}
	return cfg.Width, cfg.Height, format, nil
}

// IsValidImage reports whether data is a decodable image of acceptable size.
func IsValidImage(data []byte) bool {
	_, _, _, err := Inspect(data)
	return err == nil
}

// Thumbnail returns a JPEG that fits ThumbnailBounds. Transparent areas are
// flattened onto white since JPEG has no alpha channel.
func (p *Processor) Thumbnail(src []byte) ([]byte, error) {
	if _, _, _, err := Inspect(src); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := fit(img.Bounds().Dx(), img.Bounds().Dy(), ThumbnailBounds)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales (width, height) down into b keeping the aspect ratio.
// Images already inside b keep their size.
func fit(width, height int, b Bounds) (int, int) {
	if width <= b.Width && height <= b.Height {
		return width, height
	}

	ratio := float64(width) / float64(height)
	newWidth, newHeight := b.Width, b.Height
	if float64(b.Width)/float64(b.Height) > ratio {
		newWidth = int(float64(b.Height) * ratio)
	} else {
		newHeight = int(float64(b.Width) / ratio)
	}

	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight
}
