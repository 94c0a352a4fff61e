// Package palette derives an accent colour from album artwork.
package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF format support
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	sampleSize   = 128
	paletteSize  = 5
	minAlpha     = 125
	nearWhite    = 250
	minSat       = 0.2
	minValue     = 0.2
	maxValue     = 0.9
	satBoost     = 1.8
	accentMinVal = 0.6
	accentMaxVal = 0.9
)

// ErrNoPixels is returned when the image has no opaque pixel to sample
var ErrNoPixels = errors.New("image has no opaque pixels")

// Extractor computes accent colours from encoded images
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an accent colour extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Accent returns the boosted accent colour of imageData as #rrggbb
func (e *Extractor) Accent(ctx context.Context, imageData []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sample := imaging.Fit(img, sampleSize, sampleSize, imaging.Box)

	swatches, err := Palette(sample, paletteSize)
	if err != nil {
		return "", err
	}

	chosen := pickVivid(swatches)
	accent := boost(chosen)

	e.logger.Debug("Accent colour extracted",
		zap.String("format", format),
		zap.Int("swatches", len(swatches)),
		zap.String("chosen", chosen.Hex()),
		zap.String("accent", hexTruncated(accent)))

	return hexTruncated(accent), nil
}

// hexTruncated formats c as #rrggbb, flooring each channel instead of rounding
func hexTruncated(c colorful.Color) string {
	c = c.Clamped()
	return fmt.Sprintf("#%02x%02x%02x", uint8(c.R*255), uint8(c.G*255), uint8(c.B*255))
}

// pickVivid returns the most saturated swatch that is neither too dark nor
// too bright, or the dominant swatch when none qualifies
func pickVivid(swatches []Swatch) colorful.Color {
	best := swatches[0].Color
	bestSat := 0.0
	for _, sw := range swatches {
		_, s, v := sw.Color.Hsv()
		if s > minSat && v > minValue && v < maxValue && s > bestSat {
			best, bestSat = sw.Color, s
		}
	}
	return best
}

func boost(c colorful.Color) colorful.Color {
	h, s, v := c.Hsv()
	s = min(1.0, s*satBoost)
	v = max(accentMinVal, min(accentMaxVal, v))
	return colorful.Hsv(h, s, v).Clamped()
}
