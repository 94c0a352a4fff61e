package palette

import (
	"image"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Swatch is one palette colour and the number of pixels it stands for
type Swatch struct {
	Color      colorful.Color
	Population int
}

type pixel [3]uint8

type box []pixel

// Palette quantizes img into at most n colours by median cut, most populous
// first. Transparent and near-white pixels are ignored unless nothing else
// is left.
func Palette(img image.Image, n int) ([]Swatch, error) {
	pixels := collect(imaging.Clone(img), true)
	if len(pixels) == 0 {
		pixels = collect(imaging.Clone(img), false)
	}
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}

	boxes := []box{pixels}
	for len(boxes) < n {
		i := largestSplittable(boxes)
		if i < 0 {
			break
		}
		left, right := boxes[i].split()
		boxes[i] = left
		boxes = append(boxes, right)
	}

	swatches := make([]Swatch, len(boxes))
	for i, b := range boxes {
		swatches[i] = Swatch{Color: b.average(), Population: len(b)}
	}
	slices.SortStableFunc(swatches, func(a, b Swatch) int {
		return b.Population - a.Population
	})

	return swatches, nil
}

func collect(img *image.NRGBA, skipWhite bool) box {
	out := make(box, 0, len(img.Pix)/4)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
		if a < minAlpha {
			continue
		}
		if skipWhite && r > nearWhite && g > nearWhite && b > nearWhite {
			continue
		}
		out = append(out, pixel{r, g, b})
	}
	return out
}

func largestSplittable(boxes []box) int {
	best := -1
	for i, b := range boxes {
		if _, span := b.widest(); span == 0 {
			continue
		}
		if best < 0 || len(b) > len(boxes[best]) {
			best = i
		}
	}
	return best
}

// widest returns the channel with the largest value range
func (b box) widest() (channel int, span int) {
	for c := 0; c < 3; c++ {
		lo, hi := uint8(255), uint8(0)
		for _, p := range b {
			lo = min(lo, p[c])
			hi = max(hi, p[c])
		}
		if int(hi)-int(lo) > span {
			channel, span = c, int(hi)-int(lo)
		}
	}
	return channel, span
}

// split cuts the box at the median of its widest channel. Equal values stay
// on the same side so both halves are non-empty and disjoint.
func (b box) split() (box, box) {
	c, _ := b.widest()
	slices.SortFunc(b, func(x, y pixel) int { return int(x[c]) - int(y[c]) })

	median := b[len(b)/2][c]
	cut := slices.IndexFunc(b, func(p pixel) bool { return p[c] == median })
	if cut == 0 {
		cut = slices.IndexFunc(b, func(p pixel) bool { return p[c] > median })
	}
	return b[:cut], b[cut:]
}

func (b box) average() colorful.Color {
	var sum [3]int
	for _, p := range b {
		sum[0] += int(p[0])
		sum[1] += int(p[1])
		sum[2] += int(p[2])
	}
	n := float64(len(b)) * 255
	return colorful.Color{R: float64(sum[0]) / n, G: float64(sum[1]) / n, B: float64(sum[2]) / n}
}
