package whiteboard

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// strokeMask marks pen strokes: pixels darker than the mean of their
// size x size neighborhood by more than offset. The comparison is done on
// the negated grayscale image, so strokes are the bright outliers there.
func strokeMask(img *image.NRGBA, size int, offset Percentage) []bool {
	negated := imaging.Invert(imaging.Grayscale(img))
	mean := blur.Box(negated, float64(size-1)/2)

	b := negated.Bounds()
	limit := offset.Fraction() * 255
	mask := make([]bool, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := float64(negated.Pix[y*negated.Stride+x*4])
			m := float64(mean.Pix[y*mean.Stride+x*4])
			mask[y*b.Dx()+x] = v-m > limit
		}
	}
	return mask
}

// removeShading keeps the stroke pixels of img and paints everything else
// with bg.
func removeShading(img *image.NRGBA, size int, offset Percentage, bg color.NRGBA) *image.NRGBA {
	mask := strokeMask(img, size, offset)
	out := imaging.Clone(img)
	w := out.Rect.Dx()
	for y := 0; y < out.Rect.Dy(); y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			if mask[y*w+x] {
				continue
			}
			i := x * 4
			row[i+0], row[i+1], row[i+2], row[i+3] = bg.R, bg.G, bg.B, bg.A
		}
	}
	return out
}

// modulateSaturation scales the HSL saturation of every pixel.
func modulateSaturation(img *image.NRGBA, saturation Percentage) *image.NRGBA {
	factor := saturation.Fraction()
	if factor == 1 {
		return img
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, l := cc.Hsl()
		s = math.Min(1, s*factor)
		r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})
}

// contrastStretch maps the darkest channel value to 0 and the brightest to
// 255, using one linear map for all channels so hues are kept.
func contrastStretch(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for _, v := range img.Pix[i : i+3] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo || (lo == 0 && hi == 255) {
		return img
	}

	scale := 255 / float64(hi-lo)
	var lut [256]uint8
	for v := range lut {
		lut[v] = clampUint8(math.Round((float64(v) - float64(lo)) * scale))
	}
	return applyLUT(img, lut, lut, lut)
}

// whiteBalance averages the brightest percent of pixels and scales each
// channel so that the average becomes white. Whole luminance levels are
// taken from the top of the histogram until percent of the pixels are
// covered.
func whiteBalance(img *image.NRGBA, percent Percentage) *image.NRGBA {
	gray := imaging.Grayscale(img)
	bins := histogram.NewRGBAHistogram(gray).R.Bins
	total := gray.Rect.Dx() * gray.Rect.Dy()
	if total == 0 {
		return img
	}

	want := int(math.Ceil(float64(total) * percent.Fraction()))
	if want < 1 {
		want = 1
	}
	cutoff, n := 0, 0
	for l := 255; l >= 0; l-- {
		n += bins[l]
		if n >= want {
			cutoff = l
			break
		}
	}

	var avg [3]float64
	n = 0
	w := gray.Rect.Dx()
	for y := 0; y < gray.Rect.Dy(); y++ {
		src := img.Pix[y*img.Stride:]
		lum := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			if int(lum[i]) < cutoff {
				continue
			}
			avg[0] += float64(src[i+0])
			avg[1] += float64(src[i+1])
			avg[2] += float64(src[i+2])
			n++
		}
	}
	if n == 0 {
		return img
	}

	var luts [3][256]uint8
	for c := 0; c < 3; c++ {
		mean := avg[c] / float64(n)
		gain := 1.0
		if mean > 0 {
			gain = 255 / mean
		}
		for v := range luts[c] {
			luts[c][v] = clampUint8(math.Round(float64(v) * gain))
		}
	}
	return applyLUT(img, luts[0], luts[1], luts[2])
}

// whiteThreshold turns every pixel whose intensity is at or above percent
// into pure white. Fully transparent pixels are left alone.
func whiteThreshold(img *image.NRGBA, percent Percentage) *image.NRGBA {
	level := clampUint8(math.Round(percent.Fraction() * 255))
	mask := segment.Threshold(img, level)

	out := imaging.Clone(img)
	w := out.Rect.Dx()
	for y := 0; y < out.Rect.Dy(); y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			if mask.Pix[y*mask.Stride+x] == 0 || row[i+3] == 0 {
				continue
			}
			row[i+0], row[i+1], row[i+2], row[i+3] = 255, 255, 255, 255
		}
	}
	return out
}

func applyLUT(img *image.NRGBA, r, g, b [256]uint8) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: r[c.R], G: g[c.G], B: b[c.B], A: c.A}
	})
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
