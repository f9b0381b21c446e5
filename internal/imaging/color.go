package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space: hue in degrees (0-360),
// saturation and lightness in percent (0-100).
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorResult contains a sampled color in several representations.
type ColorResult struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Radius  int      `json:"radius"`
	Samples int      `json:"samples"`
	Hex     string   `json:"hex"`
	RGB     RGBColor `json:"rgb"`
	Alpha   uint8    `json:"alpha"`
	HSL     HSLColor `json:"hsl"`
}

// SampleColor returns the average color of the square of the given radius
// centered on (x, y), clipped to the image. A radius of 0 samples a single
// pixel. Averaging a small neighborhood gives a steadier board color on
// noisy photos, which is what the result is usually fed into.
//
// Coordinates are 0-based from the top-left of the image bounds.
func SampleColor(img image.Image, x, y, radius int) (*ColorResult, error) {
	bounds := img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if !image.Pt(px, py).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}
	if radius < 0 {
		return nil, fmt.Errorf("radius must not be negative: %d", radius)
	}

	area := image.Rect(px-radius, py-radius, px+radius+1, py+radius+1).Intersect(bounds)

	var sr, sg, sb, sa float64
	n := 0
	for yy := area.Min.Y; yy < area.Max.Y; yy++ {
		for xx := area.Min.X; xx < area.Max.X; xx++ {
			r, g, b, a := img.At(xx, yy).RGBA()
			sr += float64(r >> 8)
			sg += float64(g >> 8)
			sb += float64(b >> 8)
			sa += float64(a >> 8)
			n++
		}
	}

	avg := func(v float64) uint8 { return uint8(math.Round(v / float64(n))) }
	r8, g8, b8, a8 := avg(sr), avg(sg), avg(sb), avg(sa)

	return &ColorResult{
		X:       x,
		Y:       y,
		Radius:  radius,
		Samples: n,
		Hex:     fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB:     RGBColor{R: r8, G: g8, B: b8},
		Alpha:   a8,
		HSL:     rgbToHSL(r8, g8, b8),
	}, nil
}

// rgbToHSL converts 8-bit RGB values to rounded HSL.
func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
