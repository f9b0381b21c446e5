package whiteboard

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"reflect"

	"github.com/disintegration/imaging"
)

// Default parameter values used by NewScript and Reset.
const (
	DefaultEnhance       = EnhanceStretch
	DefaultFilterOffset  = Percentage(5)
	DefaultFilterSize    = 15
	DefaultMagnification = 1.0
	DefaultSaturation    = Percentage(200)
	DefaultWhiteBalance  = Percentage(0.01)
)

// DefaultBackgroundColor is white.
var DefaultBackgroundColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Script holds the parameters of the whiteboard cleanup pipeline.
//
// A Script may be shared by goroutines calling Execute as long as none of
// them modifies it.
type Script struct {
	// AspectRatio is the width:height ratio of the real board. When nil the
	// ratio is estimated from the corners.
	AspectRatio *Point

	// BackgroundColor replaces every pixel that is not part of a stroke.
	BackgroundColor color.NRGBA

	// Dimensions forces the output size. When nil the size is derived from
	// the corners (or the input) and Magnification.
	Dimensions *Geometry

	Enhance Enhancement

	// FilterOffset is how much darker than its neighborhood a pixel has to
	// be to count as a stroke.
	FilterOffset Percentage

	// FilterSize is the side of the neighborhood window in pixels.
	FilterSize int

	Magnification float64

	// Saturation scales the HSL saturation; 100 leaves it unchanged.
	Saturation Percentage

	// SharpeningAmount is the sigma of the sharpening filter; 0 disables it.
	SharpeningAmount float64

	// Threshold forces pixels at or above this intensity to white; 0
	// disables it.
	Threshold Percentage

	// WhiteBalance is the percentage of brightest pixels averaged to find
	// the board white.
	WhiteBalance Percentage

	corners *[4]Point
}

// NewScript returns a Script with default parameters and no corners.
func NewScript() *Script {
	s := &Script{}
	s.Reset()
	return s
}

// Reset restores every parameter to its default and clears the corners.
func (s *Script) Reset() {
	*s = Script{
		BackgroundColor: DefaultBackgroundColor,
		Enhance:         DefaultEnhance,
		FilterOffset:    DefaultFilterOffset,
		FilterSize:      DefaultFilterSize,
		Magnification:   DefaultMagnification,
		Saturation:      DefaultSaturation,
		WhiteBalance:    DefaultWhiteBalance,
	}
}

// SetCoordinates sets the board corners in source pixels, clockwise from
// the top-left. They are checked against the image in Execute.
func (s *Script) SetCoordinates(topLeft, topRight, bottomRight, bottomLeft Point) {
	s.corners = &[4]Point{topLeft, topRight, bottomRight, bottomLeft}
}

// ClearCoordinates disables perspective correction.
func (s *Script) ClearCoordinates() {
	s.corners = nil
}

// Coordinates returns the corners and whether they are set.
func (s *Script) Coordinates() ([4]Point, bool) {
	if s.corners == nil {
		return [4]Point{}, false
	}
	return *s.corners, true
}

// MaxOutputPixels bounds the area of the image Execute may produce.
const MaxOutputPixels = 100_000_000

// Validate checks the parameters against an input image with the given
// bounds.
func (s *Script) Validate(bounds image.Rectangle) error {
	if s.corners != nil {
		w, h := float64(bounds.Dx()), float64(bounds.Dy())
		for i, p := range s.corners {
			if p.X < 0 || p.X > w || math.IsNaN(p.X) {
				return outOfRange(cornerNames[i], p, fmt.Sprintf("x must be within [0, %g]", w))
			}
			if p.Y < 0 || p.Y > h || math.IsNaN(p.Y) {
				return outOfRange(cornerNames[i], p, fmt.Sprintf("y must be within [0, %g]", h))
			}
		}
		if !isConvex(*s.corners) {
			return &ArgumentError{Param: "coordinates", Value: *s.corners, Reason: "corners must form a convex quadrilateral in clockwise order"}
		}
	}

	if s.Dimensions != nil && (s.Dimensions.Width <= 0 || s.Dimensions.Height <= 0) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, s.Dimensions.Width, s.Dimensions.Height)
	}
	if s.AspectRatio != nil && !(isPositive(s.AspectRatio.X) && isPositive(s.AspectRatio.Y)) {
		return outOfRange("aspectRatio", *s.AspectRatio, "both terms must be positive")
	}
	if s.FilterSize <= 0 {
		return outOfRange("filterSize", s.FilterSize, "must be positive")
	}
	if !isPositive(s.Magnification) {
		return outOfRange("magnification", s.Magnification, "must be positive")
	}
	if !(s.SharpeningAmount >= 0) || math.IsInf(s.SharpeningAmount, 1) {
		return outOfRange("sharpeningAmount", s.SharpeningAmount, "must be finite and not negative")
	}
	if !(s.Saturation >= 0) || math.IsInf(float64(s.Saturation), 1) {
		return outOfRange("saturation", s.Saturation, "must be finite and not negative")
	}
	for _, p := range []struct {
		name  string
		value Percentage
	}{
		{"filterOffset", s.FilterOffset},
		{"threshold", s.Threshold},
		{"whiteBalance", s.WhiteBalance},
	} {
		if !(p.value >= 0 && p.value <= 100) {
			return outOfRange(p.name, p.value, "must be within [0, 100]")
		}
	}

	w, h := s.outputExtent(bounds.Size())
	if w*h > MaxOutputPixels {
		param, value := "magnification", interface{}(s.Magnification)
		if s.Dimensions != nil {
			param, value = "dimensions", *s.Dimensions
		}
		return outOfRange(param, value, fmt.Sprintf("output of %.0fx%.0f exceeds %d pixels", w, h, MaxOutputPixels))
	}
	return nil
}

// OutputSize returns the size Execute produces for an input of the given
// size.
func (s *Script) OutputSize(size image.Point) Geometry {
	w, h := s.outputExtent(size)
	return Geometry{
		Width:  maxInt(1, int(math.Round(w))),
		Height: maxInt(1, int(math.Round(h))),
	}
}

func (s *Script) outputExtent(size image.Point) (float64, float64) {
	if s.Dimensions != nil {
		return float64(s.Dimensions.Width), float64(s.Dimensions.Height)
	}

	w, h := float64(size.X), float64(size.Y)
	if s.corners != nil {
		var ratio float64
		if s.AspectRatio != nil {
			ratio = s.AspectRatio.X / s.AspectRatio.Y
		} else {
			ratio = EstimateAspectRatio(*s.corners, size)
		}
		w, h = rectifiedSize(*s.corners, ratio)
	}
	return w * s.Magnification, h * s.Magnification
}

// isPositive is false for NaN and infinities.
func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Execute validates the parameters and runs the pipeline on img. The input
// is not modified.
func (s *Script) Execute(img image.Image) (*image.NRGBA, error) {
	if isNilImage(img) {
		return nil, ErrNilImage
	}
	if err := s.Validate(img.Bounds()); err != nil {
		return nil, err
	}

	out, err := s.rectify(img)
	if err != nil {
		return nil, err
	}
	out = removeShading(out, s.FilterSize, s.FilterOffset, s.BackgroundColor)
	out = modulateSaturation(out, s.Saturation)
	if s.Enhance.Has(EnhanceWhiteBalance) {
		out = whiteBalance(out, s.WhiteBalance)
	}
	if s.Enhance.Has(EnhanceStretch) {
		out = contrastStretch(out)
	}
	if s.SharpeningAmount > 0 {
		out = imaging.Sharpen(out, s.SharpeningAmount)
	}
	if s.Threshold > 0 {
		out = whiteThreshold(out, s.Threshold)
	}
	return out, nil
}

// rectify applies the perspective correction and sizing steps.
func (s *Script) rectify(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	size := src.Bounds().Size()
	out := s.OutputSize(size)

	if s.corners != nil {
		dst, err := warpPerspective(src, *s.corners, out.Width, out.Height, s.BackgroundColor)
		if err != nil {
			return nil, &ArgumentError{Param: "coordinates", Value: *s.corners, Reason: "degenerate quadrilateral", Err: err}
		}
		return dst, nil
	}

	if out.Width == size.X && out.Height == size.Y {
		return src, nil
	}
	return imaging.Resize(src, out.Width, out.Height, imaging.Lanczos), nil
}

func isNilImage(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
