package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GridOptions controls GridOverlay.
type GridOptions struct {
	// Spacing is the distance between grid lines in pixels.
	Spacing int

	// ShowCoordinates labels grid intersections with their coordinates.
	ShowCoordinates bool

	// Color of the grid lines. Alpha is honored.
	Color color.NRGBA

	// Outline, when it has four points, is drawn as a closed quadrilateral
	// with its corners labeled TL, TR, BR and BL (clockwise from top-left).
	Outline []image.Point

	// OutlineColor of the quadrilateral.
	OutlineColor color.NRGBA
}

// GridOverlayResult contains the image with grid overlay
type GridOverlayResult struct {
	ImageResult
	GridSpacing int `json:"grid_spacing"`
}

var outlineLabels = [4]string{"TL", "TR", "BR", "BL"}

// GridOverlay draws a coordinate grid over img, and optionally the outline
// of a board quadrilateral, so corner coordinates can be read off the
// photo. The result is a PNG.
func GridOverlay(img image.Image, opts GridOptions) (*GridOverlayResult, error) {
	if opts.Spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive: %d", opts.Spacing)
	}
	if n := len(opts.Outline); n != 0 && n != 4 {
		return nil, fmt.Errorf("outline needs 4 corners, got %d", n)
	}

	src := img.Bounds()
	width, height := src.Dx(), src.Dy()

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, src.Min, draw.Src)

	line := image.NewUniform(opts.Color)
	for x := opts.Spacing; x < width; x += opts.Spacing {
		draw.Draw(result, image.Rect(x, 0, x+1, height), line, image.Point{}, draw.Over)
	}
	for y := opts.Spacing; y < height; y += opts.Spacing {
		draw.Draw(result, image.Rect(0, y, width, y+1), line, image.Point{}, draw.Over)
	}

	if opts.ShowCoordinates {
		fg := color.RGBA{255, 255, 255, 255}
		bg := color.RGBA{0, 0, 0, 180}
		for y := opts.Spacing; y < height; y += opts.Spacing {
			for x := opts.Spacing; x < width; x += opts.Spacing {
				drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", x, y), fg, bg)
			}
		}
	}

	if len(opts.Outline) == 4 {
		for i := 0; i < 4; i++ {
			drawLine(result, opts.Outline[i], opts.Outline[(i+1)%4], opts.OutlineColor)
		}
		for i, p := range opts.Outline {
			drawLabel(result, p.X+3, p.Y+3, outlineLabels[i], color.RGBA{255, 255, 255, 255}, opts.OutlineColor)
		}
	}

	encoded, err := Encode(result, "png", 0)
	if err != nil {
		return nil, err
	}
	return &GridOverlayResult{ImageResult: *encoded, GridSpacing: opts.Spacing}, nil
}

// drawLine draws a two pixel wide segment from a to b.
func drawLine(img *image.RGBA, a, b image.Point, c color.Color) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	bounds := img.Bounds()
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(a.X) + dx*t))
		y := int(math.Round(float64(a.Y) + dy*t))
		for _, p := range []image.Point{{x, y}, {x + 1, y}, {x, y + 1}} {
			if p.In(bounds) {
				img.Set(p.X, p.Y, c)
			}
		}
	}
}

// drawLabel draws text with its top-left corner at (x, y) on a filled box.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := metrics.Height.Ceil()

	box := image.Rect(x-1, y-1, x+w+1, y+h).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
