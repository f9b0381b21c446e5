package whiteboard

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

// homography maps points of the unit square onto a quadrilateral in
// normalized source coordinates. h[8] is fixed at 1.
type homography [9]float64

// solveHomography finds the projective map taking (0,0), (1,0), (1,1), (0,1)
// onto the four corners q, given clockwise from top-left.
func solveHomography(q [4]Point) (homography, error) {
	unit := [4]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		u, v := unit[i].X, unit[i].Y
		x, y := q[i].X, q[i].Y
		a.SetRow(2*i, []float64{u, v, 1, 0, 0, 0, -u * x, -v * x})
		a.SetRow(2*i+1, []float64{0, 0, 0, u, v, 1, -u * y, -v * y})
		b.SetVec(2*i, x)
		b.SetVec(2*i+1, y)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return homography{}, fmt.Errorf("solve homography: %w", err)
	}

	var out homography
	for i := 0; i < 8; i++ {
		out[i] = h.AtVec(i)
	}
	out[8] = 1
	return out, nil
}

// apply maps a unit-square point through the homography.
func (h homography) apply(u, v float64) (float64, float64, bool) {
	w := h[6]*u + h[7]*v + h[8]
	if math.Abs(w) < 1e-12 {
		return 0, 0, false
	}
	return (h[0]*u + h[1]*v + h[2]) / w, (h[3]*u + h[4]*v + h[5]) / w, true
}

// isConvex reports whether q is a strictly convex quadrilateral whose
// corners run clockwise on screen (y pointing down).
func isConvex(q [4]Point) bool {
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if !(cross > 1e-9) {
			return false
		}
	}
	return true
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// EstimateAspectRatio estimates the width/height ratio of the physical board
// whose image is the quadrilateral q (clockwise from top-left) in a photo of
// the given size. It recovers the camera focal length from the vanishing
// geometry of the quadrilateral, assuming square pixels and a principal point
// at the image center. When the focal length cannot be recovered, for
// example when opposite sides are parallel, it falls back to the ratio of the
// mean horizontal and vertical side lengths.
func EstimateAspectRatio(q [4]Point, size image.Point) float64 {
	fallback := sideRatio(q)

	scale := math.Max(float64(size.X), float64(size.Y))
	if scale <= 0 {
		return fallback
	}
	cx, cy := float64(size.X)/2, float64(size.Y)/2
	hom := func(p Point) [3]float64 {
		return [3]float64{(p.X - cx) / scale, (p.Y - cy) / scale, 1}
	}

	m1, m2, m4, m3 := hom(q[0]), hom(q[1]), hom(q[2]), hom(q[3])
	m14 := cross3(m1, m4)

	d2 := dot3(cross3(m2, m4), m3)
	d3 := dot3(cross3(m3, m4), m2)
	if math.Abs(d2) < 1e-12 || math.Abs(d3) < 1e-12 {
		return fallback
	}
	k2 := dot3(m14, m3) / d2
	k3 := dot3(m14, m2) / d3

	var n2, n3 [3]float64
	for i := 0; i < 3; i++ {
		n2[i] = k2*m2[i] - m1[i]
		n3[i] = k3*m3[i] - m1[i]
	}

	den := n2[2] * n3[2]
	if math.Abs(den) < 1e-9 {
		return fallback
	}
	f2 := -(n2[0]*n3[0] + n2[1]*n3[1]) / den
	if f2 <= 0 || math.IsNaN(f2) || math.IsInf(f2, 0) {
		return fallback
	}

	num := (n2[0]*n2[0]+n2[1]*n2[1])/f2 + n2[2]*n2[2]
	dd := (n3[0]*n3[0]+n3[1]*n3[1])/f2 + n3[2]*n3[2]
	if num <= 0 || dd <= 0 {
		return fallback
	}
	ratio := math.Sqrt(num / dd)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return fallback
	}
	return ratio
}

func sideRatio(q [4]Point) float64 {
	horizontal := distance(q[0], q[1]) + distance(q[3], q[2])
	vertical := distance(q[0], q[3]) + distance(q[1], q[2])
	if vertical == 0 {
		return 1
	}
	return horizontal / vertical
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// rectifiedSize returns the output size for a board quadrilateral before
// magnification. ratio is width over height.
func rectifiedSize(q [4]Point, ratio float64) (float64, float64) {
	if ratio >= 1 {
		w := math.Max(distance(q[0], q[1]), distance(q[3], q[2]))
		return w, w / ratio
	}
	h := math.Max(distance(q[0], q[3]), distance(q[1], q[2]))
	return h * ratio, h
}

// warpPerspective resamples the quadrilateral q of src into a width x height
// rectangle. Samples falling outside src take the background color.
func warpPerspective(src *image.NRGBA, q [4]Point, width, height int, bg color.NRGBA) (*image.NRGBA, error) {
	size := src.Bounds().Size()
	scale := math.Max(float64(size.X), float64(size.Y))

	var nq [4]Point
	for i, p := range q {
		nq[i] = Point{X: p.X / scale, Y: p.Y / scale}
	}
	h, err := solveHomography(nq)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for py := 0; py < height; py++ {
		v := (float64(py) + 0.5) / float64(height)
		row := dst.Pix[py*dst.Stride:]
		for px := 0; px < width; px++ {
			u := (float64(px) + 0.5) / float64(width)
			c := bg
			if x, y, ok := h.apply(u, v); ok {
				c = sampleBilinear(src, x*scale, y*scale, bg)
			}
			i := px * 4
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
	return dst, nil
}

// sampleBilinear reads src at continuous coordinates where pixel (i, j)
// covers [i, i+1) x [j, j+1). src must have its origin at (0, 0).
func sampleBilinear(src *image.NRGBA, x, y float64, bg color.NRGBA) color.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if x < 0 || y < 0 || x > float64(w) || y > float64(h) {
		return bg
	}

	fx, fy := x-0.5, y-0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)
	x1, y1 := clampInt(x0+1, 0, w-1), clampInt(y0+1, 0, h-1)
	x0, y0 = clampInt(x0, 0, w-1), clampInt(y0, 0, h-1)

	p00 := src.Pix[y0*src.Stride+x0*4:]
	p10 := src.Pix[y0*src.Stride+x1*4:]
	p01 := src.Pix[y1*src.Stride+x0*4:]
	p11 := src.Pix[y1*src.Stride+x1*4:]

	var out [4]uint8
	for i := 0; i < 4; i++ {
		top := float64(p00[i])*(1-tx) + float64(p10[i])*tx
		bottom := float64(p01[i])*(1-tx) + float64(p11[i])*tx
		out[i] = uint8(math.Round(top*(1-ty) + bottom*ty))
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
