package whiteboard

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

// ParseCorners parses four whitespace-separated "x,y" points, clockwise
// from the top-left: "10,12 400,8 410,300 5,310".
func ParseCorners(s string) ([4]Point, error) {
	var q [4]Point
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return q, fmt.Errorf("want 4 corners, got %d", len(fields))
	}
	for i, f := range fields {
		p, err := ParsePoint(f)
		if err != nil {
			return q, fmt.Errorf("%s: %w", cornerNames[i], err)
		}
		q[i] = p
	}
	return q, nil
}

// ParseAspectRatio parses "W:H" (e.g. "4:3") or a single ratio ("1.5").
func ParseAspectRatio(s string) (Point, error) {
	s = strings.TrimSpace(s)
	ws, hs, ok := strings.Cut(s, ":")
	if !ok {
		ws, hs = s, "1"
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid aspect ratio %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid aspect ratio %q: %w", s, err)
	}
	return Point{X: w, Y: h}, nil
}

// ParseGeometry parses "WIDTHxHEIGHT" (e.g. "1600x1200").
func ParseGeometry(s string) (Geometry, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Geometry{}, fmt.Errorf("invalid geometry %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Geometry{}, fmt.Errorf("invalid geometry %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Geometry{}, fmt.Errorf("invalid geometry %q: %w", s, err)
	}
	return Geometry{Width: w, Height: h}, nil
}
