package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB != (RGBColor{255, 128, 64}) {
		t.Errorf("RGB: got %+v, want (255,128,64)", result.RGB)
	}
	if result.Alpha != 255 {
		t.Errorf("Alpha: got %d, want 255", result.Alpha)
	}
	if result.Samples != 1 {
		t.Errorf("Samples: got %d, want 1", result.Samples)
	}
}

func TestSampleColor_AveragesNeighborhood(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{200, 200, 200, 255})
	img.Set(5, 5, color.RGBA{20, 20, 20, 255})

	result, err := SampleColor(img, 5, 5, 1)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Samples != 9 {
		t.Errorf("Samples: got %d, want 9", result.Samples)
	}
	// (8*200 + 20) / 9 = 180
	if result.RGB.R != 180 {
		t.Errorf("R: got %d, want 180", result.RGB.R)
	}
}

func TestSampleColor_ClipsAtEdges(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	result, err := SampleColor(img, 0, 0, 2)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Samples != 9 {
		t.Errorf("Samples: got %d, want 9", result.Samples)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		x, y   int
		radius int
	}{
		{"negative x", -1, 50, 0},
		{"negative y", 50, -1, 0},
		{"x at width", 100, 50, 0},
		{"y at height", 50, 100, 0},
		{"negative radius", 50, 50, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y, tt.radius)
			if err == nil {
				t.Error("SampleColor should fail")
			}
		})
	}
}

func TestSampleColor_SubImageOrigin(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	img.Set(10, 10, color.RGBA{0, 0, 255, 255})
	sub := img.SubImage(image.Rect(10, 10, 20, 20))

	result, err := SampleColor(sub, 0, 0, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Hex != "#0000FF" {
		t.Errorf("Hex: got %s, want #0000FF", result.Hex)
	}
}

func TestRgbToHSL(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		wantH   int
		wantS   int
		wantL   int
	}{
		{"red", 255, 0, 0, 0, 100, 50},
		{"green", 0, 255, 0, 120, 100, 50},
		{"blue", 0, 0, 255, 240, 100, 50},
		{"white", 255, 255, 255, 0, 0, 100},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsl := rgbToHSL(tt.r, tt.g, tt.b)

			if abs(hsl.H-tt.wantH) > 1 {
				t.Errorf("H: got %d, want %d", hsl.H, tt.wantH)
			}
			if abs(hsl.S-tt.wantS) > 1 {
				t.Errorf("S: got %d, want %d", hsl.S, tt.wantS)
			}
			if abs(hsl.L-tt.wantL) > 1 {
				t.Errorf("L: got %d, want %d", hsl.L, tt.wantL)
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
