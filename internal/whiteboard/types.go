package whiteboard

import (
	"fmt"
	"strings"
)

// Percentage is a value expressed in percent: 5 means 5%.
type Percentage float64

// Fraction returns the percentage as a fraction of one.
func (p Percentage) Fraction() float64 {
	return float64(p) / 100
}

func (p Percentage) String() string {
	return fmt.Sprintf("%g%%", float64(p))
}

// Enhancement selects the color enhancement applied after shading removal.
// Values combine as a bit set.
type Enhancement uint8

const (
	EnhanceNone         Enhancement = 0
	EnhanceStretch      Enhancement = 1 << 0
	EnhanceWhiteBalance Enhancement = 1 << 1
	EnhanceBoth                     = EnhanceStretch | EnhanceWhiteBalance
)

// Has reports whether all bits of flag are set.
func (e Enhancement) Has(flag Enhancement) bool {
	return e&flag == flag
}

func (e Enhancement) String() string {
	switch e {
	case EnhanceNone:
		return "none"
	case EnhanceStretch:
		return "stretch"
	case EnhanceWhiteBalance:
		return "whitebalance"
	case EnhanceBoth:
		return "both"
	default:
		return fmt.Sprintf("Enhancement(%d)", uint8(e))
	}
}

// ParseEnhancement parses one of "none", "stretch", "whitebalance" or "both".
func ParseEnhancement(s string) (Enhancement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return EnhanceNone, nil
	case "stretch":
		return EnhanceStretch, nil
	case "whitebalance", "white-balance", "white_balance":
		return EnhanceWhiteBalance, nil
	case "both":
		return EnhanceBoth, nil
	}
	return EnhanceNone, fmt.Errorf("unknown enhancement: %q", s)
}

// Point is a sub-pixel image coordinate. It is also used for aspect ratios,
// where X is the width term and Y the height term.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry is an output size in pixels.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// cornerNames are indexed like Script corners: clockwise from top-left.
var cornerNames = [4]string{"topLeft", "topRight", "bottomRight", "bottomLeft"}
