package whiteboard

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnhancement(t *testing.T) {
	for _, e := range []Enhancement{EnhanceNone, EnhanceStretch, EnhanceWhiteBalance, EnhanceBoth} {
		got, err := ParseEnhancement(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := ParseEnhancement(" Both ")
	require.NoError(t, err)
	assert.Equal(t, EnhanceBoth, got)

	_, err = ParseEnhancement("sharpen")
	assert.Error(t, err)
}

func TestEnhancement_Has(t *testing.T) {
	assert.True(t, EnhanceBoth.Has(EnhanceStretch))
	assert.True(t, EnhanceBoth.Has(EnhanceWhiteBalance))
	assert.False(t, EnhanceStretch.Has(EnhanceWhiteBalance))
	assert.True(t, EnhanceNone.Has(EnhanceNone))
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 0.05, Percentage(5).Fraction(), 1e-12)
	assert.Equal(t, "0.01%", Percentage(0.01).String())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"Purple", color.NRGBA{128, 0, 128, 255}},
		{"#abc", color.NRGBA{0xAA, 0xBB, 0xCC, 255}},
		{"#FF8000", color.NRGBA{255, 128, 0, 255}},
		{"#FF000080", color.NRGBA{255, 0, 0, 128}},
		{"none", color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "notacolor", "#12345", "#GGGGGG"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "#FF8000", FormatColor(color.NRGBA{255, 128, 0, 255}))
	assert.Equal(t, "#FF000080", FormatColor(color.NRGBA{255, 0, 0, 128}))
}
