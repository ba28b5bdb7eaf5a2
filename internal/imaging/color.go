package imaging

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-detector/internal/pixelart"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB"
	Count      int      `json:"count"`      // Number of pixels with this color
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components
	HSL        HSLColor `json:"hsl"`        // HSL representation
}

// PaletteResult lists the colors of an image.
type PaletteResult struct {
	// TotalColors is the number of distinct colors, even when Colors is truncated.
	TotalColors int              `json:"total_colors"`
	Colors      []ColorFrequency `json:"colors"` // Colors sorted by frequency (descending)
}

// PaletteOf lists the distinct RGB colors of img, most frequent first.
//
// Unlike a general-purpose dominant color search there is no bucketing:
// pixel art palettes are small and exact, so every distinct value is its own
// entry. Alpha is ignored. A limit of zero or less returns every color.
//
// Ties in frequency are ordered by ascending RGB value, so the listing is
// stable for a given image.
func PaletteOf(img *pixelart.Image, limit int) *PaletteResult {
	hist := img.Palette()
	total := img.Width() * img.Height()

	n := len(hist)
	if limit > 0 && limit < n {
		n = limit
	}

	colors := make([]ColorFrequency, 0, n)
	for _, cc := range hist[:n] {
		colors = append(colors, ColorFrequency{
			Hex:        cc.Color.Hex(),
			Count:      cc.Count,
			Percentage: float64(cc.Count) / float64(total) * 100,
			RGB:        RGBColor{R: cc.Color.R, G: cc.Color.G, B: cc.Color.B},
			HSL:        rgbToHSL(cc.Color),
		})
	}

	return &PaletteResult{TotalColors: len(hist), Colors: colors}
}

// rgbToHSL converts an RGB color to whole-number HSL.
func rgbToHSL(c pixelart.RGB) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
