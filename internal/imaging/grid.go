package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-detector/internal/pixelart"
)

// DefaultGridColor is a semi-transparent red.
const DefaultGridColor = "#FF000080"

// GridOverlayResult contains the image with grid overlay
type GridOverlayResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	SpacingX    float64 `json:"spacing_x"`
	SpacingY    float64 `json:"spacing_y"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// DrawGridOverlay draws the tile boundaries of a columns x rows grid over img.
//
// Lines are placed on the same integer boundaries Downsample uses for its
// tiles, so the overlay shows exactly which source pixels fed each output
// pixel. Source pixels are scaled by scale (nearest neighbor) before drawing
// so thin cells stay visible. With showCoordinates each cell is labeled with
// its column,row index.
func DrawGridOverlay(img *pixelart.Image, columns, rows, scale int, showCoordinates bool, gridColorHex string) (*image.NRGBA, error) {
	if columns < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d", pixelart.ErrInvalidSize, columns, rows)
	}
	if scale < 1 {
		scale = 1
	}

	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		gridColor, _ = parseHexColor(DefaultGridColor)
	}

	srcW, srcH := img.Width(), img.Height()
	result := imaging.Resize(img.NRGBA, srcW*scale, srcH*scale, imaging.NearestNeighbor)
	bounds := result.Bounds()
	fill := image.NewUniform(gridColor)

	// Vertical lines
	for c := 1; c < columns; c++ {
		x := c * srcW / columns * scale
		draw.Draw(result, image.Rect(x, 0, x+1, bounds.Dy()), fill, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for r := 1; r < rows; r++ {
		y := r * srcH / rows * scale
		draw.Draw(result, image.Rect(0, y, bounds.Dx(), y+1), fill, image.Point{}, draw.Over)
	}

	if showCoordinates {
		labelColor := color.NRGBA{255, 255, 255, 255}
		bgColor := color.NRGBA{0, 0, 0, 180}

		for r := 0; r < rows; r++ {
			for c := 0; c < columns; c++ {
				x := c * srcW / columns * scale
				y := r * srcH / rows * scale
				drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", c, r), labelColor, bgColor)
			}
		}
	}

	return result, nil
}

// GridOverlay detects the cell spacing of img and returns the overlay of the
// implied grid as a base64 PNG.
func GridOverlay(img *pixelart.Image, scale int, showCoordinates bool, gridColorHex string) (*GridOverlayResult, error) {
	spacing, err := pixelart.DetectSpacing(img)
	if err != nil {
		return nil, err
	}
	columns, rows := spacing.GridSize(img.Width(), img.Height())

	overlay, err := DrawGridOverlay(img, columns, rows, scale, showCoordinates, gridColorHex)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodePNGBase64(overlay)
	if err != nil {
		return nil, err
	}

	return &GridOverlayResult{
		Width:       overlay.Bounds().Dx(),
		Height:      overlay.Bounds().Dy(),
		Columns:     columns,
		Rows:        rows,
		SpacingX:    spacing.Horizontal,
		SpacingY:    spacing.Vertical,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	switch len(hex) {
	case 7:
		c, err := colorful.Hex(hex)
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 9:
		c, err := colorful.Hex(hex[:7])
		if err != nil {
			return color.NRGBA{}, err
		}
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid hex color length")
}

// drawLabel draws a simple text label at the given position
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	// 3x5 pixel font for digits and comma
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	bgRect := image.Rect(x-1, y-1, x+labelWidth, y+labelHeight).Intersect(bounds)
	draw.Draw(img, bgRect, image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				p := image.Pt(cx+col, y+row)
				if p.In(bounds) {
					img.SetNRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
