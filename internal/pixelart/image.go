package pixelart

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color. Clustering and distances work on RGB only;
// alpha is carried separately by Image.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// DistSquared is the squared Euclidean distance between two colors in RGB space.
func (c RGB) DistSquared(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

func (c RGB) packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Image is a pixel buffer with a fixed channel layout.
//
// Pixels are stored non-premultiplied in an *image.NRGBA whose bounds start at
// (0,0). HasAlpha records whether the image carries a meaningful alpha
// channel; when it is false every alpha byte is 255 and the image is treated
// as three-channel RGB throughout the pipeline.
type Image struct {
	NRGBA    *image.NRGBA
	HasAlpha bool
}

// NewImage allocates a fully opaque black image.
func NewImage(width, height int, hasAlpha bool) *Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &Image{NRGBA: img, HasAlpha: hasAlpha}
}

// FromImage copies any image.Image into an Image.
//
// The channel layout is decided once here: HasAlpha is true only if at least
// one pixel is not fully opaque.
func FromImage(src image.Image) *Image {
	img := imaging.Clone(src)
	hasAlpha := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			hasAlpha = true
			break
		}
	}
	return &Image{NRGBA: img, HasAlpha: hasAlpha}
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.NRGBA.Rect.Dx() }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.NRGBA.Rect.Dy() }

// RGBAt returns the color channels of the pixel at (x, y).
func (m *Image) RGBAt(x, y int) RGB {
	i := m.NRGBA.PixOffset(x, y)
	p := m.NRGBA.Pix[i : i+3 : i+3]
	return RGB{R: p[0], G: p[1], B: p[2]}
}

// AlphaAt returns the alpha of the pixel at (x, y).
func (m *Image) AlphaAt(x, y int) uint8 {
	return m.NRGBA.Pix[m.NRGBA.PixOffset(x, y)+3]
}

// SetPixel stores color and alpha at (x, y). Alpha is forced to 255 when the
// image has no alpha channel.
func (m *Image) SetPixel(x, y int, c RGB, alpha uint8) {
	if !m.HasAlpha {
		alpha = 255
	}
	m.NRGBA.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha})
}

// RGBPixels returns the color channels of every pixel in row-major order.
func (m *Image) RGBPixels() []RGB {
	return rgbPixels(m.NRGBA)
}

func rgbPixels(img *image.NRGBA) []RGB {
	b := img.Bounds()
	out := make([]RGB, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]})
			i += 4
		}
	}
	return out
}

// ColorCount pairs a color with the number of pixels that have it.
type ColorCount struct {
	Color RGB
	Count int
}

// Histogram counts the distinct colors in pixels. The result is ordered by
// descending count, ties broken by ascending packed RGB value, so it is stable
// for identical input.
func Histogram(pixels []RGB) []ColorCount {
	counts := make(map[RGB]int)
	for _, p := range pixels {
		counts[p]++
	}
	hist := make([]ColorCount, 0, len(counts))
	for c, n := range counts {
		hist = append(hist, ColorCount{Color: c, Count: n})
	}
	sort.Slice(hist, func(i, j int) bool {
		if hist[i].Count != hist[j].Count {
			return hist[i].Count > hist[j].Count
		}
		return hist[i].Color.packed() < hist[j].Color.packed()
	})
	return hist
}

// Palette returns the distinct RGB colors of the image, most frequent first.
func (m *Image) Palette() []ColorCount {
	return Histogram(m.RGBPixels())
}

// Scale returns a nearest-neighbour enlargement by an integer factor, used for
// previewing recovered sprites. Factors below 2 return the image unchanged.
func (m *Image) Scale(factor int) *Image {
	if factor < 2 {
		return m
	}
	scaled := imaging.Resize(m.NRGBA, m.Width()*factor, m.Height()*factor, imaging.NearestNeighbor)
	return &Image{NRGBA: scaled, HasAlpha: m.HasAlpha}
}
