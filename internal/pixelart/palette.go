package pixelart

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/ericpauley/go-quantize/quantize"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxColors is the upper bound of the automatic palette size search.
const DefaultMaxColors = 128

// elbowOffset converts the arg-max of the rate-of-change sequence into a
// palette size one step past the elbow.
const elbowOffset = 2

// PaletteSizeReport holds the distortion curve behind a palette size choice.
type PaletteSizeReport struct {
	// Distortions[k-1] is the distortion of a k-color median-cut palette.
	// The curve is non-increasing.
	Distortions []float64 `json:"distortions"`

	// Rates[i] is the relative change from Distortions[i] to Distortions[i+1].
	Rates []float64 `json:"rates"`

	// Best is the selected palette size.
	Best int `json:"best"`
}

// SelectPaletteSize picks a color count for img between 2 and maxK using the
// elbow of the distortion curve. maxK below 2 selects 2.
func SelectPaletteSize(img *Image, maxK int) (int, error) {
	report, err := AnalyzePaletteSizes(img, maxK)
	if err != nil {
		return 0, err
	}
	return report.Best, nil
}

// AnalyzePaletteSizes computes the distortion of median-cut palettes of
// 1..maxK colors and selects a palette size from them.
//
// distortion(k) is the sum over all pixels of the squared RGB distance to the
// nearest palette color. The relative change between successive k is
// computed and the palette size is (index of the largest change) + 1 +
// elbowOffset, floored at 2 and capped at maxK.
func AnalyzePaletteSizes(img *Image, maxK int) (*PaletteSizeReport, error) {
	if maxK < 2 {
		return &PaletteSizeReport{Best: 2}, nil
	}
	pixels := img.RGBPixels()
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no pixels to measure", ErrClustering)
	}

	hist := Histogram(pixels)
	opaque := opaqueView(img)

	distortions := make([]float64, maxK)
	parallel.Line(maxK, func(start, end int) {
		for i := start; i < end; i++ {
			distortions[i] = distortion(hist, medianCutPalette(opaque, i+1))
		}
	})
	for i := 1; i < len(distortions); i++ {
		distortions[i] = math.Min(distortions[i], distortions[i-1])
	}

	rates := make([]float64, maxK-1)
	for i := range rates {
		// 0/0 counts as a rate of 0, not NaN, and competes for the arg-max
		// like any other flat step.
		if distortions[i] == 0 {
			continue
		}
		rates[i] = (distortions[i+1] - distortions[i]) / distortions[i]
	}

	elbow := floats.MaxIdx(rates) + 1
	best := elbow + elbowOffset
	if best < 2 {
		best = 2
	}
	if best > maxK {
		best = maxK
	}

	debugf("palette sweep k=1..%d: total distortion %.0f, elbow %d, best %d",
		maxK, floats.Sum(distortions), elbow, best)
	return &PaletteSizeReport{Distortions: distortions, Rates: rates, Best: best}, nil
}

// opaqueView drops alpha so median cut sees the color channels only.
func opaqueView(img *Image) *image.RGBA {
	src := img.NRGBA
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// medianCutPalette fits a palette of at most k colors with plain median cut
// and no k-means refinement.
func medianCutPalette(img image.Image, k int) []RGB {
	q := quantize.MedianCutQuantizer{Aggregation: quantize.Mean}
	p := q.Quantize(make(color.Palette, 0, k), img)

	out := make([]RGB, 0, len(p))
	for _, c := range p {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		out = append(out, RGB{R: rgba.R, G: rgba.G, B: rgba.B})
	}
	return out
}

// distortion sums, over every pixel in hist, the squared distance to the
// nearest palette color.
func distortion(hist []ColorCount, palette []RGB) float64 {
	if len(palette) == 0 {
		return math.Inf(1)
	}
	var total float64
	for _, h := range hist {
		nearest := math.MaxInt
		for _, p := range palette {
			if d := h.Color.DistSquared(p); d < nearest {
				nearest = d
			}
		}
		total += float64(nearest) * float64(h.Count)
	}
	return total
}

// ReducePalette maps img onto at most k colors found by clustering the RGB
// channels. The alpha channel is copied unchanged from img.
//
// It fails with ErrClustering when k < 1 or when k exceeds the number of
// distinct colors in img.
func ReducePalette(img *Image, k int) (*Image, error) {
	pixels := img.RGBPixels()
	res, err := Cluster(pixels, k)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce palette to %d colors: %w", k, err)
	}

	w, h := img.Width(), img.Height()
	out := &Image{NRGBA: image.NewNRGBA(image.Rect(0, 0, w, h)), HasAlpha: img.HasAlpha}
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := res.Quantized(i)
			o := out.NRGBA.PixOffset(x, y)
			out.NRGBA.Pix[o] = c.R
			out.NRGBA.Pix[o+1] = c.G
			out.NRGBA.Pix[o+2] = c.B
			out.NRGBA.Pix[o+3] = img.AlphaAt(x, y)
			i++
		}
	}

	debugf("reduced palette to %d colors", len(res.Colors()))
	return out, nil
}
