package pixelart

import (
	"fmt"
	"time"
)

// ResizeToGrid downsamples img to an explicit width x height grid using the
// default per-tile cluster count.
func ResizeToGrid(img *Image, width, height int) (*Image, error) {
	return Downsample(img, width, height, DefaultCentroids)
}

// AutoDetectAndResize detects the cell spacing of img and downsamples it to
// the implied grid. The detected spacing is returned alongside the image.
func AutoDetectAndResize(img *Image) (*Image, GridSpacing, error) {
	spacing, err := DetectSpacing(img)
	if err != nil {
		return nil, GridSpacing{}, err
	}
	w, h := spacing.GridSize(img.Width(), img.Height())
	out, err := Downsample(img, w, h, DefaultCentroids)
	if err != nil {
		return nil, GridSpacing{}, err
	}
	return out, spacing, nil
}

// Options selects which pipeline stages Process runs.
type Options struct {
	// Width and Height request an explicit output grid. When both are zero
	// the grid is detected automatically.
	Width  int
	Height int

	// Centroids is the per-tile cluster count. Zero means DefaultCentroids.
	Centroids int

	// Colors requests an exact palette size and overrides AutoPalette.
	// Non-zero values below 1 are raised to 1.
	Colors int

	// AutoPalette selects the palette size with SelectPaletteSize.
	AutoPalette bool

	// MaxColors bounds the automatic palette search. Zero means DefaultMaxColors.
	MaxColors int
}

// DefaultOptions returns the options of a plain automatic downscale.
func DefaultOptions() Options {
	return Options{
		Centroids: DefaultCentroids,
		MaxColors: DefaultMaxColors,
	}
}

// Result describes one Process run.
type Result struct {
	// Image is the final output.
	Image *Image

	// Spacing is the detected cell spacing, nil for an explicit grid.
	Spacing *GridSpacing

	// Colors is the palette size applied, zero when no reduction ran.
	Colors int

	// AutoColors reports whether Colors came from SelectPaletteSize.
	AutoColors bool

	// PaletteSkipped is set when the automatic palette size was at least the
	// number of colors already present, so no reduction was needed.
	PaletteSkipped bool

	ResizeDuration  time.Duration
	PaletteDuration time.Duration
}

// Process runs the full pipeline: grid resize (explicit or detected), then
// optional palette reduction. Any stage failure aborts the run.
func Process(img *Image, opts Options) (*Result, error) {
	if opts.Centroids == 0 {
		opts.Centroids = DefaultCentroids
	}
	if opts.MaxColors == 0 {
		opts.MaxColors = DefaultMaxColors
	}

	res := &Result{}
	start := time.Now()

	if opts.Width != 0 || opts.Height != 0 {
		out, err := Downsample(img, opts.Width, opts.Height, opts.Centroids)
		if err != nil {
			return nil, fmt.Errorf("failed to resize to %dx%d: %w", opts.Width, opts.Height, err)
		}
		res.Image = out
	} else {
		spacing, err := DetectSpacing(img)
		if err != nil {
			return nil, err
		}
		w, h := spacing.GridSize(img.Width(), img.Height())
		out, err := Downsample(img, w, h, opts.Centroids)
		if err != nil {
			return nil, fmt.Errorf("failed to resize to %dx%d: %w", w, h, err)
		}
		res.Image = out
		res.Spacing = &spacing
	}
	res.ResizeDuration = time.Since(start)

	if opts.Colors == 0 && !opts.AutoPalette {
		return res, nil
	}

	start = time.Now()
	k := opts.Colors
	if k != 0 {
		if k < 1 {
			k = 1
		}
	} else {
		best, err := SelectPaletteSize(res.Image, opts.MaxColors)
		if err != nil {
			return nil, err
		}
		k = best
		res.AutoColors = true
	}
	res.Colors = k

	if res.AutoColors && k >= len(res.Image.Palette()) {
		debugf("image already has no more than %d colors, skipping reduction", k)
		res.PaletteSkipped = true
	} else {
		out, err := ReducePalette(res.Image, k)
		if err != nil {
			return nil, err
		}
		res.Image = out
	}
	res.PaletteDuration = time.Since(start)
	return res, nil
}
