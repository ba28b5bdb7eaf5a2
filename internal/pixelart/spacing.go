package pixelart

import (
	"fmt"
	"math"
	"sort"
)

// GridSpacing is the detected size of one art pixel, in source pixels, along
// each axis.
type GridSpacing struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// GridSize divides the source dimensions by the spacing and rounds to the
// nearest integer, never returning less than 1.
func (s GridSpacing) GridSize(width, height int) (int, int) {
	w := int(math.Round(float64(width) / s.Horizontal))
	h := int(math.Round(float64(height) / s.Vertical))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// DetectSpacing estimates the cell spacing of img from color discontinuities.
//
// For every column boundary the Euclidean RGB distances between horizontally
// adjacent pixels are summed down the image; rows are handled symmetrically.
// Peaks of each profile mark cell boundaries and the spacing is the median
// distance between consecutive peaks. Alpha does not take part.
//
// An axis with fewer than two peaks yields ErrGridDetection.
func DetectSpacing(img *Image) (GridSpacing, error) {
	hProfile, vProfile := discontinuityProfiles(img)

	h, err := peakSpacing(hProfile)
	if err != nil {
		return GridSpacing{}, fmt.Errorf("horizontal axis: %w", err)
	}
	v, err := peakSpacing(vProfile)
	if err != nil {
		return GridSpacing{}, fmt.Errorf("vertical axis: %w", err)
	}

	debugf("grid spacing %.2f x %.2f (%d column, %d row samples)", h, v, len(hProfile), len(vProfile))
	return GridSpacing{Horizontal: h, Vertical: v}, nil
}

// discontinuityProfiles returns the per-column-boundary (width-1 samples) and
// per-row-boundary (height-1 samples) sums of neighbour color distances.
func discontinuityProfiles(img *Image) (horizontal, vertical []float64) {
	w, h := img.Width(), img.Height()
	if w > 1 {
		horizontal = make([]float64, w-1)
	}
	if h > 1 {
		vertical = make([]float64, h-1)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAt(x, y)
			if x+1 < w {
				horizontal[x] += math.Sqrt(float64(c.DistSquared(img.RGBAt(x+1, y))))
			}
			if y+1 < h {
				vertical[y] += math.Sqrt(float64(c.DistSquared(img.RGBAt(x, y+1))))
			}
		}
	}
	return horizontal, vertical
}

func peakSpacing(profile []float64) (float64, error) {
	peaks := FindPeaks(profile, 1, 0)
	if len(peaks) < 2 {
		return 0, fmt.Errorf("%w: found %d peaks", ErrGridDetection, len(peaks))
	}

	gaps := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		gaps[i-1] = float64(peaks[i] - peaks[i-1])
	}
	return median(gaps), nil
}

// median of a non-empty slice; even lengths average the two middle values.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
