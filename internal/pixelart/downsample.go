package pixelart

import (
	"fmt"
	"image"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// DefaultCentroids is the per-tile cluster count: enough to separate a cell's
// main color from antialiasing and noise.
const DefaultCentroids = 2

// Downsample reduces img to width x height, one representative color per cell.
//
// Each cell's tile is clustered into at most centroids colors and the most
// populated output color wins. For images with alpha, the cell's alpha is the
// most frequent alpha among the tile pixels whose clustered color equals the
// winner, or 255 when none match. Tiles with fewer distinct colors than
// centroids are clustered into as many clusters as they have colors.
func Downsample(img *Image, width, height, centroids int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if centroids < 1 {
		return nil, fmt.Errorf("%w: centroid count %d must be at least 1", ErrClustering, centroids)
	}

	out := NewImage(width, height, img.HasAlpha)
	srcW, srcH := img.Width(), img.Height()

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				rect := tileBounds(x, y, width, height, srcW, srcH)
				c, a, err := sampleTile(img, rect, centroids)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("tile (%d,%d): %w", x, y, err)
					}
					mu.Unlock()
					return
				}
				out.SetPixel(x, y, c, a)
			}
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	debugf("downsampled %dx%d to %dx%d", srcW, srcH, width, height)
	return out, nil
}

// tileBounds maps output cell (x, y) of a width x height grid onto the source.
//
// The fractional cell [x*srcW/width, (x+1)*srcW/width) is widened to the
// pixels covering it: start rounds down, end rounds up. The same rule applies
// on both axes and the arithmetic is exact integer math, so neighbouring tiles
// agree on their shared edge. A tile is never empty.
func tileBounds(x, y, width, height, srcW, srcH int) image.Rectangle {
	x0, x1 := coverSpan(x, width, srcW)
	y0, y1 := coverSpan(y, height, srcH)
	return image.Rect(x0, y0, x1, y1)
}

func coverSpan(i, cells, size int) (int, int) {
	start := i * size / cells
	end := ((i+1)*size + cells - 1) / cells
	if end > size {
		end = size
	}
	if start >= size {
		start = size - 1
	}
	if end <= start {
		end = start + 1
	}
	return start, end
}

// sampleTile runs the two-stage vote for one tile: the color vote over the
// clustered colors, then the alpha vote among pixels that took the winning color.
func sampleTile(img *Image, rect image.Rectangle, centroids int) (RGB, uint8, error) {
	tile := imaging.Crop(img.NRGBA, rect)
	pixels := rgbPixels(tile)

	k := centroids
	if distinct := len(Histogram(pixels)); distinct < k {
		k = distinct
	}
	res, err := Cluster(pixels, k)
	if err != nil {
		return RGB{}, 0, err
	}
	best := res.MostFrequent().Color

	if !img.HasAlpha {
		return best, 255, nil
	}
	return best, alphaVote(tile, res, best), nil
}

// alphaVote returns the most frequent alpha among tile pixels whose clustered
// color is want. Ties go to the alpha seen first in row-major order; no match
// yields 255.
func alphaVote(tile *image.NRGBA, res *ClusterResult, want RGB) uint8 {
	var counts [256]int
	var order []uint8
	for i := range res.Labels {
		if res.Quantized(i) != want {
			continue
		}
		a := tile.Pix[i*4+3]
		if counts[a] == 0 {
			order = append(order, a)
		}
		counts[a]++
	}
	if len(order) == 0 {
		return 255
	}

	best := order[0]
	for _, a := range order[1:] {
		if counts[a] > counts[best] {
			best = a
		}
	}
	return best
}
