package pixelart

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
)

// maxClusterIters bounds the Lloyd refinement passes of Cluster.
const maxClusterIters = 32

// ClusterResult is the outcome of clustering a set of pixels.
type ClusterResult struct {
	// Centroids holds one color per cluster, rounded to 8 bits.
	Centroids []RGB

	// Labels maps every input pixel, in input order, to its cluster.
	Labels []int

	// Counts holds the number of pixels assigned to each cluster.
	// The counts sum to len(Labels).
	Counts []int
}

// Quantized returns the output color of input pixel i.
func (r *ClusterResult) Quantized(i int) RGB {
	return r.Centroids[r.Labels[i]]
}

// Colors groups the clustered pixels by output color. Clusters whose
// centroids round to the same color are merged; empty clusters are omitted.
// Entries appear in cluster order.
func (r *ClusterResult) Colors() []ColorCount {
	var out []ColorCount
	index := make(map[RGB]int, len(r.Centroids))
	for ci, c := range r.Centroids {
		if r.Counts[ci] == 0 {
			continue
		}
		if j, ok := index[c]; ok {
			out[j].Count += r.Counts[ci]
			continue
		}
		index[c] = len(out)
		out = append(out, ColorCount{Color: c, Count: r.Counts[ci]})
	}
	return out
}

// MostFrequent returns the output color with the highest pixel count. Ties go
// to the color that comes first in Colors.
func (r *ClusterResult) MostFrequent() ColorCount {
	var best ColorCount
	for _, cc := range r.Colors() {
		if cc.Count > best.Count {
			best = cc
		}
	}
	return best
}

// Cluster partitions pixels into k color clusters without dithering.
//
// Seeds are chosen by coverage: the most frequent color first, then
// repeatedly the color whose pixel count times squared distance to the
// nearest chosen seed is largest. Lloyd iterations then refine the centers
// until no pixel changes cluster. Given the same pixels and k the result is
// always the same.
//
// It fails with ErrClustering when k < 1, when pixels is empty, or when k
// exceeds the number of distinct colors.
func Cluster(pixels []RGB, k int) (*ClusterResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: cluster count %d must be at least 1", ErrClustering, k)
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no pixels to cluster", ErrClustering)
	}
	hist := Histogram(pixels)
	if k > len(hist) {
		return nil, fmt.Errorf("%w: %d clusters requested but only %d distinct colors", ErrClustering, k, len(hist))
	}

	cc := make(clusters.Clusters, k)
	for i, seed := range coverageSeeds(hist, k) {
		cc[i] = clusters.Cluster{Center: coordinates(seed)}
	}

	dataset := make(clusters.Observations, len(pixels))
	for i, p := range pixels {
		dataset[i] = coordinates(p)
	}

	labels := make([]int, len(pixels))
	for i := range labels {
		labels[i] = -1
	}
	assign := func() int {
		cc.Reset()
		changed := 0
		for i, obs := range dataset {
			ci := cc.Nearest(obs)
			cc[ci].Append(obs)
			if labels[i] != ci {
				labels[i] = ci
				changed++
			}
		}
		return changed
	}

	assign()
	for iter := 0; iter < maxClusterIters; iter++ {
		cc.Recenter()
		if assign() == 0 {
			break
		}
	}

	res := &ClusterResult{
		Centroids: make([]RGB, k),
		Labels:    labels,
		Counts:    make([]int, k),
	}
	for i := range cc {
		res.Centroids[i] = fromCoordinates(cc[i].Center)
		res.Counts[i] = len(cc[i].Observations)
	}
	return res, nil
}

// coverageSeeds picks k distinct seed colors from a histogram sorted by
// descending count.
func coverageSeeds(hist []ColorCount, k int) []RGB {
	seeds := []RGB{hist[0].Color}
	nearest := make([]int, len(hist))
	for i, h := range hist {
		nearest[i] = h.Color.DistSquared(hist[0].Color)
	}

	for len(seeds) < k {
		best, bestScore := -1, -1
		for i, h := range hist {
			score := h.Count * nearest[i]
			if nearest[i] > 0 && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		seed := hist[best].Color
		seeds = append(seeds, seed)
		for i, h := range hist {
			if d := h.Color.DistSquared(seed); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return seeds
}

func coordinates(c RGB) clusters.Coordinates {
	return clusters.Coordinates{float64(c.R), float64(c.G), float64(c.B)}
}

func fromCoordinates(p clusters.Coordinates) RGB {
	return RGB{R: channel(p[0]), G: channel(p[1]), B: channel(p[2])}
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
