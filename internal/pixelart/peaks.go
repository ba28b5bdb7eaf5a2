package pixelart

import "sort"

// FindPeaks returns the indices of the local maxima of seq in ascending order.
//
// A sample is a peak when it is strictly greater than its left neighbour and
// strictly greater than the first differing sample to its right. A flat top of
// equal samples counts once, at its middle index (rounded down). The first and
// last samples are never peaks.
//
// Peaks lower than minHeight are dropped. When minSeparation is greater than 1,
// peaks closer than minSeparation to a higher (or equally high, earlier) peak
// are dropped as well.
func FindPeaks(seq []float64, minSeparation int, minHeight float64) []int {
	peaks := localMaxima(seq)

	kept := peaks[:0]
	for _, p := range peaks {
		if seq[p] >= minHeight {
			kept = append(kept, p)
		}
	}
	peaks = kept

	if minSeparation > 1 && len(peaks) > 1 {
		peaks = separatePeaks(seq, peaks, minSeparation)
	}
	return peaks
}

func localMaxima(seq []float64) []int {
	var peaks []int
	last := len(seq) - 1
	i := 1
	for i < last {
		if seq[i-1] < seq[i] {
			ahead := i + 1
			for ahead < last && seq[ahead] == seq[i] {
				ahead++
			}
			if seq[ahead] < seq[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}
	return peaks
}

func separatePeaks(seq []float64, peaks []int, minSeparation int) []int {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return seq[peaks[order[a]]] > seq[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for _, idx := range order {
		if !keep[idx] {
			continue
		}
		for j := idx - 1; j >= 0 && peaks[idx]-peaks[j] < minSeparation; j-- {
			keep[j] = false
		}
		for j := idx + 1; j < len(peaks) && peaks[j]-peaks[idx] < minSeparation; j++ {
			keep[j] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
