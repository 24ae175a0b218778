// Package features turns a component-area distribution into the
// fixed-length histogram vector the boundary regressor learns from.
package features

import (
	"gonum.org/v1/gonum/floats"

	"granule-counter/internal/segment"
)

// The histogram covers areas up to BinWidth*NumBins in BinWidth-wide
// bins. Bin i spans (BinWidth*i, BinWidth*(i+1)], except bin 0 which is
// closed at zero. The background component never qualifies: its area is
// the bulk of the frame, far above the cutoff.
const (
	NumBins  = 99
	BinWidth = 10
)

// Build returns the normalized area histogram for a stats slice. The
// background row is skipped, areas above the histogram's reach are
// ignored, and the remaining bin counts are scaled to sum to 1. When no
// component qualifies the vector is all zeros.
func Build(stats []segment.Stats) []float64 {
	hist := make([]float64, NumBins)

	for i, s := range stats {
		if i == 0 {
			continue
		}
		bin, ok := binIndex(s.Area)
		if !ok {
			continue
		}
		hist[bin]++
	}

	if total := floats.Sum(hist); total > 0 {
		floats.Scale(1/total, hist)
	}
	return hist
}

// binIndex maps an area to its histogram bin, or ok=false when the area
// lies beyond the last bin edge.
func binIndex(area int) (int, bool) {
	if area > NumBins*BinWidth {
		return 0, false
	}
	if area <= BinWidth {
		return 0, true
	}
	return (area - 1) / BinWidth, true
}
