// Package bounds discovers, per image, the area window that makes the
// count estimator agree with a known ground-truth count. The objective
// is discontinuous in the upper bound (components snap to different
// rounded multiples as the unit mean shifts), so the search is an
// exhaustive scan over a fixed coarse grid rather than anything
// gradient-based.
package bounds

import (
	"errors"
	"math"

	"granule-counter/internal/count"
)

// The lower bound is a domain constant: components smaller than 30
// pixels are noise at the canonical image size and never a valid unit
// lower bound. Only the upper bound is searched.
const (
	FixedLower = 30
	GridStep   = 10
	GridMax    = 1000
)

// Result holds the best window found for one image.
type Result struct {
	L        float64
	R        float64
	MinError float64
}

// Search scans upper-bound candidates r in {FixedLower+GridStep, ...,
// GridMax-GridStep} and returns the first r minimizing the relative
// count error |estimate - trueCount| / trueCount. A window containing
// no components estimates zero rather than being skipped, so empty
// windows are penalized but still comparable. Ties keep the smallest r:
// the grid is scanned in increasing order with a strict-less-than
// update.
//
// An empty area vector estimates zero everywhere, yielding r equal to
// the first grid value and a relative error of exactly 1.
func Search(areas []int, trueCount int) Result {
	best := Result{L: FixedLower, R: FixedLower + GridStep, MinError: math.Inf(1)}

	for r := FixedLower + GridStep; r < GridMax; r += GridStep {
		est, err := count.Estimate(areas, FixedLower, float64(r))
		if errors.Is(err, count.ErrInvalidRange) {
			est = 0
		}

		relErr := math.Abs(float64(est)-float64(trueCount)) / float64(trueCount)
		if relErr < best.MinError {
			best.R = float64(r)
			best.MinError = relErr
		}
	}

	return best
}
