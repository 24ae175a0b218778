// Package count estimates how many unit-sized granules a set of
// connected-component areas represents.
package count

import (
	"errors"
	"math"
)

// ErrInvalidRange reports that no component area lies inside the
// requested (l, r] window, so no unit mean can be computed.
var ErrInvalidRange = errors.New("count: no component area in range")

// Estimate counts granules from component areas given an area window
// (l, r] that characterizes a single isolated granule. The mean area of
// components inside the window is taken as the unit size; every
// component, inside the window or not, then contributes
// round(area/mean) granules. Merged clumps contribute several, noise
// specks round to zero.
//
// Rounding is half-to-even, and the same rule is used during boundary
// search and at inference so the two stages agree on edge cases.
//
// Returns ErrInvalidRange when no area falls inside (l, r].
func Estimate(areas []int, l, r float64) (int, error) {
	var sum, n int
	for _, a := range areas {
		if l < float64(a) && float64(a) <= r {
			sum += a
			n++
		}
	}
	if n == 0 {
		return 0, ErrInvalidRange
	}
	mean := float64(sum) / float64(n)

	total := 0
	for _, a := range areas {
		total += int(math.RoundToEven(float64(a) / mean))
	}
	return total, nil
}
