// Package segment binarizes prepared images and extracts per-connected-component
// statistics, the raw material for both count estimation and feature building.
package segment

import (
	"image"

	"granule-counter/internal/imageprep"

	"gocv.io/x/gocv"
)

// Connectivity used for component labeling. Granules touching only
// diagonally are counted as separate components.
const Connectivity = 4

// Stats describes one labeled connected component. Component 0 is the
// background; it is kept in the stats slice (the feature builder filters
// it out by area) but never contributes to the Area Vector.
type Stats struct {
	Left   int
	Top    int
	Width  int
	Height int
	Area   int
}

// Extract normalizes a raw image and returns per-component statistics
// together with the Area Vector (component areas with the background
// dropped). An image whose binarization yields no foreground produces an
// empty Area Vector, not an error.
func Extract(img image.Image) ([]Stats, []int, error) {
	prepared := imageprep.Prepare(img)

	gray := firstChannelMat(prepared)
	defer gray.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	labels := gocv.NewMat()
	defer labels.Close()
	statsMat := gocv.NewMat()
	defer statsMat.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStatsWithParams(mask, &labels, &statsMat, &centroids,
		Connectivity, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	stats := make([]Stats, 0, n)
	for i := 0; i < n; i++ {
		stats = append(stats, Stats{
			Left:   int(statsMat.GetIntAt(i, 0)),
			Top:    int(statsMat.GetIntAt(i, 1)),
			Width:  int(statsMat.GetIntAt(i, 2)),
			Height: int(statsMat.GetIntAt(i, 3)),
			Area:   int(statsMat.GetIntAt(i, 4)),
		})
	}

	return stats, Areas(stats), nil
}

// Areas returns the Area Vector for a stats slice: every component's
// area except the background row. Returns an empty (non-nil) slice when
// only the background is present.
func Areas(stats []Stats) []int {
	areas := make([]int, 0, len(stats))
	for i, s := range stats {
		if i == 0 {
			continue
		}
		areas = append(areas, s.Area)
	}
	return areas
}

// firstChannelMat copies the first channel of a prepared RGBA buffer
// into a single-channel Mat for thresholding.
func firstChannelMat(img *image.NRGBA) gocv.Mat {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x, img.Pix[y*img.Stride+x*4])
		}
	}
	return mat
}
