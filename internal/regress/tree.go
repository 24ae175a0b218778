package regress

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// treeNode is one node of a depth-limited regression tree. Leaves carry
// the weighted mean of their samples; internal nodes route on a single
// feature threshold (x[Feature] <= Threshold goes left).
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// fitTree grows a binary regression tree on weighted samples, greedily
// choosing the split that minimizes weighted squared error. Growth
// stops at maxDepth, when fewer than two samples remain, or when no
// split separates the samples.
func fitTree(x [][]float64, y, w []float64, maxDepth int) *treeNode {
	if maxDepth == 0 || len(y) < 2 {
		return leaf(y, w)
	}

	feature, threshold, ok := bestSplit(x, y, w)
	if !ok {
		return leaf(y, w)
	}

	var lx, rx [][]float64
	var ly, ry, lw, rw []float64
	for i := range x {
		if x[i][feature] <= threshold {
			lx = append(lx, x[i])
			ly = append(ly, y[i])
			lw = append(lw, w[i])
		} else {
			rx = append(rx, x[i])
			ry = append(ry, y[i])
			rw = append(rw, w[i])
		}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      fitTree(lx, ly, lw, maxDepth-1),
		Right:     fitTree(rx, ry, rw, maxDepth-1),
	}
}

func leaf(y, w []float64) *treeNode {
	return &treeNode{Leaf: true, Value: stat.Mean(y, w)}
}

// bestSplit scans every feature for the threshold minimizing the summed
// weighted squared error of the two children. Returns ok=false when all
// samples coincide on every feature.
func bestSplit(x [][]float64, y, w []float64) (feature int, threshold float64, ok bool) {
	nFeatures := len(x[0])
	bestErr := totalSquaredError(y, w)
	improved := false

	for j := 0; j < nFeatures; j++ {
		order := argsortByFeature(x, j)

		// Prefix sums over the sorted order let each candidate split be
		// scored in constant time.
		var wSum, wySum, wyySum float64
		total, totalY, totalYY := 0.0, 0.0, 0.0
		for _, i := range order {
			total += w[i]
			totalY += w[i] * y[i]
			totalYY += w[i] * y[i] * y[i]
		}
		if total == 0 {
			continue
		}

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			wSum += w[i]
			wySum += w[i] * y[i]
			wyySum += w[i] * y[i] * y[i]

			cur, next := x[i][j], x[order[k+1]][j]
			if cur == next || wSum == 0 || total-wSum == 0 {
				continue
			}

			leftErr := wyySum - wySum*wySum/wSum
			rw, rwy, rwyy := total-wSum, totalY-wySum, totalYY-wyySum
			rightErr := rwyy - rwy*rwy/rw

			if err := leftErr + rightErr; err < bestErr {
				bestErr = err
				feature = j
				threshold = (cur + next) / 2
				improved = true
			}
		}
	}

	return feature, threshold, improved
}

func totalSquaredError(y, w []float64) float64 {
	mean := stat.Mean(y, w)
	var sum float64
	for i := range y {
		d := y[i] - mean
		sum += w[i] * d * d
	}
	return sum
}

func argsortByFeature(x [][]float64, j int) []int {
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	// Stable sort so equal feature values keep input order and fitting
	// stays deterministic.
	sort.SliceStable(order, func(a, b int) bool {
		return x[order[a]][j] < x[order[b]][j]
	})
	return order
}
