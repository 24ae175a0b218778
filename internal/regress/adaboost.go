// Package regress fits the boundary predictor: a multi-output boosted
// regression model mapping area-histogram features to an (l, r) pair.
// The ensemble is AdaBoost.R2 over depth-limited regression trees, with
// a fixed size and seed so retraining on identical inputs reproduces
// the artifact bit for bit.
package regress

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Pipeline constants. No hyperparameter search is performed.
const (
	NEstimators = 5
	Seed        = 10
	MaxDepth    = 3
)

// Options configures ensemble fitting.
type Options struct {
	NEstimators int
	Seed        int64
	MaxDepth    int
}

// DefaultOptions returns the pipeline's fixed training configuration.
func DefaultOptions() Options {
	return Options{
		NEstimators: NEstimators,
		Seed:        Seed,
		MaxDepth:    MaxDepth,
	}
}

// Ensemble is a boosted regressor for a single output dimension.
type Ensemble struct {
	Trees   []*treeNode `json:"trees"`
	Weights []float64   `json:"weights"`
}

// fitEnsemble runs AdaBoost.R2: each round fits a tree on a weighted
// bootstrap resample, scores it with linear loss normalized by the
// worst residual, and reweights samples toward the hard ones. Boosting
// stops early on a perfect fit or once the average loss reaches 0.5,
// but always keeps at least the first tree.
func fitEnsemble(x [][]float64, y []float64, opts Options, rng *rand.Rand) *Ensemble {
	n := len(y)
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}

	ens := &Ensemble{}
	for m := 0; m < opts.NEstimators; m++ {
		sx, sy := bootstrap(x, y, w, rng)
		sw := make([]float64, len(sy))
		for i := range sw {
			sw[i] = 1
		}
		tree := fitTree(sx, sy, sw, opts.MaxDepth)

		// Residuals over the full training set, not the resample.
		maxErr := 0.0
		errs := make([]float64, n)
		for i := range x {
			errs[i] = math.Abs(tree.predict(x[i]) - y[i])
			if errs[i] > maxErr {
				maxErr = errs[i]
			}
		}

		if maxErr == 0 {
			ens.Trees = append(ens.Trees, tree)
			ens.Weights = append(ens.Weights, 1)
			break
		}

		avgLoss := 0.0
		for i := range errs {
			avgLoss += w[i] * errs[i] / maxErr
		}

		if avgLoss >= 0.5 {
			if len(ens.Trees) == 0 {
				ens.Trees = append(ens.Trees, tree)
				ens.Weights = append(ens.Weights, 1)
			}
			break
		}

		beta := avgLoss / (1 - avgLoss)
		ens.Trees = append(ens.Trees, tree)
		ens.Weights = append(ens.Weights, math.Log(1/beta))

		total := 0.0
		for i := range w {
			w[i] *= math.Pow(beta, 1-errs[i]/maxErr)
			total += w[i]
		}
		for i := range w {
			w[i] /= total
		}
	}

	return ens
}

// Predict returns the weighted median of the per-tree predictions, the
// AdaBoost.R2 combination rule.
func (e *Ensemble) Predict(x []float64) float64 {
	preds := make([]float64, len(e.Trees))
	for i, t := range e.Trees {
		preds[i] = t.predict(x)
	}

	order := make([]int, len(preds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return preds[order[a]] < preds[order[b]] })

	total := 0.0
	for _, w := range e.Weights {
		total += w
	}

	acc := 0.0
	for _, i := range order {
		acc += e.Weights[i]
		if acc >= total/2 {
			return preds[i]
		}
	}
	return preds[order[len(order)-1]]
}

// bootstrap draws a weighted sample with replacement, the same size as
// the training set.
func bootstrap(x [][]float64, y, w []float64, rng *rand.Rand) ([][]float64, []float64) {
	n := len(y)
	cdf := make([]float64, n)
	sum := 0.0
	for i, wi := range w {
		sum += wi
		cdf[i] = sum
	}

	sx := make([][]float64, n)
	sy := make([]float64, n)
	for i := 0; i < n; i++ {
		j := sort.SearchFloat64s(cdf, rng.Float64()*sum)
		if j >= n {
			j = n - 1
		}
		sx[i] = x[j]
		sy[i] = y[j]
	}
	return sx, sy
}

// Model is the trained predictor: one ensemble per output dimension,
// taking a feature histogram to a boundary pair. Immutable once
// trained; retraining builds a new Model.
type Model struct {
	Outputs []*Ensemble `json:"outputs"`
}

// Train fits one ensemble per output column on the training rows. Each
// output gets its own generator seeded identically, so outputs are
// independent yet the whole artifact is reproducible.
func Train(features [][]float64, labels [][2]float64, opts Options) (*Model, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("regress: no training rows")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("regress: %d feature rows but %d label rows", len(features), len(labels))
	}

	m := &Model{}
	for out := 0; out < 2; out++ {
		y := make([]float64, len(labels))
		for i := range labels {
			y[i] = labels[i][out]
		}
		rng := rand.New(rand.NewSource(opts.Seed))
		m.Outputs = append(m.Outputs, fitEnsemble(features, y, opts, rng))
	}
	return m, nil
}

// Predict maps a feature vector to a predicted boundary pair.
func (m *Model) Predict(fv []float64) (l, r float64) {
	return m.Outputs[0].Predict(fv), m.Outputs[1].Predict(fv)
}
