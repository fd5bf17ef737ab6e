// Package gbt implements a gradient-boosted ensemble of regression trees
// with a squared-error objective. It is intentionally small: exact greedy
// splits, no column sampling, fully deterministic for a fixed seed, which
// is all the monthly spending series in this system need.
package gbt

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Params holds the booster hyperparameters.
type Params struct {
	Trees        int     `yaml:"trees"`
	MaxDepth     int     `yaml:"max_depth"`
	LearningRate float64 `yaml:"learning_rate"`
	MinLeaf      int     `yaml:"min_leaf"`
	Subsample    float64 `yaml:"subsample"`
	Seed         int64   `yaml:"seed"`
}

// DefaultParams returns the standard booster configuration.
func DefaultParams() Params {
	return Params{
		Trees:        200,
		MaxDepth:     6,
		LearningRate: 0.1,
		MinLeaf:      1,
		Subsample:    1.0,
		Seed:         42,
	}
}

// Regressor is a trained gradient-boosted tree ensemble. The zero value is
// not usable; obtain one through Fit or by decoding a persisted artifact.
type Regressor struct {
	Params Params  `yaml:"params"`
	Base   float64 `yaml:"base"`
	Trees  []*Node `yaml:"trees"`
}

// Fit trains the ensemble on the given rows. Every tree is fit to the
// pseudo-residuals of the running prediction; leaf values are scaled by the
// learning rate at build time so Predict is a plain sum.
func Fit(x [][]float64, y []float64, params Params) (*Regressor, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("gbt: need matching non-empty inputs, got %d rows and %d targets", len(x), len(y))
	}
	if params.Trees <= 0 || params.MaxDepth <= 0 || params.LearningRate <= 0 {
		return nil, fmt.Errorf("gbt: invalid params %+v", params)
	}
	if params.MinLeaf < 1 {
		params.MinLeaf = 1
	}
	if params.Subsample <= 0 || params.Subsample > 1 {
		params.Subsample = 1
	}

	n := len(y)
	r := &Regressor{
		Params: params,
		Base:   stat.Mean(y, nil),
		Trees:  make([]*Node, 0, params.Trees),
	}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = r.Base
	}

	var rng *rand.Rand
	if params.Subsample < 1 {
		rng = rand.New(rand.NewSource(params.Seed))
	}

	residual := make([]float64, n)
	for t := 0; t < params.Trees; t++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		idx := sampleRows(n, params.Subsample, rng)
		tree := buildTree(x, residual, idx, 0, params.MaxDepth, params.MinLeaf)
		tree.scale(params.LearningRate)
		r.Trees = append(r.Trees, tree)

		for i := range pred {
			pred[i] += tree.predict(x[i])
		}
	}

	return r, nil
}

// Predict returns the ensemble prediction for one feature vector.
func (r *Regressor) Predict(x []float64) float64 {
	out := r.Base
	for _, tree := range r.Trees {
		out += tree.predict(x)
	}
	return out
}

// NumFeatures returns the highest feature index referenced by any split,
// plus one. Useful as a sanity check against the feature schema.
func (r *Regressor) NumFeatures() int {
	max := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || n.Leaf {
			return
		}
		if n.Feature+1 > max {
			max = n.Feature + 1
		}
		walk(n.Left)
		walk(n.Right)
	}
	for _, tree := range r.Trees {
		walk(tree)
	}
	return max
}

// sampleRows picks the training rows for one tree. With subsampling
// disabled it returns every row; otherwise it draws without replacement
// from the seeded source and sorts for deterministic tree growth.
func sampleRows(n int, subsample float64, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if rng == nil {
		return idx
	}

	k := int(float64(n) * subsample)
	if k < 1 {
		k = 1
	}
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	idx = idx[:k]
	sort.Ints(idx)
	return idx
}
