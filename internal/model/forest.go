package model

import (
	"math/rand"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// ForestConfig configures a bagged forest of regression trees.
type ForestConfig struct {
	Trees           int   `yaml:"trees" json:"trees" validate:"gte=1" jsonschema:"title=Trees,description=Number of trees in the forest,default=100"`
	MaxDepth        int   `split_words:"true" yaml:"max_depth" json:"max_depth" validate:"gte=0" jsonschema:"title=Max Depth,description=Maximum tree depth (0 for unlimited),default=0"`
	MinSamplesSplit int   `split_words:"true" yaml:"min_samples_split" json:"min_samples_split" validate:"gte=2" jsonschema:"title=Min Samples Split,default=2"`
	MinSamplesLeaf  int   `split_words:"true" yaml:"min_samples_leaf" json:"min_samples_leaf" validate:"gte=1" jsonschema:"title=Min Samples Leaf,default=1"`
	MaxFeatures     int   `split_words:"true" yaml:"max_features" json:"max_features" validate:"gte=0" jsonschema:"title=Max Features,description=Features tried per split (0 for all),default=0"`
	Seed            int64 `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Random seed for bootstrap sampling,default=42"`
}

// DefaultForestConfig returns 100 fully grown trees seeded with 42.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Seed:            42,
	}
}

// Forest averages the predictions of trees grown on bootstrap samples.
type Forest struct {
	Width int     `json:"width"`
	Trees []*Tree `json:"trees"`
}

// FitForest grows cfg.Trees trees. The same inputs and seed always give the
// same forest.
func FitForest(x [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "cannot fit a forest on zero rows")
	}

	if len(x) != len(y) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "%d rows but %d targets", len(x), len(y))
	}

	if cfg.Trees <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "forest needs at least one tree, got %d", cfg.Trees)
	}

	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "row %d has %d columns, expected %d", i, len(row), width)
		}
	}

	treeCfg := TreeConfig{
		MaxDepth:        cfg.MaxDepth,
		MinSamplesSplit: max(cfg.MinSamplesSplit, 2),
		MinSamplesLeaf:  max(cfg.MinSamplesLeaf, 1),
		MaxFeatures:     cfg.MaxFeatures,
	}

	seeds := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{Width: width, Trees: make([]*Tree, cfg.Trees)}

	for t := range forest.Trees {
		rng := rand.New(rand.NewSource(seeds.Int63()))

		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}

		forest.Trees[t] = fitTree(x, y, sample, treeCfg, rng)
	}

	return forest, nil
}

// Predict returns the mean tree prediction for every row.
func (f *Forest) Predict(x [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errors.New(errors.ErrCodeModelNotFitted, "forest has no trees")
	}

	out := make([]float64, len(x))

	for i, row := range x {
		if len(row) != f.Width {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "row %d has %d columns, forest expects %d", i, len(row), f.Width)
		}

		sum := 0.0
		for _, tree := range f.Trees {
			sum += tree.Predict(row)
		}

		out[i] = sum / float64(len(f.Trees))
	}

	return out, nil
}

// Validate checks the structure of a decoded forest. Every node's children
// must both be -1 or both come later in the node list, so walking a tree
// always terminates.
func (f *Forest) Validate() error {
	if f.Width < 1 {
		return errors.Newf(errors.ErrCodeModelFormat, "forest width must be at least 1, got %d", f.Width)
	}

	if len(f.Trees) == 0 {
		return errors.New(errors.ErrCodeModelFormat, "forest has no trees")
	}

	for t, tree := range f.Trees {
		if tree == nil || len(tree.Nodes) == 0 {
			return errors.Newf(errors.ErrCodeModelFormat, "tree %d has no nodes", t)
		}

		n := len(tree.Nodes)
		for i, node := range tree.Nodes {
			if node.Left == -1 && node.Right == -1 {
				continue
			}

			if node.Left <= i || node.Right <= i || node.Left >= n || node.Right >= n {
				return errors.Newf(errors.ErrCodeModelFormat,
					"tree %d node %d has children %d and %d outside (%d, %d)", t, i, node.Left, node.Right, i, n)
			}

			if node.Feature < 0 || node.Feature >= f.Width {
				return errors.Newf(errors.ErrCodeModelFormat,
					"tree %d node %d splits on feature %d of %d", t, i, node.Feature, f.Width)
			}
		}
	}

	return nil
}
