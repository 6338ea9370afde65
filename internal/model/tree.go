package model

import (
	"math/rand"
	"sort"
)

// Node is one node of a flattened regression tree. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a CART regression tree. Rows with x[Feature] <= Threshold go left.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// TreeConfig bounds the growth of a tree.
type TreeConfig struct {
	// MaxDepth limits the depth, 0 means unlimited
	MaxDepth int
	// MinSamplesSplit is the smallest node that may be split
	MinSamplesSplit int
	// MinSamplesLeaf is the smallest allowed leaf
	MinSamplesLeaf int
	// MaxFeatures is the number of features tried per split, 0 means all
	MaxFeatures int
}

// Predict walks the tree for one row.
func (t *Tree) Predict(row []float64) float64 {
	i := 0
	for t.Nodes[i].Left >= 0 {
		node := t.Nodes[i]
		if row[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}

	return t.Nodes[i].Value
}

type treeBuilder struct {
	x     [][]float64
	y     []float64
	cfg   TreeConfig
	rng   *rand.Rand
	nodes []Node
}

// fitTree grows a tree on the rows listed in idx. idx may contain repeats.
func fitTree(x [][]float64, y []float64, idx []int, cfg TreeConfig, rng *rand.Rand) *Tree {
	b := &treeBuilder{x: x, y: y, cfg: cfg, rng: rng, nodes: []Node{}}
	b.grow(idx, 0)

	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: 0, Threshold: 0, Left: -1, Right: -1, Value: b.mean(idx)})

	if len(idx) < b.cfg.MinSamplesSplit || len(idx) < 2*b.cfg.MinSamplesLeaf {
		return id
	}

	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))

	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r

	return id
}

// bestSplit maximizes the variance reduction, which is the same as
// maximizing sumL²/nL + sumR²/nR over candidate thresholds.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	n := len(idx)
	total := 0.0

	for _, i := range idx {
		total += b.y[i]
	}

	parent := total * total / float64(n)
	best := parent
	bestFeature, bestThreshold, found := -1, 0.0, false

	sorted := make([]int, n)

	for _, f := range b.features() {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return b.x[sorted[a]][f] < b.x[sorted[c]][f] })

		left := 0.0
		for k := 0; k < n-1; k++ {
			left += b.y[sorted[k]]

			nl, nr := k+1, n-k-1
			if nl < b.cfg.MinSamplesLeaf || nr < b.cfg.MinSamplesLeaf {
				continue
			}

			v, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if v == next {
				continue
			}

			right := total - left
			score := left*left/float64(nl) + right*right/float64(nr)

			if score > best+1e-12*(1+best) {
				best = score
				bestFeature = f
				bestThreshold = midpoint(v, next)
				found = true
			}
		}
	}

	return bestFeature, bestThreshold, found
}

func (b *treeBuilder) features() []int {
	width := len(b.x[0])
	if b.cfg.MaxFeatures <= 0 || b.cfg.MaxFeatures >= width {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}

		return all
	}

	return b.rng.Perm(width)[:b.cfg.MaxFeatures]
}

func (b *treeBuilder) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}

	sum := 0.0
	for _, i := range idx {
		sum += b.y[i]
	}

	return sum / float64(len(idx))
}

// midpoint keeps the threshold strictly below next even when the two values
// are adjacent floats.
func midpoint(v, next float64) float64 {
	m := v + (next-v)/2
	if m >= next {
		return v
	}

	return m
}
