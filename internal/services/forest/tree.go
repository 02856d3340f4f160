package forest

import (
	"fmt"
	"math/rand"
	"sort"
)

const leaf = -1

// Tree is a regression tree stored as flat node arrays so it serializes
// compactly. Node 0 is the root. Leaves have Feature == -1.
type Tree struct {
	Feature   []int     `json:"f"`
	Threshold []float64 `json:"t"`
	Left      []int     `json:"l"`
	Right     []int     `json:"r"`
	Value     []float64 `json:"v"`
}

// Predict walks the tree for one sample.
func (t *Tree) Predict(x []float64) float64 {
	n := 0
	for t.Feature[n] != leaf {
		if x[t.Feature[n]] <= t.Threshold[n] {
			n = t.Left[n]
		} else {
			n = t.Right[n]
		}
	}
	return t.Value[n]
}

// Validate checks that Predict can walk the tree for a sample of the given
// width. Children are stored after their parent, which rules out cycles.
func (t *Tree) Validate(features int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.Feature) != n || len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n {
		return fmt.Errorf("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if t.Feature[i] == leaf {
			continue
		}
		if t.Feature[i] < 0 || t.Feature[i] >= features {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], features)
		}
		if l, r := t.Left[i], t.Right[i]; l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has children %d/%d outside (%d, %d)", i, l, r, i, n)
		}
	}
	return nil
}

// Nodes is the number of nodes in the tree.
func (t *Tree) Nodes() int { return len(t.Value) }

type builder struct {
	x        [][]float64
	y        []float64
	maxDepth int
	minSplit int
	tree     *Tree
	order    []int
}

func (b *builder) addNode(value float64) int {
	t := b.tree
	t.Feature = append(t.Feature, leaf)
	t.Threshold = append(t.Threshold, 0)
	t.Left = append(t.Left, leaf)
	t.Right = append(t.Right, leaf)
	t.Value = append(t.Value, value)
	return len(t.Value) - 1
}

func (b *builder) mean(idx []int) float64 {
	s := 0.0
	for _, i := range idx {
		s += b.y[i]
	}
	return s / float64(len(idx))
}

// split finds the feature and threshold minimizing the summed squared
// error of the two children. ok is false when no split separates the rows.
func (b *builder) split(idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	total, totalSq := 0.0, 0.0
	for _, i := range idx {
		total += b.y[i]
		totalSq += b.y[i] * b.y[i]
	}
	best := totalSq - total*total/float64(n)
	if best <= 1e-12 {
		return 0, 0, false
	}

	order := b.order[:n]
	for f := 0; f < len(b.x[0]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][f] < b.x[order[c]][f] })

		left, leftSq := 0.0, 0.0
		for k := 0; k < n-1; k++ {
			v := b.y[order[k]]
			left += v
			leftSq += v * v
			cur, next := b.x[order[k]][f], b.x[order[k+1]][f]
			if cur == next {
				continue
			}
			nl, nr := float64(k+1), float64(n-k-1)
			right, rightSq := total-left, totalSq-leftSq
			sse := (leftSq - left*left/nl) + (rightSq - right*right/nr)
			if sse < best-1e-12 {
				best = sse
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func (b *builder) grow(idx []int, depth int) int {
	node := b.addNode(b.mean(idx))
	if depth >= b.maxDepth || len(idx) < b.minSplit {
		return node
	}
	f, thr, ok := b.split(idx)
	if !ok {
		return node
	}

	var lo, hi []int
	for _, i := range idx {
		if b.x[i][f] <= thr {
			lo = append(lo, i)
		} else {
			hi = append(hi, i)
		}
	}
	b.tree.Feature[node] = f
	b.tree.Threshold[node] = thr
	l := b.grow(lo, depth+1)
	r := b.grow(hi, depth+1)
	b.tree.Left[node] = l
	b.tree.Right[node] = r
	return node
}

// fitTree grows one tree on a bootstrap sample drawn with rng.
func fitTree(x [][]float64, y []float64, cfg Config, rng *rand.Rand) Tree {
	n := len(y)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.Intn(n)
	}
	b := &builder{
		x:        x,
		y:        y,
		maxDepth: cfg.MaxDepth,
		minSplit: cfg.MinSamplesSplit,
		tree:     &Tree{},
		order:    make([]int, n),
	}
	b.grow(sample, 0)
	return *b.tree
}
