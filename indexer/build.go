package indexer

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/simd"
)

// Build lays items out as an implicit tree by recursive 2-means partitioning
// and returns the tree. Falls back to a median split on the widest dimension
// when 2-means leaves a side empty or too large for the remaining depth.
func Build(items []*Leaf, cfg *Config) (*Tree, error) {
	cfg = cfg.OrDefault()
	if len(items) == 0 {
		return nil, errors.Wrap(ErrStructure, "no items")
	}
	if len(items) > 1<<MaxDepth {
		return nil, errors.Wrapf(ErrStructure, "%d items exceed the %d leaves addressable at depth %d", len(items), 1<<MaxDepth, MaxDepth)
	}
	dim := len(items[0].Point)
	for i, it := range items {
		if len(it.Point) != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "item %d (%s) has dimension %d, want %d", i, it.ID, len(it.Point), dim)
		}
	}
	b := &builder{
		rounds: cfg.SplitRounds,
		rng:    rand.New(rand.NewSource(int64(len(items)))),
		leaves: make(map[int]*Leaf, len(items)),
	}
	b.place(1, 0, append([]*Leaf(nil), items...))
	cfg.Logger.Debug("tree built", "items", len(items), "kmeans", b.kmeansSplits, "median", b.medianSplits)
	return New(b.leaves, cfg)
}

type builder struct {
	rounds       int
	rng          *rand.Rand
	leaves       map[int]*Leaf
	kmeansSplits int
	medianSplits int
}

func (b *builder) place(i, depth int, items []*Leaf) {
	if len(items) == 1 {
		b.leaves[i] = items[0]
		return
	}
	left, right := b.split(items, MaxDepth-depth-1)
	b.place(2*i, depth+1, left)
	b.place(2*i+1, depth+1, right)
}

// split partitions items into two non-empty halves each holding at most
// 2^budget items.
func (b *builder) split(items []*Leaf, budget int) (left, right []*Leaf) {
	limit := 1 << budget
	assign := kMeans2(items, b.rounds, b.rng)
	for i, a := range assign {
		if a == 0 {
			left = append(left, items[i])
		} else {
			right = append(right, items[i])
		}
	}
	if len(left) > 0 && len(right) > 0 && len(left) <= limit && len(right) <= limit {
		b.kmeansSplits++
		return left, right
	}
	b.medianSplits++
	if len(items[0].Point) > 0 {
		dim := findSpreadDim(items)
		sort.SliceStable(items, func(x, y int) bool { return items[x].Point[dim] < items[y].Point[dim] })
	}
	mid := len(items) / 2
	return items[:mid], items[mid:]
}

// kMeans2 clusters items with K=2 and returns each item's label (0 or 1).
func kMeans2(items []*Leaf, rounds int, rng *rand.Rand) []int {
	n := len(items)
	assign := make([]int, n)
	if n < 2 {
		return assign
	}
	dim := len(items[0].Point)
	first := rng.Intn(n)
	c0 := items[first].Point.Clone()
	c1 := items[(first+1+rng.Intn(n-1))%n].Point.Clone()
	sum0 := make([]float64, dim)
	sum1 := make([]float64, dim)
	for r := 0; r < rounds; r++ {
		for i, it := range items {
			if simd.SquaredDistance(it.Point, c0) <= simd.SquaredDistance(it.Point, c1) {
				assign[i] = 0
			} else {
				assign[i] = 1
			}
		}
		for j := range sum0 {
			sum0[j], sum1[j] = 0, 0
		}
		var cnt0, cnt1 int
		for i, it := range items {
			if assign[i] == 0 {
				for j, v := range it.Point {
					sum0[j] += v
				}
				cnt0++
			} else {
				for j, v := range it.Point {
					sum1[j] += v
				}
				cnt1++
			}
		}
		if cnt0 > 0 {
			for j := range sum0 {
				c0[j] = sum0[j] / float64(cnt0)
			}
		}
		if cnt1 > 0 {
			for j := range sum1 {
				c1[j] = sum1[j] / float64(cnt1)
			}
		}
	}
	return assign
}

// findSpreadDim returns the dimension with the greatest spread among items.
func findSpreadDim(items []*Leaf) int {
	bestDim := 0
	bestSpread := -1.0
	for d := range items[0].Point {
		minVal, maxVal := math.Inf(1), math.Inf(-1)
		for _, it := range items {
			v := it.Point[d]
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
		if spread := maxVal - minVal; spread > bestSpread {
			bestSpread = spread
			bestDim = d
		}
	}
	return bestDim
}
