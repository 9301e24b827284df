package indexer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomPoints(n, dim int, seed int64) []*Leaf {
	rng := rand.New(rand.NewSource(seed))
	out := make([]*Leaf, n)
	for i := 0; i < n; i++ {
		p := make(Point, dim)
		for j := range p {
			p[j] = rng.Float64()*2 - 1
		}
		out[i] = &Leaf{ID: fmt.Sprintf("p%04d", i), Point: p}
	}
	return out
}

// buildRandom builds a tree over n random points.
func buildRandom(t *testing.T, n, dim int, seed int64) *Tree {
	t.Helper()
	tree, err := Build(randomPoints(n, dim, seed), nil)
	require.NoError(t, err)
	return tree
}

// perfectIndex returns the leaves of a complete tree of the given depth,
// named by their hex index.
func perfectIndex(depth int) Index {
	size := 1 << depth
	out := make(Index, size)
	for i := size; i < 2*size; i++ {
		out[i] = fmt.Sprintf("%x", i)
	}
	return out
}

func indexOf(keys ...int) Index {
	out := make(Index, len(keys))
	for _, k := range keys {
		out[k] = fmt.Sprintf("%x", k)
	}
	return out
}

func leavesAt(points map[int]Point) map[int]*Leaf {
	out := make(map[int]*Leaf, len(points))
	for i, p := range points {
		out[i] = &Leaf{ID: fmt.Sprintf("%02d", i), Point: p}
	}
	return out
}

// bruteNearest returns the index of the point closest to p.
func bruteNearest(leaves []*Leaf, p Point) (int, float64) {
	best, bestDist := -1, 0.0
	for i, l := range leaves {
		if d := Distance(l.Point, p); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
