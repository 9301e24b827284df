package indexer

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineTree(t *testing.T) *Tree {
	t.Helper()
	points := make(map[int]Point, 8)
	for i := 0; i < 8; i++ {
		points[8+i] = Point{float64(i)}
	}
	tree, err := New(leavesAt(points), nil)
	require.NoError(t, err)
	return tree
}

func TestNewValidation(t *testing.T) {
	for name, tc := range map[string]struct {
		leaves map[int]Point
		want   error
	}{
		"empty":     {map[int]Point{}, ErrStructure},
		"range":     {map[int]Point{0: {1}}, ErrStructure},
		"uncovered": {map[int]Point{2: {1}}, ErrStructure},
		"shadowed":  {map[int]Point{2: {1}, 3: {2}, 4: {3}}, ErrStructure},
		"dimension": {map[int]Point{2: {1}, 3: {1, 2}}, ErrDimensionMismatch},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(leavesAt(tc.leaves), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := New(map[int]*Leaf{2: {ID: "a", Point: Point{1}}, 3: nil}, nil)
	assert.True(t, errors.Is(err, ErrStructure))
}

func TestSingleLeafTree(t *testing.T) {
	tree, err := New(leavesAt(map[int]Point{1: {3, 4}}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Weight())
	assert.True(t, tree.Aggregate(1).IsLeaf())
	assert.Equal(t, Empty, tree.Aggregate(2))
}

func TestAggregateCentroids(t *testing.T) {
	tree, err := New(leavesAt(map[int]Point{4: {0, 4}, 5: {0, 0}, 6: {4, 0}, 7: {0, 0}}), nil)
	require.NoError(t, err)

	root := tree.Aggregate(1)
	assert.Equal(t, 4, root.Weight())
	assert.InDeltaSlice(t, []float64{1, 1}, []float64(root.Centroid()), 1e-12)
	assert.Equal(t, 2, tree.Aggregate(2).Weight())
	assert.InDeltaSlice(t, []float64{0, 2}, []float64(tree.Aggregate(2).Centroid()), 1e-12)
	assert.Equal(t, 2, tree.Aggregate(3).Weight())
	assert.InDeltaSlice(t, []float64{2, 0}, []float64(tree.Aggregate(3).Centroid()), 1e-12)

	assert.Equal(t, Empty, tree.Aggregate(8))
	assert.Equal(t, Empty, tree.Aggregate(0))
	assert.Equal(t, Empty, tree.Aggregate(MaxIndex+1))
}

func TestAggregateIgnoresGrouping(t *testing.T) {
	points := randomPoints(64, 3, 9)
	perfect := make(map[int]*Leaf, len(points))
	for i, l := range points {
		perfect[64+i] = l
	}
	flat, err := New(perfect, nil)
	require.NoError(t, err)

	shuffled := append([]*Leaf(nil), points...)
	rand.New(rand.NewSource(10)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	built, err := Build(shuffled, nil)
	require.NoError(t, err)

	want, got := flat.Aggregate(1), built.Aggregate(1)
	assert.Equal(t, 64, want.Weight())
	assert.Equal(t, want.Weight(), got.Weight())
	assert.InDeltaSlice(t, []float64(want.Centroid()), []float64(got.Centroid()), 1e-9)
}

func TestAggregateCaches(t *testing.T) {
	tree := lineTree(t)
	first := tree.Aggregate(1)
	assert.Same(t, first, tree.Aggregate(1))
	assert.Same(t, tree.Aggregate(2), tree.Aggregate(2))
}

func TestAggregateConcurrent(t *testing.T) {
	tree, err := Build(randomPoints(512, 4, 5), nil)
	require.NoError(t, err)

	const workers = 8
	roots := make([]Ball, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			roots[w] = tree.Aggregate(1)
		}(w)
	}
	wg.Wait()
	for _, r := range roots[1:] {
		assert.Same(t, roots[0], r)
	}
	assert.Equal(t, 512, roots[0].Weight())
}

func TestTreeAccessors(t *testing.T) {
	tree := lineTree(t)
	assert.Equal(t, 8, tree.Len())
	assert.Equal(t, 1, tree.Dim())
	assert.Equal(t, 8, tree.Weight())
	assert.True(t, tree.Has(8))
	assert.False(t, tree.Has(4))
	assert.Len(t, tree.Indices(), 15)

	l, ok := tree.Leaf(10)
	require.True(t, ok)
	assert.Equal(t, "10", l.ID)
	_, ok = tree.Leaf(5)
	assert.False(t, ok)

	idx := tree.Index()
	assert.Len(t, idx, 8)
	assert.Equal(t, "15", idx[15])
	assert.True(t, Validate(idx))
	assert.Len(t, tree.Leaves(), 8)
}

func TestTreeNavigation(t *testing.T) {
	tree, err := New(leavesAt(map[int]Point{4: {0, 4}, 5: {0, 0}, 6: {6, 0}, 7: {6, 4}}), nil)
	require.NoError(t, err)

	for _, tc := range []struct{ b, want int }{{1, 4}, {2, 4}, {3, 6}} {
		got, ok := First(tree, tc.b)
		require.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	n, ok := tree.Nearest(Point{1, 1})
	require.True(t, ok)
	assert.Equal(t, 5, n.Index)
	assert.Equal(t, "05", n.Leaf().ID)
}
