package indexer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{0, 3}, Point{4, 0}), 1e-12)
	assert.Equal(t, 0.0, Distance(Point{}, Point{}))
}

func TestDistanceDimensionMismatch(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}()
	Distance(Point{1, 2}, Point{1})
}

func TestMergeSeparateBalls(t *testing.T) {
	b1 := NewBranch(Point{0}, 0, Point{0}, 2)
	b2 := NewBranch(Point{7}, 3, Point{6}, 1)
	m := Merge(b1, b2)
	assert.InDelta(t, 5.0, m.Radius(), 1e-12)
	assert.InDeltaSlice(t, []float64{5}, []float64(m.Center()), 1e-12)
	assert.InDeltaSlice(t, []float64{2}, []float64(m.Centroid()), 1e-12)
	assert.Equal(t, 3, m.Weight())
	assert.False(t, m.IsLeaf())
}

func TestMergeIdenticalLeaves(t *testing.T) {
	a := &Leaf{ID: "a", Point: Point{1}}
	b := &Leaf{ID: "b", Point: Point{1}}
	m := Merge(a, b)
	assert.Equal(t, 0.0, m.Radius())
	assert.Equal(t, 2, m.Weight())
	assert.Equal(t, Point{1}, m.Centroid())
	assert.Equal(t, Point{1}, m.Center())
}

func TestMergeContainment(t *testing.T) {
	big := NewBranch(Point{0, 0}, 10, Point{1, 1}, 5)
	small := NewBranch(Point{1, 0}, 1, Point{1, 0}, 2)

	m := Merge(big, small)
	assert.Equal(t, Point{0, 0}, m.Center())
	assert.Equal(t, 10.0, m.Radius())

	m = Merge(small, big)
	assert.Equal(t, Point{0, 0}, m.Center())
	assert.Equal(t, 10.0, m.Radius())
	assert.Equal(t, 7, m.Weight())
}

func TestMergeEncloses(t *testing.T) {
	leaves := randomPoints(40, 3, 11)
	var acc Ball = leaves[0]
	for _, l := range leaves[1:] {
		acc = Merge(acc, l)
	}
	assert.Equal(t, 40, acc.Weight())
	for _, l := range leaves {
		assert.LessOrEqual(t, Distance(acc.Center(), l.Point), acc.Radius()+1e-9, l.ID)
	}
}

func TestEdge(t *testing.T) {
	b := NewBranch(Point{0, 0}, 1, Point{0, 0}, 2)
	assert.InDelta(t, 2.0, Edge(Point{3, 0}, b), 1e-12)
	assert.Less(t, Edge(Point{0.5, 0}, b), 0.0)
}

func TestEmptyBall(t *testing.T) {
	assert.Equal(t, 0, Empty.Weight())
	assert.False(t, Empty.IsLeaf())
	assert.Nil(t, Empty.Center())
}
