package indexer

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate(t *testing.T) {
	tree := lineTree(t)
	acc := NewAccumulator(tree, nil)
	assert.Same(t, tree, acc.Convergence())

	require.NoError(t, acc.Accumulate(Point{6}, Point{1}))
	assert.Equal(t, []string{"12", "13", "14", "15"}, leafIDs(acc.Convergence()))

	err := acc.Accumulate(Point{4}, Point{4})
	assert.True(t, errors.Is(err, ErrDegenerateHyperplane))
	assert.Equal(t, 1, acc.Comparisons())

	require.NoError(t, acc.Accumulate(Point{0}, Point{7}))
	assert.Equal(t, []string{"12"}, leafIDs(acc.Convergence()))

	assert.Equal(t, []Point{{6}, {0}}, acc.History())
	assert.Equal(t, []Point{{1}, {7}}, acc.Declined())
	assert.Len(t, acc.Hyperplanes(), 2)
	assert.Equal(t, 8, tree.Len())
}

func TestAccumulateRejectsEmptyRegion(t *testing.T) {
	tree := lineTree(t)
	acc := NewAccumulator(tree, nil)
	require.NoError(t, acc.Accumulate(Point{0}, Point{7}))
	region := acc.Convergence()
	require.Equal(t, 5, region.Weight())

	err := acc.Accumulate(Point{10}, Point{0})
	assert.True(t, errors.Is(err, ErrEmptyRegion))
	assert.Same(t, region, acc.Convergence())
	assert.Equal(t, 1, acc.Comparisons())
}

func TestAccumulateKeepsPreferredDropsDeclined(t *testing.T) {
	leaves := randomPoints(200, 3, 41)
	tree, err := Build(leaves, nil)
	require.NoError(t, err)

	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		acc := NewAccumulator(tree, nil)

		for n := 0; n < 20 && acc.Convergence().Weight() > 1; n++ {
			a, b, err := acc.Convergence().RandomPair(1, rng)
			require.NoError(t, err)
			before := acc.Convergence().Weight()
			require.NoError(t, acc.Accumulate(a.Point, b.Point))

			region := acc.Convergence()
			ids := leafIDs(region)
			assert.Contains(t, ids, a.ID)
			assert.NotContains(t, ids, b.ID)
			assert.Less(t, region.Weight(), before)
			assert.Equal(t, region.Len(), region.Weight())
			assert.True(t, Validate(region))

			// Every survivor lies on the kept side of every cut so far.
			for i, l := range region.Leaves() {
				for j, h := range acc.Hyperplanes() {
					assert.True(t, IntersectsHalfspace(l, h), "seed %d leaf %d cut %d", seed, i, j)
				}
			}
		}
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	tree := lineTree(t)
	a := NewAccumulator(tree, nil)
	b := NewAccumulator(tree, nil)
	require.NoError(t, a.Accumulate(Point{7}, Point{0}))
	require.NoError(t, b.Accumulate(Point{0}, Point{7}))
	assert.Equal(t, []string{"11", "12", "13", "14", "15"}, leafIDs(a.Convergence()))
	assert.Equal(t, []string{"08", "09", "10", "11", "12"}, leafIDs(b.Convergence()))
	assert.Equal(t, 8, tree.Weight())
}

func TestConvergeFindsTarget(t *testing.T) {
	leaves := randomPoints(250, 4, 51)
	tree, err := Build(leaves, nil)
	require.NoError(t, err)
	target := leaves[17]

	closer := ChooserFunc(func(a, b *Leaf) bool {
		return Distance(a.Point, target.Point) < Distance(b.Point, target.Point)
	})
	acc := NewAccumulator(tree, &Config{MaxIterations: 1000})
	out, err := Converge(acc, closer, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.True(t, out.Converged())
	assert.Equal(t, target.ID, out.Leaf.ID)
	assert.Equal(t, 1, out.Remaining)
	assert.Equal(t, out.Iterations, acc.Comparisons())
	assert.Less(t, out.Iterations, 250)
}

func TestConvergeStopsAtBudget(t *testing.T) {
	tree, err := Build(randomPoints(100, 2, 61), nil)
	require.NoError(t, err)
	acc := NewAccumulator(tree, &Config{MaxIterations: 2})
	out, err := Converge(acc, ChooserFunc(func(a, b *Leaf) bool { return true }), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Iterations)
	assert.False(t, out.Converged())
	assert.Greater(t, out.Remaining, 1)
}
