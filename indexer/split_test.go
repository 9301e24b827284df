package indexer

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bigTree = func() Index {
	idx := make(Index)
	for _, k := range []int{4, 10, 22, 46, 94, 95, 7, 13, 25, 49, 96, 97} {
		idx[k] = fmt.Sprintf("%03d", k)
	}
	return idx
}()

var adamsApple = indexOf(33, 34, 35, 37, 38, 39, 41, 42, 43, 45, 46, 47, 49, 50, 51, 53, 54, 55,
	57, 58, 59, 61, 62, 63, 64, 65, 72, 73, 80, 81, 88, 89, 96, 97, 104, 105, 112, 113, 120, 121)

func TestSplitNoBaskets(t *testing.T) {
	s, err := SplitIndex(goodTree, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, goodTree, s.Core)
	assert.Empty(t, s.Baskets)
}

func TestSplitPlaceholders(t *testing.T) {
	s, err := SplitIndex(goodTree, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Index{2: "008", 3: "003"}, s.Core)
	assert.Equal(t, map[int]TreeExpansion{1: {2: {4: "008", 5: "010"}}}, s.Baskets)
	assert.Equal(t, goodTree, s.Reassemble())
}

func TestSplitExpandedTree(t *testing.T) {
	s, err := SplitIndex(expandedTree, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, goodTree, s.Core)
	assert.Equal(t, TreeExpansion{4: {8: "008", 9: "009"}, 5: {10: "010", 11: "011"}}, s.Baskets[1])
	assert.Equal(t, expandedTree, Expand(s.Core, s.Baskets[1]))
}

func TestSplitBigTree(t *testing.T) {
	s, err := SplitIndex(bigTree, 3, 2)
	require.NoError(t, err)
	assert.True(t, Validate(s.Core))
	assert.Equal(t, "022", s.Core[11])
	assert.Equal(t, "096", s.Core[12])
	assert.Equal(t, []int{1, 5, 6}, s.BasketKeys())
	assert.Equal(t, TreeExpansion{47: {94: "094", 95: "095"}}, s.Baskets[5])
	assert.Equal(t, bigTree, s.Reassemble())
}

func TestSplitPerfectTree(t *testing.T) {
	tree := perfectIndex(7)
	s, err := SplitIndex(tree, 4, 2)
	require.NoError(t, err)
	assert.Len(t, s.Core, 16)

	expanded := Expand(s.Core, s.Baskets[1])
	assert.Len(t, expanded, 64)
	assert.True(t, Validate(expanded))
	assert.NotContains(t, s.Baskets, 2)
	assert.NotContains(t, s.Baskets, 3)
	assert.Contains(t, s.Baskets, 4)
	assert.Equal(t, tree, s.Reassemble())
}

func TestSplitAdamsApple(t *testing.T) {
	s, err := SplitIndex(adamsApple, 2, 2)
	require.NoError(t, err)
	assert.Len(t, s.Core, 4)
	assert.Len(t, Expand(s.Core, s.Baskets[1]), 16)
	assert.NotContains(t, s.Baskets, 2)
	assert.NotContains(t, s.Baskets, 3)
	assert.Contains(t, s.Baskets, 4)
	assert.Equal(t, adamsApple, s.Reassemble())
}

func TestExpandAnyOrder(t *testing.T) {
	for name, tree := range map[string]Index{
		"big":     bigTree,
		"perfect": perfectIndex(7),
		"adam":    adamsApple,
	} {
		t.Run(name, func(t *testing.T) {
			s, err := SplitIndex(tree, 2, 2)
			require.NoError(t, err)
			keys := s.BasketKeys()
			out := s.Core
			for i := len(keys) - 1; i >= 0; i-- {
				out = Expand(out, s.Baskets[keys[i]])
			}
			assert.Equal(t, tree, out)
		})
	}
}

func TestSplitIsLayered(t *testing.T) {
	s, err := SplitIndex(perfectIndex(9), 3, 3)
	require.NoError(t, err)
	for _, k := range s.BasketKeys() {
		assert.Equal(t, 0, Depth(k)%3, "basket %d", k)
		for placeholder := range s.Baskets[k] {
			assert.Equal(t, Depth(k)+3, Depth(placeholder))
		}
	}
	assert.Equal(t, perfectIndex(9), s.Reassemble())
}

func TestSplitErrors(t *testing.T) {
	_, err := SplitIndex(goodTree, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = SplitIndex(goodTree, 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = SplitIndex(badTree, 2, 1)
	assert.True(t, errors.Is(err, ErrStructure))
	_, err = SplitIndex(Index{}, 2, 1)
	assert.True(t, errors.Is(err, ErrStructure))
	_, err = SplitIndex(Index{MaxIndex + 1: "x"}, 2, 1)
	assert.True(t, errors.Is(err, ErrStructure))
}

func TestTreeSplit(t *testing.T) {
	tree := lineTree(t)
	s, err := tree.Split(2, 1)
	require.NoError(t, err)
	assert.Len(t, s.Core, 4)
	assert.Equal(t, tree.Index(), s.Reassemble())
}
