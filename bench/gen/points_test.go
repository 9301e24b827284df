package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPoints(t *testing.T) {
	a := RandomPoints(100, 3, 7)
	b := RandomPoints(100, 3, 7)
	require.Len(t, a, 100)
	assert.Equal(t, a, b)
	for _, p := range a {
		require.Len(t, p, 3)
		for _, v := range p {
			assert.True(t, v >= -1 && v < 1)
		}
	}
}

func TestItems(t *testing.T) {
	items := Items(Clustered(10, 2, 3, 0.1, 1))
	require.Len(t, items, 10)
	assert.Equal(t, "v0000000", items[0].ID)
	assert.Equal(t, "v0000009", items[9].ID)
}
