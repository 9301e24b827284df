package basket

import (
	"testing"

	"github.com/ic-timon/ballindex/indexer"
	"github.com/ic-timon/ballindex/indexer/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attr(id string) Attribution {
	return Attribution{ID: id, Title: "title"}
}

func attrs(ids ...string) map[string]Attribution {
	out := make(map[string]Attribution, len(ids))
	for _, id := range ids {
		out[id] = attr(id)
	}
	return out
}

func simpleBasket() *Basket {
	return New(Core{
		Tree:         indexer.Index{2: "02", 3: "03"},
		Attributions: attrs("02", "03"),
		Baskets:      map[int]string{2: "2", 4: "4"},
	})
}

var (
	simpleExpansion = &Expansion{
		ID:           "2",
		Tree:         indexer.TreeExpansion{2: {4: "04", 5: "05"}},
		Attributions: attrs("04", "05"),
	}
	secondExpansion = &Expansion{
		ID:           "4",
		Tree:         indexer.TreeExpansion{4: {8: "08", 9: "09"}},
		Attributions: attrs("08", "09"),
	}
)

func TestBasket(t *testing.T) {
	b := simpleBasket()
	a, ok := b.Attribution("03")
	require.True(t, ok)
	assert.Equal(t, "03", a.ID)

	for _, tc := range []struct {
		branch, rel int
		want        string
	}{{1, 2, "02"}, {1, 4, "02"}, {3, 4, "03"}} {
		got, ok := b.RelativeAt(tc.branch, tc.rel)
		require.True(t, ok)
		assert.Equal(t, tc.want, got)
	}
	_, ok = New(Core{Tree: indexer.Index{4: "04"}}).RelativeAt(1, 1)
	assert.False(t, ok)
}

func TestWithExpansion(t *testing.T) {
	b := simpleBasket()
	id, ok := b.HasExpansion(2)
	assert.True(t, ok)
	assert.Equal(t, "2", id)
	id, _ = b.HasExpansion(4)
	assert.Equal(t, "2", id)
	id, _ = b.HasExpansion(8)
	assert.Equal(t, "2", id)

	c := b.WithExpansion(simpleExpansion)
	_, ok = c.HasExpansion(2)
	assert.False(t, ok)
	a, ok := c.Attribution("04")
	require.True(t, ok)
	assert.Equal(t, "04", a.ID)
	got, _ := c.RelativeAt(1, 2)
	assert.Equal(t, "04", got)
	got, _ = c.RelativeAt(2, 3)
	assert.Equal(t, "05", got)
	id, _ = c.HasExpansion(8)
	assert.Equal(t, "4", id)
	id, _ = c.HasExpansion(4)
	assert.Equal(t, "4", id)

	d := c.WithExpansion(secondExpansion)
	assert.Equal(t, indexer.Index{3: "03", 5: "05", 8: "08", 9: "09"}, d.Index())
	_, ok = d.HasExpansion(8)
	assert.False(t, ok)
	_, ok = d.Attribution("02")
	assert.True(t, ok)

	// The receiver is untouched.
	assert.Equal(t, indexer.Index{2: "02", 3: "03"}, b.Index())
	_, ok = b.Attribution("04")
	assert.False(t, ok)
}

func TestSerialize(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON, codec.Msgpack} {
		t.Run(c.Name(), func(t *testing.T) {
			b := simpleBasket()
			data, err := b.Serialize(c)
			require.NoError(t, err)
			got, err := Deserialize(data, c)
			require.NoError(t, err)
			assert.Equal(t, b.Core(), got.Core())
		})
	}
}

func TestDeserializeWireShape(t *testing.T) {
	b, err := Deserialize([]byte(`{
		"tree": {"2": "02", "3": "03"},
		"attributions": {"02": {"id": "02", "title": "t", "originTitle": "", "originUrl": "u", "license": "", "licenseUrl": ""}}
	}`), codec.JSON)
	require.NoError(t, err)
	assert.Equal(t, indexer.Index{2: "02", 3: "03"}, b.Index())
	a, ok := b.Attribution("02")
	require.True(t, ok)
	assert.Equal(t, "u", a.OriginURL)
	_, ok = b.HasExpansion(2)
	assert.False(t, ok)

	_, err = Deserialize([]byte("not json"), codec.JSON)
	assert.Error(t, err)
}
