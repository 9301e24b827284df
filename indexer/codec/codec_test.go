package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fragment struct {
	ID    string                    `json:"id"`
	Tree  map[int]map[int]string    `json:"tree"`
	Notes map[string]map[string]int `json:"notes,omitempty"`
}

func TestCodecs(t *testing.T) {
	in := fragment{
		ID:   "2",
		Tree: map[int]map[int]string{2: {4: "04", 5: "05"}},
	}
	for _, name := range []string{"json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)
			var out fragment
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestJSONUsesTagNames(t *testing.T) {
	data, err := JSON.Marshal(fragment{ID: "x", Tree: map[int]map[int]string{1: {2: "a"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","tree":{"1":{"2":"a"}}}`, string(data))
}

func TestMsgpackIsSmaller(t *testing.T) {
	tree := make(map[int]map[int]string)
	for i := 16; i < 32; i++ {
		tree[i] = map[int]string{4 * i: "leaf", 4*i + 1: "leaf"}
	}
	j, err := JSON.Marshal(fragment{Tree: tree})
	require.NoError(t, err)
	m, err := Msgpack.Marshal(fragment{Tree: tree})
	require.NoError(t, err)
	assert.Less(t, len(m), len(j))
}

func TestDecodeErrors(t *testing.T) {
	var out fragment
	assert.Error(t, JSON.Unmarshal([]byte("{"), &out))
	assert.Error(t, Msgpack.Unmarshal([]byte{0xc1}, &out))

	_, err := ByName("xml")
	assert.Error(t, err)
}
