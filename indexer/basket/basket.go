package basket

import (
	"github.com/ic-timon/ballindex/indexer"
	"github.com/ic-timon/ballindex/indexer/codec"
)

// Core is the serialized form of a Basket.
type Core struct {
	Tree         indexer.Index          `json:"tree"`
	Attributions map[string]Attribution `json:"attributions"`
	Baskets      map[int]string         `json:"baskets,omitempty"`
}

// Expansion is one fetched basket: the entries replacing its placeholders,
// their attributions and the ids of deeper baskets.
type Expansion struct {
	ID           string                 `json:"id"`
	Tree         indexer.TreeExpansion  `json:"tree"`
	Attributions map[string]Attribution `json:"attributions"`
	Baskets      map[int]string         `json:"baskets,omitempty"`
}

// Basket is an immutable view of the part of a split index held so far.
type Basket struct {
	tree         indexer.Index
	attributions map[string]Attribution
	baskets      map[int]string
}

// New returns a basket over core. The maps are used as is.
func New(core Core) *Basket {
	b := &Basket{tree: core.Tree, attributions: core.Attributions, baskets: core.Baskets}
	if b.attributions == nil {
		b.attributions = map[string]Attribution{}
	}
	if b.baskets == nil {
		b.baskets = map[int]string{}
	}
	return b
}

// Deserialize decodes a basket written by Serialize.
func Deserialize(data []byte, c codec.Codec) (*Basket, error) {
	var core Core
	if err := c.Unmarshal(data, &core); err != nil {
		return nil, err
	}
	return New(core), nil
}

// Serialize encodes the basket.
func (b *Basket) Serialize(c codec.Codec) ([]byte, error) {
	return c.Marshal(b.Core())
}

// Core returns the serializable contents.
func (b *Basket) Core() Core {
	return Core{Tree: b.tree, Attributions: b.attributions, Baskets: b.baskets}
}

// Index returns the tree held so far.
func (b *Basket) Index() indexer.Index {
	return b.tree
}

// Attribution returns the attribution of a leaf id.
func (b *Basket) Attribution(id string) (Attribution, bool) {
	a, ok := b.attributions[id]
	return a, ok
}

// RelativeAt returns the id at the relative position rel under branch.
func (b *Basket) RelativeAt(branch, rel int) (string, bool) {
	i, ok := indexer.RelativeAt(b.tree, branch, rel)
	if !ok {
		return "", false
	}
	return b.tree[i], true
}

// HasExpansion returns the id of the basket refining the entry that covers
// index i, if there is one.
func (b *Basket) HasExpansion(i int) (string, bool) {
	a, ok := indexer.Ancestor(b.tree, i)
	if !ok {
		return "", false
	}
	id, ok := b.baskets[a]
	return id, ok
}

// WithExpansion returns a new basket with x spliced in. The receiver is not
// modified.
func (b *Basket) WithExpansion(x *Expansion) *Basket {
	out := &Basket{
		tree:         indexer.Expand(b.tree, x.Tree),
		attributions: make(map[string]Attribution, len(b.attributions)+len(x.Attributions)),
		baskets:      make(map[int]string, len(b.baskets)+len(x.Baskets)),
	}
	for k, v := range b.attributions {
		out.attributions[k] = v
	}
	for k, v := range x.Attributions {
		out.attributions[k] = v
	}
	for k, v := range b.baskets {
		if _, replaced := x.Tree[k]; !replaced {
			out.baskets[k] = v
		}
	}
	for k, v := range x.Baskets {
		out.baskets[k] = v
	}
	return out
}
