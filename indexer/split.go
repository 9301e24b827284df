package indexer

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// TreeExpansion maps a placeholder index to the entries that replace it.
type TreeExpansion map[int]Index

// Split is an Index cut into a core and expansion baskets keyed by the
// branch whose layer they refine.
type Split struct {
	Core    Index
	Baskets map[int]TreeExpansion
}

// SplitIndex cuts t into a core reaching depth e and baskets that each add f
// levels below a placeholder. Placeholders hold the id of the left-most leaf
// under them.
func SplitIndex(t Index, e, f int) (*Split, error) {
	return splitIndex(t, e, f, nil)
}

// Split is SplitIndex over the tree's leaves, recording metrics and logs.
func (t *Tree) Split(e, f int) (*Split, error) {
	return splitIndex(t.Index(), e, f, t.cfg)
}

func splitIndex(t Index, e, f int, cfg *Config) (*Split, error) {
	start := time.Now()
	if e < 1 || f < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "eagerness %d and frequency %d must be >= 1", e, f)
	}
	maxIndex := t.MaxKey()
	if len(t) == 0 || maxIndex > MaxIndex {
		return nil, errors.Wrapf(ErrStructure, "index keys must lie in [1, %d]", MaxIndex)
	}
	if !Validate(t) {
		return nil, errors.Wrap(ErrStructure, "index does not cover every branch")
	}
	s := &Split{Core: buildBranch(t, 1, e), Baskets: make(map[int]TreeExpansion)}
	// A basket at b refines placeholders at depth Depth(b)+e, which only
	// matter when they sit strictly above some leaf.
	maxBasket := maxIndex >> (e + 1)
	for b := 1; b <= maxBasket; b++ {
		if basket := buildBasket(t, b, e, f); len(basket) > 0 {
			s.Baskets[b] = basket
		}
		if b&(b+1) == 0 {
			// End of a level: skip ahead so basket depths are multiples of f.
			b = ((b + 1) << (f - 1)) - 1
		}
	}
	if cfg != nil {
		cfg.Metrics.split(start)
		cfg.Logger.Debug("index split", "leaves", len(t), "core", len(s.Core), "baskets", len(s.Baskets), "eagerness", e, "frequency", f)
	}
	return s, nil
}

// buildBranch covers the 2^d indices at depth d below b: present leaves are
// copied, indices under a leaf copy that leaf, and the rest become
// placeholders named after their left-most leaf.
func buildBranch(t Index, b, d int) Index {
	start := b << d
	end := start + 1<<d
	out := make(Index)
	for i := start; i < end; i++ {
		if a, ok := Ancestor(t, i); ok {
			out[a] = t[a]
			continue
		}
		if r, ok := RelativeAt(t, i, 0); ok {
			out[i] = t[r]
		}
	}
	return out
}

func buildBasket(t Index, b, e, f int) TreeExpansion {
	start := b << e
	end := start + 1<<e
	out := make(TreeExpansion)
	for i := start; i < end; i++ {
		if _, ok := Ancestor(t, i); ok {
			continue
		}
		out[i] = buildBranch(t, i, f)
	}
	return out
}

// Expand returns a copy of t with every placeholder key of tx replaced by its
// entries. An entry whose index already has entries beneath it is skipped, so
// baskets of a split may be applied in any order.
func Expand(t Index, tx TreeExpansion) Index {
	out := t.Clone()
	for key := range tx {
		delete(out, key)
	}
	refined := make(map[int]bool)
	for k := range out {
		for a := k >> 1; a > 0 && !refined[a]; a >>= 1 {
			refined[a] = true
		}
	}
	for _, entries := range tx {
		for k, v := range entries {
			if !refined[k] {
				out[k] = v
			}
		}
	}
	return out
}

// BasketKeys returns the basket keys in ascending order.
func (s *Split) BasketKeys() []int {
	keys := make([]int, 0, len(s.Baskets))
	for k := range s.Baskets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Reassemble applies every basket to the core and returns the full index.
func (s *Split) Reassemble() Index {
	out := s.Core.Clone()
	for _, k := range s.BasketKeys() {
		out = Expand(out, s.Baskets[k])
	}
	return out
}
