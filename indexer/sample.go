package indexer

import (
	"math/rand"

	"github.com/cockroachdb/errors"
)

// RandomLeaf draws a leaf under branch uniformly at random by stepping left
// with probability leftWeight/weight at every level. rng may be nil to use
// the global source. Returns nil when branch is outside the tree.
func (t *Tree) RandomLeaf(branch int, rng *rand.Rand) (int, *Leaf) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	i := branch
	b := t.Aggregate(i)
	for b.Weight() > 1 {
		w := b.Weight()
		i *= 2
		if intn(w) >= t.Aggregate(i).Weight() {
			i++
		}
		b = t.Aggregate(i)
	}
	l, _ := b.(*Leaf)
	if l == nil {
		return 0, nil
	}
	return i, l
}

// RandomPair draws two distinct leaves under branch, redrawing the second on
// duplicates up to Config.MaxRedraws times.
func (t *Tree) RandomPair(branch int, rng *rand.Rand) (a, b *Leaf, err error) {
	if w := t.Aggregate(branch).Weight(); w < 2 {
		return nil, nil, errors.Wrapf(ErrNoDistinctPair, "branch %d has weight %d", branch, w)
	}
	ia, first := t.RandomLeaf(branch, rng)
	for n := 0; n < t.cfg.MaxRedraws; n++ {
		ib, second := t.RandomLeaf(branch, rng)
		if ib != ia {
			return first, second, nil
		}
	}
	return nil, nil, errors.Wrapf(ErrNoDistinctPair, "%d redraws under branch %d", t.cfg.MaxRedraws, branch)
}
