package indexer

import (
	"os"
	"sort"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Tree is a ball tree over an implicit index space. Leaf slots are filled at
// construction; branch slots exist for every ancestor of a leaf and are filled
// once, on first use, by Aggregate.
type Tree struct {
	cfg            *Config
	dim            int
	leaves         int
	slots          map[int]*atomic.Pointer[Ball] // key set is fixed after construction
	persistedStore interface{ Close() error }    // set by LoadFrom, used by ClosePersisted
}

type leafSet map[int]*Leaf

func (s leafSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// New creates a tree from leaves keyed by implicit index. The leaf set must
// cover every root path (see Validate), share one dimensionality, and no leaf
// may sit under another. Uses default config if cfg is nil.
func New(leaves map[int]*Leaf, cfg *Config) (*Tree, error) {
	cfg = cfg.OrDefault()
	if len(leaves) == 0 {
		return nil, errors.Wrap(ErrStructure, "no leaves")
	}
	dim := -1
	for i, l := range leaves {
		if i < 1 || i > MaxIndex {
			return nil, errors.Wrapf(ErrStructure, "leaf index %d out of range [1, %d]", i, MaxIndex)
		}
		if l == nil {
			return nil, errors.Wrapf(ErrStructure, "leaf %d is nil", i)
		}
		if dim < 0 {
			dim = len(l.Point)
		} else if len(l.Point) != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "leaf %d has dimension %d, want %d", i, len(l.Point), dim)
		}
	}
	set := leafSet(leaves)
	if !Validate(set) {
		return nil, errors.Wrap(ErrStructure, "leaves do not cover every branch")
	}
	t := &Tree{cfg: cfg, dim: dim, slots: make(map[int]*atomic.Pointer[Ball], 2*len(leaves))}
	for i, l := range leaves {
		if a, ok := Ancestor(set, i>>1); ok {
			return nil, errors.Wrapf(ErrStructure, "leaf %d is shadowed by leaf %d", i, a)
		}
		t.fill(i, l)
		for b := i >> 1; b > 0; b >>= 1 {
			if _, ok := t.slots[b]; ok {
				break
			}
			t.slots[b] = new(atomic.Pointer[Ball])
		}
	}
	t.leaves = len(leaves)
	cfg.Logger.Debug("tree constructed", "leaves", t.leaves, "dim", dim, "height", Height(t, 1))
	return t, nil
}

// Open loads cfg.PersistPath when it names an existing file.
func Open(cfg *Config) (*Tree, error) {
	cfg = cfg.OrDefault()
	if cfg.PersistPath == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "no persist path configured")
	}
	if _, err := os.Stat(cfg.PersistPath); err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.PersistPath)
	}
	return NewTreeFromFile(cfg.PersistPath, cfg)
}

// emptyTree returns a tree with no slots, the result of pruning everything.
func emptyTree(cfg *Config, dim int) *Tree {
	return &Tree{cfg: cfg, dim: dim, slots: map[int]*atomic.Pointer[Ball]{}}
}

func (t *Tree) fill(i int, b Ball) {
	slot := new(atomic.Pointer[Ball])
	bp := new(Ball)
	*bp = b
	slot.Store(bp)
	t.slots[i] = slot
}

// Config returns the current configuration.
func (t *Tree) Config() *Config {
	return t.cfg
}

// Dim returns the dimensionality of the tree's points.
func (t *Tree) Dim() int {
	return t.dim
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return t.leaves
}

// Weight returns the root weight; 0 for an empty tree.
func (t *Tree) Weight() int {
	return t.Aggregate(1).Weight()
}

// Has implements Nodes: it reports whether a leaf sits at i.
func (t *Tree) Has(i int) bool {
	_, ok := t.Leaf(i)
	return ok
}

// Leaf returns the leaf at i.
func (t *Tree) Leaf(i int) (*Leaf, bool) {
	slot, ok := t.slots[i]
	if !ok {
		return nil, false
	}
	p := slot.Load()
	if p == nil {
		return nil, false
	}
	l, ok := (*p).(*Leaf)
	return l, ok
}

// Aggregate returns the ball at i, computing and caching branch balls from
// their children on first use. It returns Empty for indices outside the tree.
// Safe for concurrent use: a slot is written at most once.
func (t *Tree) Aggregate(i int) Ball {
	if i < 1 || i > MaxIndex {
		return Empty
	}
	slot, ok := t.slots[i]
	if !ok {
		return Empty
	}
	if p := slot.Load(); p != nil {
		return *p
	}
	l, r := t.Aggregate(2*i), t.Aggregate(2*i+1)
	if l.Weight() == 0 || r.Weight() == 0 {
		return Empty
	}
	bp := new(Ball)
	*bp = Merge(l, r)
	if !slot.CompareAndSwap(nil, bp) {
		return *slot.Load()
	}
	t.cfg.Metrics.aggregated()
	return *bp
}

// AggregateAll resolves every branch slot and returns the root ball.
func (t *Tree) AggregateAll() Ball {
	return t.Aggregate(1)
}

// Indices returns every slot index (leaves and branches) in ascending order.
func (t *Tree) Indices() []int {
	out := make([]int, 0, len(t.slots))
	for i := range t.slots {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Leaves returns the leaves keyed by index.
func (t *Tree) Leaves() map[int]*Leaf {
	out := make(map[int]*Leaf, t.leaves)
	for i := range t.slots {
		if l, ok := t.Leaf(i); ok {
			out[i] = l
		}
	}
	return out
}

// Index exports the leaf identifiers for the split/expand protocol.
func (t *Tree) Index() Index {
	out := make(Index, t.leaves)
	for i, l := range t.Leaves() {
		out[i] = l.ID
	}
	return out
}

// ClosePersisted releases the mapping of a tree loaded from file. No-op otherwise.
func (t *Tree) ClosePersisted() error {
	if t.persistedStore != nil {
		err := t.persistedStore.Close()
		t.persistedStore = nil
		return err
	}
	return nil
}
