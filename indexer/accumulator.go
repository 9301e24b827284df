package indexer

import (
	"math/rand"

	"github.com/cockroachdb/errors"
)

// Accumulator narrows a candidate region with preference comparisons.
// It is not safe for concurrent use; run one per session. Sessions over the
// same source tree are independent.
type Accumulator struct {
	cfg      *Config
	region   *Tree
	liked    []Point
	disliked []Point
	planes   []Hyperplane
}

// NewAccumulator starts a session over the whole of tree.
func NewAccumulator(tree *Tree, cfg *Config) *Accumulator {
	if cfg == nil {
		cfg = tree.cfg
	}
	return &Accumulator{cfg: cfg.OrDefault(), region: tree}
}

// Accumulate records that preferred was chosen over declined and prunes the
// region to the preferred side of the skewed bisector. A cut that would empty
// the region is rejected with ErrEmptyRegion and the region is kept.
func (a *Accumulator) Accumulate(preferred, declined Point) error {
	h, err := Bisector(preferred, declined, a.cfg.PreferredWeight, a.cfg.DeclinedWeight)
	if err != nil {
		return err
	}
	a.cfg.Metrics.compared()
	before := a.region.Weight()
	next := a.region.PruneHalfspace(h)
	if next.Weight() == 0 {
		a.cfg.Logger.Warn("comparison rejected", "err", ErrEmptyRegion, "weight", before)
		return errors.Wrapf(ErrEmptyRegion, "comparison %d", len(a.liked)+1)
	}
	a.liked = append(a.liked, preferred)
	a.disliked = append(a.disliked, declined)
	a.planes = append(a.planes, h)
	a.region = next
	a.cfg.Logger.Debug("comparison accumulated", "n", len(a.liked), "before", before, "after", next.Weight())
	return nil
}

// Convergence returns the current region. It is a complete tree rooted at 1.
func (a *Accumulator) Convergence() *Tree {
	return a.region
}

// History returns the preferred points in the order they were accumulated.
func (a *Accumulator) History() []Point {
	return append([]Point(nil), a.liked...)
}

// Declined returns the declined points in the order they were accumulated.
func (a *Accumulator) Declined() []Point {
	return append([]Point(nil), a.disliked...)
}

// Hyperplanes returns the cuts applied so far.
func (a *Accumulator) Hyperplanes() []Hyperplane {
	return append([]Hyperplane(nil), a.planes...)
}

// Comparisons returns the number of accepted comparisons.
func (a *Accumulator) Comparisons() int {
	return len(a.liked)
}

// Chooser answers forced-choice comparisons.
type Chooser interface {
	// Prefer reports whether a is preferred over b.
	Prefer(a, b *Leaf) bool
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(a, b *Leaf) bool

// Prefer implements Chooser.
func (f ChooserFunc) Prefer(a, b *Leaf) bool { return f(a, b) }

// Outcome summarizes a Converge run.
type Outcome struct {
	Leaf       *Leaf // set when the region narrowed to one leaf
	Iterations int
	Remaining  int // region weight at exit
}

// Converged reports whether the region narrowed to a single leaf.
func (o Outcome) Converged() bool {
	return o.Leaf != nil
}

// Converge drives comparisons until the region holds one leaf or
// Config.MaxIterations comparisons were made. Each round draws one leaf from
// each half of the region so the pair is always distinct.
func Converge(a *Accumulator, c Chooser, rng *rand.Rand) (Outcome, error) {
	var out Outcome
	for out.Iterations < a.cfg.MaxIterations {
		region := a.region
		if region.Weight() <= 1 {
			break
		}
		_, left := region.RandomLeaf(2, rng)
		_, right := region.RandomLeaf(3, rng)
		if left == nil || right == nil {
			return out, errors.Wrap(ErrNoDistinctPair, "region root has a missing child")
		}
		preferred, declined := right, left
		if c.Prefer(left, right) {
			preferred, declined = left, right
		}
		out.Iterations++
		if err := a.Accumulate(preferred.Point, declined.Point); err != nil {
			if errors.Is(err, ErrDegenerateHyperplane) {
				// Coincident points cannot be told apart; keep drawing.
				continue
			}
			return out, err
		}
	}
	out.Remaining = a.region.Weight()
	if out.Remaining == 1 {
		out.Leaf, _ = a.region.Aggregate(1).(*Leaf)
	}
	return out, nil
}
