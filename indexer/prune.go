package indexer

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Hyperplane splits space into dot(x, Normal) > Offset (positive) and the rest.
type Hyperplane struct {
	Normal Point   // unit length
	Offset float64
}

// Bisector returns the hyperplane with its normal pointing from declined
// toward preferred, passing through the weighted mean of the two points with
// weights wp and wd. A larger wd moves the cut toward declined and keeps more
// than half of the space.
func Bisector(preferred, declined Point, wp, wd float64) (Hyperplane, error) {
	if len(preferred) != len(declined) {
		dimensionPanic(len(preferred), len(declined))
	}
	n := make(Point, len(preferred))
	for i := range n {
		n[i] = preferred[i] - declined[i]
	}
	l := math.Sqrt(Dot(n, n))
	if l == 0 {
		return Hyperplane{}, errors.WithStack(ErrDegenerateHyperplane)
	}
	for i := range n {
		n[i] /= l
	}
	return Hyperplane{Normal: n, Offset: Dot(n, WeightedMean(preferred, declined, wp, wd))}, nil
}

// Midplane returns the perpendicular bisector of p1 and p2, positive toward p1.
func Midplane(p1, p2 Point) (Hyperplane, error) {
	return Bisector(p1, p2, 1, 1)
}

// IntersectsHalfspace reports whether any part of b may lie in the positive
// halfspace of h. Balls straddling the plane intersect.
func IntersectsHalfspace(b Ball, h Hyperplane) bool {
	return Dot(b.Center(), h.Normal) > h.Offset-b.Radius()
}

// BallsIntersect reports whether b1 and b2 overlap or touch.
func BallsIntersect(b1, b2 Ball) bool {
	return Distance(b1.Center(), b2.Center()) <= b1.Radius()+b2.Radius()
}

// prunedNode is an intermediate node of a derived tree.
type prunedNode struct {
	ball        Ball
	left, right *prunedNode
}

// PruneHalfspace returns a new tree holding the leaves that intersect the
// positive halfspace of h. A branch left with one surviving child is replaced
// by that child's subtree. The receiver is not modified.
func (t *Tree) PruneHalfspace(h Hyperplane) *Tree {
	if len(h.Normal) != t.dim && t.leaves > 0 {
		dimensionPanic(len(h.Normal), t.dim)
	}
	out := t.derive(t.prune(1, func(b Ball) bool { return IntersectsHalfspace(b, h) }))
	t.cfg.Metrics.pruned("halfspace", t.leaves, out.leaves)
	return out
}

// Intersection returns a new tree holding the leaves that intersect ball.
// The receiver is not modified.
func (t *Tree) Intersection(ball Ball) *Tree {
	out := t.derive(t.prune(1, func(b Ball) bool { return BallsIntersect(b, ball) }))
	t.cfg.Metrics.pruned("ball", t.leaves, out.leaves)
	return out
}

func (t *Tree) prune(i int, keep func(Ball) bool) *prunedNode {
	b := t.Aggregate(i)
	if b.Weight() == 0 || !keep(b) {
		return nil
	}
	if b.IsLeaf() {
		return &prunedNode{ball: b}
	}
	l, r := t.prune(2*i, keep), t.prune(2*i+1, keep)
	switch {
	case l != nil && r != nil:
		if l.ball == t.Aggregate(2*i) && r.ball == t.Aggregate(2*i+1) {
			return &prunedNode{ball: b, left: l, right: r}
		}
		return &prunedNode{ball: Merge(l.ball, r.ball), left: l, right: r}
	case l != nil:
		return l
	default:
		return r
	}
}

// derive lays a pruned node tree out from index 1 into a fresh Tree with
// every slot filled.
func (t *Tree) derive(root *prunedNode) *Tree {
	out := emptyTree(t.cfg, t.dim)
	if root == nil {
		return out
	}
	var place func(n *prunedNode, i int)
	place = func(n *prunedNode, i int) {
		out.fill(i, n.ball)
		if n.left == nil {
			out.leaves++
			return
		}
		place(n.left, 2*i)
		place(n.right, 2*i+1)
	}
	place(root, 1)
	return out
}
