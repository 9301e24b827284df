package indexer

// Ball is a tree node value: a bounding sphere plus the population and
// weighted centroid of the leaves it covers. The variants are *Leaf, *Branch
// and Empty.
type Ball interface {
	// Center returns the bounding sphere center.
	Center() Point
	// Radius returns the bounding sphere radius.
	Radius() float64
	// Centroid returns the weighted mean location of the covered leaves.
	Centroid() Point
	// Weight returns the number of covered leaves; 0 for Empty.
	Weight() int
	// IsLeaf reports whether this is a *Leaf.
	IsLeaf() bool
}

// Leaf is a single indexed point.
type Leaf struct {
	ID    string
	Point Point
}

// Center implements Ball.
func (l *Leaf) Center() Point { return l.Point }

// Radius implements Ball.
func (*Leaf) Radius() float64 { return 0 }

// Centroid implements Ball.
func (l *Leaf) Centroid() Point { return l.Point }

// Weight implements Ball.
func (*Leaf) Weight() int { return 1 }

// IsLeaf implements Ball.
func (*Leaf) IsLeaf() bool { return true }

// Branch is an aggregate of two or more leaves.
type Branch struct {
	center   Point
	radius   float64
	centroid Point
	weight   int
}

// NewBranch creates a branch ball from its parts.
func NewBranch(center Point, radius float64, centroid Point, weight int) *Branch {
	return &Branch{center: center, radius: radius, centroid: centroid, weight: weight}
}

// Center implements Ball.
func (b *Branch) Center() Point { return b.center }

// Radius implements Ball.
func (b *Branch) Radius() float64 { return b.radius }

// Centroid implements Ball.
func (b *Branch) Centroid() Point { return b.centroid }

// Weight implements Ball.
func (b *Branch) Weight() int { return b.weight }

// IsLeaf implements Ball.
func (*Branch) IsLeaf() bool { return false }

type emptyBall struct{}

func (emptyBall) Center() Point   { return nil }
func (emptyBall) Radius() float64 { return 0 }
func (emptyBall) Centroid() Point { return nil }
func (emptyBall) Weight() int     { return 0 }
func (emptyBall) IsLeaf() bool    { return false }

// Empty marks an absent or invalid subtree. It is never cached.
var Empty Ball = emptyBall{}

// Merge returns the smallest ball on the center axis enclosing b1 and b2,
// carrying their combined weight and weighted centroid. When one ball already
// contains the other its center and radius are reused, ties favoring b1.
func Merge(b1, b2 Ball) *Branch {
	c1, c2 := b1.Center(), b2.Center()
	if len(c1) != len(c2) {
		dimensionPanic(len(c1), len(c2))
	}
	w1, w2 := b1.Weight(), b2.Weight()
	out := &Branch{
		weight:   w1 + w2,
		centroid: WeightedMean(b1.Centroid(), b2.Centroid(), float64(w1), float64(w2)),
	}
	a, c := b1.Radius(), b2.Radius()
	r := (a + Distance(c1, c2) + c) / 2
	switch {
	case a >= c && a >= r:
		out.center, out.radius = c1.Clone(), a
	case c > a && c >= r:
		out.center, out.radius = c2.Clone(), c
	default:
		out.radius = r
		out.center = make(Point, len(c1))
		den := 2*r - a - c
		for i := range c1 {
			out.center[i] = ((r-c)*c1[i] + (r-a)*c2[i]) / den
		}
	}
	return out
}

// Edge is a lower bound on the distance from p to any point inside b.
// It is negative when p lies inside b.
func Edge(p Point, b Ball) float64 {
	return Distance(p, b.Center()) - b.Radius()
}
