package indexer

import (
	"math"

	"github.com/ic-timon/ballindex/simd"
	"gonum.org/v1/gonum/floats"
)

// Point is a location in a fixed-dimensional Euclidean space.
type Point []float64

// Distance returns the Euclidean distance between a and b.
// It panics with ErrDimensionMismatch when the dimensions differ.
func Distance(a, b Point) float64 {
	if len(a) != len(b) {
		dimensionPanic(len(a), len(b))
	}
	return math.Sqrt(simd.SquaredDistance(a, b))
}

// Dot returns the dot product of a and b.
// It panics with ErrDimensionMismatch when the dimensions differ.
func Dot(a, b Point) float64 {
	if len(a) != len(b) {
		dimensionPanic(len(a), len(b))
	}
	return simd.Dot(a, b)
}

// WeightedMean returns (wa*a + wb*b) / (wa+wb).
func WeightedMean(a, b Point, wa, wb float64) Point {
	if len(a) != len(b) {
		dimensionPanic(len(a), len(b))
	}
	out := make(Point, len(a))
	w := wa + wb
	for i := range a {
		out[i] = (wa*a[i] + wb*b[i]) / w
	}
	return out
}

// Clone returns a copy of p.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	o := make(Point, len(p))
	copy(o, p)
	return o
}

// Equal reports whether p and q hold the same coordinates.
func (p Point) Equal(q Point) bool {
	return floats.Equal(p, q)
}
