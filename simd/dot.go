// Package simd provides AVX2 and NEON accelerated float64 vector kernels for
// points of any dimension. The best implementation is selected at init based
// on GOARCH, CGO availability and CPU features; the portable path uses gonum.
package simd

import "gonum.org/v1/gonum/floats"

var (
	dotImpl    func(a, b []float64) float64
	sqDistImpl func(a, b []float64) float64
	implDesc   string
)

func init() {
	// Default; dispatch files override in init() based on GOARCH and CGO.
	if dotImpl == nil {
		dotImpl = floats.Dot
		sqDistImpl = squaredDistanceGo
		implDesc = "Go"
	}
}

// Dot computes the dot product of two float64 vectors.
// Returns 0 when the lengths differ or the vectors are empty.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return dotImpl(a, b)
}

// SquaredDistance computes the squared Euclidean distance between a and b.
// Returns 0 when the lengths differ or the vectors are empty.
func SquaredDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return sqDistImpl(a, b)
}

// Desc returns a description of the current kernel implementation (for logging).
func Desc() string {
	if implDesc != "" {
		return implDesc
	}
	return "Go"
}

// squaredDistanceGo is the pure Go implementation (4-way unroll).
func squaredDistanceGo(a, b []float64) float64 {
	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= len(a); i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < len(a); i++ {
		d := a[i] - b[i]
		s0 += d * d
	}
	return s0 + s1 + s2 + s3
}
