package simd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

const benchDim = 128

func randomPair(rng *rand.Rand, n int) (va, vb []float64) {
	va = make([]float64, n)
	vb = make([]float64, n)
	for i := range va {
		va[i] = rng.Float64()*2 - 1
		vb[i] = rng.Float64()*2 - 1
	}
	return va, vb
}

func initBenchVectors() (va, vb []float64) {
	return randomPair(rand.New(rand.NewSource(42)), benchDim)
}

func naiveDot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestDotMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 16, 33, 128, 513} {
		a, b := randomPair(rng, n)
		assert.InDelta(t, naiveDot(a, b), Dot(a, b), 1e-9, "dim %d impl %s", n, Desc())
		assert.InDelta(t, floats.Distance(a, b, 2)*floats.Distance(a, b, 2), SquaredDistance(a, b), 1e-9, "dim %d impl %s", n, Desc())
	}
}

func TestMismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, Dot([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, SquaredDistance(nil, nil))
	assert.NotEmpty(t, Desc())
}

func TestSquaredDistanceGoTail(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{0, 0, 0, 0, 0}
	assert.Equal(t, 55.0, squaredDistanceGo(a, b))
}

func BenchmarkDot_Gonum(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = floats.Dot(va, vb)
	}
}

func BenchmarkDot_Auto(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Dot(va, vb)
	}
}

func BenchmarkSquaredDistance_Go(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = squaredDistanceGo(va, vb)
	}
}

func BenchmarkSquaredDistance_Auto(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SquaredDistance(va, vb)
	}
}
