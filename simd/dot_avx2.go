//go:build amd64 && cgo

package simd

/*
#cgo CFLAGS: -mavx2 -mfma -O3
#include <immintrin.h>
#include <stddef.h>

static double horizontal_sum_m256d(__m256d v) {
	__m128d lo = _mm256_castpd256_pd128(v);
	__m128d hi = _mm256_extractf128_pd(v, 1);
	lo = _mm_add_pd(lo, hi);
	__m128d h = _mm_unpackhi_pd(lo, lo);
	return _mm_cvtsd_f64(_mm_add_sd(lo, h));
}

static double DotAVX2(const double* a, const double* b, size_t n) {
	__m256d sum = _mm256_setzero_pd();
	size_t i = 0;
	for (; i + 4 <= n; i += 4) {
		__m256d va = _mm256_loadu_pd(a + i);
		__m256d vb = _mm256_loadu_pd(b + i);
		sum = _mm256_fmadd_pd(va, vb, sum);
	}
	double s = horizontal_sum_m256d(sum);
	for (; i < n; i++) s += a[i] * b[i];
	return s;
}

static double SquaredDistanceAVX2(const double* a, const double* b, size_t n) {
	__m256d sum = _mm256_setzero_pd();
	size_t i = 0;
	for (; i + 4 <= n; i += 4) {
		__m256d d = _mm256_sub_pd(_mm256_loadu_pd(a + i), _mm256_loadu_pd(b + i));
		sum = _mm256_fmadd_pd(d, d, sum);
	}
	double s = horizontal_sum_m256d(sum);
	for (; i < n; i++) {
		double d = a[i] - b[i];
		s += d * d;
	}
	return s;
}
*/
import "C"

import "unsafe"

func dotAVX2(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.DotAVX2(
		(*C.double)(unsafe.Pointer(&a[0])),
		(*C.double)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}

func squaredDistanceAVX2(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.SquaredDistanceAVX2(
		(*C.double)(unsafe.Pointer(&a[0])),
		(*C.double)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}
