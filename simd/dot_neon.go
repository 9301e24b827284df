//go:build arm64 && cgo

package simd

/*
#cgo CFLAGS: -O3
#include <arm_neon.h>
#include <stddef.h>

static double DotNEON(const double* a, const double* b, size_t n) {
	float64x2_t sum = vdupq_n_f64(0.0);
	size_t i = 0;
	for (; i + 2 <= n; i += 2) {
		float64x2_t va = vld1q_f64(a + i);
		float64x2_t vb = vld1q_f64(b + i);
		sum = vfmaq_f64(sum, va, vb);
	}
	double s = vaddvq_f64(sum);
	for (; i < n; i++) s += a[i] * b[i];
	return s;
}

static double SquaredDistanceNEON(const double* a, const double* b, size_t n) {
	float64x2_t sum = vdupq_n_f64(0.0);
	size_t i = 0;
	for (; i + 2 <= n; i += 2) {
		float64x2_t d = vsubq_f64(vld1q_f64(a + i), vld1q_f64(b + i));
		sum = vfmaq_f64(sum, d, d);
	}
	double s = vaddvq_f64(sum);
	for (; i < n; i++) {
		double d = a[i] - b[i];
		s += d * d;
	}
	return s;
}
*/
import "C"

import "unsafe"

func dotNEON(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.DotNEON(
		(*C.double)(unsafe.Pointer(&a[0])),
		(*C.double)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}

func squaredDistanceNEON(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.SquaredDistanceNEON(
		(*C.double)(unsafe.Pointer(&a[0])),
		(*C.double)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}
