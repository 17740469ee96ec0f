//go:build amd64 && cgo

package simd

/*
#cgo CFLAGS: -mavx2 -O3
#include <immintrin.h>
#include <stddef.h>

static double horizontal_sum_m256d(__m256d v) {
	__m128d lo = _mm256_castpd256_pd128(v);
	__m128d hi = _mm256_extractf128_pd(v, 1);
	lo = _mm_add_pd(lo, hi);
	__m128d shuf = _mm_unpackhi_pd(lo, lo);
	return _mm_cvtsd_f64(_mm_add_sd(lo, shuf));
}

__attribute__((target("avx2,fma")))
static double DotProductAVX2(const double* a, const double* b, size_t n) {
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

__attribute__((target("avx2,fma")))
static void DotProductBatchAVX2(double* dst, const double* query, size_t dim,
		const double* data, size_t stride, size_t n) {
	for (size_t r = 0; r < n; r++) {
		dst[r] = DotProductAVX2(query, data + r * stride, dim);
	}
}
*/
import "C"

import "unsafe"

func dotProductAVX2(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.DotProductAVX2(
		(*C.double)(unsafe.Pointer(&a[0])),
		(*C.double)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}

func dotProductBatchAVX2(dst, query, data []float64, stride, n int) {
	if n == 0 || len(query) == 0 {
		return
	}
	C.DotProductBatchAVX2(
		(*C.double)(unsafe.Pointer(&dst[0])),
		(*C.double)(unsafe.Pointer(&query[0])),
		C.size_t(len(query)),
		(*C.double)(unsafe.Pointer(&data[0])),
		C.size_t(stride),
		C.size_t(n),
	)
}
