// Package simd provides AVX2 and NEON accelerated float64 dot products used to
// evaluate lifted hyperplanes in bulk. Rows are short (ndim+2 values), so the
// batch entry points amortise one native call over many rows. Automatically
// selects the best implementation based on GOARCH and CGO availability.
package simd

var (
	dotProductImpl      func(a, b []float64) float64
	dotProductBatchImpl func(dst, query, data []float64, stride, n int)
	dotProductImplDesc  string
)

func init() {
	// Default; dispatch files override in init() based on GOARCH and CGO.
	if dotProductImpl == nil {
		dotProductImpl = dotProductGo
		dotProductImplDesc = "Go"
	}
	if dotProductBatchImpl == nil {
		dotProductBatchImpl = dotProductBatchGo
	}
}

// DotProduct computes the dot product of two float64 vectors of equal length.
// Returns 0 when the lengths differ or the vectors are empty.
func DotProduct(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return dotProductImpl(a, b)
}

// DotProductDesc returns a description of the current dot product implementation (for logging).
func DotProductDesc() string {
	if dotProductImplDesc != "" {
		return dotProductImplDesc
	}
	return "Go"
}

// dotProductGo is the pure Go implementation (4-way unroll with tail).
func dotProductGo(a, b []float64) float64 {
	n := len(a)
	b = b[:n]
	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i+0] * b[i+0]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return (s0 + s1) + (s2 + s3)
}
