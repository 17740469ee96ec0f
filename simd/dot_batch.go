package simd

// DotProductBatch computes query·row for n rows laid out with the given stride:
// data[i*stride : i*stride+len(query)] is the i-th row. Returns []float64 of length n,
// or nil when the layout does not fit.
func DotProductBatch(query, data []float64, stride, n int) []float64 {
	if n <= 0 {
		return nil
	}
	dst := make([]float64, n)
	if !DotProductBatchInto(dst, query, data, stride) {
		return nil
	}
	return dst
}

// DotProductBatchInto is DotProductBatch writing into dst (len(dst) rows).
// Returns false without touching dst when the layout does not fit.
func DotProductBatchInto(dst, query, data []float64, stride int) bool {
	n := len(dst)
	if n == 0 || len(query) == 0 || stride < len(query) {
		return false
	}
	if len(data) < (n-1)*stride+len(query) {
		return false
	}
	dotProductBatchImpl(dst, query, data, stride, n)
	return true
}

func dotProductBatchGo(dst, query, data []float64, stride, n int) {
	dim := len(query)
	for i := 0; i < n; i++ {
		off := i * stride
		dst[i] = dotProductGo(query, data[off:off+dim])
	}
}
