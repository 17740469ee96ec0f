package simd

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	benchDim    = 4    // lifted homogeneous 2D point: x, y, |p|^2, 1
	benchStride = 4    // one plane row per simplex
	benchRows   = 4096 // ~2000 point triangulation
)

func randomPair(n int, seed int64) (a, b []float64) {
	rng := rand.New(rand.NewSource(seed))
	a = make([]float64, n)
	b = make([]float64, n)
	for i := range a {
		a[i] = rng.Float64()*2 - 1
		b[i] = rng.Float64()*2 - 1
	}
	return a, b
}

func naiveDot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func initBenchVectors() (va, vb []float64) {
	return randomPair(benchDim, 42)
}

func initBenchPlanes() (query, data []float64) {
	rng := rand.New(rand.NewSource(7))
	query = make([]float64, benchDim)
	for i := range query {
		query[i] = rng.Float64()
	}
	data = make([]float64, benchRows*benchStride)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return query, data
}

func TestDotProduct(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 13} {
		a, b := randomPair(n, int64(n))
		assert.InDelta(t, naiveDot(a, b), DotProduct(a, b), 1e-12, "n=%d", n)
	}
}

func TestDotProduct_Mismatch(t *testing.T) {
	assert.Zero(t, DotProduct([]float64{1, 2}, []float64{1}))
	assert.Zero(t, DotProduct(nil, nil))
}

func TestDotProductDesc(t *testing.T) {
	assert.NotEmpty(t, DotProductDesc())
}

func TestDotProductBatch(t *testing.T) {
	query := []float64{0.5, -1, 2}
	stride := 4 // one padding value per row
	data := []float64{
		1, 2, 3, 99,
		-1, 0, 1, 99,
		0, 0, 0, 99,
	}
	got := DotProductBatch(query, data[:len(data)-1], stride, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.5-2+6, got[0], 1e-15)
	assert.InDelta(t, -0.5+0+2, got[1], 1e-15)
	assert.InDelta(t, 0, got[2], 1e-15)
}

func TestDotProductBatch_RandomMatchesSingle(t *testing.T) {
	query, data := initBenchPlanes()
	got := DotProductBatch(query, data, benchStride, benchRows)
	require.Len(t, got, benchRows)
	for i := 0; i < benchRows; i += 97 {
		want := naiveDot(query, data[i*benchStride:i*benchStride+benchDim])
		if math.Abs(got[i]-want) > 1e-12 {
			t.Fatalf("row %d: got %g want %g", i, got[i], want)
		}
	}
}

func TestDotProductBatch_BadLayout(t *testing.T) {
	query := []float64{1, 1, 1}
	assert.Nil(t, DotProductBatch(query, make([]float64, 5), 3, 2))
	assert.Nil(t, DotProductBatch(query, make([]float64, 9), 2, 3), "stride shorter than row")
	assert.Nil(t, DotProductBatch(query, make([]float64, 9), 3, 0))
	assert.False(t, DotProductBatchInto(nil, query, make([]float64, 9), 3))
}

func BenchmarkDotProduct_Go(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = dotProductGo(va, vb)
	}
}

func BenchmarkDotProduct_Auto(b *testing.B) {
	va, vb := initBenchVectors()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DotProduct(va, vb)
	}
}

func BenchmarkDotProductBatch_Go(b *testing.B) {
	query, data := initBenchPlanes()
	dst := make([]float64, benchRows)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dotProductBatchGo(dst, query, data, benchStride, benchRows)
	}
}

func BenchmarkDotProductBatch_Auto(b *testing.B) {
	query, data := initBenchPlanes()
	dst := make([]float64, benchRows)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DotProductBatchInto(dst, query, data, benchStride)
	}
}
