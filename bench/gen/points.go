// Package gen 提供压测用随机点集生成
package gen

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// RandomPoints 生成 n 个单位正方形内的均匀随机点，用于构建参考三角剖分
func RandomPoints(n int, seed int64) []r2.Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]r2.Point, n)
	for i := range out {
		out[i] = r2.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return out
}

// QueryPoints 生成 n 个查询点，落在 [margin, 1-margin]² 内以避开凸包边界
func QueryPoints(n int, seed int64, margin float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	span := 1 - 2*margin
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{margin + span*rng.Float64(), margin + span*rng.Float64()}
	}
	return out
}
