//go:build arm64 && cgo

package simd

import "golang.org/x/sys/cpu"

func init() {
	if cpu.ARM64.HasASIMD {
		dotProductImpl = dotProductNEON
		dotProductBatchImpl = dotProductBatchNEON
		dotProductImplDesc = "NEON"
	} else {
		dotProductImpl = dotProductGo
		dotProductBatchImpl = dotProductBatchGo
		dotProductImplDesc = "Go"
	}
}
