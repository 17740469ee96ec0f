//go:build amd64 && cgo

package simd

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		dotProductImpl = dotProductAVX2
		dotProductBatchImpl = dotProductBatchAVX2
		dotProductImplDesc = "AVX2"
	} else {
		dotProductImpl = dotProductGo
		dotProductBatchImpl = dotProductBatchGo
		dotProductImplDesc = "Go"
	}
}
