// Package metrics 提供运行时指标采集
package metrics

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Snapshot 运行时指标快照
type Snapshot struct {
	TS           time.Time
	HeapAlloc    uint64
	HeapInuse    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// Take 采集当前运行时指标
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		TS:           time.Now(),
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// MB 字节数换算为 MB
func MB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}

// GC 触发 GC 并释放回 OS
func GC() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Span 一个压测阶段（构建、批量查询等）的起止快照
type Span struct {
	Stage  string
	before Snapshot
}

// SpanStats 阶段内的耗时、分配量与 GC 次数
type SpanStats struct {
	Stage     string
	Elapsed   time.Duration
	AllocMB   float64 // 累计分配，不受 GC 回收影响
	AllocMBps float64
	NumGC     uint32
	HeapMB    float64 // 阶段结束时的存活堆
}

// Begin 先 GC 再记录起点，避免上一阶段的垃圾计入本阶段
func Begin(stage string) *Span {
	GC()
	return &Span{Stage: stage, before: Take()}
}

// End 记录终点并计算阶段统计
func (s *Span) End() SpanStats {
	return Between(s.Stage, s.before, Take())
}

// Between 计算两次快照间的统计；快照顺序颠倒时各项为 0
func Between(stage string, before, after Snapshot) SpanStats {
	st := SpanStats{Stage: stage, HeapMB: MB(after.HeapAlloc)}
	elapsed := after.TS.Sub(before.TS)
	if elapsed <= 0 {
		return st
	}
	st.Elapsed = elapsed
	if after.TotalAlloc > before.TotalAlloc {
		st.AllocMB = MB(after.TotalAlloc - before.TotalAlloc)
		st.AllocMBps = st.AllocMB / elapsed.Seconds()
	}
	if after.NumGC >= before.NumGC {
		st.NumGC = after.NumGC - before.NumGC
	}
	return st
}
