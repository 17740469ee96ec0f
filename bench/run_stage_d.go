// 阶段 D: 对比纯内存 vs mmap 快照加载的区域查询性能
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ic-timon/da-voronoi/bench/gen"
	"github.com/ic-timon/da-voronoi/bench/metrics"
	"github.com/ic-timon/da-voronoi/dual"
	"github.com/ic-timon/da-voronoi/lift"
	"github.com/ic-timon/da-voronoi/mesh"
)

func runStageD(opts stageOpts) {
	const totalRequests = 2000
	const concurrency = 16
	const runs = 5 // 多轮取平均

	meshCfg := mesh.DefaultConfig()
	meshCfg.Logger = opts.logger
	cfg := dual.DefaultConfig()
	cfg.Logger = opts.logger

	triMem, err := lift.Delaunay(gen.RandomPoints(opts.points, 12345), lift.WithMeshConfig(meshCfg))
	if err != nil {
		panic(err)
	}
	queries := gen.QueryPoints(totalRequests, 54321, 0.1)

	// 1. 纯内存
	fmt.Println("阶段 D: 纯内存模式")
	qpsMem, p50Mem, p99Mem := averageRuns(triMem, queries, cfg, concurrency, runs)
	fmt.Printf("  纯内存 QPS=%.0f P50=%.3fms P99=%.3fms (avg of %d runs)\n", qpsMem, p50Mem, p99Mem, runs)

	// 2. mmap：SaveToAtomic -> NewFromFile -> 多轮压测取平均
	fmt.Println("阶段 D: mmap 快照模式")
	tmpPath := filepath.Join(os.TempDir(), "da-voronoi-stage-d.dtri")
	if err := triMem.SaveToAtomic(tmpPath); err != nil {
		panic(err)
	}
	defer os.Remove(tmpPath)

	t0 := time.Now()
	triMmap, err := mesh.NewFromFile(tmpPath, meshCfg)
	if err != nil {
		panic(err)
	}
	defer triMmap.ClosePersisted()
	loadDur := time.Since(t0)
	fmt.Printf("  加载耗时 %.1fms\n", float64(loadDur.Nanoseconds())/1e6)

	qpsMmap, p50Mmap, p99Mmap := averageRuns(triMmap, queries, cfg, concurrency, runs)
	fmt.Printf("  mmap QPS=%.0f P50=%.3fms P99=%.3fms (avg of %d runs)\n", qpsMmap, p50Mmap, p99Mmap, runs)
	report := metrics.StageDReport{
		Points:    triMem.NPoints(),
		Simplices: triMem.NSimplex(),
		LoadDurMs: float64(loadDur.Nanoseconds()) / 1e6,
		HeapQPS:   qpsMem,
		HeapP50Ms: p50Mem,
		HeapP99Ms: p99Mem,
		MmapQPS:   qpsMmap,
		MmapP50Ms: p50Mmap,
		MmapP99Ms: p99Mmap,
	}
	if fi, err := os.Stat(tmpPath); err == nil {
		report.SnapshotMB = float64(fi.Size()) / 1024 / 1024
	}
	if qpsMem > 0 {
		report.MmapHeapRate = qpsMmap / qpsMem
		fmt.Printf("  对比: mmap/内存 QPS 比=%.2f\n", report.MmapHeapRate)
	}

	path := metrics.JSONReportPath("bench_report_stage_d_")
	if err := metrics.WriteJSON(report, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}

func averageRuns(tri *mesh.Triangulation, queries [][]float64, cfg *dual.Config, concurrency, runs int) (qps, p50, p99 float64) {
	for r := 0; r < runs; r++ {
		t0 := time.Now()
		durations := runRegionQueries(func(p []float64) {
			_, _ = dual.FindAffectedRegion(tri, p, cfg)
		}, queries, concurrency)
		elapsed := time.Since(t0).Seconds()
		stats := metrics.LatencyStatsFromDurations(durations)
		qps += float64(len(durations)) / elapsed
		p50 += stats.P50Ms
		p99 += stats.P99Ms
	}
	n := float64(runs)
	return qps / n, p50 / n, p99 / n
}

// runRegionQueries 将 queries 均分给 concurrency 个 goroutine 执行，返回每次耗时
func runRegionQueries(query func(p []float64), queries [][]float64, concurrency int) []time.Duration {
	totalRequests := len(queries)
	reqPerWorker := totalRequests / concurrency
	if reqPerWorker < 1 {
		reqPerWorker = 1
	}
	durations := make([]time.Duration, totalRequests)
	var wg sync.WaitGroup
	for c := 0; c < concurrency; c++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			base := worker * reqPerWorker
			for i := 0; i < reqPerWorker && base+i < totalRequests; i++ {
				t1 := time.Now()
				query(queries[base+i])
				durations[base+i] = time.Since(t1)
			}
		}(c)
	}
	wg.Wait()
	// 不能整除时尾部请求未执行
	return durations[:min(totalRequests, reqPerWorker*concurrency)]
}
