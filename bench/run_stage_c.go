package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ic-timon/da-voronoi/bench/gen"
	"github.com/ic-timon/da-voronoi/bench/metrics"
	"github.com/ic-timon/da-voronoi/dual"
	"github.com/ic-timon/da-voronoi/lift"
	"github.com/ic-timon/da-voronoi/mesh"
)

func runStageC(opts stageOpts) {
	const totalRequests = 2000
	const swapEvery = 5 * time.Millisecond

	concurrencies := []int{1, 4, 8, 16, 32}

	fmt.Printf("阶段 C: 构建两份 %d 点三角剖分...\n", opts.points)
	t0 := time.Now()
	triA, err := lift.Delaunay(gen.RandomPoints(opts.points, 1))
	if err != nil {
		panic(err)
	}
	triB, err := lift.Delaunay(gen.RandomPoints(opts.points, 2))
	if err != nil {
		panic(err)
	}
	fmt.Printf("  构建耗时 %.0fms\n", float64(time.Since(t0).Nanoseconds())/1e6)

	cfg := dual.DefaultConfig()
	cfg.Workers = opts.workers
	cfg.Logger = opts.logger
	eng := dual.NewEngine(mesh.NewShared(triA), cfg)
	defer eng.Close()

	queries := gen.QueryPoints(totalRequests, 12345, 0.1)

	var rows []metrics.StageCRow
	for _, concurrency := range concurrencies {
		fmt.Printf("阶段 C: 并发数 %d（后台每 %v 替换一次剖分）\n", concurrency, swapEvery)

		// 写者：周期性替换，读者在读锁下查询
		stop := make(chan struct{})
		var swaps atomic.Int64
		var swapWG sync.WaitGroup
		swapWG.Add(1)
		go func() {
			defer swapWG.Done()
			ticker := time.NewTicker(swapEvery)
			defer ticker.Stop()
			next := triB
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					if eng.Swap(next) == triA {
						next = triA
					} else {
						next = triB
					}
					swaps.Add(1)
				}
			}
		}()

		start := time.Now()
		durations := runRegionQueries(func(p []float64) {
			_, _ = eng.Region(context.Background(), p)
		}, queries, concurrency)
		elapsed := time.Since(start).Seconds()
		close(stop)
		swapWG.Wait()

		stats := metrics.LatencyStatsFromDurations(durations)
		qps := float64(len(durations)) / elapsed
		ratio := 1.0
		if stats.P50Ms > 0 {
			ratio = stats.P99Ms / stats.P50Ms
		}

		snap := metrics.Take()
		rows = append(rows, metrics.StageCRow{
			Concurrency:  concurrency,
			Points:       opts.points,
			QPS:          qps,
			RegionP50Ms:  stats.P50Ms,
			RegionP99Ms:  stats.P99Ms,
			Swaps:        int(swaps.Load()),
			NumGoroutine: snap.NumGoroutine,
			P99P50Ratio:  ratio,
		})
		fmt.Printf("  QPS=%.0f P50=%.3fms P99=%.3fms P99/P50=%.2f Swaps=%d Goroutines=%d\n",
			qps, stats.P50Ms, stats.P99Ms, ratio, swaps.Load(), snap.NumGoroutine)
	}

	path := metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteStageCCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
