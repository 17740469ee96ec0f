package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/da-voronoi/bench/gen"
	"github.com/ic-timon/da-voronoi/bench/metrics"
	"github.com/ic-timon/da-voronoi/dual"
	"github.com/ic-timon/da-voronoi/lift"
	"github.com/ic-timon/da-voronoi/mesh"
)

func runStageA(opts stageOpts) {
	const queryRuns = 200
	scales := []int{1_000, 5_000, 20_000, 50_000}

	meshCfg := mesh.DefaultConfig()
	meshCfg.Logger = opts.logger
	cfg := dual.DefaultConfig()
	cfg.Logger = opts.logger

	var rows []metrics.StageARow
	for _, n := range scales {
		fmt.Printf("阶段 A: 点数 %d\n", n)

		build := metrics.Begin(fmt.Sprintf("build-%d", n))
		pts := gen.RandomPoints(n, int64(n))
		t0 := time.Now()
		tri, err := lift.Delaunay(pts, lift.WithMeshConfig(meshCfg))
		if err != nil {
			panic(err)
		}
		buildDur := time.Since(t0)
		buildStats := build.End()

		queries := gen.QueryPoints(queryRuns, 42, 0.1)
		regionDur := make([]time.Duration, 0, queryRuns)
		scanDur := make([]time.Duration, 0, queryRuns)
		var regionSize int
		for _, q := range queries {
			t1 := time.Now()
			r, err := dual.FindAffectedRegion(tri, q, cfg)
			if err != nil {
				continue
			}
			regionDur = append(regionDur, time.Since(t1))
			regionSize += len(r.Simplices)

			// 全量 sidedness 扫描作为对照
			t2 := time.Now()
			if _, err := dual.CavityScan(tri, q, cfg); err != nil {
				panic(err)
			}
			scanDur = append(scanDur, time.Since(t2))
		}
		region := metrics.LatencyStatsFromDurations(regionDur)
		scan := metrics.LatencyStatsFromDurations(scanDur)

		metrics.GC()
		after := metrics.Take()

		row := metrics.StageARow{
			Points:       n,
			Simplices:    tri.NSimplex(),
			BuildDurMs:   float64(buildDur.Nanoseconds()) / 1e6,
			BuildAllocMB: buildStats.AllocMB,
			RegionP50Ms:  region.P50Ms,
			RegionP99Ms:  region.P99Ms,
			ScanP50Ms:    scan.P50Ms,
			HeapAllocMB:  metrics.MB(after.HeapAlloc),
		}
		if region.N > 0 {
			row.AvgRegionSize = float64(regionSize) / float64(region.N)
		}
		rows = append(rows, row)
		fmt.Printf("  Build=%.0fms RegionP50=%.3fms P99=%.3fms ScanP50=%.3fms AvgRegion=%.1f Heap=%.1fMB\n",
			row.BuildDurMs, row.RegionP50Ms, row.RegionP99Ms, row.ScanP50Ms, row.AvgRegionSize, row.HeapAllocMB)
	}

	path := metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteStageACSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
