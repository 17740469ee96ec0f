package main

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/ic-timon/da-voronoi/bench/gen"
	"github.com/ic-timon/da-voronoi/bench/metrics"
	"github.com/ic-timon/da-voronoi/dual"
	"github.com/ic-timon/da-voronoi/lift"
	"github.com/ic-timon/da-voronoi/mesh"
)

func runStageB(opts stageOpts) {
	tri, err := lift.Delaunay(gen.RandomPoints(opts.points, 7))
	if err != nil {
		panic(err)
	}
	vertices := make([]int, tri.NPoints())
	for v := range vertices {
		vertices[v] = v
	}

	workerList := []int{1, 2, 4, 8, runtime.NumCPU()}
	if opts.workers > 0 {
		workerList = []int{opts.workers}
	}

	var rows []metrics.StageBRow
	for _, w := range workerList {
		fmt.Printf("阶段 B: 点数 %d workers=%d\n", opts.points, w)

		cfg := dual.DefaultConfig()
		cfg.Workers = w
		cfg.Logger = opts.logger
		eng := dual.NewEngine(mesh.NewShared(tri), cfg)

		span := metrics.Begin(fmt.Sprintf("batch-w%d", w))
		t0 := time.Now()
		if _, err := eng.Circumcenters(); err != nil {
			panic(err)
		}
		centersDur := time.Since(t0)

		t1 := time.Now()
		_, errs := eng.CellVolumes(vertices)
		volumesDur := time.Since(t1)
		st := span.End()
		eng.Close()

		bounded := 0
		for _, err := range errs {
			switch {
			case err == nil:
				bounded++
			case errors.Is(err, dual.ErrUnboundedCell):
			default:
				panic(err)
			}
		}

		row := metrics.StageBRow{
			Workers:      w,
			Simplices:    tri.NSimplex(),
			CentersDurMs: float64(centersDur.Nanoseconds()) / 1e6,
			VolumesDurMs: float64(volumesDur.Nanoseconds()) / 1e6,
			BoundedCells: bounded,
			AllocMBps:    st.AllocMBps,
			NumGC:        st.NumGC,
		}
		rows = append(rows, row)
		fmt.Printf("  Circumcenters=%.1fms CellVolumes=%.1fms Bounded=%d/%d Alloc=%.1fMB/s GC=%d\n",
			row.CentersDurMs, row.VolumesDurMs, bounded, len(vertices), row.AllocMBps, st.NumGC)
	}

	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteStageBCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
