package dual

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ic-timon/da-voronoi/mesh"
	"github.com/ic-timon/da-voronoi/simd"
)

// Engine runs queries against a shared triangulation that may be swapped while
// queries are in flight. Each query, or each batch, sees one triangulation
// throughout. Batch methods fan out over a resident worker pool.
//
// Close must not race with other methods.
type Engine struct {
	cfg    *Config
	shared *mesh.Shared
	pool   *workerPool
	log    *zap.Logger

	closeOnce sync.Once
}

// NewEngine starts an engine over shared. Uses default config if cfg is nil.
func NewEngine(shared *mesh.Shared, cfg *Config) *Engine {
	cfg = cfg.OrDefault()
	e := &Engine{
		cfg:    cfg,
		shared: shared,
		pool:   newWorkerPool(cfg.Workers, cfg.QueueSize),
		log:    cfg.Logger,
	}
	e.log.Info("dual engine started",
		zap.Int("workers", cfg.Workers),
		zap.Float64("side_tolerance", cfg.SideTolerance),
		zap.String("simd", simd.DotProductDesc()))
	return e
}

// Config returns the engine's config.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Swap installs t for subsequent queries and returns the previous triangulation.
func (e *Engine) Swap(t *mesh.Triangulation) *mesh.Triangulation {
	old := e.shared.Swap(t)
	if t != nil {
		e.log.Info("triangulation swapped",
			zap.Int("ndim", t.NDim()),
			zap.Int("points", t.NPoints()),
			zap.Int("simplices", t.NSimplex()))
	}
	return old
}

// Region runs FindAffectedRegionContext on the current triangulation.
func (e *Engine) Region(ctx context.Context, p []float64) (*Region, error) {
	var r *Region
	err := e.shared.View(func(t *mesh.Triangulation) error {
		var err error
		r, err = FindAffectedRegionContext(ctx, t, p, e.cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("affected region",
		zap.Int("simplices", len(r.Simplices)),
		zap.Int("ridges", len(r.Boundary)))
	return r, nil
}

// Regions finds the affected region of every point against one triangulation.
// errs[i] is non-nil when points[i] failed; the other results are still valid.
func (e *Engine) Regions(ctx context.Context, points [][]float64) ([]*Region, []error) {
	out := make([]*Region, len(points))
	errs := make([]error, len(points))
	err := e.shared.View(func(t *mesh.Triangulation) error {
		e.pool.Run(len(points), func(_, i int) {
			out[i], errs[i] = FindAffectedRegionContext(ctx, t, points[i], e.cfg)
		})
		return nil
	})
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return out, errs
	}
	e.logFailures("regions", errs)
	return out, errs
}

// Circumcenter returns the circumcenter of simplex s in the current triangulation.
func (e *Engine) Circumcenter(s int) ([]float64, error) {
	var c []float64
	err := e.shared.View(func(t *mesh.Triangulation) error {
		var err error
		c, err = Circumcenter(t, s)
		return err
	})
	return c, err
}

// Circumcenters returns every circumcenter of the current triangulation,
// computed in parallel. On failure the lowest failing simplex's error is
// returned and the slots of the failing simplices are nil.
func (e *Engine) Circumcenters() ([][]float64, error) {
	var (
		out  [][]float64
		errs []error
	)
	err := e.shared.View(func(t *mesh.Triangulation) error {
		n := t.NSimplex()
		out = make([][]float64, n)
		errs = make([]error, n)
		solvers := make([]*centerSolver, e.pool.Size())
		e.pool.Run(n, func(w, s int) {
			if solvers[w] == nil {
				solvers[w] = newCenterSolver(t.NDim())
			}
			out[s], errs[s] = solvers[w].solve(t, s)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, e.logFailures("circumcenters", errs)
}

// CellVolume returns the Voronoi cell volume of vertex v in the current triangulation.
func (e *Engine) CellVolume(v int) (float64, error) {
	var vol float64
	err := e.shared.View(func(t *mesh.Triangulation) error {
		var err error
		vol, err = CellVolume(t, v)
		return err
	})
	return vol, err
}

// CellVolumes returns the cell volume of each vertex against one triangulation.
// errs[i] is non-nil when vertices[i] failed, typically ErrUnboundedCell.
// Failures are logged like the other batch forms.
func (e *Engine) CellVolumes(vertices []int) ([]float64, []error) {
	out := make([]float64, len(vertices))
	errs := make([]error, len(vertices))
	err := e.shared.View(func(t *mesh.Triangulation) error {
		e.pool.Run(len(vertices), func(_, i int) {
			out[i], errs[i] = CellVolume(t, vertices[i])
		})
		return nil
	})
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return out, errs
	}
	e.logFailures("cell_volumes", errs)
	return out, errs
}

// logFailures logs failed batch items and returns the first error.
func (e *Engine) logFailures(op string, errs []error) error {
	var first error
	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		failed++
		e.log.Debug("batch item failed", zap.String("op", op), zap.Int("index", i), zap.Error(err))
	}
	if failed > 0 {
		e.log.Warn("batch had failures", zap.String("op", op), zap.Int("failed", failed), zap.Int("total", len(errs)))
	}
	return first
}

// Close stops the worker pool. The shared triangulation is left untouched.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.pool.Close()
		e.log.Info("dual engine closed")
	})
}
