package dual

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Ridge identifies the facet of Simplex opposite its local vertex Facet.
type Ridge struct {
	Simplex int
	Facet   int
}

// Vertices returns the ndim global vertex ids of the ridge.
func (r Ridge) Vertices(t Triangulation) []int {
	vs := t.Vertices(r.Simplex)
	out := make([]int, 0, len(vs)-1)
	out = append(out, vs[:r.Facet]...)
	return append(out, vs[r.Facet+1:]...)
}

// Region is the set of simplices whose circumsphere contains an inserted point,
// plus the ridges bounding it.
type Region struct {
	// Simplices in breadth-first discovery order; the first one contains the point.
	Simplices []int
	// Boundary ridges, each on a visible simplex, facing either the hull
	// exterior or a simplex outside the region.
	Boundary []Ridge
}

// Contains reports whether simplex s is in the region.
func (r *Region) Contains(s int) bool {
	return slices.Contains(r.Simplices, s)
}

type visibility uint8

const (
	unclassified visibility = iota
	visible
	hidden
)

// FindAffectedRegion finds the simplices that inserting p would destroy and the
// ridges the new point would be connected through, by flood fill from the
// simplex containing p. Uses default config if cfg is nil.
func FindAffectedRegion(t Triangulation, p []float64, cfg *Config) (*Region, error) {
	return FindAffectedRegionContext(context.Background(), t, p, cfg)
}

// FindAffectedRegionContext is FindAffectedRegion with a cancellation check per
// dequeued simplex.
func FindAffectedRegionContext(ctx context.Context, t Triangulation, p []float64, cfg *Config) (*Region, error) {
	cfg = cfg.OrDefault()
	start, err := locate(t, p, cfg)
	if err != nil {
		return nil, err
	}

	// 每个单纯形至多分类一次；队列只包含可见单纯形
	state := make([]visibility, t.NSimplex())
	state[start] = visible
	queue := []int{start}
	var boundary []Ridge
	for head := 0; head < len(queue); head++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := queue[head]
		for k, ref := range t.Neighbors(s) {
			n, internal := ref.Simplex()
			if !internal {
				boundary = append(boundary, Ridge{Simplex: s, Facet: k})
				continue
			}
			switch state[n] {
			case visible:
			case hidden:
				boundary = append(boundary, Ridge{Simplex: s, Facet: k})
			default:
				if t.PlaneDistance(n, p) >= -cfg.SideTolerance {
					state[n] = visible
					queue = append(queue, n)
				} else {
					state[n] = hidden
					boundary = append(boundary, Ridge{Simplex: s, Facet: k})
				}
			}
		}
	}
	return &Region{Simplices: queue, Boundary: boundary}, nil
}

// CavityScan returns, ascending, every simplex whose circumsphere contains p,
// by testing all simplices at once. It is the global counterpart of
// FindAffectedRegion and agrees with it on Delaunay input.
func CavityScan(t Triangulation, p []float64, cfg *Config) ([]int, error) {
	cfg = cfg.OrDefault()
	if _, err := locate(t, p, cfg); err != nil {
		return nil, err
	}
	var out []int
	for s, d := range t.Sidedness(p) {
		if d >= -cfg.SideTolerance {
			out = append(out, s)
		}
	}
	return out, nil
}

// locate checks the query point and returns the simplex containing it.
func locate(t Triangulation, p []float64, cfg *Config) (int, error) {
	if len(p) != t.NDim() {
		return -1, errors.Wrapf(ErrDimensionMismatch, "got %d coordinates, want %d", len(p), t.NDim())
	}
	start, ok := t.Locate(p)
	if !ok {
		return -1, errors.Wrapf(ErrOutsideHull, "point %v", p)
	}
	for _, v := range t.Vertices(start) {
		if floats.Distance(t.Point(v), p, 2) <= cfg.CoincidenceTolerance {
			return -1, errors.Wrapf(ErrDegeneratePoint, "point %v duplicates vertex %d", p, v)
		}
	}
	return start, nil
}
