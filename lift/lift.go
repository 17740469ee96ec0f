// Package lift builds reference 2D Delaunay triangulations as the lower convex
// hull of the points lifted onto the paraboloid z = x² + y². It is the rebuild
// oracle for region queries and the data source for benchmarks.
package lift

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"github.com/pkg/errors"

	"github.com/ic-timon/da-voronoi/mesh"
)

const (
	defaultEps = 1e-12
	// faces whose outward normal is closer to horizontal than this are vertical
	verticalTolerance = 1e-10
)

var (
	ErrTooFewPoints = errors.New("lift: need at least 3 points")
	ErrDegenerate   = errors.New("lift: points are collinear or cocircular")
)

type Options struct {
	Eps  float64
	Mesh *mesh.Config
}

type Option func(*Options)

// WithEps sets the quickhull merge tolerance.
func WithEps(eps float64) Option {
	if eps <= 0 {
		panic("WithEps: eps must be positive")
	}
	return func(o *Options) {
		o.Eps = eps
	}
}

// WithMeshConfig sets the config of the returned triangulation.
func WithMeshConfig(cfg *mesh.Config) Option {
	return func(o *Options) {
		o.Mesh = cfg
	}
}

// Delaunay triangulates points. Point i of the result is points[i]; exact
// duplicates end up referenced by no simplex.
func Delaunay(points []r2.Point, setters ...Option) (*mesh.Triangulation, error) {
	opts := Options{Eps: defaultEps}
	for _, set := range setters {
		set(&opts)
	}
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	// 平移到质心，改善抬升后的数值条件
	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(points))
	cy /= float64(len(points))

	lifted := make([]r3.Vector, len(points))
	var center r3.Vector
	for i, p := range points {
		x, y := p.X-cx, p.Y-cy
		lifted[i] = r3.Vector{X: x, Y: y, Z: x*x + y*y}
		center = center.Add(lifted[i])
	}
	center = center.Mul(1 / float64(len(points)))

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(lifted, true, true, opts.Eps)

	var simplices [][]int
	for i := 0; i+2 < len(ch.Indices); i += 3 {
		a, b, c := ch.Indices[i], ch.Indices[i+1], ch.Indices[i+2]
		pa := lifted[a]
		normal := lifted[b].Sub(pa).Cross(lifted[c].Sub(pa))
		norm := normal.Norm()
		if norm == 0 {
			continue
		}
		// orient outward regardless of the winding quickhull chose
		if normal.Dot(center.Sub(pa)) > 0 {
			normal = normal.Mul(-1)
		}
		if normal.Z < -verticalTolerance*norm {
			simplices = append(simplices, []int{a, b, c})
		}
	}
	if len(simplices) == 0 {
		return nil, ErrDegenerate
	}

	pts := make([][]float64, len(points))
	for i, p := range points {
		pts[i] = []float64{p.X, p.Y}
	}
	return mesh.New(pts, simplices, opts.Mesh)
}

// Points converts flat 2D coordinates to r2 points.
func Points(coords [][]float64) []r2.Point {
	out := make([]r2.Point, len(coords))
	for i, c := range coords {
		out[i] = r2.Point{X: c[0], Y: c[1]}
	}
	return out
}
