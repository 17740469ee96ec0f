package dual

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/da-voronoi/lift"
	"github.com/ic-timon/da-voronoi/mesh"
)

// twoTriangles is the 4-point configuration whose circumcenters are (0,0.5) and (0.5,1).
func twoTriangles(t *testing.T) *mesh.Triangulation {
	t.Helper()
	pts := [][]float64{{0, 0}, {0.5, 0.5}, {1, 1}, {0, 1}}
	tri, err := mesh.New(pts, [][]int{{0, 1, 3}, {1, 2, 3}}, nil)
	require.NoError(t, err)
	return tri
}

// octahedron is the origin plus ±e_i, one tetrahedron per octant.
func octahedron(t *testing.T) *mesh.Triangulation {
	t.Helper()
	pts := [][]float64{
		{0, 0, 0},
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	var simplices [][]int
	for _, x := range []int{1, 2} {
		for _, y := range []int{3, 4} {
			for _, z := range []int{5, 6} {
				simplices = append(simplices, []int{0, x, y, z})
			}
		}
	}
	tri, err := mesh.New(pts, simplices, nil)
	require.NoError(t, err)
	return tri
}

// grid is an n×n lattice on the unit square, each cell split along the same
// diagonal. Vertex i*n+j sits at (j*h, i*h) with h = 1/(n-1).
func grid(t *testing.T, n int) *mesh.Triangulation {
	t.Helper()
	h := 1 / float64(n-1)
	pts := make([][]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pts = append(pts, []float64{float64(j) * h, float64(i) * h})
		}
	}
	var simplices [][]int
	for i := 0; i+1 < n; i++ {
		for j := 0; j+1 < n; j++ {
			a := i*n + j
			b, c, d := a+1, a+n, a+n+1
			simplices = append(simplices, []int{a, b, d}, []int{a, d, c})
		}
	}
	tri, err := mesh.New(pts, simplices, nil)
	require.NoError(t, err)
	return tri
}

func randomPoints(n int, seed int64) []r2.Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]r2.Point, n)
	for i := range out {
		out[i] = r2.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return out
}

func randomMesh(t *testing.T, n int, seed int64) *mesh.Triangulation {
	t.Helper()
	tri, err := lift.Delaunay(randomPoints(n, seed))
	require.NoError(t, err)
	return tri
}

// vertexSet returns the sorted vertex ids of simplex s.
func vertexSet(t Triangulation, s int) []int {
	vs := t.Vertices(s)
	slices.Sort(vs)
	return vs
}

// fakeTri overrides selected queries of a real triangulation.
type fakeTri struct {
	*mesh.Triangulation
	plane func(s int, p []float64) float64
	point func(i int) []float64
}

func (f *fakeTri) PlaneDistance(s int, p []float64) float64 {
	if f.plane != nil {
		return f.plane(s, p)
	}
	return f.Triangulation.PlaneDistance(s, p)
}

func (f *fakeTri) Point(i int) []float64 {
	if f.point != nil {
		return f.point(i)
	}
	return f.Triangulation.Point(i)
}
