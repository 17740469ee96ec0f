package dual

import "github.com/ic-timon/da-voronoi/mesh"

// Triangulation is the read-only view of a Delaunay triangulation the queries
// consume. *mesh.Triangulation implements it.
type Triangulation interface {
	NDim() int
	NPoints() int
	NSimplex() int
	// Locate returns a simplex containing p, or false when p is outside the hull.
	Locate(p []float64) (int, bool)
	// Neighbors returns ndim+1 references; entry k is opposite vertex k.
	Neighbors(s int) []mesh.NeighborRef
	// PlaneDistance is the signed lifted-paraboloid distance of p to simplex s,
	// positive inside its circumsphere.
	PlaneDistance(s int, p []float64) float64
	// Sidedness is PlaneDistance for every simplex.
	Sidedness(p []float64) []float64
	Vertices(s int) []int
	Point(i int) []float64
	IncidentSimplices(v int) []int
}

var _ Triangulation = (*mesh.Triangulation)(nil)
