package dual

import "github.com/pkg/errors"

// Error kinds returned by the queries in this package. Returned errors wrap one
// of these with context; test with errors.Is.
var (
	ErrOutsideHull       = errors.New("dual: point outside convex hull")
	ErrDegeneratePoint   = errors.New("dual: point coincides with an existing vertex")
	ErrSingularSimplex   = errors.New("dual: singular simplex")
	ErrUnboundedCell     = errors.New("dual: unbounded voronoi cell")
	ErrUnknownVertex     = errors.New("dual: unknown vertex")
	ErrUnknownSimplex    = errors.New("dual: unknown simplex")
	ErrDimensionMismatch = errors.New("dual: point dimension mismatch")
)
