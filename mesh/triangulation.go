package mesh

import (
	"encoding/binary"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/da-voronoi/mesh/store"
)

var (
	ErrTooFewPoints      = errors.New("mesh: need at least ndim+1 points")
	ErrDimension         = errors.New("mesh: inconsistent point dimension")
	ErrBadSimplex        = errors.New("mesh: malformed simplex")
	ErrDegenerateSimplex = errors.New("mesh: degenerate simplex")
	ErrNonManifold       = errors.New("mesh: facet shared by more than two simplices")
	ErrInvalid           = errors.New("mesh: inconsistent triangulation")
)

// Triangulation is an immutable simplicial complex over a point set.
// Simplices and points are addressed by dense integer handles.
type Triangulation struct {
	cfg  *Config
	ndim int

	points    []float64     // npoints*ndim; read-only view when loaded from a snapshot
	simplices []int32       // nsimplex*(ndim+1) vertex ids
	neighbors []NeighborRef // nsimplex*(ndim+1), neighbors[s*(ndim+1)+k] is opposite vertex k

	incidentOffsets []int32 // npoints+1, CSR offsets into incidentIndices
	incidentIndices []int32

	transforms []float64 // nsimplex*ndim*ndim, inverse barycentric transform
	planes     []float64 // nsimplex*(ndim+2), normalised lifted hyperplane
	volumes    []float64 // nsimplex

	persistedStore store.SectionStore // set by NewFromFile, used by ClosePersisted
}

// New builds a triangulation from points and simplices (ndim+1 vertex ids each).
// Adjacency, the vertex→simplex index, and per-simplex geometry are derived here.
// Uses default config if cfg is nil.
func New(points [][]float64, simplices [][]int, cfg *Config) (*Triangulation, error) {
	if len(points) == 0 {
		return nil, ErrTooFewPoints
	}
	ndim := len(points[0])
	if ndim == 0 {
		return nil, ErrDimension
	}
	if len(points) < ndim+1 {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d points in %d dimensions", len(points), ndim)
	}
	flat := make([]float64, 0, len(points)*ndim)
	for i, p := range points {
		if len(p) != ndim {
			return nil, errors.Wrapf(ErrDimension, "point %d has %d coordinates, want %d", i, len(p), ndim)
		}
		flat = append(flat, p...)
	}
	nv := ndim + 1
	simp := make([]int32, 0, len(simplices)*nv)
	for s, vs := range simplices {
		if len(vs) != nv {
			return nil, errors.Wrapf(ErrBadSimplex, "simplex %d has %d vertices, want %d", s, len(vs), nv)
		}
		for _, v := range vs {
			simp = append(simp, int32(v))
		}
	}
	return build(cfg, ndim, flat, simp, nil)
}

// build validates the flat tables and derives everything else. When nbr is nil
// adjacency is computed from shared facets.
func build(cfg *Config, ndim int, points []float64, simplices []int32, nbr []NeighborRef) (*Triangulation, error) {
	cfg = cfg.OrDefault()
	t := &Triangulation{
		cfg:       cfg,
		ndim:      ndim,
		points:    points,
		simplices: simplices,
	}
	if len(simplices) == 0 {
		return nil, errors.Wrap(ErrBadSimplex, "no simplices")
	}
	if err := t.checkSimplices(); err != nil {
		return nil, err
	}
	if nbr == nil {
		if err := t.buildNeighbors(); err != nil {
			return nil, err
		}
	} else {
		t.neighbors = nbr
	}
	t.buildIncidence()
	if err := t.buildGeometry(); err != nil {
		return nil, err
	}
	cfg.Logger.Debug("triangulation built",
		zap.Int("ndim", ndim),
		zap.Int("points", t.NPoints()),
		zap.Int("simplices", t.NSimplex()))
	return t, nil
}

func (t *Triangulation) checkSimplices() error {
	nv := t.ndim + 1
	np := int32(t.NPoints())
	for s := 0; s < t.NSimplex(); s++ {
		vs := t.simplices[s*nv : (s+1)*nv]
		for i, v := range vs {
			if v < 0 || v >= np {
				return errors.Wrapf(ErrBadSimplex, "simplex %d references vertex %d", s, v)
			}
			for _, w := range vs[:i] {
				if w == v {
					return errors.Wrapf(ErrBadSimplex, "simplex %d repeats vertex %d", s, v)
				}
			}
		}
	}
	return nil
}

// buildNeighbors matches facets by their sorted vertex ids.
func (t *Triangulation) buildNeighbors() error {
	nv := t.ndim + 1
	t.neighbors = make([]NeighborRef, len(t.simplices))
	open := make(map[string]int, len(t.simplices))
	facet := make([]int32, t.ndim)
	key := make([]byte, 4*t.ndim)
	for s := 0; s < t.NSimplex(); s++ {
		for k := 0; k < nv; k++ {
			j := 0
			for i := 0; i < nv; i++ {
				if i != k {
					facet[j] = t.simplices[s*nv+i]
					j++
				}
			}
			slices.Sort(facet)
			for i, v := range facet {
				binary.LittleEndian.PutUint32(key[4*i:], uint32(v))
			}
			slot, seen := open[string(key)]
			if !seen {
				open[string(key)] = s*nv + k
				continue
			}
			if slot < 0 {
				return errors.Wrapf(ErrNonManifold, "facet %v", facet)
			}
			t.neighbors[slot] = Internal(s)
			t.neighbors[s*nv+k] = Internal(slot / nv)
			open[string(key)] = -1
		}
	}
	return nil
}

// buildIncidence fills the CSR vertex→simplex index, simplices in ascending order.
func (t *Triangulation) buildIncidence() {
	np := t.NPoints()
	nv := t.ndim + 1
	t.incidentOffsets = make([]int32, np+1)
	for _, v := range t.simplices {
		t.incidentOffsets[v+1]++
	}
	for i := 0; i < np; i++ {
		t.incidentOffsets[i+1] += t.incidentOffsets[i]
	}
	t.incidentIndices = make([]int32, len(t.simplices))
	next := make([]int32, np)
	copy(next, t.incidentOffsets[:np])
	for s := 0; s < t.NSimplex(); s++ {
		for _, v := range t.simplices[s*nv : (s+1)*nv] {
			t.incidentIndices[next[v]] = int32(s)
			next[v]++
		}
	}
}

// Config returns the current configuration.
func (t *Triangulation) Config() *Config {
	return t.cfg
}

// NDim returns the dimension of the embedding space.
func (t *Triangulation) NDim() int {
	return t.ndim
}

// NPoints returns the number of points.
func (t *Triangulation) NPoints() int {
	return len(t.points) / t.ndim
}

// NSimplex returns the number of simplices.
func (t *Triangulation) NSimplex() int {
	return len(t.simplices) / (t.ndim + 1)
}

// Point returns point i as a view into the triangulation. Caller must not modify it.
func (t *Triangulation) Point(i int) []float64 {
	start := i * t.ndim
	return t.points[start : start+t.ndim : start+t.ndim]
}

// Vertices returns the ndim+1 vertex ids of simplex s.
func (t *Triangulation) Vertices(s int) []int {
	nv := t.ndim + 1
	out := make([]int, nv)
	for k, v := range t.simplices[s*nv : (s+1)*nv] {
		out[k] = int(v)
	}
	return out
}

// Vertex returns the k-th vertex id of simplex s.
func (t *Triangulation) Vertex(s, k int) int {
	return int(t.simplices[s*(t.ndim+1)+k])
}

// Neighbors returns the ndim+1 neighbor references of simplex s; entry k is
// opposite vertex k. The slice is a view; caller must not modify it.
func (t *Triangulation) Neighbors(s int) []NeighborRef {
	nv := t.ndim + 1
	return t.neighbors[s*nv : (s+1)*nv : (s+1)*nv]
}

// IncidentSimplices returns the simplices that have v as a vertex, ascending.
func (t *Triangulation) IncidentSimplices(v int) []int {
	start, end := t.incidentOffsets[v], t.incidentOffsets[v+1]
	out := make([]int, 0, end-start)
	for _, s := range t.incidentIndices[start:end] {
		out = append(out, int(s))
	}
	return out
}

// IsPersisted reports whether t views a snapshot file.
func (t *Triangulation) IsPersisted() bool {
	return t.persistedStore != nil
}
