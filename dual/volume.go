package dual

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ic-timon/da-voronoi/mesh"
)

// CellVolume estimates the volume of the Voronoi cell of vertex v from the
// circumcenters of its incident simplices. Every ndim-subset of those
// simplices whose later members all neighbor the first contributes the
// volume of the simplex spanned by v and the subset's circumcenters.
//
// Vertices on the convex hull have unbounded cells and return ErrUnboundedCell.
func CellVolume(t Triangulation, v int) (float64, error) {
	if v < 0 || v >= t.NPoints() {
		return 0, errors.Wrapf(ErrUnknownVertex, "vertex %d of %d", v, t.NPoints())
	}
	star := t.IncidentSimplices(v)
	if len(star) == 0 {
		return 0, errors.Wrapf(ErrUnknownVertex, "vertex %d belongs to no simplex", v)
	}
	if s, ok := hullFacet(t, v, star); ok {
		return 0, errors.Wrapf(ErrUnboundedCell, "vertex %d lies on hull facet of simplex %d", v, s)
	}

	n := t.NDim()
	cs := newCenterSolver(n)
	centers := make([][]float64, len(star))
	for i, s := range star {
		c, err := cs.solve(t, s)
		if err != nil {
			return 0, errors.WithMessagef(err, "cell of vertex %d", v)
		}
		centers[i] = c
	}

	x0 := t.Point(v)
	fact := factorial(n)
	d := mat.NewDense(n, n, nil)
	var total float64
	forEachCombination(len(star), n, func(ix []int) {
		first := mesh.Internal(star[ix[0]])
		for _, j := range ix[1:] {
			if !slices.Contains(t.Neighbors(star[j]), first) {
				return
			}
		}
		for r, j := range ix {
			for i := 0; i < n; i++ {
				d.Set(r, i, centers[j][i]-x0[i])
			}
		}
		total += math.Abs(mat.Det(d)) / fact
	})
	return total, nil
}

// hullFacet returns a simplex in star with a hull facet that contains v.
func hullFacet(t Triangulation, v int, star []int) (int, bool) {
	for _, s := range star {
		vs := t.Vertices(s)
		for k, ref := range t.Neighbors(s) {
			if ref.IsHull() && vs[k] != v {
				return s, true
			}
		}
	}
	return -1, false
}

// forEachCombination calls fn with every k-subset of [0, m) in lexicographic
// order. ix is reused between calls.
func forEachCombination(m, k int, fn func(ix []int)) {
	if k <= 0 || k > m {
		return
	}
	ix := make([]int, k)
	for i := range ix {
		ix[i] = i
	}
	for {
		fn(ix)
		i := k - 1
		for i >= 0 && ix[i] == m-k+i {
			i--
		}
		if i < 0 {
			return
		}
		ix[i]++
		for j := i + 1; j < k; j++ {
			ix[j] = ix[j-1] + 1
		}
	}
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
