package dual

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Circumcenter returns the center of the circumsphere of simplex s.
func Circumcenter(t Triangulation, s int) ([]float64, error) {
	if s < 0 || s >= t.NSimplex() {
		return nil, errors.Wrapf(ErrUnknownSimplex, "simplex %d of %d", s, t.NSimplex())
	}
	return newCenterSolver(t.NDim()).solve(t, s)
}

// Circumcenters returns the circumcenter of every simplex, indexed by simplex.
// It stops at the first singular simplex.
func Circumcenters(t Triangulation) ([][]float64, error) {
	cs := newCenterSolver(t.NDim())
	out := make([][]float64, t.NSimplex())
	for s := range out {
		c, err := cs.solve(t, s)
		if err != nil {
			return nil, err
		}
		out[s] = c
	}
	return out, nil
}

// centerSolver holds the (ndim+1)-square system reused across simplices.
// Not safe for concurrent use.
type centerSolver struct {
	ndim int
	lhs  *mat.Dense
	rhs  *mat.VecDense
	sol  *mat.VecDense
}

func newCenterSolver(ndim int) *centerSolver {
	return &centerSolver{
		ndim: ndim,
		lhs:  mat.NewDense(ndim+1, ndim+1, nil),
		rhs:  mat.NewVecDense(ndim+1, nil),
		sol:  mat.NewVecDense(ndim+1, nil),
	}
}

// solve translates vertices so the first sits at the origin and solves
//
//	[1  y_k] · [|c|²-r², -2c] = -|y_k|²   for each vertex k
//
// for the translated center c.
func (cs *centerSolver) solve(t Triangulation, s int) ([]float64, error) {
	n := cs.ndim
	vs := t.Vertices(s)
	y0 := t.Point(vs[0])
	for k, v := range vs {
		p := t.Point(v)
		var sq float64
		cs.lhs.Set(k, 0, 1)
		for i := 0; i < n; i++ {
			y := p[i] - y0[i]
			cs.lhs.Set(k, i+1, y)
			sq += y * y
		}
		cs.rhs.SetVec(k, -sq)
	}
	// mat.Condition 也按奇异处理：结果不可信
	if err := cs.sol.SolveVec(cs.lhs, cs.rhs); err != nil {
		return nil, errors.Wrapf(ErrSingularSimplex, "simplex %d %v: %v", s, vs, err)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = y0[i] - 0.5*cs.sol.AtVec(i+1)
	}
	return out, nil
}
