package mesh

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ic-timon/da-voronoi/simd"
)

// buildGeometry precomputes, per simplex, the inverse barycentric transform,
// the simplex volume, and the hyperplane through its vertices lifted onto the
// paraboloid z = |x|^2.
func (t *Triangulation) buildGeometry() error {
	n := t.ndim
	ns := t.NSimplex()
	t.transforms = make([]float64, ns*n*n)
	t.planes = make([]float64, ns*(n+2))
	t.volumes = make([]float64, ns)

	fact := 1.0
	for i := 2; i <= n; i++ {
		fact *= float64(i)
	}

	tm := mat.NewDense(n, n, nil)
	var inv mat.Dense
	lhs := mat.NewDense(n+1, n+1, nil)
	rhs := mat.NewVecDense(n+1, nil)
	var sol mat.VecDense
	for s := 0; s < ns; s++ {
		last := t.Point(t.Vertex(s, n))
		for j := 0; j < n; j++ {
			pj := t.Point(t.Vertex(s, j))
			for i := 0; i < n; i++ {
				tm.Set(i, j, pj[i]-last[i])
			}
		}
		t.volumes[s] = math.Abs(mat.Det(tm)) / fact
		if err := inv.Inverse(tm); err != nil {
			return errors.Wrapf(ErrDegenerateSimplex, "simplex %d: %v", s, err)
		}
		copy(t.transforms[s*n*n:(s+1)*n*n], inv.RawMatrix().Data)

		// a·x + b = |x|^2 for every vertex x
		for k := 0; k <= n; k++ {
			p := t.Point(t.Vertex(s, k))
			var sq float64
			for i := 0; i < n; i++ {
				lhs.Set(k, i, p[i])
				sq += p[i] * p[i]
			}
			lhs.Set(k, n, 1)
			rhs.SetVec(k, sq)
		}
		if err := sol.SolveVec(lhs, rhs); err != nil {
			return errors.Wrapf(ErrDegenerateSimplex, "simplex %d lifted plane: %v", s, err)
		}
		plane := t.planes[s*(n+2) : (s+1)*(n+2)]
		norm := 1.0
		for i := 0; i < n; i++ {
			norm += sol.AtVec(i) * sol.AtVec(i)
		}
		norm = math.Sqrt(norm)
		for i := 0; i < n; i++ {
			plane[i] = sol.AtVec(i) / norm
		}
		plane[n] = -1 / norm
		plane[n+1] = sol.AtVec(n) / norm
	}
	return nil
}

// Barycentric writes the ndim+1 barycentric coordinates of p relative to
// simplex s into dst (len ndim+1).
func (t *Triangulation) Barycentric(s int, p, dst []float64) {
	n := t.ndim
	last := t.Point(t.Vertex(s, n))
	tr := t.transforms[s*n*n : (s+1)*n*n]
	sum := 0.0
	for i := 0; i < n; i++ {
		var c float64
		row := tr[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			c += row[j] * (p[j] - last[j])
		}
		dst[i] = c
		sum += c
	}
	dst[n] = 1 - sum
}

// Locate returns a simplex containing p (boundary inclusive, within cfg.Eps),
// or (-1, false) when p is outside the convex hull.
// A directed walk from simplex 0 is tried first; a linear scan is the fallback.
func (t *Triangulation) Locate(p []float64) (int, bool) {
	if len(p) != t.ndim {
		return -1, false
	}
	eps := t.cfg.Eps
	bary := make([]float64, t.ndim+1)
	ns := t.NSimplex()
	s := 0
	for step := 0; step < ns; step++ {
		t.Barycentric(s, p, bary)
		k, worst := -1, -eps
		for i, c := range bary {
			if c < worst {
				k, worst = i, c
			}
		}
		if k < 0 {
			return s, true
		}
		next, ok := t.neighbors[s*(t.ndim+1)+k].Simplex()
		if !ok {
			break
		}
		s = next
	}
	return t.locateScan(p, bary)
}

func (t *Triangulation) locateScan(p, bary []float64) (int, bool) {
	eps := t.cfg.Eps
	for s := 0; s < t.NSimplex(); s++ {
		t.Barycentric(s, p, bary)
		inside := true
		for _, c := range bary {
			if c < -eps {
				inside = false
				break
			}
		}
		if inside {
			return s, true
		}
	}
	return -1, false
}

// PlaneDistance returns the signed distance of the lifted point (p, |p|^2) to
// the lifted hyperplane of simplex s. It is positive when p is strictly inside
// the circumsphere of s, zero on it, and negative outside.
func (t *Triangulation) PlaneDistance(s int, p []float64) float64 {
	n := t.ndim
	plane := t.planes[s*(n+2) : (s+1)*(n+2)]
	// 短向量直接展开，避免每次分类一次 cgo 调用
	var dot, sq float64
	for i, x := range p[:n] {
		dot += plane[i] * x
		sq += x * x
	}
	return dot + plane[n]*sq + plane[n+1]
}

// Sidedness returns PlaneDistance(s, p) for every simplex s, indexed by simplex.
func (t *Triangulation) Sidedness(p []float64) []float64 {
	if len(p) != t.ndim {
		return nil
	}
	n := t.ndim
	q := make([]float64, n+2)
	copy(q, p)
	q[n] = simd.DotProduct(p, p)
	q[n+1] = 1
	return simd.DotProductBatch(q, t.planes, n+2, t.NSimplex())
}

// SimplexVolume returns the (unsigned) volume of simplex s.
func (t *Triangulation) SimplexVolume(s int) float64 {
	return t.volumes[s]
}

// Volume returns the total volume of all simplices, i.e. the convex hull volume.
func (t *Triangulation) Volume() float64 {
	var sum float64
	for _, v := range t.volumes {
		sum += v
	}
	return sum
}
