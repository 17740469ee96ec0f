package mesh

import (
	"slices"

	"github.com/pkg/errors"
)

// Validate performs sanity checks on adjacency and incidence. Returns nil if no
// issues were found. Snapshots loaded from disk are not validated automatically.
func (t *Triangulation) Validate() error {
	nv := t.ndim + 1
	for s := 0; s < t.NSimplex(); s++ {
		for k, ref := range t.Neighbors(s) {
			n, ok := ref.Simplex()
			if !ok {
				continue
			}
			if n < 0 || n >= t.NSimplex() || n == s {
				return errors.Wrapf(ErrInvalid, "simplex %d neighbor %d out of range", s, n)
			}
			back := slices.Index(t.Neighbors(n), Internal(s))
			if back < 0 {
				return errors.Wrapf(ErrInvalid, "simplex %d lists %d as neighbor but not vice versa", s, n)
			}
			// the shared facet must have the same vertex set on both sides
			if !sameFacet(t.simplices[s*nv:(s+1)*nv], k, t.simplices[n*nv:(n+1)*nv], back) {
				return errors.Wrapf(ErrInvalid, "simplices %d and %d do not share a facet", s, n)
			}
		}
	}
	for v := 0; v < t.NPoints(); v++ {
		for _, s := range t.IncidentSimplices(v) {
			if !slices.Contains(t.simplices[s*nv:(s+1)*nv], int32(v)) {
				return errors.Wrapf(ErrInvalid, "vertex %d indexed under simplex %d", v, s)
			}
		}
	}
	return nil
}

func sameFacet(a []int32, ka int, b []int32, kb int) bool {
	fa := make([]int32, 0, len(a)-1)
	fb := make([]int32, 0, len(b)-1)
	for i := range a {
		if i != ka {
			fa = append(fa, a[i])
		}
		if i != kb {
			fb = append(fb, b[i])
		}
	}
	slices.Sort(fa)
	slices.Sort(fb)
	return slices.Equal(fa, fb)
}
