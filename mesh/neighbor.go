package mesh

import "strconv"

// NeighborRef is the neighbor across one facet of a simplex: either another
// simplex (Internal) or the exterior of the convex hull (HullBoundary).
// The zero value is HullBoundary.
type NeighborRef struct {
	id       int32
	internal bool
}

// HullBoundary marks a facet that lies on the convex hull.
var HullBoundary = NeighborRef{}

// Internal returns a reference to simplex id.
func Internal(id int) NeighborRef {
	return NeighborRef{id: int32(id), internal: true}
}

// Simplex returns the referenced simplex and true, or (-1, false) for HullBoundary.
func (r NeighborRef) Simplex() (int, bool) {
	if !r.internal {
		return -1, false
	}
	return int(r.id), true
}

// IsHull reports whether r is HullBoundary.
func (r NeighborRef) IsHull() bool {
	return !r.internal
}

func (r NeighborRef) String() string {
	if !r.internal {
		return "hull"
	}
	return strconv.Itoa(int(r.id))
}

// diskID encodes r for the snapshot neighbor section.
func (r NeighborRef) diskID() int32 {
	if !r.internal {
		return -1
	}
	return r.id
}
