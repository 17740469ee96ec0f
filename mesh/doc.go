// Package mesh holds an immutable simplicial triangulation in dense, index-based
// form and answers the queries the dual-diagram algorithms need: point location,
// adjacency, lifted-paraboloid sidedness, and the vertex→simplex star.
//
// Quick start:
//
//	tri, err := mesh.New(points, simplices, nil)
//	s, ok := tri.Locate(p)
//	d := tri.PlaneDistance(s, p) // >= 0 when p is inside the circumsphere of s
//	_ = tri.SaveToAtomic("mesh.dtri")
//
// Snapshots written by SaveTo can be reopened with NewFromFile; the returned
// triangulation views the file through mmap and must be released with ClosePersisted.
package mesh
