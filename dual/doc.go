// Package dual derives insertion regions and the dual Voronoi diagram from an
// existing Delaunay triangulation.
//
// Quick start:
//
//	region, err := dual.FindAffectedRegion(tri, p, nil)
//	center, err := dual.Circumcenter(tri, s)
//	vol, err := dual.CellVolume(tri, v)
//
// For concurrent use against a triangulation that may be replaced, wrap it in
// an Engine:
//
//	eng := dual.NewEngine(mesh.NewShared(tri), dual.DefaultConfig())
//	defer eng.Close()
//	regions, errs := eng.Regions(ctx, points)
package dual
