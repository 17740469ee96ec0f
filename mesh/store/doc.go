// Package store provides the snapshot file format and mmap-backed section
// store for triangulations. It is used internally by mesh.SaveTo,
// mesh.LoadFrom, and mesh.NewFromFile.
//
// The file format consists of:
//   - Header (64 bytes): magic, version, dimension, counts, section offsets
//   - Points: npoints*ndim little-endian float64 values
//   - Simplices: nsimplex*(ndim+1) little-endian int32 vertex ids
//   - Neighbors: nsimplex*(ndim+1) little-endian int32 simplex ids, -1 for the hull
//
// Every section starts on an 8-byte boundary so it can be viewed in place.
package store
