package store

// SectionStore provides read-only access to a persisted snapshot.
type SectionStore interface {
	// Float64View returns a []float64 view of n values starting at the given file offset.
	// The slice is valid until Close is called. Caller must not modify it.
	Float64View(offset int64, n int) []float64
	// Int32View returns a []int32 view of n values starting at the given file offset.
	Int32View(offset int64, n int) []int32
	// Bytes returns the full mapped file as []byte, or nil if not available.
	Bytes() []byte
	// Close releases resources (e.g. unmaps the file).
	Close() error
}
