package store

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// MmapStore is a SectionStore backed by an mmap'd file.
type MmapStore struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap opens a file and returns a read-only SectionStore.
func OpenMmap(path string) (SectionStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MmapStore{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (s *MmapStore) Bytes() []byte {
	return s.data
}

// Float64View returns a []float64 view of n values at offset, or nil when out of range.
func (s *MmapStore) Float64View(offset int64, n int) []float64 {
	if !s.inRange(offset, int64(n)*8) || n == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&s.data[offset])
	return unsafe.Slice((*float64)(ptr), n)
}

// Int32View returns a []int32 view of n values at offset, or nil when out of range.
func (s *MmapStore) Int32View(offset int64, n int) []int32 {
	if !s.inRange(offset, int64(n)*4) || n == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&s.data[offset])
	return unsafe.Slice((*int32)(ptr), n)
}

func (s *MmapStore) inRange(offset, size int64) bool {
	if s.data == nil || offset < 0 || size < 0 {
		return false
	}
	return offset+size <= int64(len(s.data))
}

// Close unmaps the file and closes it.
func (s *MmapStore) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
