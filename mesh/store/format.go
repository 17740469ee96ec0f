package store

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 64

	// Magic identifies a valid triangulation snapshot file.
	Magic = "DTRI"

	// FormatVersion is the current file format version.
	FormatVersion uint16 = 1

	// HullNeighbor marks "no neighbor" in the on-disk neighbor section.
	HullNeighbor int32 = -1

	sectionAlign = 8
)

var (
	ErrShortHeader = errors.New("store: header too short")
	ErrBadMagic    = errors.New("store: invalid magic")
	ErrBadVersion  = errors.New("store: unsupported format version")
	ErrNilHeader   = errors.New("store: header is nil")
)

// Header holds the persisted snapshot metadata.
type Header struct {
	Magic           [4]byte
	Version         uint16
	NDim            uint16
	NPoints         uint32
	NSimplex        uint32
	PointsOffset    uint64
	SimplicesOffset uint64
	NeighborsOffset uint64
	Reserved        [24]byte // pad to 64 bytes
}

// NewHeader lays out the sections for a snapshot of the given shape.
func NewHeader(ndim, npoints, nsimplex int) *Header {
	pointsOff := int64(HeaderSize)
	simplicesOff := alignUp(pointsOff+int64(npoints*ndim)*8, sectionAlign)
	neighborsOff := alignUp(simplicesOff+int64(nsimplex*(ndim+1))*4, sectionAlign)
	return &Header{
		NDim:            uint16(ndim),
		NPoints:         uint32(npoints),
		NSimplex:        uint32(nsimplex),
		PointsOffset:    uint64(pointsOff),
		SimplicesOffset: uint64(simplicesOff),
		NeighborsOffset: uint64(neighborsOff),
	}
}

// FileSize returns the total number of bytes a snapshot described by h occupies.
func (h *Header) FileSize() int64 {
	return int64(h.NeighborsOffset) + int64(h.NSimplex)*int64(h.NDim+1)*4
}

// EncodeHeader writes the header to a byte slice, padded to HeaderSize.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, ErrNilHeader
	}
	copy(h.Magic[:], Magic)
	h.Version = FormatVersion
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	b := w.Bytes()
	if len(b) < HeaderSize {
		padded := make([]byte, HeaderSize)
		copy(padded, b)
		return padded, nil
	}
	return b, nil
}

// DecodeHeader reads the header from src. Returns error if magic/version invalid.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, ErrShortHeader
	}
	var h Header
	r := bytes.NewReader(src[:HeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if string(h.Magic[:]) != Magic {
		return nil, ErrBadMagic
	}
	if h.Version != FormatVersion {
		return nil, ErrBadVersion
	}
	return &h, nil
}

func alignUp(x, align int64) int64 {
	if x%align == 0 {
		return x
	}
	return (x/align + 1) * align
}
