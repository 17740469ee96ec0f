package mesh

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/da-voronoi/mesh/store"
)

var ErrTruncated = errors.New("mesh: snapshot file truncated")

// SaveTo writes the triangulation to a snapshot file.
func (t *Triangulation) SaveTo(path string) error {
	h := store.NewHeader(t.ndim, t.NPoints(), t.NSimplex())
	headerBytes, err := store.EncodeHeader(h)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	written := int64(store.HeaderSize)
	if err := binary.Write(w, binary.LittleEndian, t.points); err != nil {
		return err
	}
	written += int64(len(t.points)) * 8
	if err := pad(w, int64(h.SimplicesOffset)-written); err != nil {
		return err
	}
	written = int64(h.SimplicesOffset)
	if err := binary.Write(w, binary.LittleEndian, t.simplices); err != nil {
		return err
	}
	written += int64(len(t.simplices)) * 4
	if err := pad(w, int64(h.NeighborsOffset)-written); err != nil {
		return err
	}
	nbr := make([]int32, len(t.neighbors))
	for i, ref := range t.neighbors {
		nbr[i] = ref.diskID()
	}
	if err := binary.Write(w, binary.LittleEndian, nbr); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

func pad(w *bufio.Writer, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}

// SaveToAtomic writes the snapshot atomically (write to path+".tmp", then rename).
// On Windows, the target must not exist for Rename to succeed; remove it first.
func (t *Triangulation) SaveToAtomic(path string) error {
	tmp := path + ".tmp"
	if err := t.SaveTo(tmp); err != nil {
		return err
	}
	_ = os.Remove(path) // ignore error if not exists
	return os.Rename(tmp, path)
}

// NewFromFile opens a snapshot (mmap). cfg may be nil to use DefaultConfig().
// Points and simplices are viewed in place and are read-only; neighbors and the
// derived tables are rebuilt in memory. Call ClosePersisted when done.
func NewFromFile(path string, cfg *Config) (*Triangulation, error) {
	cfg = cfg.OrDefault()
	sectionStore, err := store.OpenMmap(path)
	if err != nil {
		return nil, err
	}
	t, err := loadSections(sectionStore, cfg)
	if err != nil {
		sectionStore.Close()
		return nil, errors.Wrapf(err, "load %s", path)
	}
	t.persistedStore = sectionStore
	cfg.Logger.Info("triangulation snapshot loaded",
		zap.String("path", path),
		zap.Int("ndim", t.ndim),
		zap.Int("points", t.NPoints()),
		zap.Int("simplices", t.NSimplex()))
	return t, nil
}

func loadSections(s store.SectionStore, cfg *Config) (*Triangulation, error) {
	data := s.Bytes()
	h, err := store.DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.NDim == 0 {
		return nil, ErrDimension
	}
	if int64(len(data)) < h.FileSize() {
		return nil, ErrTruncated
	}
	ndim := int(h.NDim)
	nv := ndim + 1
	points := s.Float64View(int64(h.PointsOffset), int(h.NPoints)*ndim)
	simplices := s.Int32View(int64(h.SimplicesOffset), int(h.NSimplex)*nv)
	onDisk := s.Int32View(int64(h.NeighborsOffset), int(h.NSimplex)*nv)
	if points == nil || simplices == nil || onDisk == nil {
		return nil, ErrTruncated
	}
	nbr := make([]NeighborRef, len(onDisk))
	for i, id := range onDisk {
		switch {
		case id == store.HullNeighbor:
			nbr[i] = HullBoundary
		case id >= 0 && id < int32(h.NSimplex):
			nbr[i] = Internal(int(id))
		default:
			return nil, errors.Wrapf(ErrInvalid, "neighbor slot %d references simplex %d", i, id)
		}
	}
	return build(cfg, ndim, points, simplices, nbr)
}

// ClosePersisted releases the mmap for a triangulation loaded via NewFromFile.
// No-op if not loaded from file. t must not be queried afterwards.
func (t *Triangulation) ClosePersisted() error {
	if t.persistedStore != nil {
		err := t.persistedStore.Close()
		t.persistedStore = nil
		return err
	}
	return nil
}
