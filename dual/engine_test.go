package dual

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ic-timon/da-voronoi/mesh"
)

func newTestEngine(t *testing.T, tri *mesh.Triangulation, workers int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = workers
	cfg.QueueSize = 4
	e := NewEngine(mesh.NewShared(tri), cfg)
	t.Cleanup(e.Close)
	return e
}

func queryPoints(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{0.25 + 0.5*rng.Float64(), 0.25 + 0.5*rng.Float64()}
	}
	return out
}

func TestEngine_RegionsMatchSequential(t *testing.T) {
	tri := randomMesh(t, 150, 21)
	e := newTestEngine(t, tri, 4)
	points := queryPoints(64, 5)
	points = append(points, []float64{3, 3})

	got, errs := e.Regions(context.Background(), points)
	require.Len(t, got, len(points))
	require.Len(t, errs, len(points))
	for i, p := range points {
		want, wantErr := FindAffectedRegion(tri, p, nil)
		if wantErr != nil {
			assert.ErrorIs(t, errs[i], ErrOutsideHull)
			assert.Nil(t, got[i])
			continue
		}
		require.NoError(t, errs[i])
		assert.Equal(t, want, got[i], "point %d", i)

		single, err := e.Region(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, want, single)
	}
}

func TestEngine_CircumcentersMatchSequential(t *testing.T) {
	tri := randomMesh(t, 120, 22)
	e := newTestEngine(t, tri, 3)

	want, err := Circumcenters(tri)
	require.NoError(t, err)
	got, err := e.Circumcenters()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	c, err := e.Circumcenter(0)
	require.NoError(t, err)
	assert.Equal(t, want[0], c)
	_, err = e.Circumcenter(tri.NSimplex())
	assert.ErrorIs(t, err, ErrUnknownSimplex)
}

func TestEngine_CellVolumes(t *testing.T) {
	const n = 6
	tri := grid(t, n)
	e := newTestEngine(t, tri, 2)

	vertices := make([]int, tri.NPoints())
	for v := range vertices {
		vertices[v] = v
	}
	got, errs := e.CellVolumes(vertices)
	for v := range vertices {
		want, wantErr := CellVolume(tri, v)
		if wantErr != nil {
			assert.ErrorIs(t, errs[v], ErrUnboundedCell, "vertex %d", v)
			continue
		}
		require.NoError(t, errs[v])
		assert.Equal(t, want, got[v])
	}

	vol, err := e.CellVolume(n + 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/25, vol, 1e-12)
}

func TestEngine_NoTriangulation(t *testing.T) {
	e := NewEngine(mesh.NewShared(nil), nil)
	defer e.Close()

	_, err := e.Region(context.Background(), []float64{0.5, 0.5})
	assert.ErrorIs(t, err, mesh.ErrNoTriangulation)
	_, err = e.Circumcenters()
	assert.ErrorIs(t, err, mesh.ErrNoTriangulation)
	_, errs := e.CellVolumes([]int{0, 1})
	for _, err := range errs {
		assert.ErrorIs(t, err, mesh.ErrNoTriangulation)
	}
	_, errs = e.Regions(context.Background(), [][]float64{{0.5, 0.5}})
	assert.ErrorIs(t, errs[0], mesh.ErrNoTriangulation)
}

func TestEngine_SwapDuringQueries(t *testing.T) {
	a, b := randomMesh(t, 80, 31), randomMesh(t, 80, 32)
	e := newTestEngine(t, a, 4)
	points := queryPoints(16, 9)

	wantA, errsA := make([]*Region, len(points)), make([]error, len(points))
	wantB, errsB := make([]*Region, len(points)), make([]error, len(points))
	for i, p := range points {
		wantA[i], errsA[i] = FindAffectedRegion(a, p, nil)
		wantB[i], errsB[i] = FindAffectedRegion(b, p, nil)
	}

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			for iter := 0; iter < 50; iter++ {
				i := (r + iter) % len(points)
				got, err := e.Region(context.Background(), points[i])
				if err != nil {
					if errsA[i] == nil && errsB[i] == nil {
						t.Errorf("point %d: unexpected error %v", i, err)
					}
					continue
				}
				if !assert.ObjectsAreEqual(wantA[i], got) && !assert.ObjectsAreEqual(wantB[i], got) {
					t.Errorf("point %d: region matches neither triangulation", i)
				}
			}
		}(r)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for iter := 0; iter < 20; iter++ {
			if iter%2 == 0 {
				e.Swap(b)
			} else {
				e.Swap(a)
			}
		}
	}()
	wg.Wait()
}

func TestEngine_LogsBatchFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Logger = zap.New(core)
	e := NewEngine(mesh.NewShared(twoTriangles(t)), cfg)
	defer e.Close()

	_, errs := e.Regions(context.Background(), [][]float64{{0.1, 0.5}, {5, 5}, {0.5, 0.5}})
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrOutsideHull)
	assert.ErrorIs(t, errs[2], ErrDegeneratePoint)

	entries := logs.FilterMessage("batch had failures").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["failed"])
}

func TestEngine_LogsUnboundedCells(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Logger = zap.New(core)
	const n = 4
	e := NewEngine(mesh.NewShared(grid(t, n)), cfg)
	defer e.Close()

	// 0 and 3 are hull corners, 5 is interior
	_, errs := e.CellVolumes([]int{0, 5, 3})
	assert.ErrorIs(t, errs[0], ErrUnboundedCell)
	assert.NoError(t, errs[1])
	assert.ErrorIs(t, errs[2], ErrUnboundedCell)

	entries := logs.FilterMessage("batch had failures").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cell_volumes", entries[0].ContextMap()["op"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["failed"])
}

func TestEngine_CloseTwice(t *testing.T) {
	e := NewEngine(mesh.NewShared(twoTriangles(t)), nil)
	e.Close()
	e.Close()
	assert.Same(t, e.Config(), e.Config())
}
