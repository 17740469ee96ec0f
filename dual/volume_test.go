package dual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ic-timon/da-voronoi/mesh"
)

func TestCellVolume_Grid(t *testing.T) {
	const n = 5
	tri := grid(t, n)
	h := 1.0 / (n - 1)

	var total float64
	for i := 1; i+1 < n; i++ {
		for j := 1; j+1 < n; j++ {
			vol, err := CellVolume(tri, i*n+j)
			require.NoError(t, err)
			assert.InDelta(t, h*h, vol, 1e-12, "vertex (%d,%d)", i, j)
			total += vol
		}
	}
	// interior cells tile the square shrunk by h/2 on every side
	assert.InDelta(t, float64((n-2)*(n-2))*h*h, total, 1e-12)
}

func TestCellVolume_HullVertex(t *testing.T) {
	const n = 4
	tri := grid(t, n)
	for _, v := range []int{0, 1, n - 1, n, n*n - 1} {
		vol, err := CellVolume(tri, v)
		assert.ErrorIs(t, err, ErrUnboundedCell, "vertex %d", v)
		assert.Zero(t, vol)
	}
}

func TestCellVolume_UnknownVertex(t *testing.T) {
	tri := twoTriangles(t)
	for _, v := range []int{-1, 4} {
		_, err := CellVolume(tri, v)
		assert.ErrorIs(t, err, ErrUnknownVertex)
	}

	// point 3 is referenced by no simplex
	loose, err := mesh.New([][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}}, [][]int{{0, 1, 2}}, nil)
	require.NoError(t, err)
	_, err = CellVolume(loose, 3)
	assert.ErrorIs(t, err, ErrUnknownVertex)
}

func TestCellVolume_OneDimension(t *testing.T) {
	tri, err := mesh.New([][]float64{{0}, {1}, {3}}, [][]int{{0, 1}, {1, 2}}, nil)
	require.NoError(t, err)
	vol, err := CellVolume(tri, 1)
	require.NoError(t, err)
	// from midpoint 0.5 to midpoint 2
	assert.InDelta(t, 1.5, vol, 1e-12)

	_, err = CellVolume(tri, 0)
	assert.ErrorIs(t, err, ErrUnboundedCell)
}

func TestCellVolume_OctahedronCenter(t *testing.T) {
	tri := octahedron(t)
	vol, err := CellVolume(tri, 0)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)

	again, err := CellVolume(tri, 0)
	require.NoError(t, err)
	assert.Equal(t, vol, again)

	_, err = CellVolume(tri, 1)
	assert.ErrorIs(t, err, ErrUnboundedCell)
}

func TestCellVolume_Singular(t *testing.T) {
	tri := grid(t, 4)
	fake := &fakeTri{
		Triangulation: tri,
		point: func(i int) []float64 {
			return []float64{float64(i), 2 * float64(i)}
		},
	}
	_, err := CellVolume(fake, 5)
	assert.ErrorIs(t, err, ErrSingularSimplex)
}

func TestForEachCombination(t *testing.T) {
	var got [][]int
	forEachCombination(4, 2, func(ix []int) {
		got = append(got, append([]int(nil), ix...))
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	calls := 0
	forEachCombination(2, 3, func([]int) { calls++ })
	forEachCombination(3, 0, func([]int) { calls++ })
	assert.Zero(t, calls)

	forEachCombination(3, 3, func(ix []int) {
		calls++
		assert.Equal(t, []int{0, 1, 2}, ix)
	})
	assert.Equal(t, 1, calls)
}

func TestFactorial(t *testing.T) {
	assert.Equal(t, 1.0, factorial(0))
	assert.Equal(t, 1.0, factorial(1))
	assert.Equal(t, 6.0, factorial(3))
	assert.Equal(t, 24.0, factorial(4))
}
