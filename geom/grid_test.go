package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t testing.TB, b Bounds) *Grid {
	g, err := NewGrid(b)
	require.NoError(t, err)
	return g
}

var wide = Bounds{-10, 10, -10, 10, 20, 20, 2}

func TestNewGridChecks(t *testing.T) {
	table := []Bounds{
		{1, 1, -1, 1, 10, 10, 1},
		{-1, 1, 2, 1, 10, 10, 1},
		{-1, 1, -1, 1, 0, 10, 1},
		{-1, 1, -1, 1, 10, -2, 1},
		{-1, 1, -1, 1, 10, 10, 0},
		{math.NaN(), 1, -1, 1, 10, 10, 1},
	}

	for i, b := range table {
		_, err := NewGrid(b)
		assert.Error(t, err, "%d)", i)
	}

	g := mustGrid(t, wide)
	assert.Equal(t, 20*20*2, len(g.Vals))
	assert.Equal(t, 2, g.Length)
	assert.Equal(t, 40, g.Area)
	eta, phi := g.BinWidths()
	assert.Equal(t, 1.0, eta)
	assert.Equal(t, 1.0, phi)
}

func TestBin(t *testing.T) {
	g := mustGrid(t, wide)

	table := []struct {
		eta, phi       float64
		etaBin, phiBin int
		ok             bool
	}{
		{0, 0, 9, 10, true},
		{-10, -10, 19, 0, true},
		{9.999, 9.999, 0, 19, true},
		{-0.5, 0.5, 10, 10, true},
		{10, 0, -1, -1, false},
		{0, 10, -1, -1, false},
		{-10.001, 0, -1, -1, false},
		{0, -10.5, -1, -1, false},
		{math.NaN(), 0, -1, -1, false},
		{0, math.Inf(1), -1, -1, false},
	}

	for i, test := range table {
		etaBin, phiBin, ok := g.Bin(test.eta, test.phi)
		assert.Equal(t, test.ok, ok, "%d)", i)
		assert.Equal(t, test.etaBin, etaBin, "%d)", i)
		assert.Equal(t, test.phiBin, phiBin, "%d)", i)
	}
}

func TestAccumulate(t *testing.T) {
	g := mustGrid(t, wide)

	g.Accumulate(0, 0, []float64{1, -1})
	g.Accumulate(0.5, 0.5, []float64{2, 1})
	assert.Equal(t, 3.0, g.At(9, 10, 0))
	assert.Equal(t, 0.0, g.At(9, 10, 1))

	before := append([]float64(nil), g.Vals...)
	g.Accumulate(-20, 0, []float64{5, 5})
	g.Accumulate(0, 11, []float64{5, 5})
	g.Accumulate(math.NaN(), math.NaN(), []float64{5, 5})
	assert.Equal(t, before, g.Vals, "out of range points changed the grid")

	assert.Panics(t, func() { g.Accumulate(0, 0, []float64{1}) })
	assert.Panics(t, func() { g.Accumulate(0, 0, []float64{1, 2, 3}) })
}

func TestResetRescale(t *testing.T) {
	g := mustGrid(t, Bounds{-1, 1, -1, 1, 2, 2, 3})
	g.Accumulate(0.5, 0.5, []float64{2, 4, 6})
	g.Accumulate(-0.5, -0.5, []float64{1, 1, 1})

	g.Rescale(0.5)
	assert.Equal(t, []float64{1, 2, 3}, g.Vals[g.Idx(0, 1):g.Idx(0, 1)+3])
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, g.Vals[g.Idx(1, 0):g.Idx(1, 0)+3])

	g.Reset()
	for i, v := range g.Vals {
		assert.Equal(t, 0.0, v, "%d)", i)
	}
}

func TestSnapshot(t *testing.T) {
	g := mustGrid(t, wide)
	g.Accumulate(1, 1, []float64{1, 1})

	snap := g.Snapshot()
	g.Accumulate(1, 1, []float64{1, 1})
	g.Rescale(10)

	assert.Equal(t, 1.0, snap.At(8, 11, 0))
	assert.Equal(t, 20.0, g.At(8, 11, 0))
	assert.True(t, snap.SameShape(g))
}

func TestMerge(t *testing.T) {
	g := mustGrid(t, wide)
	o := g.Blank()
	g.Accumulate(1, 1, []float64{1, 2})
	o.Accumulate(1, 1, []float64{3, 4})
	o.Accumulate(-1, -1, []float64{1, 1})

	require.NoError(t, g.Merge(o))
	assert.Equal(t, 4.0, g.At(8, 11, 0))
	assert.Equal(t, 6.0, g.At(8, 11, 1))
	assert.Equal(t, 1.0, g.At(10, 9, 1))

	other := mustGrid(t, Bounds{-10, 10, -10, 10, 20, 10, 2})
	assert.Error(t, g.Merge(other))
}

func TestTensor(t *testing.T) {
	g := mustGrid(t, Bounds{0, 2, 0, 2, 2, 2, 1})
	g.Accumulate(0.5, 0.5, []float64{1})
	g.Accumulate(1.5, 0.5, []float64{2})
	g.Accumulate(1.5, 1.5, []float64{3})

	want := [][][]float64{
		{{2}, {3}},
		{{1}, {0}},
	}
	if diff := cmp.Diff(want, g.Tensor()); diff != "" {
		t.Errorf("Tensor() mismatch (-want +got):\n%s", diff)
	}
}

func TestInitReuse(t *testing.T) {
	g := mustGrid(t, wide)
	g.Accumulate(0, 0, []float64{1, 1})
	g.Init(Bounds{-1, 1, -1, 1, 2, 2, 1})

	assert.Len(t, g.Vals, 4)
	for _, v := range g.Vals {
		assert.Equal(t, 0.0, v)
	}
}

func BenchmarkAccumulate(b *testing.B) {
	g := mustGrid(b, Bounds{-5, 5, -math.Pi, math.Pi, 100, 100, 2})
	vals := []float64{1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x := float64(i%1000)/100 - 5
		g.Accumulate(x, x/2, vals)
	}
}
