package jetimg

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"

	"github.com/jetsml/jetimg/event"
	"github.com/jetsml/jetimg/io"
	"github.com/jetsml/jetimg/raster"
)

func massless(pt, eta, phi float64) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(
		pt*math.Cos(phi), pt*math.Sin(phi),
		pt*math.Sinh(eta), pt*math.Cosh(eta),
	)
}

func ccbar() *event.GenEvent {
	evt := event.NewGenEvent()
	g1 := evt.AddParticle(21, event.StatusIncoming, fmom.NewPxPyPzE(0, 0, 50, 50))
	g2 := evt.AddParticle(21, event.StatusIncoming, fmom.NewPxPyPzE(0, 0, -50, 50))
	c := evt.AddParticle(4, event.StatusHardOutgoing, fmom.NewPxPyPzE(30, 0, 0, 50))
	cbar := evt.AddParticle(-4, event.StatusHardOutgoing, fmom.NewPxPyPzE(-30, 0, 0, 50))
	d := evt.AddParticle(421, 2, massless(25, 0, 0))
	k := evt.AddParticle(-321, event.StatusFinal, massless(15, 0.1, 0.1))
	pi := evt.AddParticle(211, event.StatusFinal, massless(9, -0.1, -0.1))
	gam := evt.AddParticle(22, event.StatusFinal, massless(20, 0, 3))
	pbar := evt.AddParticle(-2212, event.StatusFinal, massless(12, 0.3, 3.1))

	evt.Decay([]*event.GenParticle{g1, g2}, c, cbar)
	evt.Decay([]*event.GenParticle{c}, d)
	evt.Decay([]*event.GenParticle{d}, k, pi)
	evt.Decay([]*event.GenParticle{cbar}, gam, pbar)
	return evt
}

func TestExtractorRow(t *testing.T) {
	ex := NewExtractor(event.StatusHardOutgoing, true, nil)
	row, err := ex.Row(ccbar())
	require.NoError(t, err)

	assert.InDelta(t, 100, row.Mass, 1e-9)
	assert.Equal(t, 21, row.InitialPID)

	require.Len(t, row.Particles, 3)
	pids := []int{-321, -2212, 211}
	for i, p := range row.Particles {
		assert.Equal(t, pids[i], p.PID, "%d)", i)
		if i > 0 {
			assert.LessOrEqual(t, p.Pt, row.Particles[i-1].Pt)
		}
	}
	assert.InDelta(t, 15, row.Particles[0].Pt, 1e-9)
	assert.InDelta(t, 0.1, row.Particles[0].Eta, 1e-9)

	all, err := NewExtractor(event.StatusHardOutgoing, false, nil).Row(ccbar())
	require.NoError(t, err)
	assert.Len(t, all.Particles, 4)
	assert.Equal(t, 22, all.Particles[0].PID)
}

func TestExtractorMalformed(t *testing.T) {
	evt := event.NewGenEvent()
	evt.AddParticle(4, event.StatusHardOutgoing, massless(10, 0, 0))

	_, err := NewExtractor(event.StatusHardOutgoing, true, nil).Row(evt)
	var mErr *event.MalformedGraphError
	assert.True(t, errors.As(err, &mErr))
}

func TestExtract(t *testing.T) {
	wrap := io.DefaultExtractWrapper()
	con := &wrap.Extract
	con.Input = filepath.Join("testdata", "ccbar.hepmc")
	con.Output = filepath.Join(t.TempDir(), "events.txt")
	con.MaxParticles = 3
	require.NoError(t, con.CheckInit())
	require.NoError(t, Extract(con))

	rows, err := io.ReadRows(con.Output, con.MaxParticles)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	table := []struct {
		initial int
		pids    []int
	}{
		{21, []int{211, -321}},
		{1, []int{211, -321}},
	}
	for i := range table {
		assert.InDelta(t, 100, rows[i].Mass, 1e-9, "%d)", i)
		assert.Equal(t, table[i].initial, rows[i].InitialPID, "%d)", i)
		require.Len(t, rows[i].Particles, len(table[i].pids), "%d)", i)
		for j, p := range rows[i].Particles {
			assert.Equal(t, table[i].pids[j], p.PID, "%d.%d)", i, j)
		}
		assert.InDelta(t, 12, rows[i].Particles[0].Pt, 1e-9, "%d)", i)
	}

	con.MaxEvents = 1
	require.NoError(t, Extract(con))
	text, err := os.ReadFile(con.Output)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(text), "\n"))
}

func writeTable(t *testing.T, fname string, rows []io.Row, maxParticles int) {
	f, err := os.Create(fname)
	require.NoError(t, err)
	defer f.Close()

	wr := io.NewRowWriter(f, maxParticles)
	for i := range rows {
		require.NoError(t, wr.Write(&rows[i]))
	}
	require.NoError(t, wr.Flush())
}

func readGrid(t *testing.T, fname string) (*io.GridHeader, []float64) {
	f, err := os.Open(fname)
	require.NoError(t, err)
	defer f.Close()

	hd, g, err := io.ReadGrid(f)
	require.NoError(t, err)
	return hd, g.Vals
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	ex := NewExtractor(event.StatusHardOutgoing, true, nil)
	row, err := ex.Row(ccbar())
	require.NoError(t, err)

	rows := []io.Row{
		*row,
		{Mass: 10, InitialPID: 1, Particles: []raster.Tuple{
			{Pt: 10, Eta: 0, Phi: 0, PID: 211}, {Pt: 5, Eta: 1, Phi: 0.5, PID: -211}, {Pt: 2, Eta: -1, Phi: -3.2, PID: 11},
		}},
	}
	input := filepath.Join(dir, "events.txt")
	writeTable(t, input, rows, 5)

	wrap := io.DefaultImageWrapper()
	con := &wrap.Image
	con.Input, con.Output = input, filepath.Join(dir, "avg.grid")
	con.Strategy = "Leading"
	con.EtaBins, con.PhiBins = 10, 10
	con.MaxParticles = 5
	require.NoError(t, con.CheckInit())

	require.NoError(t, Render(con))
	hd, vals := readGrid(t, con.Output)
	assert.Equal(t, int64(2), hd.Build.Events)
	assert.Equal(t, int64(1), hd.Build.Averaged)
	assert.Equal(t, io.Leading, hd.Build.Strategy)

	// Both leading particles land in the same bin with ratio 1.
	img, err := raster.NewImage(con.Bounds(), &raster.Leading{})
	require.NoError(t, err)
	etaBin, phiBin, ok := img.Grid.Bin(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 1, vals[img.Grid.Idx(etaBin, phiBin)], 1e-12)

	con.Average, con.Event = false, 1
	con.Output = filepath.Join(dir, "single.grid")
	require.NoError(t, Render(con))
	hd, vals = readGrid(t, con.Output)
	assert.Equal(t, int64(1), hd.Build.Events)
	assert.Equal(t, int64(0), hd.Build.Averaged)

	sum := 0.0
	for i := 0; i < len(vals); i += raster.Channels {
		sum += vals[i]
	}
	assert.InDelta(t, 1.7, sum, 1e-12)

	con.Event = 2
	assert.Error(t, Render(con))
}
