package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/phil-mansfield/table"

	"github.com/jetsml/jetimg/raster"
)

// RowHeaderFields is the number of per-event values stored before the
// particles of a row.
const RowHeaderFields = 2

// Row is a single event of a particle table.
type Row struct {
	// Mass is the invariant mass of the outgoing hard-process partons.
	Mass float64
	// InitialPID is the absolute PDG code of the first incoming parton.
	InitialPID int
	// Particles is sorted by descending pt.
	Particles []raster.Tuple
}

// RowWidth returns the number of columns in a table which stores up to
// maxParticles particles per event.
func RowWidth(maxParticles int) int {
	return RowHeaderFields + raster.TupleFields*maxParticles
}

// RowWriter writes Rows as whitespace-separated text, one event per line.
// Every line has the same number of columns.
type RowWriter struct {
	wr           *bufio.Writer
	maxParticles int
	buf          []byte
}

// NewRowWriter returns a RowWriter which writes up to maxParticles
// particles per event to w. Call Flush when done.
func NewRowWriter(w io.Writer, maxParticles int) *RowWriter {
	return &RowWriter{wr: bufio.NewWriter(w), maxParticles: maxParticles}
}

// Write writes a single row. Particles past the writer's limit are
// dropped and missing particles are written as zeros.
func (rw *RowWriter) Write(row *Row) error {
	vals := raster.Flatten(row.Particles, rw.maxParticles)

	rw.buf = rw.buf[:0]
	rw.buf = strconv.AppendFloat(rw.buf, row.Mass, 'g', -1, 64)
	rw.buf = append(rw.buf, ' ')
	rw.buf = strconv.AppendInt(rw.buf, int64(row.InitialPID), 10)
	for _, x := range vals {
		rw.buf = append(rw.buf, ' ')
		rw.buf = strconv.AppendFloat(rw.buf, x, 'g', -1, 64)
	}
	rw.buf = append(rw.buf, '\n')

	_, err := rw.wr.Write(rw.buf)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (rw *RowWriter) Flush() error { return rw.wr.Flush() }

// ReadRows reads a table written by RowWriter with the same maxParticles.
func ReadRows(fname string, maxParticles int) ([]Row, error) {
	colIdxs := make([]int, RowWidth(maxParticles))
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", fname, err)
	}
	return rowsFromColumns(cols, maxParticles)
}

func rowsFromColumns(cols [][]float64, maxParticles int) ([]Row, error) {
	if len(cols) != RowWidth(maxParticles) {
		return nil, fmt.Errorf(
			"table has %d columns, but %d particles per event need %d",
			len(cols), maxParticles, RowWidth(maxParticles),
		)
	}

	rows := make([]Row, len(cols[0]))
	flat := make([]float64, len(cols)-RowHeaderFields)
	for i := range rows {
		for j := range flat {
			flat[j] = cols[RowHeaderFields+j][i]
		}
		ts, err := raster.FromFlat(flat)
		if err != nil {
			return nil, err
		}

		rows[i] = Row{
			Mass:       cols[0][i],
			InitialPID: int(cols[1][i]),
			Particles:  ts,
		}
	}
	return rows, nil
}

// Events returns the particles of every row.
func Events(rows []Row) [][]raster.Tuple {
	events := make([][]raster.Tuple, len(rows))
	for i := range rows {
		events[i] = rows[i].Particles
	}
	return events
}
