// Package jetimg runs the two stages of the image pipeline: extracting
// the final-state particles of the hard process from generator events,
// and rendering tables of those particles into images.
package jetimg

import (
	"errors"
	"fmt"
	stdio "io"
	"log"
	"os"
	"runtime"

	"github.com/jetsml/jetimg/charge"
	"github.com/jetsml/jetimg/event"
	"github.com/jetsml/jetimg/io"
	"github.com/jetsml/jetimg/raster"
)

// NumCores is the number of goroutines used when averaging images.
var NumCores = runtime.NumCPU()

// logInterval is the number of events between progress log lines.
const logInterval = 1000

// Extractor converts events into table rows.
type Extractor struct {
	resolver *event.Resolver
	analyzer *event.Analyzer
}

// NewExtractor returns an Extractor which searches from particles with
// the given status. If chargedOnly is true, only particles which are
// charged according to tab are kept. A nil tab uses charge.Default().
func NewExtractor(seedStatus int, chargedOnly bool, tab *charge.Table) *Extractor {
	ex := &Extractor{
		resolver: &event.Resolver{SeedStatus: seedStatus},
		analyzer: event.NewAnalyzer(),
	}
	if chargedOnly {
		ex.resolver.Accept = event.ChargedSelector{Table: tab}
	}
	ex.analyzer.AddSelector(event.IncomingParticles, event.Incoming)
	ex.analyzer.AddSelector(
		event.HardOutgoingParticles, event.StatusSelector(seedStatus),
	)
	return ex
}

// Row returns the table row of evt. Particles are sorted by descending pt.
func (ex *Extractor) Row(evt event.Event) (*io.Row, error) {
	final, err := ex.resolver.Resolve(evt)
	if err != nil {
		return nil, err
	}
	event.SortByPt(final)

	ex.analyzer.Analyze(evt)
	row := &io.Row{
		Mass: event.InvariantMass(
			ex.analyzer.Particles(event.HardOutgoingParticles),
		),
		Particles: make([]raster.Tuple, len(final)),
	}
	if in := ex.analyzer.Particles(event.IncomingParticles); len(in) > 0 {
		row.InitialPID = in[0].PID()
		if row.InitialPID < 0 {
			row.InitialPID = -row.InitialPID
		}
	}

	for i, p := range final {
		pt, eta, phi := event.Kinematics(p)
		row.Particles[i] = raster.Tuple{Pt: pt, Eta: eta, Phi: phi, PID: p.PID()}
	}
	return row, nil
}

// Extract reads the HepMC file named in con and writes one row per event
// to its output table.
func Extract(con *io.ExtractConfig) error {
	in, err := os.Open(con.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(con.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	ex := NewExtractor(con.SeedStatus, con.ChargedOnly, nil)
	rd := event.NewReader(in)
	wr := io.NewRowWriter(out, con.MaxParticles)

	n := 0
	for ; con.MaxEvents < 0 || n < con.MaxEvents; n++ {
		evt, err := rd.Next()
		if errors.Is(err, stdio.EOF) {
			break
		} else if err != nil {
			return fmt.Errorf("decoding event %d: %w", n, err)
		}

		row, err := ex.Row(evt)
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		if err := wr.Write(row); err != nil {
			return err
		}

		if (n+1)%logInterval == 0 {
			log.Printf("Extracted %d events", n+1)
		}
	}
	log.Printf("Extracted %d events from %s", n, con.Input)

	if err := wr.Flush(); err != nil {
		return err
	}
	return out.Close()
}

// Render reads the table named in con, builds the configured image and
// writes it to the output grid file.
func Render(con *io.ImageConfig) error {
	rows, err := io.ReadRows(con.Input, con.MaxParticles)
	if err != nil {
		return err
	}
	events := io.Events(rows)
	log.Printf("Read %d events from %s", len(events), con.Input)

	if !con.Average {
		if con.Event >= len(events) {
			return fmt.Errorf(
				"Event %d requested, but %s only has %d events.",
				con.Event, con.Input, len(events),
			)
		}
		events = events[con.Event : con.Event+1]
	}

	s, err := raster.NewStrategy(con.Strategy, con.Average, NumCores, nil)
	if err != nil {
		return err
	}
	flag, err := io.ParseStrategyFlag(con.Strategy)
	if err != nil {
		return err
	}
	img, err := raster.NewImage(con.Bounds(), s)
	if err != nil {
		return err
	}

	g, err := img.Create(events)
	if err != nil {
		return err
	}
	hd := io.NewGridHeader(g, flag, con.Average, len(events))

	out, err := os.Create(con.Output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := io.WriteGrid(out, &hd, g); err != nil {
		return err
	}
	log.Printf(
		"Wrote %dx%dx%d grid to %s",
		g.EtaBins, g.PhiBins, g.Channels, con.Output,
	)
	return out.Close()
}
