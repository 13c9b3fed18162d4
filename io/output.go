package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/jetsml/jetimg/geom"
	"github.com/jetsml/jetimg/raster"
)

var end = binary.LittleEndian

// GridHeader is the fixed-size header at the start of every grid file.
type GridHeader struct {
	Type   TypeInfo
	Bounds BoundsInfo
	Build  BuildInfo
}

type TypeInfo struct {
	Endianness int64
	HeaderSize int64
}

type BoundsInfo struct {
	EtaMin, EtaMax, PhiMin, PhiMax float64
	EtaBins, PhiBins, Channels     int64
}

type BuildInfo struct {
	Strategy StrategyFlag
	Averaged int64
	Events   int64
}

type StrategyFlag int64

const (
	Raw StrategyFlag = iota
	Leading
)

// ParseStrategyFlag returns the flag of a strategy name accepted by
// raster.NewStrategy.
func ParseStrategyFlag(name string) (StrategyFlag, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case raster.RawName:
		return Raw, nil
	case raster.LeadingName:
		return Leading, nil
	}
	return -1, fmt.Errorf("strategy '%s' not recognized", name)
}

// NewGridHeader returns the header describing g.
func NewGridHeader(g *geom.Grid, flag StrategyFlag, averaged bool, events int) GridHeader {
	hd := GridHeader{}
	hd.Type.Endianness = -1
	hd.Type.HeaderSize = int64(binary.Size(hd))

	hd.Bounds = BoundsInfo{
		g.EtaMin, g.EtaMax, g.PhiMin, g.PhiMax,
		int64(g.EtaBins), int64(g.PhiBins), int64(g.Channels),
	}

	hd.Build.Strategy = flag
	if averaged {
		hd.Build.Averaged = 1
	}
	hd.Build.Events = int64(events)
	return hd
}

// GeomBounds converts the header's bounds back to geom.Bounds.
func (hd *GridHeader) GeomBounds() geom.Bounds {
	b := &hd.Bounds
	return geom.Bounds{
		EtaMin: b.EtaMin, EtaMax: b.EtaMax, PhiMin: b.PhiMin, PhiMax: b.PhiMax,
		EtaBins: int(b.EtaBins), PhiBins: int(b.PhiBins),
		Channels: int(b.Channels),
	}
}

// WriteGrid writes hd followed by the values of g.
func WriteGrid(wr io.Writer, hd *GridHeader, g *geom.Grid) error {
	if err := binary.Write(wr, end, hd); err != nil {
		return err
	}
	return binary.Write(wr, end, g.Vals)
}

// ReadGrid reads a grid file written by WriteGrid.
func ReadGrid(rd io.Reader) (*GridHeader, *geom.Grid, error) {
	hd := &GridHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, nil, fmt.Errorf("reading grid header: %w", err)
	}
	if hd.Type.HeaderSize != int64(binary.Size(hd)) {
		return nil, nil, fmt.Errorf(
			"grid header has size %d, expected %d",
			hd.Type.HeaderSize, binary.Size(hd),
		)
	}

	g, err := geom.NewGrid(hd.GeomBounds())
	if err != nil {
		return nil, nil, fmt.Errorf("grid header: %w", err)
	}
	if err := binary.Read(rd, end, g.Vals); err != nil {
		return nil, nil, fmt.Errorf("reading grid values: %w", err)
	}
	return hd, g, nil
}
