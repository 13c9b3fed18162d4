package io

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"

	"github.com/jetsml/jetimg/event"
	"github.com/jetsml/jetimg/geom"
	"github.com/jetsml/jetimg/raster"
)

const (
	ExampleExtractFile = `[Extract]

#######################
# Required Parameters #
#######################

# HepMC2 IO_GenEvent ASCII file containing the generated events. HepMC3
# files are not supported.
Input = path/to/events.hepmc
# Text table which one row per event will be written to.
Output = path/to/events.txt

#######################
# Optional Parameters #
#######################

# Number of particles stored per event. Events with fewer final-state
# particles are padded with zeros, events with more keep only the
# MaxParticles particles with the largest pT. Default is 50.
# MaxParticles = 50

# Status code of the particles which the final-state search starts from.
# Default is 23, the outgoing partons of the hard process.
# SeedStatus = 23

# Only keep charged final-state particles. Default is true.
# ChargedOnly = true

# Stop after this many events. Default is to read the whole file.
# MaxEvents = 1000

# LogFile = log.out`
	ExampleImageFile = `[Image]

#######################
# Required Parameters #
#######################

# Table written by [Extract] mode.
Input = path/to/events.txt
# Binary grid file the image will be written to.
Output = path/to/image.grid

# How particles are placed on the grid. One of:
# [ Leading | Raw ]
# Leading places particles relative to the leading particle of each event and
# normalizes pT by the leading pT. Raw uses the particles' own coordinates and
# pT.
Strategy = Leading

EtaBins = 15
PhiBins = 15

#######################
# Optional Parameters #
#######################

# Grid extent. Defaults are [-5, 5] in eta and [-pi, pi] in phi.
# EtaMin = -5
# EtaMax = 5
# PhiMin = -3.141592653589793
# PhiMax = 3.141592653589793

# Average over every event in Input. If false, only Event is rendered.
# Default is true.
# Average = true
# Event = 0

# Must match the value used in [Extract] mode. Default is 50.
# MaxParticles = 50

# LogFile = log.out`
)

type ExtractConfig struct {
	// Required
	Input, Output string

	// Optional
	MaxParticles, SeedStatus, MaxEvents int
	ChargedOnly                         bool
	LogFile                             string
}

func DefaultExtractWrapper() *ExtractWrapper {
	con := ExtractConfig{}
	con.MaxParticles = 50
	con.SeedStatus = event.StatusHardOutgoing
	con.MaxEvents = -1
	con.ChargedOnly = true
	return &ExtractWrapper{con}
}

func (con *ExtractConfig) ValidInput() bool        { return con.Input != "" }
func (con *ExtractConfig) ValidOutput() bool       { return con.Output != "" }
func (con *ExtractConfig) ValidMaxParticles() bool { return con.MaxParticles > 0 }
func (con *ExtractConfig) ValidLogFile() bool      { return con.LogFile != "" }

// CheckInit returns a descriptive error for the first invalid field.
func (con *ExtractConfig) CheckInit() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidMaxParticles():
		return fmt.Errorf(
			"'MaxParticles' must be positive, but is %d.", con.MaxParticles,
		)
	}
	return nil
}

type ImageConfig struct {
	// Required
	Input, Output    string
	Strategy         string
	EtaBins, PhiBins int

	// Optional
	EtaMin, EtaMax, PhiMin, PhiMax float64
	Average                        bool
	Event, MaxParticles            int
	LogFile                        string
}

func DefaultImageWrapper() *ImageWrapper {
	con := ImageConfig{}
	con.EtaMin, con.EtaMax = -5, 5
	con.PhiMin, con.PhiMax = -math.Pi, math.Pi
	con.Average = true
	con.MaxParticles = 50
	return &ImageWrapper{con}
}

func (con *ImageConfig) ValidInput() bool        { return con.Input != "" }
func (con *ImageConfig) ValidOutput() bool       { return con.Output != "" }
func (con *ImageConfig) ValidEvent() bool        { return con.Event >= 0 }
func (con *ImageConfig) ValidMaxParticles() bool { return con.MaxParticles > 0 }
func (con *ImageConfig) ValidLogFile() bool      { return con.LogFile != "" }

func (con *ImageConfig) ValidStrategy() bool {
	_, err := raster.NewStrategy(con.Strategy, false, 1, nil)
	return err == nil
}

// Bounds returns the grid bounds described by the config.
func (con *ImageConfig) Bounds() geom.Bounds {
	return geom.Bounds{
		EtaMin: con.EtaMin, EtaMax: con.EtaMax,
		PhiMin: con.PhiMin, PhiMax: con.PhiMax,
		EtaBins: con.EtaBins, PhiBins: con.PhiBins,
		Channels: raster.Channels,
	}
}

// CheckInit returns a descriptive error for the first invalid field.
func (con *ImageConfig) CheckInit() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidStrategy():
		return fmt.Errorf(
			"'Strategy' must be one of [Leading | Raw], but is '%s'.",
			con.Strategy,
		)
	case !con.ValidEvent():
		return fmt.Errorf("'Event' must be non-negative, but is %d.", con.Event)
	case !con.ValidMaxParticles():
		return fmt.Errorf(
			"'MaxParticles' must be positive, but is %d.", con.MaxParticles,
		)
	}

	b := con.Bounds()
	if err := b.Check(); err != nil {
		return fmt.Errorf("Invalid grid: %s.", err.Error())
	}
	return nil
}

type ExtractWrapper struct {
	Extract ExtractConfig
}

type ImageWrapper struct {
	Image ImageConfig
}

// ReadExtractConfig reads and checks an [Extract] config file.
func ReadExtractConfig(fname string) (*ExtractConfig, error) {
	wrap := DefaultExtractWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Extract.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Extract, nil
}

// ReadImageConfig reads and checks an [Image] config file.
func ReadImageConfig(fname string) (*ImageConfig, error) {
	wrap := DefaultImageWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Image.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Image, nil
}
