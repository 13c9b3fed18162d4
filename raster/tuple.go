// Package raster turns lists of particle kinematics into images on a
// geom.Grid.
package raster

import (
	"fmt"
	"math"
)

// TupleFields is the number of values stored per particle in a flat row.
const TupleFields = 4

// Tuple is the kinematic summary of a single particle.
type Tuple struct {
	Pt, Eta, Phi float64
	PID          int
}

// StrideError is returned when a flat row cannot be split into tuples.
type StrideError struct {
	Len int
}

func (err *StrideError) Error() string {
	return fmt.Sprintf(
		"row with %d values is not a multiple of %d particle fields",
		err.Len, TupleFields,
	)
}

// FromFlat splits a flat (pt, eta, phi, pid, pt, ...) row into tuples.
// Zero-padded entries, which have pt == 0, are dropped.
func FromFlat(vals []float64) ([]Tuple, error) {
	if len(vals)%TupleFields != 0 {
		return nil, &StrideError{len(vals)}
	}

	ts := make([]Tuple, 0, len(vals)/TupleFields)
	for i := 0; i < len(vals); i += TupleFields {
		if vals[i] == 0 {
			continue
		}
		ts = append(ts, Tuple{
			Pt: vals[i], Eta: vals[i+1], Phi: vals[i+2],
			PID: int(math.Round(vals[i+3])),
		})
	}
	return ts, nil
}

// Flatten is the inverse of FromFlat. The output is zero-padded to n
// particles; tuples past n are dropped.
func Flatten(ts []Tuple, n int) []float64 {
	out := make([]float64, n*TupleFields)
	for i := 0; i < n && i < len(ts); i++ {
		j := i * TupleFields
		out[j], out[j+1], out[j+2] = ts[i].Pt, ts[i].Eta, ts[i].Phi
		out[j+3] = float64(ts[i].PID)
	}
	return out
}

// DeltaPhi returns a - b wrapped into [-pi, pi). Non-finite input gives
// NaN.
func DeltaPhi(a, b float64) float64 {
	d := a - b
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return math.NaN()
	}
	// Remainder gives [-pi, pi]; the loop only moves the upper edge.
	d = math.Remainder(d, 2*math.Pi)
	for d >= math.Pi || d < -math.Pi {
		if d >= math.Pi {
			d -= 2 * math.Pi
		} else {
			d += 2 * math.Pi
		}
	}
	return d
}
