package win

import (
	"math"

	"github.com/golang/geo/s2"
)

// Metadata carries the per-channel station/instrument bookkeeping fields
// bound from a channel table (spec.md §3, §4.4).
type Metadata struct {
	// Station is the station code (≤10 chars).
	Station string
	// Component is the component code (≤6 chars), e.g. "U", "N", "E".
	Component string
	// LatLng is the station's geographic position.
	LatLng s2.LatLng
	// ElevationM is the station elevation in meters.
	ElevationM float64
	// PCorrection and SCorrection are the P/S travel-time corrections.
	PCorrection float64
	SCorrection float64
	// Sensitivity is the sensor sensitivity.
	Sensitivity float64
	// ADGainDB is the A/D gain in decibels.
	ADGainDB float64
	// ADBitStep is the A/D bit step.
	ADBitStep float64
	// Unit is the physical unit string carried by samples once calibrated,
	// e.g. "m/s".
	Unit string

	// Channel-table bookkeeping fields, carried through unchanged for
	// round-tripping but not otherwise interpreted by this package.
	Flag          string
	DelayTime     float64
	MonitorSize   float64
	ADBitSize     float64
	NaturalPeriod float64
	Damping       float64
	Note          string
}

// Calib returns the calibration factor that converts raw counts to
// Unit-scaled physical values.
//
// calib = (1/sensitivity) · ad_bit_step · 10^(-ad_gain/20)
func (m Metadata) Calib() float64 {
	if m.Sensitivity == 0 {
		return 0
	}
	return (1 / m.Sensitivity) * m.ADBitStep * math.Pow(10, -m.ADGainDB/20)
}
