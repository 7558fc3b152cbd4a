package win

import (
	"fmt"
	"time"
)

// Band records a channel's applied bandpass filter range, in Hz.
type Band struct {
	Fmin, Fmax float64
}

// Channel is a single-channel time series: a sample array, an aligned time
// array of equal length, nominal sampling rate, and station/instrument
// metadata.
//
// Invariant: len(Samples) == len(Times); Times are strictly increasing and,
// when Rate > 0, uniformly spaced.
type Channel struct {
	ID         uint16
	Samples    []float64
	Times      []time.Time
	Rate       float64 // Hz
	Meta       Metadata
	Calibrated bool
	Band       *Band
}

// NewChannel constructs a Channel from samples taken at a constant rate
// starting at start, validating the length/time invariants.
func NewChannel(id uint16, samples []float64, start time.Time, rate float64) (*Channel, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %g must be positive", ErrOutOfRange, rate)
	}
	times := make([]time.Time, len(samples))
	step := time.Duration(float64(time.Second) / rate)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step)
	}
	return &Channel{ID: id, Samples: samples, Times: times, Rate: rate}, nil
}

// Len returns the number of samples.
func (c *Channel) Len() int { return len(c.Samples) }

// Copy returns a deep copy of c; no state is shared with the receiver.
func (c *Channel) Copy() *Channel {
	cp := *c
	cp.Samples = append([]float64(nil), c.Samples...)
	cp.Times = append([]time.Time(nil), c.Times...)
	if c.Band != nil {
		b := *c.Band
		cp.Band = &b
	}
	return &cp
}

// Slice returns a new Channel over the half-open sample range [i:j),
// sharing metadata with the receiver but owning its own sample/time arrays.
func (c *Channel) Slice(i, j int) *Channel {
	cp := c.Copy()
	cp.Samples = append([]float64(nil), c.Samples[i:j]...)
	cp.Times = append([]time.Time(nil), c.Times[i:j]...)
	return cp
}

// At returns the sample and time at index i.
func (c *Channel) At(i int) (float64, time.Time) {
	return c.Samples[i], c.Times[i]
}

// Calibrate multiplies every sample by the metadata's calibration factor.
// Idempotent: calling Calibrate on an already-calibrated channel is a no-op.
func (c *Channel) Calibrate() *Channel {
	if c.Calibrated {
		return c
	}
	calib := c.Meta.Calib()
	for i := range c.Samples {
		c.Samples[i] *= calib
	}
	c.Calibrated = true
	return c
}

// Decalibrate divides every sample by the metadata's calibration factor.
// Idempotent: calling Decalibrate on a channel that is not calibrated is a
// no-op.
func (c *Channel) Decalibrate() *Channel {
	if !c.Calibrated {
		return c
	}
	calib := c.Meta.Calib()
	if calib != 0 {
		for i := range c.Samples {
			c.Samples[i] /= calib
		}
	}
	c.Calibrated = false
	return c
}

// ShiftTime translates every timestamp in the channel by d.
func (c *Channel) ShiftTime(d time.Duration) *Channel {
	for i := range c.Times {
		c.Times[i] = c.Times[i].Add(d)
	}
	return c
}

// Trim returns the subsequence of c in [start, end] (includeEnd true) or
// [start, end) (includeEnd false), per spec.md §9's deterministic boundary:
// end comparisons use end + 0.5/Rate rather than a bare "<=" at the exact
// instant.
func (c *Channel) Trim(start, end time.Time, includeEnd bool) (*Channel, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: starttime %v >= endtime %v", ErrTimeRangeEmpty, start, end)
	}
	slack := time.Duration(0)
	if includeEnd && c.Rate > 0 {
		slack = time.Duration(0.5 * float64(time.Second) / c.Rate)
	}
	effectiveEnd := end.Add(slack)

	lo, hi := -1, -1
	for i, t := range c.Times {
		inRange := !t.Before(start) && t.Before(effectiveEnd)
		if inRange {
			if lo == -1 {
				lo = i
			}
			hi = i + 1
		}
	}
	if lo == -1 {
		return nil, fmt.Errorf("%w: trim window [%v,%v] contains no samples", ErrEmptyRange, start, end)
	}
	return c.Slice(lo, hi), nil
}
