package win

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/go-hypomh/win/units"
)

// Demean subtracts the arithmetic mean of the samples from every sample.
func (c *Channel) Demean() *Channel {
	mean := stat.Mean(c.Samples, nil)
	for i := range c.Samples {
		c.Samples[i] -= mean
	}
	return c
}

// Detrend removes the best-fit line (ordinary least squares over uniformly
// spaced samples) from the channel. Fails with ErrNonUniformRate on
// non-uniform spacing rather than guessing at a model, per spec.md §9's
// open question.
func (c *Channel) Detrend() (*Channel, error) {
	if err := c.checkUniform(); err != nil {
		return nil, err
	}
	x := make([]float64, c.Len())
	for i := range x {
		x[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(x, c.Samples, nil, false)
	for i := range c.Samples {
		c.Samples[i] -= alpha + beta*x[i]
	}
	return c, nil
}

// checkUniform fails with ErrNonUniformRate unless consecutive timestamps
// are spaced by a constant interval.
func (c *Channel) checkUniform() error {
	if c.Len() < 3 {
		return nil
	}
	want := c.Times[1].Sub(c.Times[0])
	for i := 1; i < c.Len()-1; i++ {
		got := c.Times[i+1].Sub(c.Times[i])
		if got != want {
			return fmt.Errorf("%w: sample spacing %v at index %d, expected %v", ErrNonUniformRate, got, i, want)
		}
	}
	return nil
}

// Gradient replaces samples with their discrete time derivative (divided by
// dt) and updates the channel's unit by appending "/s".
func (c *Channel) Gradient() *Channel {
	if c.Len() < 2 {
		return c
	}
	dt := 1 / c.Rate
	out := make([]float64, c.Len())
	out[0] = (c.Samples[1] - c.Samples[0]) / dt
	for i := 1; i < c.Len()-1; i++ {
		out[i] = (c.Samples[i+1] - c.Samples[i-1]) / (2 * dt)
	}
	out[c.Len()-1] = (c.Samples[c.Len()-1] - c.Samples[c.Len()-2]) / dt
	c.Samples = out
	c.Meta.Unit = units.Differentiate(c.Meta.Unit)
	return c
}

// Cumsum integrates samples over time using the trapezoidal rule and
// updates the channel's unit accordingly (removing a trailing "/s", or
// appending "*s").
func (c *Channel) Cumsum() *Channel {
	if c.Len() == 0 {
		return c
	}
	dt := 1 / c.Rate
	out := make([]float64, c.Len())
	acc := 0.0
	for i := 1; i < c.Len(); i++ {
		acc += dt * (c.Samples[i] + c.Samples[i-1]) / 2
		out[i] = acc
	}
	c.Samples = out
	c.Meta.Unit = units.Integrate(c.Meta.Unit)
	return c
}

// Integrate is an alias for Cumsum, matching the naming used by spec.md
// §4.3 ("cumsum / integrate").
func (c *Channel) Integrate() *Channel { return c.Cumsum() }

// biquad is a single second-order IIR section in direct-form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (bq *biquad) reset() { bq.z1, bq.z2 = 0, 0 }

func (bq *biquad) step(x float64) float64 {
	y := bq.b0*x + bq.z1
	bq.z1 = bq.b1*x - bq.a1*y + bq.z2
	bq.z2 = bq.b2*x - bq.a2*y
	return y
}

// bandpassBiquad designs an RBJ-style constant-skirt-gain bandpass biquad
// centered at f0 with the given Q, at sample rate fs.
func bandpassBiquad(f0, q, fs float64) biquad {
	w0 := 2 * math.Pi * f0 / fs
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	return biquad{
		b0: b0 / a0, b1: b1 / a0, b2: b2 / a0,
		a1: a1 / a0, a2: a2 / a0,
	}
}

func runBiquad(bq biquad, in []float64) []float64 {
	bq.reset()
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = bq.step(x)
	}
	return out
}

func reversed(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// Bandpass applies a zero-phase (forward-reverse) Butterworth-derived
// bandpass filter over [fmin,fmax], built from order cascaded biquad
// sections, clamping fmax to the Nyquist frequency.
func (c *Channel) Bandpass(fmin, fmax float64, order int) (*Channel, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: filter order %d must be >= 1", ErrOutOfRange, order)
	}
	nyquist := c.Rate / 2
	if fmax > nyquist {
		fmax = nyquist
	}
	if fmin <= 0 || fmax <= fmin {
		return nil, fmt.Errorf("%w: invalid band [%g,%g]", ErrOutOfRange, fmin, fmax)
	}

	f0 := math.Sqrt(fmin * fmax)
	bw := fmax - fmin
	q := f0 / bw

	data := c.Samples
	for i := 0; i < order; i++ {
		bq := bandpassBiquad(f0, q, c.Rate)
		data = runBiquad(bq, data)
		data = reversed(data)
		data = runBiquad(bq, data)
		data = reversed(data)
	}
	c.Samples = data
	c.Band = &Band{Fmin: fmin, Fmax: fmax}
	return c, nil
}

// Taper applies a Hann window to the leading and trailing ratio fraction of
// the channel (ratio in (0, 0.5]).
func (c *Channel) Taper(ratio float64) *Channel {
	n := c.Len()
	if n == 0 || ratio <= 0 {
		return c
	}
	taperLen := int(ratio * float64(n))
	if taperLen < 1 {
		return c
	}
	for i := 0; i < taperLen; i++ {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(taperLen)))
		c.Samples[i] *= w
		c.Samples[n-1-i] *= w
	}
	return c
}

// Decimate downsamples the channel to newFs by applying an anti-alias
// low-pass filter (a bandpass from 0.001·Rate up to 0.45·newFs, just below
// the new Nyquist frequency) and then selecting every ratio-th sample. newFs must evenly divide Rate.
func (c *Channel) Decimate(newFs float64) (*Channel, error) {
	if newFs <= 0 || newFs > c.Rate {
		return nil, fmt.Errorf("%w: target rate %g invalid for source rate %g", ErrOutOfRange, newFs, c.Rate)
	}
	ratio := c.Rate / newFs
	if ratio != math.Trunc(ratio) {
		return nil, fmt.Errorf("%w: rate %g is not an integer multiple of target %g", ErrOutOfRange, c.Rate, newFs)
	}
	r := int(ratio)

	filtered, err := c.Copy().Bandpass(0.001*c.Rate, 0.45*newFs, 4)
	if err != nil {
		return nil, err
	}

	out := &Channel{
		ID:         c.ID,
		Meta:       c.Meta,
		Calibrated: c.Calibrated,
		Rate:       newFs,
	}
	for i := 0; i < filtered.Len(); i += r {
		out.Samples = append(out.Samples, filtered.Samples[i])
		out.Times = append(out.Times, filtered.Times[i])
	}
	return out, nil
}
