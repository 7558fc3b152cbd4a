package win

import (
	"fmt"
	"math"
	"time"

	"github.com/go-hypomh/win/frame"
)

// BoundaryPolicy selects how ToWinBits resolves a channel's leading and
// trailing partial seconds, per spec.md §4.2 "Encoding (the hard part)".
type BoundaryPolicy int

const (
	// BoundaryCut drops leading and trailing partial seconds.
	BoundaryCut BoundaryPolicy = iota
	// BoundaryPad extends partial seconds with a repeat of the nearest
	// sample.
	BoundaryPad
	// BoundaryZeroPad extends partial seconds with zero samples.
	BoundaryZeroPad
)

type secondBucket struct {
	start   time.Time
	samples []int32
}

// toRawSamples converts the channel's samples to signed 32-bit counts,
// scaling floating-point (calibrated) samples by max(|sample|)/0xFF and
// returning the scale used (step 1 of spec.md §4.2's encoding algorithm).
func (c *Channel) toRawSamples() ([]int32, float64) {
	if !c.Calibrated {
		raw := make([]int32, len(c.Samples))
		for i, s := range c.Samples {
			raw[i] = int32(math.Round(s))
		}
		return raw, c.Meta.ADBitStep
	}

	maxAbs := 0.0
	for _, s := range c.Samples {
		if a := math.Abs(s); a > maxAbs {
			maxAbs = a
		}
	}
	scale := maxAbs / 0xFF
	if scale == 0 {
		scale = 1
	}
	raw := make([]int32, len(c.Samples))
	for i, s := range c.Samples {
		raw[i] = int32(math.Round(s / scale))
	}
	return raw, scale
}

func bucketBySecond(raw []int32, times []time.Time) []secondBucket {
	var buckets []secondBucket
	for i, t := range times {
		sec := t.Truncate(time.Second)
		if len(buckets) == 0 || !buckets[len(buckets)-1].start.Equal(sec) {
			buckets = append(buckets, secondBucket{start: sec})
		}
		last := &buckets[len(buckets)-1]
		last.samples = append(last.samples, raw[i])
	}
	return buckets
}

func applyBoundary(buckets []secondBucket, nominal int, policy BoundaryPolicy) []secondBucket {
	if len(buckets) == 0 || nominal <= 0 {
		return buckets
	}
	switch policy {
	case BoundaryCut:
		if len(buckets[0].samples) < nominal {
			buckets = buckets[1:]
		}
		if len(buckets) > 0 && len(buckets[len(buckets)-1].samples) < nominal {
			buckets = buckets[:len(buckets)-1]
		}
	case BoundaryPad:
		padFront(&buckets[0], nominal, buckets[0].samples[0])
		padBack(&buckets[len(buckets)-1], nominal, buckets[len(buckets)-1].samples[len(buckets[len(buckets)-1].samples)-1])
	case BoundaryZeroPad:
		padFront(&buckets[0], nominal, 0)
		padBack(&buckets[len(buckets)-1], nominal, 0)
	}
	return buckets
}

func padFront(b *secondBucket, nominal int, value int32) {
	missing := nominal - len(b.samples)
	if missing <= 0 {
		return
	}
	pad := make([]int32, missing)
	for i := range pad {
		pad[i] = value
	}
	b.samples = append(pad, b.samples...)
}

func padBack(b *secondBucket, nominal int, value int32) {
	missing := nominal - len(b.samples)
	if missing <= 0 {
		return
	}
	for i := 0; i < missing; i++ {
		b.samples = append(b.samples, value)
	}
}

// ToWinBits produces the per-second WIN frames for the channel, applying
// the given boundary policy to partial leading/trailing seconds.
//
// ref: spec.md §4.2, §4.3 "to_win_bits(sample_size?, boundary)".
func (c *Channel) ToWinBits(boundary BoundaryPolicy) ([]*frame.SecondFrame, error) {
	return c.toWinBits(0, boundary)
}

// ToWinBitsWidth is ToWinBits with an explicit sample-size override; it
// fails with ErrInsufficientWidth when w cannot represent the data.
func (c *Channel) ToWinBitsWidth(w uint8, boundary BoundaryPolicy) ([]*frame.SecondFrame, error) {
	return c.toWinBits(w+1, boundary)
}

// widthOverride is w+1 so the zero value means "no override"; 0 is itself a
// valid width code.
func (c *Channel) toWinBits(widthOverride uint8, boundary BoundaryPolicy) ([]*frame.SecondFrame, error) {
	if c.Len() == 0 {
		return nil, nil
	}
	raw, scale := c.toRawSamples()
	if c.Calibrated {
		// spec.md §4.2 encoding step 1: remember the float->int scale used
		// so physical units can be recovered from the written raw counts.
		c.Meta.ADBitStep = scale
	}
	nominal := int(math.Round(c.Rate))
	buckets := applyBoundary(bucketBySecond(raw, c.Times), nominal, boundary)

	frames := make([]*frame.SecondFrame, 0, len(buckets))
	for _, b := range buckets {
		var w uint8
		if widthOverride == 0 {
			chosen, err := frame.ChooseWidth(b.samples)
			if err != nil {
				return nil, err
			}
			w = chosen
		} else {
			w = widthOverride - 1
		}

		hdr := frame.ChannelHeader{ID: c.ID, W: w, F: uint16(len(b.samples))}
		rec := frame.ChannelRecord{Header: hdr, Start: b.start, Fs: hdr.F, Samples: b.samples}

		sf := &frame.SecondFrame{
			Header:  frame.SecondHeader{Time: b.start},
			Records: []frame.ChannelRecord{rec},
		}
		frames = append(frames, sf)
	}
	return frames, nil
}

// channelFromRecords rebuilds a Channel's samples/times from a contiguous
// run of per-second channel records already filtered down to one channel id.
// Consecutive seconds must differ by exactly 1 second (spec.md §4.2
// "Merging").
func channelFromRecords(id uint16, recs []frame.ChannelRecord) (*Channel, error) {
	if len(recs) == 0 {
		return &Channel{ID: id}, nil
	}
	var prevSecond time.Time
	c := &Channel{ID: id, Rate: float64(recs[0].Fs)}
	for i, rec := range recs {
		if i > 0 {
			if rec.Start.Sub(prevSecond) != time.Second {
				return nil, fmt.Errorf("%w: channel 0x%04X: second at %v does not follow %v by exactly 1s", ErrMalformedFrame, id, rec.Start, prevSecond)
			}
		}
		prevSecond = rec.Start
		for i, s := range rec.Samples {
			c.Samples = append(c.Samples, float64(s))
			c.Times = append(c.Times, rec.Times[i])
		}
	}
	return c, nil
}
