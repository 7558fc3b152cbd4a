package frame

import (
	"fmt"
	"io"
	"time"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	iobits "github.com/go-hypomh/win/internal/bits"
)

// ChannelRecord is one channel's fully decoded sub-record for a single
// second: its header, the F reconstructed samples, and their per-sample
// timestamps (starttime + i/F, per §4.2).
type ChannelRecord struct {
	Header ChannelHeader
	Start  time.Time
	Fs     uint16
	Samples []int32
	Times   []time.Time
}

// bitWidth returns the number of bits used per delta/absolute value for a
// given sample-size code, per §4.2.
func bitWidth(w uint8) uint {
	if w == 0 {
		return 4
	}
	return uint(w) * 8
}

// DecodeChannelRecord reads the sample payload that follows hdr (hdr itself
// has already been consumed from r) and reconstructs the channel's samples
// for the given second, using an int64 accumulator so a cumulative sum of
// first differences cannot silently wrap (§9 cumulative-sum overflow note).
func DecodeChannelRecord(r io.Reader, hdr ChannelHeader, secondStart time.Time) (*ChannelRecord, error) {
	payloadLen, err := hdr.payloadLen()
	if err != nil {
		return nil, errutil.Err(err)
	}
	if hdr.F == 0 {
		return &ChannelRecord{Header: hdr, Start: secondStart, Fs: hdr.F}, nil
	}
	buf := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: channel 0x%04X: %v", ErrMalformedFrame, hdr.ID, err)
	}
	br := bitio.NewReader(byteReader(buf))

	first, err := iobits.DecodeInt(br, 32)
	if err != nil {
		return nil, errutil.Err(err)
	}

	samples := make([]int32, hdr.F)
	samples[0] = int32(first)

	if hdr.W == 5 {
		for i := 1; i < int(hdr.F); i++ {
			v, err := iobits.DecodeInt(br, 32)
			if err != nil {
				return nil, errutil.Err(err)
			}
			samples[i] = int32(v)
		}
	} else {
		acc := first
		width := bitWidth(hdr.W)
		for i := 1; i < int(hdr.F); i++ {
			delta, err := iobits.DecodeInt(br, width)
			if err != nil {
				return nil, errutil.Err(err)
			}
			acc += delta
			if acc > int64(1)<<31-1 || acc < -(int64(1)<<31) {
				return nil, fmt.Errorf("%w: channel 0x%04X cumulative sum overflows 32 bits", ErrOutOfRange, hdr.ID)
			}
			samples[i] = int32(acc)
		}
	}

	times := make([]time.Time, hdr.F)
	step := time.Duration(float64(time.Second) / float64(hdr.F))
	for i := range times {
		times[i] = secondStart.Add(time.Duration(i) * step)
	}

	return &ChannelRecord{
		Header:  hdr,
		Start:   secondStart,
		Fs:      hdr.F,
		Samples: samples,
		Times:   times,
	}, nil
}

// encode writes the channel header and encoded samples (per rec.Header.W) to
// w, using the smallest-satisfying-rule width already recorded in the
// header.
func (rec *ChannelRecord) encode(w io.Writer) error {
	if err := writeChannelHeader(w, rec.Header); err != nil {
		return errutil.Err(err)
	}
	if len(rec.Samples) == 0 {
		return nil
	}

	bw := bitio.NewWriter(w)
	if err := iobits.EncodeInt(bw, int64(rec.Samples[0]), 32); err != nil {
		return errutil.Err(err)
	}

	if rec.Header.W == 5 {
		for _, s := range rec.Samples[1:] {
			if err := iobits.EncodeInt(bw, int64(s), 32); err != nil {
				return errutil.Err(err)
			}
		}
	} else {
		width := bitWidth(rec.Header.W)
		prev := int64(rec.Samples[0])
		for _, s := range rec.Samples[1:] {
			delta := int64(s) - prev
			if err := iobits.EncodeInt(bw, delta, width); err != nil {
				return fmt.Errorf("%w: channel 0x%04X: %v", ErrInsufficientWidth, rec.Header.ID, err)
			}
			prev = int64(s)
		}
	}
	return bw.Close()
}

// ChooseWidth picks the smallest sample-size code W that can represent
// samples as a first-difference stream, falling back to W=5 (absolute
// 32-bit values) when even the widest difference code does not fit.
//
// ref: spec.md §4.2 "Encoding (the hard part)", step 3/4.
func ChooseWidth(samples []int32) (uint8, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	// First sample must fit in signed 32 bits; int32 already guarantees this.

	for _, w := range []uint8{0, 1, 2, 3, 4} {
		if fitsWidth(samples, w) {
			return w, nil
		}
	}
	// W=5: every sample (not a delta) must fit in signed 32 bits, which
	// int32 already guarantees.
	return 5, nil
}

func fitsWidth(samples []int32, w uint8) bool {
	width := bitWidth(w)
	lo := -(int64(1) << (width - 1))
	hi := int64(1)<<(width-1) - 1
	prev := int64(samples[0])
	for _, s := range samples[1:] {
		delta := int64(s) - prev
		if delta < lo || delta > hi {
			return false
		}
		prev = int64(s)
	}
	return true
}

// byteReader adapts a []byte to an io.Reader without allocating a
// *bytes.Reader at each call site (bitio.NewReader only needs io.ByteReader
// semantics internally).
type byteReaderImpl struct {
	buf []byte
	pos int
}

func (r *byteReaderImpl) Read(p []byte) (int, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}

func byteReader(buf []byte) io.Reader {
	return &byteReaderImpl{buf: buf}
}
