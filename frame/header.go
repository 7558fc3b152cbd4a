package frame

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/mewkiz/pkg/errutil"

	iobits "github.com/go-hypomh/win/internal/bits"
	"github.com/go-hypomh/win/units"
)

// decodeSecondHeader reads the 10-byte second-frame header: a 32-bit length
// slot (§9 — only the top 24 bits are trusted; the low byte is always zero in
// anything this package writes) followed by 6 BCD bytes yy mm dd HH MM SS.
func decodeSecondHeader(r io.Reader) (*SecondHeader, error) {
	var raw [secondHeaderSize]byte
	if n, err := io.ReadFull(r, raw[:]); err != nil {
		if err == io.EOF && n == 0 {
			// Clean end-of-stream: return the bare sentinel, unwrapped, so
			// callers can detect it by identity (err == io.EOF).
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated second-frame header", ErrMalformedFrame)
		}
		return nil, errutil.Err(err)
	}

	lengthSlot := binary.BigEndian.Uint32(raw[0:4])
	length := lengthSlot >> 8

	yy, err := iobits.DecodeBCD(raw[4])
	if err != nil {
		return nil, errutil.Err(err)
	}
	mm, err := iobits.DecodeBCD(raw[5])
	if err != nil {
		return nil, errutil.Err(err)
	}
	dd, err := iobits.DecodeBCD(raw[6])
	if err != nil {
		return nil, errutil.Err(err)
	}
	HH, err := iobits.DecodeBCD(raw[7])
	if err != nil {
		return nil, errutil.Err(err)
	}
	MM, err := iobits.DecodeBCD(raw[8])
	if err != nil {
		return nil, errutil.Err(err)
	}
	SS, err := iobits.DecodeBCD(raw[9])
	if err != nil {
		return nil, errutil.Err(err)
	}

	if mm < 1 || mm > 12 {
		return nil, fmt.Errorf("%w: month %d outside [1,12]", ErrOutOfRange, mm)
	}
	if dd < 1 || dd > 31 {
		return nil, fmt.Errorf("%w: day %d outside [1,31]", ErrOutOfRange, dd)
	}
	if HH > 23 {
		return nil, fmt.Errorf("%w: hour %d outside [0,23]", ErrOutOfRange, HH)
	}
	if MM > 59 {
		return nil, fmt.Errorf("%w: minute %d outside [0,59]", ErrOutOfRange, MM)
	}
	if SS > 59 {
		return nil, fmt.Errorf("%w: second %d outside [0,59]", ErrOutOfRange, SS)
	}

	yyyy, err := units.YY2YYYY(int(yy))
	if err != nil {
		return nil, errutil.Err(err)
	}

	return &SecondHeader{
		Length: length,
		Time:   time.Date(yyyy, time.Month(mm), int(dd), int(HH), int(MM), int(SS), 0, time.UTC),
	}, nil
}

// encodeSecondHeader writes the 10-byte second-frame header for hdr, storing
// the full byte length in a 32-bit slot whose low byte is always zero so that
// a reader expecting only the historical 3-byte length field still recovers
// the correct value from the top 24 bits (§9).
func encodeSecondHeader(w io.Writer, hdr SecondHeader) (int, error) {
	if hdr.Length >= 1<<24 {
		return 0, fmt.Errorf("%w: second-frame length %d exceeds 2^24-1 bytes", ErrOutOfRange, hdr.Length)
	}

	var raw [secondHeaderSize]byte
	binary.BigEndian.PutUint32(raw[0:4], hdr.Length<<8)

	t := hdr.Time
	yy := t.Year() % 100
	fields := [6]uint8{
		uint8(yy), uint8(t.Month()), uint8(t.Day()),
		uint8(t.Hour()), uint8(t.Minute()), uint8(t.Second()),
	}
	for i, f := range fields {
		b, err := iobits.EncodeBCD(f)
		if err != nil {
			return 0, errutil.Err(err)
		}
		raw[4+i] = b
	}

	return w.Write(raw[:])
}
