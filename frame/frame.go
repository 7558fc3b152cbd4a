// Package frame implements the WIN second-frame codec: the 10-byte
// second-frame header, the 4-byte channel sub-record header, and the
// variable-width (W-coded) sample payload that follows it.
//
// ref: spec.md §4.2, §6.
package frame

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// SecondHeader is the 10-byte header that precedes every second-frame: a
// 32-bit length slot (only the top 24 bits of which carry the byte count,
// per §9) and a 6-byte BCD timestamp (yy mm dd HH MM SS).
type SecondHeader struct {
	// Length is the total byte length of the second-frame, header included.
	Length uint32
	// Time is the wall-clock second this frame covers.
	Time time.Time
}

// SecondFrame is one second's worth of multi-channel WIN data: a header
// followed by the ordered (by arrival, not necessarily by channel id)
// sub-records for every channel present in that second.
type SecondFrame struct {
	Header  SecondHeader
	Records []ChannelRecord
}

// ReadSecondFrame parses exactly one second-frame from r. r must be
// positioned at the start of a second-frame; on success the returned frame's
// declared Length bytes have all been consumed.
func ReadSecondFrame(r io.Reader) (*SecondFrame, error) {
	hdr, err := decodeSecondHeader(r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errutil.Err(err)
	}
	if hdr.Length < secondHeaderSize {
		return nil, fmt.Errorf("%w: second-frame length %d shorter than header", ErrMalformedFrame, hdr.Length)
	}

	body := io.LimitReader(r, int64(hdr.Length)-secondHeaderSize)
	sf := &SecondFrame{Header: *hdr}
	for {
		chHdr, err := readChannelHeader(body)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errutil.Err(err)
		}
		rec, err := DecodeChannelRecord(body, chHdr, hdr.Time)
		if err != nil {
			return nil, errutil.Err(err)
		}
		sf.Records = append(sf.Records, *rec)
	}
	return sf, nil
}

// WriteTo encodes the second-frame, including its header, to w. The header's
// Length field is recomputed from the encoded sub-records rather than trusted
// from sf.Header.Length, guaranteeing Property 3 (frame length consistency).
func (sf *SecondFrame) WriteTo(w io.Writer) (int64, error) {
	var body bytes.Buffer
	for i := range sf.Records {
		if err := sf.Records[i].encode(&body); err != nil {
			return 0, errutil.Err(err)
		}
	}

	total := secondHeaderSize + uint32(body.Len())
	hdr := sf.Header
	hdr.Length = total
	n1, err := encodeSecondHeader(w, hdr)
	if err != nil {
		return int64(n1), errutil.Err(err)
	}
	n2, err := w.Write(body.Bytes())
	if err != nil {
		return int64(n1) + int64(n2), errutil.Err(err)
	}
	return int64(n1) + int64(n2), nil
}

const secondHeaderSize = 10

// readChannelHeader reads the next 4-byte channel sub-record header from r,
// reporting io.EOF once the limited body reader is drained — i.e. once the
// current second-frame is exhausted.
func readChannelHeader(r io.Reader) (ChannelHeader, error) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	if n == 0 && err == io.EOF {
		return ChannelHeader{}, io.EOF
	}
	if err != nil {
		return ChannelHeader{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	br := bitio.NewReader(bytes.NewReader(buf))
	return decodeChannelHeaderBits(br)
}
