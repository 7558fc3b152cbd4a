package frame

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestChannelRecordRoundTrip(t *testing.T) {
	start := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	cases := [][]int32{
		{100},
		{-8, -7, 0, 7, -1, 3},         // fits W=0 (4-bit signed deltas, [-8,7])
		{0, 200, -200, 100, -50},       // needs W=2 (deltas up to -400 exceed 8 bits)
		{0, 40000, -40000, 0},          // needs W=3 (deltas up to -80000 exceed 16 bits)
		{0, 1 << 20, -(1 << 20), 0},    // needs W=3 (24-bit deltas)
		{0, 1 << 30, -(1 << 30), 1},    // needs W=4 (deltas exceed 24-bit range, fit 32 bits)
	}
	for _, samples := range cases {
		w, err := ChooseWidth(samples)
		if err != nil {
			t.Fatalf("ChooseWidth(%v): %v", samples, err)
		}
		hdr := ChannelHeader{ID: 0x0001, W: w, F: uint16(len(samples))}
		rec := &ChannelRecord{Header: hdr, Start: start, Fs: hdr.F, Samples: samples}

		var buf bytes.Buffer
		if err := rec.encode(&buf); err != nil {
			t.Fatalf("encode(samples=%v, W=%d): %v", samples, w, err)
		}

		br := bytes.NewReader(buf.Bytes())
		gotHdr, err := readChannelHeader(br)
		if err != nil {
			t.Fatalf("readChannelHeader: %v", err)
		}
		if gotHdr != hdr {
			t.Fatalf("header mismatch: got %+v, want %+v", gotHdr, hdr)
		}
		got, err := DecodeChannelRecord(br, gotHdr, start)
		if err != nil {
			t.Fatalf("DecodeChannelRecord(samples=%v, W=%d): %v", samples, w, err)
		}
		if len(got.Samples) != len(samples) {
			t.Fatalf("sample count mismatch: got %d, want %d", len(got.Samples), len(samples))
		}
		for i, s := range samples {
			if got.Samples[i] != s {
				t.Errorf("sample %d: got %d, want %d (W=%d)", i, got.Samples[i], s, w)
			}
		}
		if len(got.Times) != len(samples) {
			t.Fatalf("times count mismatch: got %d, want %d", len(got.Times), len(samples))
		}
		if !got.Times[0].Equal(start) {
			t.Errorf("Times[0] = %v, want %v", got.Times[0], start)
		}
	}
}

func TestChooseWidthPicksSmallest(t *testing.T) {
	golden := []struct {
		samples []int32
		want    uint8
	}{
		{[]int32{0, 7, -1, 0}, 0},
		{[]int32{0, 127, -1}, 1},
		{[]int32{0, 32767, -1}, 2},
		{[]int32{-(1 << 31), 1<<31 - 1}, 5},
	}
	for _, g := range golden {
		got, err := ChooseWidth(g.samples)
		if err != nil {
			t.Fatalf("ChooseWidth(%v): %v", g.samples, err)
		}
		if got != g.want {
			t.Errorf("ChooseWidth(%v) = %d, want %d", g.samples, got, g.want)
		}
	}
}

func TestDecodeChannelRecordCumulativeOverflow(t *testing.T) {
	start := time.Now().UTC()
	hdr := ChannelHeader{ID: 1, W: 4, F: 3}
	rec := &ChannelRecord{Header: hdr, Start: start, Fs: hdr.F, Samples: []int32{1 << 30, 0, 0}}
	var buf bytes.Buffer
	if err := rec.encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	// A record built by encode stays in range and decodes cleanly.
	br := bytes.NewReader(buf.Bytes())
	gotHdr, err := readChannelHeader(br)
	if err != nil {
		t.Fatalf("readChannelHeader: %v", err)
	}
	if _, err := DecodeChannelRecord(br, gotHdr, start); err != nil {
		t.Fatalf("unexpected error for in-range record: %v", err)
	}

	// Two deltas of +2^30 on top of a first sample of 2^30 overflow the
	// signed 32-bit accumulator even though each individual delta fits in a
	// 32-bit slot (W=4 stores deltas as 32-bit signed values). encode cannot
	// produce such a payload, so it is written out by hand.
	payload := []byte{0x40, 0, 0, 0, 0x40, 0, 0, 0, 0x40, 0, 0, 0}
	if _, err := DecodeChannelRecord(bytes.NewReader(payload), hdr, start); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for an overflowing cumulative sum, got %v", err)
	}
}

func TestDecodeChannelRecordMalformedShortPayload(t *testing.T) {
	hdr := ChannelHeader{ID: 1, W: 1, F: 10}
	if _, err := DecodeChannelRecord(bytes.NewReader(nil), hdr, time.Now().UTC()); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecodeChannelRecordZeroRate(t *testing.T) {
	hdr := ChannelHeader{ID: 1, W: 1, F: 0}
	got, err := DecodeChannelRecord(bytes.NewReader(nil), hdr, time.Now().UTC())
	if err != nil {
		t.Fatalf("DecodeChannelRecord: %v", err)
	}
	if len(got.Samples) != 0 {
		t.Errorf("expected no samples for F=0, got %d", len(got.Samples))
	}
}
