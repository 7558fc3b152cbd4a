package frame

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
)

func TestChannelHeaderRoundTrip(t *testing.T) {
	golden := []ChannelHeader{
		{ID: 1, W: 0, F: 100},
		{ID: 0x0F10, W: 2, F: 200},
		{ID: 0xFFFF, W: 5, F: 1},
	}
	for _, want := range golden {
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		if err := encodeChannelHeaderBits(bw, want); err != nil {
			t.Fatalf("encodeChannelHeaderBits: %v", err)
		}
		if err := bw.Close(); err != nil {
			t.Fatalf("bw.Close: %v", err)
		}
		br := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		got, err := decodeChannelHeaderBits(br)
		if err != nil {
			t.Fatalf("decodeChannelHeaderBits: %v", err)
		}
		if got != want {
			t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestChannelHeaderInvalidW(t *testing.T) {
	h := ChannelHeader{ID: 1, W: 6, F: 100}
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	if err := encodeChannelHeaderBits(bw, h); err == nil {
		t.Fatal("expected an error for W=6")
	}
}

func TestPayloadLen(t *testing.T) {
	cases := []struct {
		h    ChannelHeader
		want int
	}{
		{ChannelHeader{W: 0, F: 100}, 4 + 50},
		{ChannelHeader{W: 0, F: 101}, 4 + 50},
		{ChannelHeader{W: 1, F: 100}, 4 + 99},
		{ChannelHeader{W: 4, F: 10}, 4 + 36},
		{ChannelHeader{W: 5, F: 10}, 40},
	}
	for _, c := range cases {
		got, err := c.h.payloadLen()
		if err != nil {
			t.Fatalf("payloadLen(%+v): %v", c.h, err)
		}
		if got != c.want {
			t.Errorf("payloadLen(%+v) = %d, want %d", c.h, got, c.want)
		}
	}
}
