package bits

import (
	"bytes"
	"errors"
	"testing"

	"github.com/icza/bitio"
)

func TestIntN(t *testing.T) {
	golden := []struct {
		x    uint64
		n    uint
		want int64
	}{
		{0b011, 3, 3},
		{0b010, 3, 2},
		{0b001, 3, 1},
		{0b000, 3, 0},
		{0b111, 3, -1},
		{0b110, 3, -2},
		{0b101, 3, -3},
		{0b100, 3, -4},
	}
	for _, g := range golden {
		got := IntN(g.x, g.n)
		if got != g.want {
			t.Errorf("IntN(%#b, %d) = %d, want %d", g.x, g.n, got, g.want)
		}
	}
}

func TestEncodeDecodeUintRoundTrip(t *testing.T) {
	for _, nbits := range []uint{4, 8, 12, 16, 24, 32} {
		max := uint64(1)<<nbits - 1
		for _, v := range []uint64{0, 1, max / 2, max} {
			var buf bytes.Buffer
			bw := bitio.NewWriter(&buf)
			if err := EncodeUint(bw, v, nbits); err != nil {
				t.Fatalf("EncodeUint(%d, %d): %v", v, nbits, err)
			}
			if err := bw.Close(); err != nil {
				t.Fatal(err)
			}
			br := bitio.NewReader(&buf)
			got, err := DecodeUint(br, nbits)
			if err != nil {
				t.Fatalf("DecodeUint: %v", err)
			}
			if got != v {
				t.Errorf("round-trip uint%d(%d) = %d", nbits, v, got)
			}
		}
	}
}

func TestEncodeUintOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	err := EncodeUint(bw, 256, 8)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("EncodeUint(256, 8) error = %v, want ErrOutOfRange", err)
	}
}

func TestEncodeDecodeIntRoundTrip(t *testing.T) {
	for _, nbits := range []uint{4, 8, 12, 16, 24, 32} {
		lo := -(int64(1) << (nbits - 1))
		hi := int64(1)<<(nbits-1) - 1
		for _, v := range []int64{lo, -1, 0, 1, hi} {
			var buf bytes.Buffer
			bw := bitio.NewWriter(&buf)
			if err := EncodeInt(bw, v, nbits); err != nil {
				t.Fatalf("EncodeInt(%d, %d): %v", v, nbits, err)
			}
			if err := bw.Close(); err != nil {
				t.Fatal(err)
			}
			br := bitio.NewReader(&buf)
			got, err := DecodeInt(br, nbits)
			if err != nil {
				t.Fatalf("DecodeInt: %v", err)
			}
			if got != v {
				t.Errorf("round-trip int%d(%d) = %d", nbits, v, got)
			}
		}
	}
}

func TestEncodeIntOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	err := EncodeInt(bw, 128, 8)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("EncodeInt(128, 8) error = %v, want ErrOutOfRange", err)
	}
	err = EncodeInt(bw, -129, 8)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("EncodeInt(-129, 8) error = %v, want ErrOutOfRange", err)
	}
}
