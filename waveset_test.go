package win

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-hypomh/win/frame"
)

// TestScenario2MultiChannelWidths follows spec.md §8 Scenario 2: three
// channels at 100 Hz whose deltas force W=0,1,3 respectively are written to
// one file and read back, and the width recorded for each channel is
// checked.
func TestScenario2MultiChannelWidths(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	const fs = 100

	narrow := make([]float64, fs) // fits W=0 (4-bit deltas, range [-8,7])
	for i := range narrow {
		if i%2 == 0 {
			narrow[i] = 0
		} else {
			narrow[i] = 5
		}
	}
	medium := make([]float64, fs) // fits W=1 (8-bit deltas)
	for i := range medium {
		medium[i] = float64((i % 2) * 100)
	}
	wide := make([]float64, fs) // needs W=3 (24-bit deltas)
	for i := range wide {
		if i%2 == 0 {
			wide[i] = 0
		} else {
			wide[i] = 1 << 20
		}
	}

	ws := NewWaveSet()
	c1 := mustChannel(t, narrow, start, fs)
	c1.ID = 0x0001
	c2 := mustChannel(t, medium, start, fs)
	c2.ID = 0x0002
	c3 := mustChannel(t, wide, start, fs)
	c3.ID = 0x0003
	for _, c := range []*Channel{c1, c2, c3} {
		if err := ws.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	tmp, err := os.CreateTemp(t.TempDir(), "scenario2-*.win")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	tmp.Close()

	if err := ws.Write(tmp.Name(), BoundaryCut); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(context.Background(), []string{tmp.Name()})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("read back %d channels, want 3", got.Len())
	}
	if w, _ := frameWidthOf(t, tmp.Name(), 0x0001); w != 0 {
		t.Errorf("channel 0x0001: W = %d, want 0", w)
	}
	if w, _ := frameWidthOf(t, tmp.Name(), 0x0002); w != 1 {
		t.Errorf("channel 0x0002: W = %d, want 1", w)
	}
	if w, _ := frameWidthOf(t, tmp.Name(), 0x0003); w != 3 {
		t.Errorf("channel 0x0003: W = %d, want 3", w)
	}
}

// frameWidthOf re-reads the written file and returns the chosen W for the
// given channel id in its first second-frame.
func frameWidthOf(t *testing.T, path string, id uint16) (uint8, bool) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	r := frame.NewReader(f)
	frames, err := r.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	for _, sf := range frames {
		for _, rec := range sf.Records {
			if rec.Header.ID == id {
				return rec.Header.W, true
			}
		}
	}
	return 0, false
}

func TestAddDuplicateChannel(t *testing.T) {
	ws := NewWaveSet()
	c := mustChannel(t, []float64{1, 2, 3}, time.Now().UTC(), 1)
	c.ID = 0x0001
	if err := ws.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ws.Add(c); err == nil {
		t.Fatal("expected ErrDuplicateChannel on second Add")
	}
}

func TestGetHexLookup(t *testing.T) {
	ws := NewWaveSet()
	c := mustChannel(t, []float64{1}, time.Now().UTC(), 1)
	c.ID = 0x0010
	if err := ws.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, hex := range []string{"0010", "0x0010", "0X0010", "0010"} {
		got, err := ws.GetHex(hex)
		if err != nil {
			t.Fatalf("GetHex(%q): %v", hex, err)
		}
		if got != c {
			t.Errorf("GetHex(%q) = %v, want channel 0x0010", hex, got)
		}
	}

	if got, err := ws.GetHex("0020"); err != nil || got != nil {
		t.Errorf("GetHex(0020) = %v, %v, want nil, nil", got, err)
	}
	if _, err := ws.GetHex("zzzz"); err == nil {
		t.Fatal("expected error for non-hex id")
	}
}

func TestGetIDsLookup(t *testing.T) {
	ws := NewWaveSet()
	var channels []*Channel
	for _, id := range []uint16{0x0001, 0x0002, 0x0003} {
		c := mustChannel(t, []float64{1}, time.Now().UTC(), 1)
		c.ID = id
		if err := ws.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
		channels = append(channels, c)
	}

	got := ws.GetIDs([]uint16{0x0003, 0x0001, 0x0099})
	if len(got) != 2 {
		t.Fatalf("GetIDs returned %d channels, want 2", len(got))
	}
	if got[0] != channels[2] || got[1] != channels[0] {
		t.Errorf("GetIDs did not preserve requested order: got %v", got)
	}
}

func TestHexIDsRendersCanonicalForm(t *testing.T) {
	ws := NewWaveSet()
	for _, id := range []uint16{0x0002, 0x000A} {
		c := mustChannel(t, []float64{1}, time.Now().UTC(), 1)
		c.ID = id
		if err := ws.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	want := []string{"0002", "000A"}
	got := ws.HexIDs()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("HexIDs() = %v, want %v", got, want)
	}
}

func TestSelectStationComponentGlob(t *testing.T) {
	ws := NewWaveSet()
	for i, pair := range [][2]string{{"ABCD", "U"}, {"ABCD", "N"}, {"WXYZ", "U"}} {
		c := mustChannel(t, []float64{1}, time.Now().UTC(), 1)
		c.ID = uint16(i + 1)
		c.Meta.Station = pair[0]
		c.Meta.Component = pair[1]
		if err := ws.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	sel := ws.Select("ABCD", "*")
	if sel.Len() != 2 {
		t.Fatalf("Select(ABCD,*) = %d channels, want 2", sel.Len())
	}
}
