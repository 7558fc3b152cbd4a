package hypomh

import (
	"strings"
	"testing"
)

func sampleFinal() string {
	lines := []string{
		" 24  7 31    10 15  30.500   35.50000  139.50000  10.000   3.5",
		"   A                            0.500      0.600  0.700",
		"1.0 2.0 3.0 4.0 5.0 6.0",
		"             35.400   1.0 139.400   1.0   9.000   1.0",
		"    5 JMA1   4   80.0      2   60.0      1   90.0",
		"STA01      U   12.345  45.0  30.0  20.0  1.234 0.010  0.001  2.345 0.020  0.002  1.23e-03  2.5",
		"STA02      D   22.345  55.0  40.0  30.0  2.234 0.011  0.002  3.345 0.021  0.003  2.23e-03  2.6",
		"                                                      0.015               0.025",
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestReadFinalParsesHypocenter(t *testing.T) {
	f, err := ReadFinal(strings.NewReader(sampleFinal()))
	if err != nil {
		t.Fatalf("ReadFinal: %v", err)
	}
	if f.Lat != 35.5 {
		t.Errorf("Lat = %v, want 35.5", f.Lat)
	}
	if f.Lon != 139.5 {
		t.Errorf("Lon = %v, want 139.5", f.Lon)
	}
	if f.DepthKm != 10.0 {
		t.Errorf("DepthKm = %v, want 10.0", f.DepthKm)
	}
	if f.Mag != 3.5 {
		t.Errorf("Mag = %v, want 3.5", f.Mag)
	}
}

func TestReadFinalParsesCovarianceAndInit(t *testing.T) {
	f, err := ReadFinal(strings.NewReader(sampleFinal()))
	if err != nil {
		t.Fatalf("ReadFinal: %v", err)
	}
	if f.Cxx != 1.0 || f.Czz != 6.0 {
		t.Errorf("covariance corners = %v, %v, want 1.0, 6.0", f.Cxx, f.Czz)
	}
	if f.InitLat != 35.4 || f.InitLon != 139.4 {
		t.Errorf("init lat/lon = %v, %v, want 35.4, 139.4", f.InitLat, f.InitLon)
	}
}

func TestReadFinalParsesArrivals(t *testing.T) {
	f, err := ReadFinal(strings.NewReader(sampleFinal()))
	if err != nil {
		t.Fatalf("ReadFinal: %v", err)
	}
	if len(f.Arrivals) != 2 {
		t.Fatalf("got %d arrivals, want 2", len(f.Arrivals))
	}
	if f.Arrivals[0].Code != "STA01" {
		t.Errorf("arrival[0].Code = %q, want STA01", f.Arrivals[0].Code)
	}
	if f.Arrivals[1].Code != "STA02" {
		t.Errorf("arrival[1].Code = %q, want STA02", f.Arrivals[1].Code)
	}
}

func TestReadFinalTooShort(t *testing.T) {
	_, err := ReadFinal(strings.NewReader("only one line\n"))
	if err == nil {
		t.Error("expected error for too-short final file")
	}
}

func TestReadFinalUnreadableSeconds(t *testing.T) {
	lines := []string{
		" 24  7 31    10 15********   35.50000  139.50000  10.000   9.9",
		"   A                            0.500      0.600  0.700",
		"1.0 2.0 3.0 4.0 5.0 6.0",
		"             35.400   1.0 139.400   1.0   9.000   1.0",
		"    5 JMA1   4   80.0      2   60.0      1   90.0",
	}
	f, err := ReadFinal(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		t.Fatalf("ReadFinal: %v", err)
	}
	if !f.OriginTime.IsZero() {
		t.Errorf("OriginTime = %v, want zero value for unreadable seconds", f.OriginTime)
	}
	if f.Mag != 0 {
		t.Errorf("Mag = %v, want 0 for sentinel 9.9", f.Mag)
	}
}
