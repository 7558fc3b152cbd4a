// Package hypomh implements the fixed-column ASCII collaborator files used
// to drive the external HYPOMH hypocenter-location program: the arrival-
// pick file (seis), initial-hypocenter file (init), velocity-structure
// file (structure), and the hypocenter-result file (final) this program
// produces. This package never invokes HYPOMH itself — it only produces
// its inputs and parses its output.
//
// ref: spec.md §4.5, §6; grammar widths follow
// original_source/wingram/lib/{seis,init,final,stan} exactly.
package hypomh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mewkiz/pkg/errutil"
)

// AmpOrFpTimeKind tags whether an AmpOrFpTime carries a maximum-amplitude
// reading or a first-phase-arrival time, mirroring the source's dynamically
// typed "maxamp" field (spec.md §9 "Dynamic typing → tagged variants").
type AmpOrFpTimeKind int

const (
	KindAmp AmpOrFpTimeKind = iota
	KindFpTime
)

// AmpOrFpTime is a tagged union over the two interpretations of a seis
// record's "maxamp" column.
type AmpOrFpTime struct {
	Kind  AmpOrFpTimeKind
	Value float64
}

// Arrival is one station's arrival-pick record in a seis file.
type Arrival struct {
	StationCode string
	Polarity    string
	PTime       float64
	PCertainty  float64
	STime       float64
	SCertainty  float64
	FPTime      float64
	MaxAmp      AmpOrFpTime
	Lat, Lon    float64
	ElevationM  float64
	PCorrection float64
	SCorrection float64
}

// Seis is a parsed arrival-pick file.
type Seis struct {
	RefTime  time.Time
	Arrivals []Arrival
}

// ReadSeis parses a seis file: a header line giving the reference time,
// followed by one fixed-width record per station.
//
// Grammar (spec.md §6):
//
//	<code:10> <polarity:1><p_time:8.3><p_cert:6.3><s_time:8.3><s_cert:6.3><fp:6.1><max_amp:9.2e><lat:11.5><lon:11.5><elev_m:7.0>[<p_corr:7.3><s_corr:7.3>]
func ReadSeis(r io.Reader) (*Seis, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return &Seis{}, nil
	}
	header := sc.Text()
	refTime, err := parseSeisHeader(header)
	if err != nil {
		return nil, errutil.Err(err)
	}

	s := &Seis{RefTime: refTime}
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		a, err := parseArrivalLine(line)
		if err != nil {
			return nil, errutil.Err(err)
		}
		s.Arrivals = append(s.Arrivals, a)
	}
	if err := sc.Err(); err != nil {
		return nil, errutil.Err(err)
	}
	return s, nil
}

func parseSeisHeader(line string) (time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("seis: malformed header %q", line)
	}
	return time.Parse("06/01/02 15:04", fields[0]+" "+fields[1])
}

func parseArrivalLine(line string) (Arrival, error) {
	// Pad defensively against a short trailing column (station rows may
	// omit p/s corrections).
	for len(line) < 10+1+8+6+8+6+6+9+11+11+7 {
		line += " "
	}
	col := func(start, width int) string {
		end := start + width
		if end > len(line) {
			end = len(line)
		}
		if start > len(line) {
			start = len(line)
		}
		return strings.TrimSpace(line[start:end])
	}
	parseF := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}

	a := Arrival{
		StationCode: col(0, 10),
		Polarity:    col(11, 1),
		PTime:       parseF(col(12, 8)),
		PCertainty:  parseF(col(20, 6)),
		STime:       parseF(col(26, 8)),
		SCertainty:  parseF(col(34, 6)),
		FPTime:      parseF(col(40, 6)),
	}
	maxAmp := parseF(col(46, 9))
	a.MaxAmp = AmpOrFpTime{Kind: KindAmp, Value: maxAmp}
	a.Lat = parseF(col(55, 11))
	a.Lon = parseF(col(66, 11))
	a.ElevationM = parseF(col(77, 7))
	if rest := strings.TrimSpace(col(84, len(line)-84)); rest != "" {
		a.PCorrection = parseF(col(84, 7))
		a.SCorrection = parseF(col(91, 7))
	}
	return a, nil
}

// WriteSeis emits s in seis grammar: the reference-time header followed by
// one fixed-width record per arrival.
func WriteSeis(w io.Writer, s *Seis) error {
	bw := bufio.NewWriter(w)
	now := time.Now().UTC()
	fmt.Fprintf(bw, "%s                   <now %s>\n",
		s.RefTime.Format("06/01/02 15:04"), now.Format("06/01/02 15:04:05"))

	for _, a := range s.Arrivals {
		fmt.Fprintf(bw, "%-10s %1s%8.3f%6.3f%8.3f%6.3f%6.1f%9.2e%11.5f%11.5f%7.0f%7.3f%7.3f\n",
			a.StationCode, a.Polarity, a.PTime, a.PCertainty, a.STime, a.SCertainty,
			a.FPTime, a.MaxAmp.Value, a.Lat, a.Lon, a.ElevationM, a.PCorrection, a.SCorrection)
	}
	return bw.Flush()
}

// CheckSeis validates a parsed seis file's structural sanity: polarity in
// {U,D,".",""}, non-negative certainty, and lat/lon within range. Mirrors
// original_source wingram/lib/win/checker.py's sanity checks.
func CheckSeis(s *Seis) []error {
	var problems []error
	for i, a := range s.Arrivals {
		switch a.Polarity {
		case "U", "D", "", ".":
		default:
			problems = append(problems, fmt.Errorf("arrival %d (%s): invalid polarity %q", i, a.StationCode, a.Polarity))
		}
		if a.PCertainty < 0 || a.SCertainty < 0 {
			problems = append(problems, fmt.Errorf("arrival %d (%s): negative certainty", i, a.StationCode))
		}
		if a.Lat < -90 || a.Lat > 90 {
			problems = append(problems, fmt.Errorf("arrival %d (%s): latitude %g out of range", i, a.StationCode, a.Lat))
		}
		if a.Lon < -180 || a.Lon > 180 {
			problems = append(problems, fmt.Errorf("arrival %d (%s): longitude %g out of range", i, a.StationCode, a.Lon))
		}
	}
	return problems
}
