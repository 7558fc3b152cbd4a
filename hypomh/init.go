package hypomh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mewkiz/pkg/errutil"
)

// Init is a parsed HYPOMH initial-hypocenter file.
type Init struct {
	Lat, Lon, DepthKm          float64
	UncLat, UncLon, UncDepthKm float64

	// HasSource is true when the optional third line (travel-time mode)
	// was present.
	HasSource bool
	Source    SourceEvent
}

// SourceEvent is the optional third-line "known solution" used in
// travel-time calculation mode.
type SourceEvent struct {
	Year, Month, Day, Hour, Minute int
	Second                         float64
	Lat, Lon, DepthKm, Mag         float64
}

// ReadInit parses an init file: line 1 lat/lon/dep (each `<10.3`), line 2
// their uncertainties, optional line 3 a known-solution record.
func ReadInit(r io.Reader) (*Init, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("init: empty file")
	}
	f1 := strings.Fields(sc.Text())
	if len(f1) < 3 {
		return nil, fmt.Errorf("init: malformed line 1 %q", sc.Text())
	}
	init := &Init{
		Lat:      parseFloatField(f1[0]),
		Lon:      parseFloatField(f1[1]),
		DepthKm:  parseFloatField(f1[2]),
	}

	if !sc.Scan() {
		return init, nil
	}
	f2 := strings.Fields(sc.Text())
	if len(f2) >= 3 {
		init.UncLat = parseFloatField(f2[0])
		init.UncLon = parseFloatField(f2[1])
		init.UncDepthKm = parseFloatField(f2[2])
	}

	if sc.Scan() {
		f3 := strings.Fields(sc.Text())
		if len(f3) >= 10 {
			init.HasSource = true
			init.Source = SourceEvent{
				Year:    int(parseFloatField(f3[0])),
				Month:   int(parseFloatField(f3[1])),
				Day:     int(parseFloatField(f3[2])),
				Hour:    int(parseFloatField(f3[3])),
				Minute:  int(parseFloatField(f3[4])),
				Second:  parseFloatField(f3[5]),
				Lat:     parseFloatField(f3[6]),
				Lon:     parseFloatField(f3[7]),
				DepthKm: parseFloatField(f3[8]),
				Mag:     parseFloatField(f3[9]),
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errutil.Err(err)
	}
	return init, nil
}

func parseFloatField(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// WriteInit emits init in its fixed-column grammar.
func WriteInit(w io.Writer, init *Init) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%-10.3f %-10.3f %-10.3f\n", init.Lat, init.Lon, init.DepthKm)
	fmt.Fprintf(bw, "%-10.3f%-10.3f%-10.3f\n", init.UncLat, init.UncLon, init.UncDepthKm)
	if init.HasSource {
		s := init.Source
		fmt.Fprintf(bw, "%d %d %d %d %d %.3f %g %g %g %g\n",
			s.Year, s.Month, s.Day, s.Hour, s.Minute, s.Second, s.Lat, s.Lon, s.DepthKm, s.Mag)
	}
	return bw.Flush()
}
