package hypomh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mewkiz/pkg/errutil"
)

// Structure is a parsed HYPOMH velocity-structure file: a flat earth model
// with Vp per layer and layer thicknesses.
type Structure struct {
	Lat, Lon, DepthKm float64
	Name              string
	Vp                []float64
	LayerThicknessKm  []float64
	UncT              float64
	UncLat, UncLon, UncDepthKm float64
}

const structValuesPerLine = 7

// ReadStructure parses a structure file: line 1 lat/lon/dep; line 2 layer
// count and a 3-char model name; line 3+ Vp values (7 per line); next
// block layer thicknesses (same packing); final line the uncertainty
// quartet.
func ReadStructure(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errutil.Err(err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("structure: file too short")
	}

	f1 := strings.Fields(lines[0])
	if len(f1) < 3 {
		return nil, fmt.Errorf("structure: malformed line 1 %q", lines[0])
	}
	st := &Structure{
		Lat:     parseFloatField(f1[0]),
		Lon:     parseFloatField(f1[1]),
		DepthKm: parseFloatField(f1[2]),
	}

	f2 := strings.Fields(lines[1])
	if len(f2) < 2 {
		return nil, fmt.Errorf("structure: malformed line 2 %q", lines[1])
	}
	nlay, err := strconv.Atoi(f2[0])
	if err != nil {
		return nil, fmt.Errorf("structure: invalid layer count %q: %w", f2[0], err)
	}
	st.Name = f2[1]

	idx := 2
	vpLines := (nlay+2 + structValuesPerLine - 1) / structValuesPerLine
	for i := 0; i < vpLines && idx < len(lines); i++ {
		for _, tok := range strings.Fields(lines[idx]) {
			st.Vp = append(st.Vp, parseFloatField(tok))
		}
		idx++
	}

	thickLines := (nlay + structValuesPerLine - 1) / structValuesPerLine
	for i := 0; i < thickLines && idx < len(lines); i++ {
		for _, tok := range strings.Fields(lines[idx]) {
			st.LayerThicknessKm = append(st.LayerThicknessKm, parseFloatField(tok))
		}
		idx++
	}

	if idx < len(lines) {
		f := strings.Fields(lines[idx])
		if len(f) >= 4 {
			st.UncT = parseFloatField(f[0])
			st.UncLat = parseFloatField(f[1])
			st.UncLon = parseFloatField(f[2])
			st.UncDepthKm = parseFloatField(f[3])
		}
	}
	return st, nil
}

// WriteStructure emits st in its fixed-column grammar, per
// original_source/wingram/lib/stan/stan.py's %-10g / 7-per-line packing.
func WriteStructure(w io.Writer, st *Structure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%-10g%-10g%-10g\n", st.Lat, st.Lon, st.DepthKm)
	fmt.Fprintf(bw, "%5d  %-3s\n", len(st.Vp)-2, truncate(st.Name, 3))

	writeRows(bw, st.Vp)
	writeRows(bw, st.LayerThicknessKm)

	fmt.Fprintf(bw, "%-10g%-10g%-10g%-10g", st.UncT, st.UncLat, st.UncLon, st.UncDepthKm)
	return bw.Flush()
}

func writeRows(bw *bufio.Writer, values []float64) {
	for i, v := range values {
		fmt.Fprintf(bw, "%-10g", v)
		if (i+1)%structValuesPerLine == 0 {
			bw.WriteByte('\n')
		}
	}
	if len(values)%structValuesPerLine != 0 {
		bw.WriteByte('\n')
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
