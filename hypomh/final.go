package hypomh

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mewkiz/pkg/errutil"

	"github.com/go-hypomh/win/units"
)

// FinalPick is one station's row in a final file's station-results block.
type FinalPick struct {
	Code                       string
	Polarity                   string
	DistanceKm, Azimuth        float64
	Takeoff, Incident          float64
	PTime, PUnc, POC           float64
	STime, SUnc, SOC           float64
	Amp, Mag                   float64
}

// Final is a parsed HYPOMH hypocenter-result file: fixed-column, produced
// by HYPOMH itself (never written by this package).
type Final struct {
	OriginTime time.Time

	Lat, Lon, DepthKm float64
	Mag               float64

	Diag                        string
	LatError, LonError, DepError float64

	Cxx, Cxy, Cxz, Cyy, Cyz, Czz float64

	InitLat, InitLatUnc float64
	InitLon, InitLonUnc float64
	InitDep, InitDepUnc float64

	NStation  int
	Model     string
	NP        int
	ContribP  float64
	NS        int
	ContribS  float64
	NInit     int
	ContribInit float64

	Arrivals []FinalPick

	POCStd, SOCStd float64
}

func col(s string, start, end int) string {
	if start > len(s) {
		start = len(s)
	}
	if end > len(s) {
		end = len(s)
	}
	if end < start {
		end = start
	}
	return strings.TrimSpace(s[start:end])
}

func colF(s string, start, end int) float64 {
	v, _ := strconv.ParseFloat(col(s, start, end), 64)
	return v
}

func colI(s string, start, end int) int {
	v, _ := strconv.Atoi(col(s, start, end))
	return v
}

// ReadFinal parses a final file, following the fixed-column offsets of
// original_source/wingram/lib/final/final.py's Final.read exactly (the
// distilled spec only says "see §4.5").
func ReadFinal(r io.Reader) (*Final, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errutil.Err(err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("final: expected at least 5 lines, got %d", len(lines))
	}

	f := &Final{}

	hypo := lines[0]
	if col(hypo, 18, 26) != "********" {
		yy, err := strconv.Atoi(col(hypo, 1, 3))
		if err != nil {
			return nil, fmt.Errorf("final: invalid year field: %w", err)
		}
		yyyy, err := units.YY2YYYY(yy)
		if err != nil {
			return nil, errutil.Err(err)
		}
		month := colI(hypo, 4, 6)
		day := colI(hypo, 7, 9)
		hour := colI(hypo, 13, 15)
		minute := colI(hypo, 16, 18)
		sec := colF(hypo, 18, 26)
		base := time.Date(yyyy, time.Month(month), day, hour, minute, 0, 0, time.UTC)
		f.OriginTime = base.Add(time.Duration(sec * float64(time.Second)))
	}
	f.Lat = colF(hypo, 26, 37)
	f.Lon = colF(hypo, 37, 48)
	f.DepthKm = colF(hypo, 48, 56)
	f.Mag = colF(hypo, 56, len(hypo))
	if f.Mag == 9.9 {
		f.Mag = 0
	}

	qual := lines[1]
	f.Diag = col(qual, 3, 7)
	f.LatError = colF(qual, 28, 37)
	f.LonError = colF(qual, 38, 48)
	f.DepError = colF(qual, 48, 56)

	covFields := strings.Fields(lines[2])
	cov := make([]float64, 6)
	for i := 0; i < len(covFields) && i < 6; i++ {
		cov[i], _ = strconv.ParseFloat(covFields[i], 64)
	}
	f.Cxx, f.Cxy, f.Cxz, f.Cyy, f.Cyz, f.Czz = cov[0], cov[1], cov[2], cov[3], cov[4], cov[5]

	initLine := lines[3]
	f.InitLat = colF(initLine, 12, 19)
	f.InitLatUnc = colF(initLine, 20, 25)
	f.InitLon = colF(initLine, 26, 33)
	f.InitLonUnc = colF(initLine, 34, 39)
	f.InitDep = colF(initLine, 40, 47)
	f.InitDepUnc = colF(initLine, 48, 53)

	info := lines[4]
	f.NStation = colI(info, 2, 5)
	f.Model = col(info, 6, 10)
	f.NP = colI(info, 11, 14)
	f.ContribP = colF(info, 16, 21)
	f.NS = colI(info, 25, 28)
	f.ContribS = colF(info, 30, 35)
	f.NInit = colI(info, 39, 42)
	f.ContribInit = colF(info, 44, 49)

	if len(lines) >= 7 {
		picks := lines[5 : len(lines)-2]
		for _, p := range picks {
			if strings.TrimSpace(p) == "" {
				continue
			}
			f.Arrivals = append(f.Arrivals, FinalPick{
				Code:        col(p, 0, 10),
				Polarity:    col(p, 11, 13),
				DistanceKm:  colF(p, 13, 21),
				Azimuth:     colF(p, 21, 27),
				Takeoff:     colF(p, 27, 33),
				Incident:    colF(p, 33, 39),
				PTime:       colF(p, 39, 46),
				PUnc:        colF(p, 46, 52),
				POC:         colF(p, 52, 59),
				STime:       colF(p, 59, 66),
				SUnc:        colF(p, 66, 72),
				SOC:         colF(p, 72, 79),
				Amp:         colF(p, 79, 89),
				Mag:         colF(p, 89, 94),
			})
		}
		last := lines[len(lines)-2]
		f.POCStd = colF(last, 52, 59)
		f.SOCStd = colF(last, 72, 79)
	}

	return f, nil
}
