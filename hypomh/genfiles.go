package hypomh

import (
	"time"

	"github.com/go-hypomh/win"
)

// Pick is one station's arrival observation, collected independently of the
// WaveSet (e.g. by a picker) and joined against channel-table metadata by
// station code when building a seis file.
type Pick struct {
	Polarity              string
	PTime, PCertainty     float64
	STime, SCertainty     float64
	FPTime, MaxAmp        float64
}

// PickSet maps a station code to its pick.
type PickSet map[string]Pick

// GenSeis builds a Seis file from a WaveSet bound to a channel table (for
// station coordinates, elevation and travel-time corrections) and a set of
// picks keyed by station code. Channels with no matching pick are skipped.
func GenSeis(ws *win.WaveSet, picks PickSet, refTime time.Time) *Seis {
	s := &Seis{RefTime: refTime}
	seen := make(map[string]bool)
	for _, id := range ws.IDs() {
		c := ws.Get(id)
		if seen[c.Meta.Station] {
			continue
		}
		p, ok := picks[c.Meta.Station]
		if !ok {
			continue
		}
		seen[c.Meta.Station] = true
		s.Arrivals = append(s.Arrivals, Arrival{
			StationCode: c.Meta.Station,
			Polarity:    p.Polarity,
			PTime:       p.PTime,
			PCertainty:  p.PCertainty,
			STime:       p.STime,
			SCertainty:  p.SCertainty,
			FPTime:      p.FPTime,
			MaxAmp:      AmpOrFpTime{Kind: KindAmp, Value: p.MaxAmp},
			Lat:         c.Meta.LatLng.Lat.Degrees(),
			Lon:         c.Meta.LatLng.Lng.Degrees(),
			ElevationM:  c.Meta.ElevationM,
			PCorrection: c.Meta.PCorrection,
			SCorrection: c.Meta.SCorrection,
		})
	}
	return s
}

// GenInit builds an Init file from an initial hypocenter guess and its
// uncertainties. HasSource is left false: the known-solution third line is
// only meaningful in travel-time calculation mode, which GenFiles does not
// drive.
func GenInit(lat, lon, depthKm, uncLat, uncLon, uncDepthKm float64) *Init {
	return &Init{
		Lat: lat, Lon: lon, DepthKm: depthKm,
		UncLat: uncLat, UncLon: uncLon, UncDepthKm: uncDepthKm,
	}
}

// GenFiles assembles the seis/init/structure triple that drives a HYPOMH
// run. st is passed through unchanged: the velocity structure is a property
// of the region, not of any particular WaveSet or pick set, so GenFiles
// takes it as already built rather than deriving it.
func GenFiles(ws *win.WaveSet, picks PickSet, refTime time.Time, init *Init, st *Structure) (*Seis, *Init, *Structure) {
	return GenSeis(ws, picks, refTime), init, st
}
