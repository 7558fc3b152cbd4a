// Package chtable implements the HYPOMH channel-table codec: a whitespace-
// separated text file, one record per channel, used to bind station and
// instrument metadata onto a win.WaveSet's channels.
//
// ref: spec.md §4.4, §6 "Channel table".
package chtable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/mewkiz/pkg/errutil"

	"github.com/go-hypomh/win"
	"github.com/go-hypomh/win/internal/winlog"
)

// Entry is one parsed channel-table row.
type Entry struct {
	ID            uint16
	Flag          string
	DelayTime     float64
	Station       string
	Component     string
	MonitorSize   float64
	ADBitSize     float64
	Sensitivity   float64
	Unit          string
	NaturalPeriod float64
	Damping       float64
	ADGainDB      float64
	ADBitStep     float64
	Lat, Lon      float64
	ElevationM    float64
	PCorrection   float64
	SCorrection   float64
	Note          string
}

const numFixedColumns = 18

// Read parses a channel-table file, skipping comment lines (leading "#")
// and blank lines. Short rows are padded with "0" placeholders (string
// columns included) rather than rejected, matching the source's tolerant
// grammar.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("chtable: line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, errutil.Err(err)
	}
	return entries, nil
}

// parseLine dispatches each whitespace-separated field into Entry, the way
// meta.NewBlock dispatches a binary block header's type byte to a per-type
// parser — here the "type" is simply positional order.
func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	for len(fields) < numFixedColumns {
		fields = append(fields, "0")
	}

	id, err := strconv.ParseUint(fields[0], 16, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid channel id %q: %w", fields[0], err)
	}

	f := func(i int) float64 {
		v, _ := strconv.ParseFloat(fields[i], 64)
		return v
	}

	e := Entry{
		ID:            uint16(id),
		Flag:          fields[1],
		DelayTime:     f(2),
		Station:       fields[3],
		Component:     fields[4],
		MonitorSize:   f(5),
		ADBitSize:     f(6),
		Sensitivity:   f(7),
		Unit:          fields[8],
		NaturalPeriod: f(9),
		Damping:       f(10),
		ADGainDB:      f(11),
		ADBitStep:     f(12),
		Lat:           f(13),
		Lon:           f(14),
		ElevationM:    f(15),
		PCorrection:   f(16),
		SCorrection:   f(17),
	}
	if len(fields) > numFixedColumns {
		e.Note = strings.Join(fields[numFixedColumns:], " ")
	}
	return e, nil
}

// Write emits entries back in channel-table grammar, one row per line.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		fields := []string{
			fmt.Sprintf("%04X", e.ID),
			e.Flag,
			strconv.FormatFloat(e.DelayTime, 'g', -1, 64),
			e.Station,
			e.Component,
			strconv.FormatFloat(e.MonitorSize, 'g', -1, 64),
			strconv.FormatFloat(e.ADBitSize, 'g', -1, 64),
			strconv.FormatFloat(e.Sensitivity, 'g', -1, 64),
			e.Unit,
			strconv.FormatFloat(e.NaturalPeriod, 'g', -1, 64),
			strconv.FormatFloat(e.Damping, 'g', -1, 64),
			strconv.FormatFloat(e.ADGainDB, 'g', -1, 64),
			strconv.FormatFloat(e.ADBitStep, 'g', -1, 64),
			strconv.FormatFloat(e.Lat, 'g', -1, 64),
			strconv.FormatFloat(e.Lon, 'g', -1, 64),
			strconv.FormatFloat(e.ElevationM, 'g', -1, 64),
			strconv.FormatFloat(e.PCorrection, 'g', -1, 64),
			strconv.FormatFloat(e.SCorrection, 'g', -1, 64),
		}
		if e.Note != "" {
			fields = append(fields, e.Note)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return errutil.Err(err)
		}
	}
	return bw.Flush()
}

// Bind overwrites each matching channel's metadata (never its id) from
// entries, by case-insensitive channel id lookup. Channels with no matching
// entry retain their defaults and are logged at debug level, per spec.md §7
// policy; entries with no matching channel are skipped without logging.
//
// ref: spec.md §8 Scenario 6.
func Bind(ws *win.WaveSet, entries []Entry) {
	byID := make(map[uint16]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	for _, id := range ws.IDs() {
		e, ok := byID[id]
		if !ok {
			winlog.Debugf("chtable: no row for channel 0x%04X; keeping defaults", id)
			continue
		}
		c := ws.Get(id)
		c.Meta.Station = e.Station
		c.Meta.Component = e.Component
		c.Meta.LatLng = s2.LatLngFromDegrees(e.Lat, e.Lon)
		c.Meta.ElevationM = e.ElevationM
		c.Meta.PCorrection = e.PCorrection
		c.Meta.SCorrection = e.SCorrection
		c.Meta.Sensitivity = e.Sensitivity
		c.Meta.ADGainDB = e.ADGainDB
		c.Meta.ADBitStep = e.ADBitStep
		c.Meta.Unit = e.Unit
		c.Meta.Flag = e.Flag
		c.Meta.DelayTime = e.DelayTime
		c.Meta.MonitorSize = e.MonitorSize
		c.Meta.ADBitSize = e.ADBitSize
		c.Meta.NaturalPeriod = e.NaturalPeriod
		c.Meta.Damping = e.Damping
		c.Meta.Note = e.Note
	}
}
