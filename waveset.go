package win

import (
	"context"
	"fmt"
	"os"
	"path"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alitto/pond"

	"github.com/go-hypomh/win/frame"
	"github.com/go-hypomh/win/internal/winlog"
)

// WaveSet is an ordered, channel-id-keyed collection of Channels. Each
// channel id appears at most once.
type WaveSet struct {
	byID  map[uint16]*Channel
	order []uint16 // stable iteration order, ascending by channel id
}

// NewWaveSet returns an empty WaveSet.
func NewWaveSet() *WaveSet {
	return &WaveSet{byID: make(map[uint16]*Channel)}
}

// Add inserts c, failing with ErrDuplicateChannel if its id is already
// present.
func (ws *WaveSet) Add(c *Channel) error {
	if _, ok := ws.byID[c.ID]; ok {
		return fmt.Errorf("%w: 0x%04X", ErrDuplicateChannel, c.ID)
	}
	ws.byID[c.ID] = c
	ws.order = append(ws.order, c.ID)
	sort.Slice(ws.order, func(i, j int) bool { return ws.order[i] < ws.order[j] })
	return nil
}

// Get returns the channel with the given id, or nil if absent.
func (ws *WaveSet) Get(id uint16) *Channel {
	return ws.byID[id]
}

// GetHex returns the channel whose id matches hex (conventionally 4
// uppercase hex digits, e.g. "0010"; an optional "0x"/"0X" prefix and any
// case are accepted), or nil if absent. Per spec.md §3/§4.3 "Lookup by hex
// id string".
func (ws *WaveSet) GetHex(hex string) (*Channel, error) {
	id, err := parseHexID(hex)
	if err != nil {
		return nil, err
	}
	return ws.Get(id), nil
}

// GetIDs returns the channels matching ids, in the given order, omitting
// any id not present in ws. Per spec.md §3/§4.3 "Lookup ... by list of ids".
func (ws *WaveSet) GetIDs(ids []uint16) []*Channel {
	out := make([]*Channel, 0, len(ids))
	for _, id := range ids {
		if c := ws.byID[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// At returns the i-th channel in stable (ascending channel id) order. Per
// spec.md §3/§4.3 "Lookup ... by integer index".
func (ws *WaveSet) At(i int) *Channel {
	return ws.byID[ws.order[i]]
}

// Len returns the number of channels.
func (ws *WaveSet) Len() int { return len(ws.order) }

// IDs returns the channel ids in stable ascending order.
func (ws *WaveSet) IDs() []uint16 {
	return append([]uint16(nil), ws.order...)
}

// HexIDs returns the channel ids in stable ascending order, each rendered
// as the conventional 4-uppercase-hex-digit string (see hexID); the render
// counterpart to GetHex's parse.
func (ws *WaveSet) HexIDs() []string {
	out := make([]string, len(ws.order))
	for i, id := range ws.order {
		out[i] = hexID(id)
	}
	return out
}

// Concat merges other into ws, failing with ErrDuplicateChannel at the
// first id collision; ws is left unmodified on failure.
func (ws *WaveSet) Concat(other *WaveSet) error {
	for _, id := range other.order {
		if _, ok := ws.byID[id]; ok {
			return fmt.Errorf("%w: 0x%04X", ErrDuplicateChannel, id)
		}
	}
	for _, id := range other.order {
		ws.byID[id] = other.byID[id]
		ws.order = append(ws.order, id)
	}
	sort.Slice(ws.order, func(i, j int) bool { return ws.order[i] < ws.order[j] })
	return nil
}

// Select returns the subset of channels whose bound station/component codes
// match the given glob patterns ("*"/"?" wildcards, per spec.md §4.3).
func (ws *WaveSet) Select(stationGlob, componentGlob string) *WaveSet {
	out := NewWaveSet()
	for _, id := range ws.order {
		c := ws.byID[id]
		stationOK, _ := path.Match(stationGlob, c.Meta.Station)
		componentOK, _ := path.Match(componentGlob, c.Meta.Component)
		if stationOK && componentOK {
			_ = out.Add(c)
		}
	}
	return out
}

// Broadcast applies fn to every channel, in stable id order, stopping and
// returning the first error encountered.
func (ws *WaveSet) Broadcast(fn func(*Channel) error) error {
	for _, id := range ws.order {
		if err := fn(ws.byID[id]); err != nil {
			return fmt.Errorf("channel 0x%04X: %w", id, err)
		}
	}
	return nil
}

// parseFileResult is the per-file outcome of a WaveSet.Read worker.
type parseFileResult struct {
	path string
	ws   *WaveSet
	err  error
}

// Read parses paths concurrently on a bounded worker pool (I/O-bound
// per-file decode only; no Channel mutation happens on the pool, keeping
// the object model's single-threaded cooperative contract — spec.md §5),
// then merges the resulting per-file WaveSets on the calling goroutine in
// file order. A failing file is logged and skipped unless it is the only
// file given.
func Read(ctx context.Context, paths []string) (*WaveSet, error) {
	if len(paths) == 0 {
		return NewWaveSet(), nil
	}

	results := make([]parseFileResult, len(paths))
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	for i, p := range paths {
		i, p := i, p
		pool.Submit(func() {
			ws, err := readOneFile(ctx, p)
			results[i] = parseFileResult{path: p, ws: ws, err: err}
		})
	}
	pool.StopAndWait()

	merged := NewWaveSet()
	nOK := 0
	for _, r := range results {
		if r.err != nil {
			winlog.Warningf("skipping %s: %v", r.path, r.err)
			continue
		}
		nOK++
	}
	if nOK == 0 && len(paths) == 1 {
		return nil, results[0].err
	}

	for _, r := range results {
		if r.err != nil {
			continue
		}
		if err := mergeInto(merged, r.ws); err != nil {
			return nil, fmt.Errorf("merging %s: %w", r.path, err)
		}
	}
	return merged, nil
}

// mergeInto merges src's channels into dst by channel id, concatenating
// samples for channels already present after validating second-boundary
// contiguity (spec.md §4.2 "Merging").
func mergeInto(dst, src *WaveSet) error {
	for _, id := range src.order {
		sc := src.byID[id]
		if dc, ok := dst.byID[id]; ok {
			if err := appendContiguous(dc, sc); err != nil {
				return err
			}
			continue
		}
		if err := dst.Add(sc); err != nil {
			return err
		}
	}
	return nil
}

func appendContiguous(dst, src *Channel) error {
	if dst.Len() > 0 && src.Len() > 0 {
		lastSec := dst.Times[dst.Len()-1].Truncate(time.Second)
		firstSec := src.Times[0].Truncate(time.Second)
		if firstSec.Sub(lastSec) != time.Second {
			return fmt.Errorf("%w: channel 0x%04X: second at %v does not follow %v by exactly 1s on merge", ErrMalformedFrame, dst.ID, firstSec, lastSec)
		}
	}
	dst.Samples = append(dst.Samples, src.Samples...)
	dst.Times = append(dst.Times, src.Times...)
	return nil
}

// readOneFile parses a single WIN file into a per-channel WaveSet.
func readOneFile(ctx context.Context, path string) (*WaveSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	r := frame.NewReader(f)
	secondFrames, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	byChannel := make(map[uint16][]frame.ChannelRecord)
	var order []uint16
	for _, sf := range secondFrames {
		for _, rec := range sf.Records {
			if _, ok := byChannel[rec.Header.ID]; !ok {
				order = append(order, rec.Header.ID)
			}
			byChannel[rec.Header.ID] = append(byChannel[rec.Header.ID], rec)
		}
	}

	ws := NewWaveSet()
	for _, id := range order {
		c, err := channelFromRecords(id, byChannel[id])
		if err != nil {
			return nil, err
		}
		if err := ws.Add(c); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// Write encodes every channel in ws to path, merging per-channel
// second-frames that share the same second into single multi-channel
// frames, in channel-id order, per spec.md §4.2.
func (ws *WaveSet) Write(path string, boundary BoundaryPolicy) error {
	bySecond := make(map[int64]*frame.SecondFrame)
	var order []int64

	for _, id := range ws.order {
		c := ws.byID[id]
		frames, err := c.ToWinBits(boundary)
		if err != nil {
			return fmt.Errorf("channel 0x%04X: %w", id, err)
		}
		for _, sf := range frames {
			key := sf.Header.Time.Unix()
			existing, ok := bySecond[key]
			if !ok {
				bySecond[key] = sf
				order = append(order, key)
				continue
			}
			existing.Records = append(existing.Records, sf.Records...)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	for _, key := range order {
		if _, err := bySecond[key].WriteTo(f); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// hexID renders a channel id the conventional way: 4 uppercase hex digits.
func hexID(id uint16) string {
	return strings.ToUpper(fmt.Sprintf("%04x", id))
}

// parseHexID parses a channel id from its conventional hex-string rendering
// (see hexID), case-insensitively and tolerating an optional "0x"/"0X"
// prefix.
func parseHexID(hex string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	id, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid channel id %q: %v", ErrOutOfRange, hex, err)
	}
	return uint16(id), nil
}
