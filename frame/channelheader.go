package frame

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	iobits "github.com/go-hypomh/win/internal/bits"
)

// ChannelHeader is the 4-byte header of a channel sub-record: a 16-bit
// big-endian channel id, a 4-bit sample-size code W, and a 12-bit sampling
// rate F (Hz).
type ChannelHeader struct {
	ID uint16
	W  uint8
	F  uint16
}

// payloadLen returns the number of bytes following the 4-byte channel
// header: the first sample (always 4 bytes) plus F-1 further encoded
// values, per §4.2.
func (h ChannelHeader) payloadLen() (int, error) {
	switch h.W {
	case 0:
		return 4 + (int(h.F)-1+1)/2, nil
	case 1, 2, 3, 4:
		return 4 + int(h.W)*(int(h.F)-1), nil
	case 5:
		return 4 * int(h.F), nil
	default:
		return 0, fmt.Errorf("%w: W=%d", ErrUnexpectedSampleSize, h.W)
	}
}

func decodeChannelHeaderBits(br *bitio.Reader) (ChannelHeader, error) {
	id, err := iobits.DecodeUint(br, 16)
	if err != nil {
		return ChannelHeader{}, errutil.Err(err)
	}
	w, err := iobits.DecodeUint(br, 4)
	if err != nil {
		return ChannelHeader{}, errutil.Err(err)
	}
	f, err := iobits.DecodeUint(br, 12)
	if err != nil {
		return ChannelHeader{}, errutil.Err(err)
	}
	if w > 5 {
		return ChannelHeader{}, fmt.Errorf("%w: W=%d", ErrUnexpectedSampleSize, w)
	}
	return ChannelHeader{ID: uint16(id), W: uint8(w), F: uint16(f)}, nil
}

func encodeChannelHeaderBits(bw *bitio.Writer, h ChannelHeader) error {
	if h.W > 5 {
		return fmt.Errorf("%w: W=%d", ErrUnexpectedSampleSize, h.W)
	}
	if err := iobits.EncodeUint(bw, uint64(h.ID), 16); err != nil {
		return errutil.Err(err)
	}
	if err := iobits.EncodeUint(bw, uint64(h.W), 4); err != nil {
		return errutil.Err(err)
	}
	if err := iobits.EncodeUint(bw, uint64(h.F), 12); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// writeChannelHeader writes h as 4 raw bytes to w (used when the caller
// already owns the byte stream rather than a bit writer).
func writeChannelHeader(w io.Writer, h ChannelHeader) error {
	bw := bitio.NewWriter(w)
	if err := encodeChannelHeaderBits(bw, h); err != nil {
		return err
	}
	return bw.Close()
}
