package frame

import (
	"context"
	"io"

	"github.com/mewkiz/pkg/errutil"

	"github.com/go-hypomh/win/internal/bufseekio"
)

// Reader walks a WIN file's second-frames in sequence over a buffered
// io.ReadSeeker. It only reads forward; it never seeks.
type Reader struct {
	rs *bufseekio.ReadSeeker
}

// NewReader returns a Reader over rs. The caller retains ownership of rs.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: bufseekio.NewReadSeeker(rs)}
}

// Next returns the next second-frame, or io.EOF once the stream is
// exhausted. Next checks ctx before each frame so a long multi-file read can
// be cancelled between seconds without waiting for the whole file.
func (r *Reader) Next(ctx context.Context) (*SecondFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sf, err := ReadSecondFrame(r.rs)
	if err != nil {
		return nil, err
	}
	return sf, nil
}

// All reads every remaining second-frame from r, in file order, stopping at
// the first error (io.EOF is reported as nil, exactly like bufio.Scanner).
func (r *Reader) All(ctx context.Context) ([]*SecondFrame, error) {
	var frames []*SecondFrame
	for {
		sf, err := r.Next(ctx)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, errutil.Err(err)
		}
		frames = append(frames, sf)
	}
}
