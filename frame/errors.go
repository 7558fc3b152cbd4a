package frame

import (
	"errors"

	iobits "github.com/go-hypomh/win/internal/bits"
)

// ErrOutOfRange is returned when a BCD field, timestamp field, or encoded
// value falls outside its declared range. It is the same sentinel the
// internal/bits codec reports, re-exported so callers only need to import
// this package.
var ErrOutOfRange = iobits.ErrOutOfRange

// ErrUnexpectedSampleSize is returned when a channel sub-record header
// advertises a sample-size code W outside {0,1,2,3,4,5}.
var ErrUnexpectedSampleSize = errors.New("frame: unexpected sample size code")

// ErrMalformedFrame is returned when a second-frame's declared length
// disagrees with the sum of its sub-record lengths, or the file ends
// mid-frame.
var ErrMalformedFrame = errors.New("frame: malformed second-frame")

// ErrInsufficientWidth is returned when an explicit sample-size override
// cannot represent the data being encoded.
var ErrInsufficientWidth = errors.New("frame: sample width insufficient for data")
