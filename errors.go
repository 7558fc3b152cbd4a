package win

import "errors"

// Error taxonomy, per spec.md §7. Every package-level failure surfaces as
// one of these, wrapped with call-site context via fmt.Errorf("%w: ...").
var (
	ErrOutOfRange           = errors.New("win: value out of range")
	ErrInsufficientWidth    = errors.New("win: sample width insufficient for data")
	ErrUnexpectedSampleSize = errors.New("win: unexpected sample-size code")
	ErrMalformedFrame       = errors.New("win: malformed frame")
	ErrDuplicateChannel     = errors.New("win: duplicate channel id")
	ErrEmptyRange           = errors.New("win: empty range")
	ErrMissingTimeArgs      = errors.New("win: targettime set without beforesec/aftersec")
	ErrTimeRangeEmpty       = errors.New("win: starttime >= endtime")
	ErrNonUniformRate       = errors.New("win: non-uniform sample spacing")
	ErrIO                   = errors.New("win: I/O failure")
)
