package bits

import "errors"

// ErrOutOfRange is returned when a value does not fit the declared bit
// width, or a BCD byte carries a nibble outside [0,9].
var ErrOutOfRange = errors.New("bits: value out of range")
