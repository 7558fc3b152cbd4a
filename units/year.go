// Package units implements the small scalar conversions shared by the frame
// codec and the HYPOMH ASCII collaborators: the two-digit-year expansion
// used by the WIN second-frame timestamp, and the unit-string arithmetic
// applied when a Channel is differentiated or integrated.
package units

import "fmt"

// YY2YYYY expands a two-digit year (as stored in a WIN BCD timestamp) to its
// four-digit form: 70..99 maps to 1970..1999, 0..69 maps to 2000..2069.
//
// ref: spec.md Property 5.
func YY2YYYY(yy int) (int, error) {
	switch {
	case yy >= 70 && yy <= 99:
		return yy + 1900, nil
	case yy >= 0 && yy < 70:
		return yy + 2000, nil
	default:
		return 0, fmt.Errorf("units: yy %d outside expected range [0,99]", yy)
	}
}
