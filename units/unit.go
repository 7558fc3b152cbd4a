package units

import "strings"

// Integrate returns the unit string that results from integrating a signal
// carrying unit over time: the first "/s" in unit is removed (undoing a
// prior differentiation), otherwise "*s" is appended.
//
// ref: original_source wingram/utils/unithandler.py integrate_unit.
func Integrate(unit string) string {
	if strings.Contains(unit, "/s") {
		return strings.Replace(unit, "/s", "", 1)
	}
	return unit + "*s"
}

// Differentiate returns the unit string that results from differentiating a
// signal carrying unit with respect to time: the first "*s" in unit is
// removed (undoing a prior integration), otherwise "/s" is appended.
//
// ref: original_source wingram/utils/unithandler.py diff_unit.
func Differentiate(unit string) string {
	if strings.Contains(unit, "*s") {
		return strings.Replace(unit, "*s", "", 1)
	}
	return unit + "/s"
}
