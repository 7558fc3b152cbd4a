package hypomh

import (
	"time"

	"github.com/go-hypomh/win"
)

// PhaseWindow trims c to the window [pTime-beforeSec, pTime+afterSec],
// including the right edge. beforeSec and afterSec must both be positive;
// a zero pTime is treated as a caller error rather than "no pick".
func PhaseWindow(c *win.Channel, pTime time.Time, beforeSec, afterSec float64) (*win.Channel, error) {
	if pTime.IsZero() || beforeSec <= 0 || afterSec <= 0 {
		return nil, win.ErrMissingTimeArgs
	}
	start := pTime.Add(-time.Duration(beforeSec * float64(time.Second)))
	end := pTime.Add(time.Duration(afterSec * float64(time.Second)))
	return c.Trim(start, end, true)
}
