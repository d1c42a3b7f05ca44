// Package house - House membership over a 12-cusp set
package house

import (
	"fmt"
	"math"

	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// Of returns the 1-based house containing lon. House i+1 spans
// [cusps[i], cusps[i+1]) with the interval crossing 0° when the next cusp is
// numerically smaller. ok is false when no interval matched, which only
// happens for a malformed cusp set; the result is then house 1.
func Of(lon float64, cusps [12]float64) (house int, ok bool) {
	lon = zodiac.Normalize(lon)
	for i := 0; i < 12; i++ {
		start := zodiac.Normalize(cusps[i])
		end := zodiac.Normalize(cusps[(i+1)%12])
		l := lon
		if end < start {
			end += 360
			if l < start {
				l += 360
			}
		}
		if start <= l && l < end {
			return i + 1, true
		}
	}
	return 1, false
}

// ValidateCusps checks that the cusps are finite and advance around the
// zodiac exactly once.
func ValidateCusps(cusps [12]float64) error {
	total := 0.0
	for i := 0; i < 12; i++ {
		if math.IsNaN(cusps[i]) || math.IsInf(cusps[i], 0) {
			return apperrors.Inputf("cusp %d is not a finite longitude", i+1)
		}
		span := zodiac.Normalize(cusps[(i+1)%12] - cusps[i])
		if span == 0 {
			return apperrors.Inputf("houses %d and %d share a cusp", i+1, (i+1)%12+1)
		}
		total += span
	}
	// a set that circles once sums to 360; any cusp out of order makes it wrap again
	if math.Abs(total-360) > 1e-6 {
		return apperrors.Input(fmt.Sprintf("cusps are not in zodiacal order (total span %.4f°)", total))
	}
	return nil
}
