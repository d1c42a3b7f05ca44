// Package zodiac - Ecliptic longitude arithmetic and sign lookup
// Every longitude that leaves this package is normalised to [0, 360).
package zodiac

import (
	"math"

	"github.com/shopspring/decimal"
)

// DegreesPerSign is the width of one zodiac sign
const DegreesPerSign = 30.0

// Element of a sign
type Element string

const (
	Fire  Element = "Fire"
	Earth Element = "Earth"
	Air   Element = "Air"
	Water Element = "Water"
)

// Modality of a sign
type Modality string

const (
	Cardinal Modality = "Cardinal"
	Fixed    Modality = "Fixed"
	Mutable  Modality = "Mutable"
)

// Sign describes one of the twelve zodiac signs
type Sign struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Element  Element  `json:"element"`
	Modality Modality `json:"modality"`
}

// Signs lists the zodiac in order starting at 0° Aries
var Signs = [12]Sign{
	{"Aries", "♈", Fire, Cardinal},
	{"Taurus", "♉", Earth, Fixed},
	{"Gemini", "♊", Air, Mutable},
	{"Cancer", "♋", Water, Cardinal},
	{"Leo", "♌", Fire, Fixed},
	{"Virgo", "♍", Earth, Mutable},
	{"Libra", "♎", Air, Cardinal},
	{"Scorpio", "♏", Water, Fixed},
	{"Sagittarius", "♐", Fire, Mutable},
	{"Capricorn", "♑", Earth, Cardinal},
	{"Aquarius", "♒", Air, Fixed},
	{"Pisces", "♓", Water, Mutable},
}

// Normalize maps any finite longitude into [0, 360)
func Normalize(lon float64) float64 {
	n := math.Mod(lon, 360)
	if n < 0 {
		n += 360
	}
	// math.Mod of a tiny negative number can round back up to 360
	if n >= 360 {
		n = 0
	}
	return n
}

// Separation returns the minimal arc between two longitudes, always in [0, 180]
func Separation(a, b float64) float64 {
	diff := math.Abs(Normalize(a) - Normalize(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// SignIndex returns the 0-based sign index for a longitude
func SignIndex(lon float64) int {
	idx := int(Normalize(lon) / DegreesPerSign)
	if idx > 11 {
		idx = 11
	}
	return idx
}

// SignOf returns the sign containing lon
func SignOf(lon float64) Sign {
	return Signs[SignIndex(lon)]
}

// DegreeInSign returns the offset of lon within its sign, in [0, 30)
func DegreeInSign(lon float64) float64 {
	return math.Mod(Normalize(lon), DegreesPerSign)
}

// LookupSign finds a sign by name
func LookupSign(name string) (Sign, bool) {
	for _, s := range Signs {
		if s.Name == name {
			return s, true
		}
	}
	return Sign{}, false
}

// Round rounds v half away from zero to the given number of decimal places.
// Reported values go through here; detection always uses full precision.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundLongitude rounds a longitude and keeps it inside [0, 360)
func RoundLongitude(lon float64, places int32) float64 {
	return Normalize(Round(Normalize(lon), places))
}
