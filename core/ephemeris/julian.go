package ephemeris

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian day of 2000-01-01 12:00 TT
	J2000 = 2451545.0

	unixEpochJD  = 2440587.5
	secondsInDay = 86400.0
	daysPerYear  = 365.25
)

// JulianDay converts an instant to a UT Julian day
func JulianDay(t time.Time) float64 {
	return unixEpochJD + (float64(t.Unix())+float64(t.Nanosecond())/1e9)/secondsInDay
}

// TimeFromJulian converts a UT Julian day back to a UTC instant,
// rounded to the millisecond.
func TimeFromJulian(jd float64) time.Time {
	ms := math.Round((jd - unixEpochJD) * secondsInDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// Centuries returns Julian centuries since J2000
func Centuries(jd float64) float64 {
	return (jd - J2000) / 36525
}

// YearsSinceJ2000 returns Julian years since J2000
func YearsSinceJ2000(jd float64) float64 {
	return (jd - J2000) / daysPerYear
}
