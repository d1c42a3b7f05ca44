package ephemeris

import (
	"context"
	"math"
	"time"

	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// House system codes understood by Analytic
const (
	SystemPlacidus  = "P"
	SystemEqual     = "E"
	SystemWholeSign = "W"
	SystemPorphyry  = "O"
)

// Houses implements Provider
func (a *Analytic) Houses(ctx context.Context, t time.Time, lat, lon float64, system string) (HouseCusps, error) {
	if err := ctx.Err(); err != nil {
		return HouseCusps{}, err
	}
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return HouseCusps{}, apperrors.Inputf("latitude %v outside [-90, 90]", lat)
	}

	jd := JulianDay(t)
	eps := obliquity(jd)
	ramc := LocalSiderealDegrees(jd, lon)
	angles := Angles(ramc, lat, eps)

	var cusps [12]float64
	switch system {
	case SystemPlacidus:
		c, err := placidus(ramc, lat, eps, angles)
		if err != nil {
			return HouseCusps{}, err
		}
		cusps = c
	case SystemEqual:
		for i := range cusps {
			cusps[i] = zodiac.Normalize(angles.Ascendant + 30*float64(i))
		}
	case SystemWholeSign:
		first := float64(zodiac.SignIndex(angles.Ascendant)) * zodiac.DegreesPerSign
		for i := range cusps {
			cusps[i] = zodiac.Normalize(first + 30*float64(i))
		}
	case SystemPorphyry:
		cusps = porphyry(angles)
	default:
		return HouseCusps{}, apperrors.NotSupported("house system code "+system).WithContext("provider", a.Name())
	}

	return HouseCusps{
		Cusps:               cusps,
		Ascendant:           angles.Ascendant,
		MC:                  angles.MC,
		Vertex:              angles.Vertex,
		EquatorialAscendant: angles.EquatorialAscendant,
	}, nil
}

// LocalSiderealDegrees is the right ascension of the meridian (RAMC) for an
// east-positive geographic longitude.
func LocalSiderealDegrees(jd, eastLon float64) float64 {
	T := Centuries(jd)
	gmst := 280.46061837 + 360.98564736629*(jd-J2000) + 0.000387933*T*T - T*T*T/38710000
	return zodiac.Normalize(gmst + eastLon)
}

// AngularPoints are the chart angles derived from RAMC alone
type AngularPoints struct {
	Ascendant           float64
	MC                  float64
	Vertex              float64
	EquatorialAscendant float64
}

// Angles computes ascendant, midheaven, vertex and equatorial ascendant
func Angles(ramc, lat, eps float64) AngularPoints {
	colat := 90 - lat
	if lat < 0 {
		colat = -90 - lat
	}
	return AngularPoints{
		Ascendant:           ascendant(ramc, lat, eps),
		MC:                  zodiac.Normalize(atan2d(sind(ramc), cosd(ramc)*cosd(eps))),
		Vertex:              ascendant(ramc+180, colat, eps),
		EquatorialAscendant: ascendant(ramc, 0, eps),
	}
}

func ascendant(ramc, lat, eps float64) float64 {
	return zodiac.Normalize(atan2d(cosd(ramc), -(sind(ramc)*cosd(eps) + tand(lat)*sind(eps))))
}

// placidus trisects the semi-arcs in time. Cusps 11 and 12 sit a third and
// two thirds of the diurnal semi-arc east of the meridian, cusps 9 and 8 the
// same distances west; 2, 3, 5 and 6 are their opposites.
func placidus(ramc, lat, eps float64, angles AngularPoints) ([12]float64, error) {
	var cusps [12]float64
	if math.Abs(lat) >= 90-eps {
		return cusps, apperrors.Provider("placidus houses are undefined inside the polar circles", nil).
			WithContext("latitude", lat)
	}

	cusp := func(fraction, side float64) (float64, error) {
		ra := ramc + side*fraction*90
		for i := 0; i < 100; i++ {
			lon := atan2d(sind(ra), cosd(ra)*cosd(eps))
			decl := asind(sind(eps) * sind(lon))
			x := -tand(lat) * tand(decl)
			if x < -1 || x > 1 {
				return 0, apperrors.Provider("placidus iteration left the semi-arc domain", nil).
					WithContext("latitude", lat)
			}
			next := ramc + side*fraction*acosd(x)
			if math.Abs(signedArc(ra, next)) < 1e-9 {
				ra = next
				break
			}
			ra = next
		}
		return zodiac.Normalize(atan2d(sind(ra), cosd(ra)*cosd(eps))), nil
	}

	steps := []struct {
		house          int
		fraction, side float64
	}{
		{11, 1.0 / 3, 1},
		{12, 2.0 / 3, 1},
		{9, 1.0 / 3, -1},
		{8, 2.0 / 3, -1},
	}
	for _, s := range steps {
		c, err := cusp(s.fraction, s.side)
		if err != nil {
			return cusps, err
		}
		cusps[s.house-1] = c
	}

	cusps[0] = angles.Ascendant
	cusps[9] = angles.MC
	cusps[1] = zodiac.Normalize(cusps[7] + 180)
	cusps[2] = zodiac.Normalize(cusps[8] + 180)
	fillOpposites(&cusps)
	return cusps, nil
}

// porphyry trisects the ecliptic arcs of each quadrant
func porphyry(angles AngularPoints) [12]float64 {
	var cusps [12]float64
	asc, mc := angles.Ascendant, angles.MC
	ic := zodiac.Normalize(mc + 180)

	upper := zodiac.Normalize(asc - mc)
	lower := zodiac.Normalize(ic - asc)

	cusps[9] = mc
	cusps[10] = zodiac.Normalize(mc + upper/3)
	cusps[11] = zodiac.Normalize(mc + 2*upper/3)
	cusps[0] = asc
	cusps[1] = zodiac.Normalize(asc + lower/3)
	cusps[2] = zodiac.Normalize(asc + 2*lower/3)
	cusps[7] = zodiac.Normalize(cusps[1] + 180)
	cusps[8] = zodiac.Normalize(cusps[2] + 180)
	fillOpposites(&cusps)
	return cusps
}

// fillOpposites sets houses 4 through 7 opposite houses 10 through 1
func fillOpposites(c *[12]float64) {
	c[3] = zodiac.Normalize(c[9] + 180)
	c[4] = zodiac.Normalize(c[10] + 180)
	c[5] = zodiac.Normalize(c[11] + 180)
	c[6] = zodiac.Normalize(c[0] + 180)
}
