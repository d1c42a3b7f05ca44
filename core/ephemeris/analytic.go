package ephemeris

import (
	"context"
	"math"
	"time"

	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// Body identifiers served by Analytic
const (
	Sun      = "Sun"
	Moon     = "Moon"
	Mercury  = "Mercury"
	Venus    = "Venus"
	Mars     = "Mars"
	Jupiter  = "Jupiter"
	Saturn   = "Saturn"
	Uranus   = "Uranus"
	Neptune  = "Neptune"
	Pluto    = "Pluto"
	TrueNode = "True_Node"
	MeanNode = "Mean_Node"
	Lilith   = "Lilith"
)

// speedStep is half the finite-difference interval used for daily motion, in days
const speedStep = 0.5

type eclipticFunc func(jd float64) (lon, lat, dist float64)

// Analytic computes positions from closed-form series. It holds no state
// and is safe for concurrent use.
type Analytic struct {
	bodies map[string]eclipticFunc
	stars  *StarCatalog
}

// NewAnalytic creates the built-in provider
func NewAnalytic() *Analytic {
	a := &Analytic{
		bodies: map[string]eclipticFunc{
			Sun:      sunPosition,
			Moon:     moonPosition,
			TrueNode: trueNode,
			MeanNode: meanNode,
			Lilith:   meanLilith,
		},
		stars: DefaultStars(),
	}
	for name, el := range planetElements {
		a.bodies[name] = func(jd float64) (float64, float64, float64) {
			return planetPosition(el, jd)
		}
	}
	return a
}

// Name implements Provider
func (a *Analytic) Name() string { return "analytic" }

// Available implements Provider
func (a *Analytic) Available(body string) bool {
	_, ok := a.bodies[body]
	return ok
}

// Position implements Provider. Speed is the central difference of
// longitude over one day.
func (a *Analytic) Position(ctx context.Context, t time.Time, body string) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	fn, ok := a.bodies[body]
	if !ok {
		return Coordinates{}, apperrors.NotSupported("position of "+body).WithContext("provider", a.Name())
	}
	jd := JulianDay(t)
	lon, lat, dist := fn(jd)
	before, _, _ := fn(jd - speedStep)
	after, _, _ := fn(jd + speedStep)

	return Coordinates{
		Longitude: zodiac.Normalize(lon),
		Latitude:  lat,
		Distance:  dist,
		Speed:     signedArc(before, after) / (2 * speedStep),
	}, nil
}

// FixedStar implements Provider
func (a *Analytic) FixedStar(ctx context.Context, t time.Time, name string) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	star, ok := a.stars.Lookup(name)
	if !ok || star.Cluster {
		return Coordinates{}, apperrors.NotFound("fixed star", name)
	}
	return Coordinates{
		Longitude: Precess(star.Longitude, JulianDay(t)),
		Latitude:  star.Latitude,
	}, nil
}

// Stars returns the provider's fixed-star catalog
func (a *Analytic) Stars() *StarCatalog {
	return a.stars
}

// signedArc is the shortest signed distance from a to b, in (-180, 180]
func signedArc(a, b float64) float64 {
	d := zodiac.Normalize(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

func sind(x float64) float64 { return math.Sin(x * math.Pi / 180) }
func cosd(x float64) float64 { return math.Cos(x * math.Pi / 180) }
func tand(x float64) float64 { return math.Tan(x * math.Pi / 180) }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * 180 / math.Pi }
func asind(x float64) float64     { return math.Asin(x) * 180 / math.Pi }
func acosd(x float64) float64     { return math.Acos(x) * 180 / math.Pi }

// obliquity is the mean obliquity of the ecliptic
func obliquity(jd float64) float64 {
	T := Centuries(jd)
	return 23.439291111 - 0.0130041667*T - 1.64e-7*T*T + 5.04e-7*T*T*T
}
