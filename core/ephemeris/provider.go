// Package ephemeris - Position provider contract and a built-in analytic provider
//
// The chart engine only depends on the Provider interface. Analytic is a
// low-precision implementation (mean orbital elements, truncated lunar
// theory, analytic house formulas) good to a fraction of a degree for
// the planets and suitable for tests, the CLI and the default server.
package ephemeris

import (
	"context"
	"time"
)

// Coordinates is what a provider returns for one body at one instant.
// Longitude and latitude are ecliptic of date in degrees, distance is in AU
// and speed is in degrees of longitude per day.
type Coordinates struct {
	Longitude float64
	Latitude  float64
	Distance  float64
	Speed     float64
}

// Retrograde reports negative longitudinal motion
func (c Coordinates) Retrograde() bool {
	return c.Speed < 0
}

// HouseCusps holds the twelve cusps and the angular points for a location
type HouseCusps struct {
	Cusps               [12]float64
	Ascendant           float64
	MC                  float64
	Vertex              float64
	EquatorialAscendant float64
}

// Provider supplies body positions and house cusps
type Provider interface {
	// Name identifies the provider in logs
	Name() string

	// Position returns the coordinates of body at t. Unknown bodies fail.
	Position(ctx context.Context, t time.Time, body string) (Coordinates, error)

	// FixedStar returns the position of a named fixed star at t
	FixedStar(ctx context.Context, t time.Time, name string) (Coordinates, error)

	// Houses computes cusps for a location using a provider system code
	Houses(ctx context.Context, t time.Time, lat, lon float64, system string) (HouseCusps, error)

	// Available reports whether Position can serve body
	Available(body string) bool
}

// BodyResult is the outcome of asking a provider for one body: either
// coordinates or the reason the body is unavailable.
type BodyResult struct {
	Body        string
	Coordinates Coordinates
	Err         error
}

// OK reports whether the body was resolved
func (r BodyResult) OK() bool {
	return r.Err == nil
}

// Resolve asks p for every body in order. Per-body failures are returned in
// the results; only cancellation of ctx aborts the whole call.
func Resolve(ctx context.Context, p Provider, t time.Time, bodies []string) ([]BodyResult, error) {
	out := make([]BodyResult, 0, len(bodies))
	for _, b := range bodies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := p.Position(ctx, t, b)
		out = append(out, BodyResult{Body: b, Coordinates: c, Err: err})
	}
	return out, nil
}

// ResolveStars is Resolve for fixed stars
func ResolveStars(ctx context.Context, p Provider, t time.Time, names []string) ([]BodyResult, error) {
	out := make([]BodyResult, 0, len(names))
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := p.FixedStar(ctx, t, n)
		out = append(out, BodyResult{Body: n, Coordinates: c, Err: err})
	}
	return out, nil
}
