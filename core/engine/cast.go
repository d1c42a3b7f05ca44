package engine

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"astrochart/core/catalog"
	"astrochart/core/ephemeris"
	"astrochart/core/house"
	"astrochart/core/types"
	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// Reported precision, in decimal places
const (
	placesLongitude = 4
	placesLatitude  = 4
	placesDistance  = 6
	placesSpeed     = 6
	placesDegree    = 2
	placesOrb       = 2
	placesStrength  = 2
	placesResidual  = 6
)

// Calculated point identifiers
const (
	PartOfFortune = "Part_of_Fortune"
	SouthNode     = "South_Node"
)

// snapshot is the sky at one instant and place at full precision.
// ordered keeps computation order: catalog bodies, fixed stars, calculated points.
type snapshot struct {
	houses    ephemeris.HouseCusps
	system    string
	ordered   []types.Position
	omissions []types.Omission
}

// castOptions selects the optional parts of a snapshot
type castOptions struct {
	calculatedPoints bool
	chart            types.ChartKind
}

// cast computes houses, bodies, fixed stars and optionally calculated points
func (e *Engine) cast(ctx context.Context, t time.Time, loc types.Location, hs catalog.HouseSystem, opts castOptions) (*snapshot, error) {
	cusps, err := e.houses(ctx, t, loc, hs)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{houses: cusps, system: hs.Name}
	log := e.logger.With(zap.String("chart", string(opts.chart)), zap.Time("instant", t))

	results, err := ephemeris.Resolve(ctx, e.provider, t, e.catalog.Bodies())
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if !r.OK() {
			snap.omit(log, r.Body, r.Err.Error())
			continue
		}
		snap.add(r.Body, r.Coordinates)
	}

	if fs := e.catalog.FixedStars(); fs.Enabled && len(fs.Stars) > 0 {
		stars, err := ephemeris.ResolveStars(ctx, e.provider, t, fs.Stars)
		if err != nil {
			return nil, err
		}
		for _, r := range stars {
			if !r.OK() {
				snap.omit(log, r.Body, r.Err.Error())
				continue
			}
			c := r.Coordinates
			c.Speed, c.Distance = 0, 0
			snap.add(r.Body, c)
		}
	}

	if opts.calculatedPoints {
		e.addCalculatedPoints(snap, log)
	}

	for i := range snap.ordered {
		h, ok := house.Of(snap.ordered[i].Longitude, snap.houses.Cusps)
		if !ok {
			log.Warn("house locator fell back to house 1",
				zap.String("body", snap.ordered[i].Name),
				zap.Float64("longitude", snap.ordered[i].Longitude),
				zap.Float64s("cusps", snap.houses.Cusps[:]),
			)
		}
		snap.ordered[i].House = h
	}
	return snap, nil
}

// houses asks the provider for cusps and refuses malformed sets
func (e *Engine) houses(ctx context.Context, t time.Time, loc types.Location, hs catalog.HouseSystem) (ephemeris.HouseCusps, error) {
	if hs.Code == "" {
		return ephemeris.HouseCusps{}, apperrors.Configf("house system %q has no provider code", hs.Name)
	}
	cusps, err := e.provider.Houses(ctx, t, loc.Latitude, loc.Longitude, hs.Code)
	if err != nil {
		if ctx.Err() != nil || apperrors.IsType(err, apperrors.TypeInput) {
			return ephemeris.HouseCusps{}, err
		}
		return ephemeris.HouseCusps{}, apperrors.Provider("house calculation failed", err).
			WithContext("house_system", hs.Name).
			WithContext("provider", e.provider.Name())
	}
	if err := house.ValidateCusps(cusps.Cusps); err != nil {
		return ephemeris.HouseCusps{}, apperrors.Provider("provider returned malformed cusps", err).
			WithContext("house_system", hs.Name)
	}
	return cusps, nil
}

func (s *snapshot) add(name string, c ephemeris.Coordinates) {
	s.ordered = append(s.ordered, types.Position{
		Name:       name,
		Longitude:  zodiac.Normalize(c.Longitude),
		Latitude:   c.Latitude,
		Distance:   c.Distance,
		Speed:      c.Speed,
		Retrograde: c.Retrograde(),
	})
}

func (s *snapshot) omit(log *zap.Logger, body, reason string) {
	log.Warn("body omitted", zap.String("body", body), zap.String("reason", reason))
	s.omissions = append(s.omissions, types.Omission{Body: body, Reason: reason})
}

func (s *snapshot) find(name string) (types.Position, bool) {
	for _, p := range s.ordered {
		if p.Name == name {
			return p, true
		}
	}
	return types.Position{}, false
}

// addCalculatedPoints derives the enabled points from already computed bodies
func (e *Engine) addCalculatedPoints(s *snapshot, log *zap.Logger) {
	for _, name := range e.catalog.CalculatedPoints() {
		switch name {
		case PartOfFortune:
			sun, okSun := s.find("Sun")
			moon, okMoon := s.find("Moon")
			if !okSun || !okMoon {
				s.omit(log, name, "requires Sun and Moon")
				continue
			}
			day := IsDayBirth(sun.Longitude, s.houses.Ascendant)
			s.ordered = append(s.ordered, types.Position{
				Name:      name,
				Longitude: PartOfFortuneLongitude(s.houses.Ascendant, sun.Longitude, moon.Longitude, day),
			})
		case SouthNode:
			node, ok := s.find("True_Node")
			if !ok {
				s.omit(log, name, "requires True_Node")
				continue
			}
			s.ordered = append(s.ordered, types.Position{
				Name:      name,
				Longitude: zodiac.Normalize(node.Longitude + 180),
				Speed:     -node.Speed,
			})
		default:
			s.omit(log, name, "unknown calculated point")
		}
	}
}

// IsDayBirth reports whether the Sun lies on the arc running forward from
// the ascendant to the descendant, both ends included.
func IsDayBirth(sun, asc float64) bool {
	sun, asc = zodiac.Normalize(sun), zodiac.Normalize(asc)
	desc := zodiac.Normalize(asc + 180)
	if asc < desc {
		return asc <= sun && sun <= desc
	}
	return sun >= asc || sun <= desc
}

// PartOfFortuneLongitude is Asc + Moon - Sun by day and Asc + Sun - Moon by night
func PartOfFortuneLongitude(asc, sun, moon float64, day bool) float64 {
	if day {
		return zodiac.Normalize(asc + moon - sun)
	}
	return zodiac.Normalize(asc + sun - moon)
}

// positions rounds the snapshot into the reported record
func (s *snapshot) positions() types.Positions {
	out := make(types.Positions, len(s.ordered))
	for _, p := range s.ordered {
		out[p.Name] = reportPosition(p)
	}
	return out
}

func reportPosition(p types.Position) types.Position {
	// sign and degree follow the unrounded longitude, as houses and patterns do
	sign := zodiac.SignOf(p.Longitude)
	return types.Position{
		Name:       p.Name,
		Longitude:  zodiac.RoundLongitude(p.Longitude, placesLongitude),
		Latitude:   zodiac.Round(p.Latitude, placesLatitude),
		Distance:   zodiac.Round(p.Distance, placesDistance),
		Speed:      zodiac.Round(p.Speed, placesSpeed),
		Sign:       sign.Name,
		SignSymbol: sign.Symbol,
		Degree:     math.Min(zodiac.Round(zodiac.DegreeInSign(p.Longitude), placesDegree), 29.99),
		House:      p.House,
		Retrograde: p.Retrograde,
	}
}

func (s *snapshot) reportHouses() types.Houses {
	h := types.Houses{
		System:    s.system,
		Ascendant: zodiac.RoundLongitude(s.houses.Ascendant, placesLongitude),
		MC:        zodiac.RoundLongitude(s.houses.MC, placesLongitude),
		Vertex:    zodiac.RoundLongitude(s.houses.Vertex, placesLongitude),
	}
	for i, c := range s.houses.Cusps {
		h.Cusps[i] = zodiac.RoundLongitude(c, placesLongitude)
	}
	if eq := s.houses.EquatorialAscendant; !math.IsNaN(eq) {
		v := zodiac.RoundLongitude(eq, placesLongitude)
		h.EquatorialAscendant = &v
	}
	return h
}

func reportAspects(pairs []types.AspectPair) []types.AspectPair {
	out := make([]types.AspectPair, len(pairs))
	for i, p := range pairs {
		p.Aspect.Orb = zodiac.Round(p.Aspect.Orb, placesOrb)
		p.Aspect.Strength = zodiac.Round(p.Aspect.Strength, placesStrength)
		out[i] = p
	}
	return out
}
