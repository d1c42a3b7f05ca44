package engine

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"astrochart/core/catalog"
	"astrochart/core/ephemeris"
	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// NatalRequest is the input to a natal chart
type NatalRequest struct {
	// Time is the event instant; it is converted to UTC
	Time time.Time

	Location types.Location

	// HouseSystem names a catalogued system; empty selects the default and
	// AllHouseSystems selects the multi-house variant
	HouseSystem string

	// Timezone and LocalTime are recorded on the chart when the caller
	// resolved the instant from a wall-clock time
	Timezone  string
	LocalTime *time.Time
}

// Cast returns a *types.NatalChart, or a *types.MultiHouseChart when every
// house system was requested.
func (e *Engine) Cast(ctx context.Context, req NatalRequest) (types.Chart, error) {
	if req.HouseSystem == AllHouseSystems {
		return e.MultiHouse(ctx, req)
	}
	return e.Natal(ctx, req)
}

// Natal computes a birth or event chart
func (e *Engine) Natal(ctx context.Context, req NatalRequest) (*types.NatalChart, error) {
	if err := validateEvent(req.Time, req.Location); err != nil {
		return nil, err
	}
	hs, err := e.houseSystem(req.HouseSystem)
	if err != nil {
		return nil, err
	}

	t := req.Time.UTC()
	snap, err := e.cast(ctx, t, req.Location, hs, castOptions{calculatedPoints: true, chart: types.KindNatal})
	if err != nil {
		return nil, err
	}

	pairs := e.aspects.FindAll(snap.ordered, 1)
	chart := &types.NatalChart{
		Base: types.Base{
			ID:        e.newID(chartSeed(string(types.KindNatal), t, req.Location, hs.Name, "")),
			Positions: snap.positions(),
			Houses:    snap.reportHouses(),
			Aspects:   reportAspects(pairs),
			Omissions: snap.omissions,
		},
		Event:    e.event(req, t),
		Patterns: e.patterns.Detect(snap.ordered, pairs),
	}
	e.logger.Debug("natal chart computed",
		zap.String("id", chart.ID),
		zap.Int("positions", len(chart.Positions)),
		zap.Int("aspects", len(chart.Aspects)),
		zap.Int("patterns", len(chart.Patterns)),
		zap.Int("omissions", len(chart.Omissions)),
	)
	return chart, nil
}

// MultiHouse computes a natal chart with cusps for every catalogued house
// system. Positions are placed against the default system.
func (e *Engine) MultiHouse(ctx context.Context, req NatalRequest) (*types.MultiHouseChart, error) {
	if err := validateEvent(req.Time, req.Location); err != nil {
		return nil, err
	}
	def, err := e.houseSystem("")
	if err != nil {
		return nil, err
	}

	t := req.Time.UTC()
	snap, err := e.cast(ctx, t, req.Location, def, castOptions{calculatedPoints: true, chart: types.KindMultiHouse})
	if err != nil {
		return nil, err
	}

	all := map[string]types.Houses{def.Name: snap.reportHouses()}
	for _, hs := range e.catalog.HouseSystems() {
		if hs.Name == def.Name {
			continue
		}
		cusps, err := e.houses(ctx, t, req.Location, hs)
		if err != nil {
			if ctx.Err() != nil || apperrors.IsType(err, apperrors.TypeConfig) {
				return nil, err
			}
			e.logger.Warn("house system skipped", zap.String("house_system", hs.Name), zap.Error(err))
			continue
		}
		all[hs.Name] = (&snapshot{houses: cusps, system: hs.Name}).reportHouses()
	}

	pairs := e.aspects.FindAll(snap.ordered, 1)
	return &types.MultiHouseChart{
		Base: types.Base{
			ID:        e.newID(chartSeed(string(types.KindMultiHouse), t, req.Location, def.Name, "")),
			Positions: snap.positions(),
			Houses:    all[def.Name],
			Aspects:   reportAspects(pairs),
			Omissions: snap.omissions,
		},
		Event:     e.event(req, t),
		AllHouses: all,
		Patterns:  e.patterns.Detect(snap.ordered, pairs),
	}, nil
}

func (e *Engine) event(req NatalRequest, t time.Time) types.EventData {
	return types.EventData{
		UTC:       t,
		Location:  req.Location,
		JulianDay: ephemeris.JulianDay(t),
		Timezone:  req.Timezone,
		LocalTime: req.LocalTime,
	}
}

// houseSystem resolves a requested system name. An unknown name is a
// request problem; a catalogued system without a code is a deployment one.
func (e *Engine) houseSystem(name string) (catalog.HouseSystem, error) {
	hs, err := e.catalog.HouseSystem(name)
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeNotFound) {
			return catalog.HouseSystem{}, apperrors.Wrap(apperrors.TypeInput, "unknown house system "+name, err)
		}
		return catalog.HouseSystem{}, err
	}
	return hs, nil
}

func validateEvent(t time.Time, loc types.Location) error {
	if t.IsZero() {
		return apperrors.Input("event time is required")
	}
	return validateLocation(loc)
}

func validateLocation(loc types.Location) error {
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return apperrors.Inputf("latitude %v outside [-90, 90]", loc.Latitude)
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return apperrors.Inputf("longitude %v outside [-180, 180]", loc.Longitude)
	}
	return nil
}
