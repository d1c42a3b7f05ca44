package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"astrochart/core/aspect"
	"astrochart/core/catalog"
	"astrochart/core/ephemeris"
	"astrochart/core/returns"
	"astrochart/core/types"
	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// daysPerYear maps one elapsed year onto one day of progressed motion
const daysPerYear = 365.25

// TransitRequest compares the sky at Time with a natal chart
type TransitRequest struct {
	Natal *types.NatalChart
	Time  time.Time

	// Location defaults to the natal location
	Location *types.Location

	// HouseSystem defaults to the natal chart's system
	HouseSystem string
}

// ProgressionRequest progresses a natal chart to Date
type ProgressionRequest struct {
	Natal       *types.NatalChart
	Date        time.Time
	HouseSystem string
}

// SolarReturnRequest asks for the solar return in Year
type SolarReturnRequest struct {
	Natal       *types.NatalChart
	Year        int
	Location    *types.Location
	HouseSystem string
}

// LunarReturnRequest asks for the lunar return nearest Approx (within two days)
type LunarReturnRequest struct {
	Natal       *types.NatalChart
	Approx      time.Time
	Location    *types.Location
	HouseSystem string
}

// Transit computes transiting positions and their aspects to the natal chart
func (e *Engine) Transit(ctx context.Context, req TransitRequest) (*types.TransitChart, error) {
	if err := validateNatal(req.Natal); err != nil {
		return nil, err
	}
	if req.Time.IsZero() {
		return nil, apperrors.Input("transit time is required")
	}
	loc := locationOr(req.Location, req.Natal.Event.Location)
	if err := validateLocation(loc); err != nil {
		return nil, err
	}
	hs, err := e.derivedHouseSystem(req.HouseSystem, req.Natal)
	if err != nil {
		return nil, err
	}

	t := req.Time.UTC()
	snap, err := e.cast(ctx, t, loc, hs, castOptions{chart: types.KindTransit})
	if err != nil {
		return nil, err
	}
	pairs := e.aspects.FindCross(snap.ordered, req.Natal.Positions.Ordered(), aspect.CrossOptions{
		MovingPrefix: aspect.PrefixTransit,
		FixedPrefix:  aspect.PrefixNatal,
	})

	return &types.TransitChart{
		Base: types.Base{
			ID:        e.newID(chartSeed(string(types.KindTransit), t, loc, hs.Name, req.Natal.ID)),
			Positions: snap.positions(),
			Houses:    snap.reportHouses(),
			Aspects:   reportAspects(pairs),
			Omissions: snap.omissions,
		},
		Natal:    req.Natal,
		Date:     t,
		Location: loc,
	}, nil
}

// ProgressedInstant maps target onto the secondary-progression instant:
// each whole elapsed day between birth and target advances birth by
// 1/365.25 day. Partial days are dropped, rounding toward the past.
func ProgressedInstant(birth, target time.Time) time.Time {
	days := elapsedDays(target.Sub(birth))
	offset := time.Duration(float64(days) / daysPerYear * 24 * float64(time.Hour))
	return birth.Add(offset).UTC()
}

// elapsedDays floors d to whole days
func elapsedDays(d time.Duration) int64 {
	const day = 24 * time.Hour
	days := int64(d / day)
	if d%day < 0 {
		days--
	}
	return days
}

// Progressed computes secondary progressions at the natal location
func (e *Engine) Progressed(ctx context.Context, req ProgressionRequest) (*types.ProgressedChart, error) {
	if err := validateNatal(req.Natal); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, apperrors.Input("progression date is required")
	}
	hs, err := e.derivedHouseSystem(req.HouseSystem, req.Natal)
	if err != nil {
		return nil, err
	}

	instant := ProgressedInstant(req.Natal.Event.UTC, req.Date)
	snap, err := e.cast(ctx, instant, req.Natal.Event.Location, hs, castOptions{chart: types.KindProgressed})
	if err != nil {
		return nil, err
	}
	pairs := e.aspects.FindCross(snap.ordered, req.Natal.Positions.Ordered(), aspect.CrossOptions{
		MovingPrefix: aspect.PrefixProgressed,
		FixedPrefix:  aspect.PrefixNatal,
	})

	return &types.ProgressedChart{
		Base: types.Base{
			ID:        e.newID(chartSeed(string(types.KindProgressed), instant, req.Natal.Event.Location, hs.Name, req.Natal.ID)),
			Positions: snap.positions(),
			Houses:    snap.reportHouses(),
			Aspects:   reportAspects(pairs),
			Omissions: snap.omissions,
		},
		Natal:   req.Natal,
		Date:    req.Date.UTC(),
		Instant: instant,
	}, nil
}

// SolarReturn finds the Sun's return to its natal longitude near the
// birthday in req.Year and casts a chart for that instant.
func (e *Engine) SolarReturn(ctx context.Context, req SolarReturnRequest) (*types.ReturnChart, error) {
	if err := validateNatal(req.Natal); err != nil {
		return nil, err
	}
	if req.Year < 1 || req.Year > 9999 {
		return nil, apperrors.Inputf("return year %d out of range", req.Year)
	}
	birth := req.Natal.Event.UTC
	approx := time.Date(req.Year, birth.Month(), birth.Day(), birth.Hour(), birth.Minute(), birth.Second(), birth.Nanosecond(), time.UTC)
	settings := e.catalog.Returns()

	return e.returnChart(ctx, returnSpec{
		kind:        types.SolarReturn,
		body:        ephemeris.Sun,
		natal:       req.Natal,
		approx:      approx,
		year:        req.Year,
		precision:   settings.SolarPrecision,
		step:        settings.SolarFineStep,
		location:    req.Location,
		houseSystem: req.HouseSystem,
	})
}

// LunarReturn finds the Moon's return to its natal longitude near req.Approx
func (e *Engine) LunarReturn(ctx context.Context, req LunarReturnRequest) (*types.ReturnChart, error) {
	if err := validateNatal(req.Natal); err != nil {
		return nil, err
	}
	if req.Approx.IsZero() {
		return nil, apperrors.Input("approximate return date is required")
	}
	settings := e.catalog.Returns()

	return e.returnChart(ctx, returnSpec{
		kind:        types.LunarReturn,
		body:        ephemeris.Moon,
		natal:       req.Natal,
		approx:      req.Approx.UTC(),
		year:        req.Approx.UTC().Year(),
		precision:   settings.LunarPrecision,
		step:        settings.LunarFineStep,
		location:    req.Location,
		houseSystem: req.HouseSystem,
	})
}

type returnSpec struct {
	kind        types.ReturnKind
	body        string
	natal       *types.NatalChart
	approx      time.Time
	year        int
	precision   float64
	step        time.Duration
	location    *types.Location
	houseSystem string
}

func (e *Engine) returnChart(ctx context.Context, spec returnSpec) (*types.ReturnChart, error) {
	target, ok := spec.natal.Positions[spec.body]
	if !ok {
		return nil, apperrors.Inputf("natal chart has no %s position", spec.body).
			WithContext("return_kind", string(spec.kind))
	}
	loc := locationOr(spec.location, spec.natal.Event.Location)
	if err := validateLocation(loc); err != nil {
		return nil, err
	}
	hs, err := e.derivedHouseSystem(spec.houseSystem, spec.natal)
	if err != nil {
		return nil, err
	}

	found, err := e.finder.Find(ctx, returns.Search{
		Body:      spec.body,
		Target:    target.Longitude,
		Approx:    spec.approx,
		Precision: spec.precision,
		FineStep:  spec.step,
	})
	if err != nil {
		return nil, err
	}

	snap, err := e.cast(ctx, found.Instant, loc, hs, castOptions{chart: types.KindReturn})
	if err != nil {
		return nil, err
	}
	pairs := e.aspects.FindAll(snap.ordered, 1)

	e.logger.Debug("return located",
		zap.String("kind", string(spec.kind)),
		zap.Time("instant", found.Instant),
		zap.Float64("residual", found.Residual),
		zap.Bool("converged", found.Converged),
	)

	return &types.ReturnChart{
		Base: types.Base{
			ID:        e.newID(chartSeed(string(types.KindReturn)+":"+string(spec.kind), found.Instant, loc, hs.Name, spec.natal.ID)),
			Positions: snap.positions(),
			Houses:    snap.reportHouses(),
			Aspects:   reportAspects(pairs),
			Omissions: snap.omissions,
		},
		Natal:      spec.natal,
		ReturnKind: spec.kind,
		Body:       spec.body,
		Year:       spec.year,
		Instant:    found.Instant,
		Residual:   zodiac.Round(found.Residual, placesResidual),
		Location:   loc,
	}, nil
}

// derivedHouseSystem resolves the requested system, falling back to the
// one the natal chart was cast in and then to the catalog default.
func (e *Engine) derivedHouseSystem(name string, natal *types.NatalChart) (catalog.HouseSystem, error) {
	if name == "" {
		name = natal.Houses.System
	}
	return e.houseSystem(name)
}

func validateNatal(n *types.NatalChart) error {
	if n == nil {
		return apperrors.Input("natal chart is required")
	}
	if n.Event.UTC.IsZero() {
		return apperrors.Input("natal chart has no event time")
	}
	if len(n.Positions) == 0 {
		return apperrors.Input("natal chart has no positions")
	}
	return validateLocation(n.Event.Location)
}

func locationOr(loc *types.Location, fallback types.Location) types.Location {
	if loc == nil {
		return fallback
	}
	return *loc
}
