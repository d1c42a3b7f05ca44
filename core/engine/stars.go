package engine

import (
	"context"
	"time"

	"astrochart/core/ephemeris"
	"astrochart/core/types"
	"astrochart/core/zodiac"
	apperrors "astrochart/internal/errors"
)

// DefaultStarOrb is the conjunction orb between a fixed star and a body
const DefaultStarOrb = 1.0

// FixedStarsRequest asks for every catalogued star and cluster at Time
type FixedStarsRequest struct {
	Time time.Time

	// Natal, when set, is checked for star conjunctions
	Natal *types.NatalChart

	// Orb defaults to DefaultStarOrb
	Orb float64
}

// FixedStars precesses the star catalog to req.Time and lists conjunctions
// between stars and the natal bodies.
func (e *Engine) FixedStars(ctx context.Context, req FixedStarsRequest) (*types.FixedStarReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Time.IsZero() {
		return nil, apperrors.Input("calculation time is required")
	}
	orb := req.Orb
	if orb == 0 {
		orb = DefaultStarOrb
	}
	if orb < 0 || orb > 10 {
		return nil, apperrors.Inputf("star orb %v outside (0, 10]", orb)
	}

	t := req.Time.UTC()
	jd := ephemeris.JulianDay(t)
	report := &types.FixedStarReport{
		Date:         t,
		Stars:        make([]types.FixedStar, 0),
		Clusters:     make([]types.FixedStar, 0),
		Conjunctions: make([]types.StarConjunction, 0),
		Natal:        req.Natal,
	}
	for _, s := range e.stars.Stars() {
		report.Stars = append(report.Stars, precessedStar(s, jd))
	}
	for _, s := range e.stars.Clusters() {
		report.Clusters = append(report.Clusters, precessedStar(s, jd))
	}

	if req.Natal != nil {
		report.Conjunctions = StarConjunctions(report.Stars, req.Natal.Positions.Ordered(), orb)
	}
	return report, nil
}

// StarConjunctions pairs every star with every body within orb
func StarConjunctions(stars []types.FixedStar, bodies []types.Position, orb float64) []types.StarConjunction {
	out := make([]types.StarConjunction, 0)
	for _, s := range stars {
		for _, b := range bodies {
			d := zodiac.Separation(s.Longitude, b.Longitude)
			if d > orb {
				continue
			}
			out = append(out, types.StarConjunction{
				Star:          s.Name,
				Body:          b.Name,
				Orb:           zodiac.Round(d, placesLongitude),
				StarLongitude: s.Longitude,
				BodyLongitude: b.Longitude,
				StarNature:    s.Nature,
				StarMeaning:   s.Meaning,
			})
		}
	}
	return out
}

func precessedStar(s ephemeris.Star, jd float64) types.FixedStar {
	lon := zodiac.RoundLongitude(ephemeris.Precess(s.Longitude, jd), placesLongitude)
	return types.FixedStar{
		Name:            s.Name,
		TraditionalName: s.TraditionalName,
		Constellation:   s.Constellation,
		Messier:         s.Messier,
		Longitude:       lon,
		Latitude:        s.Latitude,
		Magnitude:       s.Magnitude,
		Nature:          s.Nature,
		Meaning:         s.Meaning,
		Sign:            zodiac.SignOf(lon).Name,
		Degree:          zodiac.Round(zodiac.DegreeInSign(lon), placesDegree),
		IsCluster:       s.Cluster,
	}
}
