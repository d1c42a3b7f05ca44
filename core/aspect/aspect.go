// Package aspect - Aspect detection engine
// Classifies the angle between two bodies against the catalog's aspect
// definitions and decides direction (applying or separating) and strength.
package aspect

import (
	"astrochart/core/catalog"
	"astrochart/core/types"
	"astrochart/core/zodiac"
)

// Cross-comparison prefixes mark which frame a body belongs to
const (
	PrefixTransit    = "Transit_"
	PrefixProgressed = "Progressed_"
	PrefixNatal      = "Natal_"
)

// Body is the input to aspect detection for one side of a pair
type Body struct {
	Name      string
	Longitude float64
	Speed     float64
}

// FromPosition adapts a computed position
func FromPosition(p types.Position) Body {
	return Body{Name: p.Name, Longitude: p.Longitude, Speed: p.Speed}
}

// Engine finds aspects using an immutable catalog
type Engine struct {
	cat  *catalog.Catalog
	defs []catalog.AspectDefinition
}

// NewEngine creates an engine over cat
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat, defs: cat.Aspects()}
}

// FindAspect returns the first catalogued aspect whose allowed orb contains
// the separation of a and b, or false when none does. orbScale widens or
// tightens every orb uniformly.
func (e *Engine) FindAspect(a, b Body, orbScale float64) (types.Aspect, bool) {
	diff := zodiac.Separation(a.Longitude, b.Longitude)
	// the body product is formed first so swapping a and b cannot change rounding
	mult := orbScale * (e.cat.OrbMultiplier(a.Name) * e.cat.OrbMultiplier(b.Name))

	for _, def := range e.defs {
		allowed := def.Orb * mult
		exactness := abs(diff - def.Angle)
		if exactness > allowed {
			continue
		}
		return types.Aspect{
			Type:     def.Name,
			Angle:    def.Angle,
			Orb:      exactness,
			Applying: IsApplying(a, b, def.Angle),
			Strength: Strength(exactness, allowed),
			Symbol:   def.Symbol,
			Nature:   def.Nature,
		}, true
	}
	return types.Aspect{}, false
}

// IsApplying extrapolates both bodies one day forward along their speeds and
// reports whether the pair gets closer to the exact angle.
func IsApplying(a, b Body, angle float64) bool {
	now := abs(zodiac.Separation(a.Longitude, b.Longitude) - angle)
	next := abs(zodiac.Separation(a.Longitude+a.Speed, b.Longitude+b.Speed) - angle)
	return next < now
}

// Strength maps exactness linearly onto [0,100]; 100 is exact
func Strength(exactness, allowed float64) float64 {
	if allowed == 0 {
		return 100
	}
	s := 100 * (1 - exactness/allowed)
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

// FindAll compares every unordered pair of bodies once with a uniform orb scale
func (e *Engine) FindAll(bodies []types.Position, orbScale float64) []types.AspectPair {
	var pairs []types.AspectPair
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			asp, ok := e.FindAspect(FromPosition(bodies[i]), FromPosition(bodies[j]), orbScale)
			if !ok {
				continue
			}
			pairs = append(pairs, types.AspectPair{
				Body1:  bodies[i].Name,
				Body2:  bodies[j].Name,
				Aspect: asp,
			})
		}
	}
	return pairs
}

// CrossOptions configures a moving-versus-fixed comparison
type CrossOptions struct {
	// OrbScale overrides the catalog's transit orb scale when positive
	OrbScale float64

	// MovingPrefix and FixedPrefix are prepended to identifiers in the result
	MovingPrefix string
	FixedPrefix  string
}

// FindCross compares every moving body against every fixed body
func (e *Engine) FindCross(moving, fixed []types.Position, opts CrossOptions) []types.AspectPair {
	scale := opts.OrbScale
	if scale <= 0 {
		scale = e.cat.TransitOrbScale()
	}
	if opts.MovingPrefix == "" {
		opts.MovingPrefix = PrefixTransit
	}
	if opts.FixedPrefix == "" {
		opts.FixedPrefix = PrefixNatal
	}

	var pairs []types.AspectPair
	for _, m := range moving {
		for _, f := range fixed {
			asp, ok := e.FindAspect(FromPosition(m), FromPosition(f), scale)
			if !ok {
				continue
			}
			pairs = append(pairs, types.AspectPair{
				Body1:  opts.MovingPrefix + m.Name,
				Body2:  opts.FixedPrefix + f.Name,
				Aspect: asp,
			})
		}
	}
	return pairs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
