// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants.
package catalog

import (
	"errors"
	"fmt"
	"math"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(*Tables) []error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateAspects,
		validateOrbMultipliers,
		validateHouseSystems,
		validatePatterns,
		validateReturns,
	}
}

// Validate checks a catalog against validation rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errs []error
	for _, rule := range rules {
		errs = append(errs, rule(&c.t)...)
	}
	return errs
}

func validateAspects(t *Tables) []error {
	var errs []error
	if len(t.Aspects) == 0 {
		errs = append(errs, fmt.Errorf("at least one aspect definition is required"))
	}
	seen := make(map[string]bool)
	for _, a := range t.Aspects {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("aspect with angle %v has no name", a.Angle))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("aspect %q defined twice", a.Name))
		}
		seen[a.Name] = true
		if a.Angle < 0 || a.Angle > 180 {
			errs = append(errs, fmt.Errorf("aspect %q: angle %v outside [0,180]", a.Name, a.Angle))
		}
		if a.Orb < 0 || math.IsNaN(a.Orb) {
			errs = append(errs, fmt.Errorf("aspect %q: orb must be non-negative", a.Name))
		}
		if !a.Nature.IsValid() {
			errs = append(errs, fmt.Errorf("aspect %q: unknown nature %q", a.Name, a.Nature))
		}
	}
	if t.TransitOrbScale <= 0 {
		errs = append(errs, fmt.Errorf("transit orb scale must be positive"))
	}
	return errs
}

func validateOrbMultipliers(t *Tables) []error {
	var errs []error
	for body, m := range t.OrbMultipliers {
		if m <= 0 || math.IsNaN(m) {
			errs = append(errs, fmt.Errorf("orb multiplier for %q must be positive", body))
		}
	}
	return errs
}

func validateHouseSystems(t *Tables) []error {
	var errs []error
	found := false
	seen := make(map[string]bool)
	for _, hs := range t.HouseSystems {
		if seen[hs.Name] {
			errs = append(errs, fmt.Errorf("house system %q defined twice", hs.Name))
		}
		seen[hs.Name] = true
		if hs.Code == "" {
			errs = append(errs, fmt.Errorf("house system %q has no provider code", hs.Name))
		}
		if hs.Name == t.DefaultHouseSystem {
			found = true
		}
	}
	if !found {
		errs = append(errs, fmt.Errorf("default house system %q is not catalogued", t.DefaultHouseSystem))
	}
	return errs
}

func validatePatterns(t *Tables) []error {
	var errs []error
	p := t.Patterns
	aspect := func(name string) bool {
		for _, a := range t.Aspects {
			if a.Name == name {
				return true
			}
		}
		return false
	}
	if p.GrandTrine.Enabled && !aspect(p.GrandTrine.Aspect) {
		errs = append(errs, fmt.Errorf("grand trine uses unknown aspect %q", p.GrandTrine.Aspect))
	}
	if p.TSquare.Enabled {
		if !aspect(p.TSquare.Opposition) {
			errs = append(errs, fmt.Errorf("t-square uses unknown aspect %q", p.TSquare.Opposition))
		}
		if !aspect(p.TSquare.Square) {
			errs = append(errs, fmt.Errorf("t-square uses unknown aspect %q", p.TSquare.Square))
		}
	}
	if p.Stellium.Enabled && p.Stellium.MinBodies < 2 {
		errs = append(errs, fmt.Errorf("stellium needs min_bodies >= 2, got %d", p.Stellium.MinBodies))
	}
	return errs
}

func validateReturns(t *Tables) []error {
	var errs []error
	r := t.Returns
	if r.SolarPrecision <= 0 || r.LunarPrecision <= 0 {
		errs = append(errs, fmt.Errorf("return precisions must be positive"))
	}
	if r.SolarFineStep <= 0 || r.LunarFineStep <= 0 {
		errs = append(errs, fmt.Errorf("return fine steps must be positive"))
	}
	return errs
}

// Shadow reports an aspect whose matching window overlaps an earlier, wider one
type Shadow struct {
	Earlier string
	Later   string
}

// Shadows lists definitions that can lose a match to an earlier, wider-orb
// definition at the given orb scale. Matching is first-wins, so these are
// authoring mistakes; they are reported, never re-sorted.
func (c *Catalog) Shadows(scale float64) []Shadow {
	var out []Shadow
	defs := c.t.Aspects
	for i := 0; i < len(defs); i++ {
		for j := i + 1; j < len(defs); j++ {
			a, b := defs[i], defs[j]
			if a.Orb <= b.Orb {
				continue
			}
			if math.Abs(a.Angle-b.Angle) <= (a.Orb+b.Orb)*scale {
				out = append(out, Shadow{Earlier: a.Name, Later: b.Name})
			}
		}
	}
	return out
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
