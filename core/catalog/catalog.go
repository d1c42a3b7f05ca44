// Package catalog - Authoritative astrology configuration tables
// A Catalog is built once, validated, and then only read. Engines receive it
// by injection; there is no process-wide instance.
package catalog

import (
	"time"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// AspectDefinition configures one aspect type
type AspectDefinition struct {
	Name   string       `json:"name"`
	Angle  float64      `json:"angle"`
	Orb    float64      `json:"orb"`
	Symbol string       `json:"symbol"`
	Nature types.Nature `json:"nature"`
	Class  string       `json:"class,omitempty"`
}

// HouseSystem maps a house-system name to the provider's system code
type HouseSystem struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// BodyGroup is a named list of bodies to compute
type BodyGroup struct {
	Name   string   `json:"name"`
	Bodies []string `json:"bodies"`
}

// FixedStarSettings controls fixed stars inside charts
type FixedStarSettings struct {
	Enabled bool     `json:"enabled"`
	Stars   []string `json:"stars"`
}

// TrianglePattern configures the closed-triangle search
type TrianglePattern struct {
	Enabled  bool    `json:"enabled"`
	Name     string  `json:"name"`
	Aspect   string  `json:"aspect"`
	Strength float64 `json:"strength"`
}

// TSquarePattern configures the opposition-with-two-squares search
type TSquarePattern struct {
	Enabled    bool    `json:"enabled"`
	Name       string  `json:"name"`
	Opposition string  `json:"opposition"`
	Square     string  `json:"square"`
	Strength   float64 `json:"strength"`
}

// ClusterPattern configures the same-sign cluster search
type ClusterPattern struct {
	Enabled   bool    `json:"enabled"`
	Name      string  `json:"name"`
	MinBodies int     `json:"min_bodies"`
	Strength  float64 `json:"strength"`
}

// PatternSettings groups the pattern thresholds
type PatternSettings struct {
	GrandTrine TrianglePattern `json:"grand_trine"`
	TSquare    TSquarePattern  `json:"t_square"`
	Stellium   ClusterPattern  `json:"stellium"`
}

// ReturnSettings configures the return finder per return kind
type ReturnSettings struct {
	SolarPrecision float64       `json:"solar_precision"`
	LunarPrecision float64       `json:"lunar_precision"`
	SolarFineStep  time.Duration `json:"solar_fine_step"`
	LunarFineStep  time.Duration `json:"lunar_fine_step"`
}

// Tables is the raw material a Catalog is built from
type Tables struct {
	Aspects            []AspectDefinition
	OrbMultipliers     map[string]float64
	HouseSystems       []HouseSystem
	DefaultHouseSystem string
	BodyGroups         []BodyGroup
	CalculatedPoints   []string
	FixedStars         FixedStarSettings
	Patterns           PatternSettings
	Returns            ReturnSettings
	TransitOrbScale    float64
}

// Catalog is the validated, read-only configuration store
type Catalog struct {
	t Tables
}

// New copies t, validates it and returns the catalog
func New(t Tables) (*Catalog, error) {
	c := &Catalog{t: cloneTables(t)}
	if errs := c.Validate(DefaultValidationRules()); len(errs) > 0 {
		return nil, apperrors.Config("invalid catalog", joinErrors(errs))
	}
	return c, nil
}

// MustNew is New for tables known to be valid
func MustNew(t Tables) *Catalog {
	c, err := New(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Aspects returns the aspect definitions in matching order
func (c *Catalog) Aspects() []AspectDefinition {
	return append([]AspectDefinition(nil), c.t.Aspects...)
}

// Aspect looks up an aspect definition by name
func (c *Catalog) Aspect(name string) (AspectDefinition, bool) {
	for _, a := range c.t.Aspects {
		if a.Name == name {
			return a, true
		}
	}
	return AspectDefinition{}, false
}

// OrbMultiplier returns the body's orb multiplier, 1 when none is configured
func (c *Catalog) OrbMultiplier(body string) float64 {
	if m, ok := c.t.OrbMultipliers[body]; ok {
		return m
	}
	return 1
}

// OrbMultipliers returns a copy of the configured multipliers
func (c *Catalog) OrbMultipliers() map[string]float64 {
	out := make(map[string]float64, len(c.t.OrbMultipliers))
	for k, v := range c.t.OrbMultipliers {
		out[k] = v
	}
	return out
}

// HouseSystems returns every catalogued house system in declaration order
func (c *Catalog) HouseSystems() []HouseSystem {
	return append([]HouseSystem(nil), c.t.HouseSystems...)
}

// HouseSystem resolves a house-system name; empty selects the default
func (c *Catalog) HouseSystem(name string) (HouseSystem, error) {
	if name == "" {
		name = c.t.DefaultHouseSystem
	}
	for _, hs := range c.t.HouseSystems {
		if hs.Name == name {
			if hs.Code == "" {
				return HouseSystem{}, apperrors.Configf("house system %q has no provider code", name)
			}
			return hs, nil
		}
	}
	return HouseSystem{}, apperrors.NotFound("house system", name).WithContext("available", c.houseSystemNames())
}

// DefaultHouseSystem returns the default house-system name
func (c *Catalog) DefaultHouseSystem() string {
	return c.t.DefaultHouseSystem
}

func (c *Catalog) houseSystemNames() []string {
	names := make([]string, 0, len(c.t.HouseSystems))
	for _, hs := range c.t.HouseSystems {
		names = append(names, hs.Name)
	}
	return names
}

// BodyGroups returns the configured body groups
func (c *Catalog) BodyGroups() []BodyGroup {
	out := make([]BodyGroup, len(c.t.BodyGroups))
	for i, g := range c.t.BodyGroups {
		out[i] = BodyGroup{Name: g.Name, Bodies: append([]string(nil), g.Bodies...)}
	}
	return out
}

// Bodies returns every body to compute, in group order, without duplicates
func (c *Catalog) Bodies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range c.t.BodyGroups {
		for _, b := range g.Bodies {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// CalculatedPoints returns the derived points to add to natal charts
func (c *Catalog) CalculatedPoints() []string {
	return append([]string(nil), c.t.CalculatedPoints...)
}

// HasCalculatedPoint reports whether a derived point is enabled
func (c *Catalog) HasCalculatedPoint(name string) bool {
	for _, p := range c.t.CalculatedPoints {
		if p == name {
			return true
		}
	}
	return false
}

// FixedStars returns the fixed-star settings
func (c *Catalog) FixedStars() FixedStarSettings {
	return FixedStarSettings{Enabled: c.t.FixedStars.Enabled, Stars: append([]string(nil), c.t.FixedStars.Stars...)}
}

// Patterns returns the pattern thresholds
func (c *Catalog) Patterns() PatternSettings {
	return c.t.Patterns
}

// Returns returns the return-finder settings
func (c *Catalog) Returns() ReturnSettings {
	return c.t.Returns
}

// TransitOrbScale is the orb scale for moving-versus-natal aspects
func (c *Catalog) TransitOrbScale() float64 {
	return c.t.TransitOrbScale
}

func cloneTables(t Tables) Tables {
	out := t
	out.Aspects = append([]AspectDefinition(nil), t.Aspects...)
	out.HouseSystems = append([]HouseSystem(nil), t.HouseSystems...)
	out.CalculatedPoints = append([]string(nil), t.CalculatedPoints...)
	out.FixedStars.Stars = append([]string(nil), t.FixedStars.Stars...)
	out.OrbMultipliers = make(map[string]float64, len(t.OrbMultipliers))
	for k, v := range t.OrbMultipliers {
		out.OrbMultipliers[k] = v
	}
	out.BodyGroups = make([]BodyGroup, len(t.BodyGroups))
	for i, g := range t.BodyGroups {
		out.BodyGroups[i] = BodyGroup{Name: g.Name, Bodies: append([]string(nil), g.Bodies...)}
	}
	return out
}
