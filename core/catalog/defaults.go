// Package catalog - Built-in tables
package catalog

import (
	"time"

	"astrochart/core/types"
)

// DefaultTables returns the built-in tables. Aspect definitions are listed
// tightest orb first because the first matching definition wins.
func DefaultTables() Tables {
	return Tables{
		Aspects: []AspectDefinition{
			{Name: "Semi-Sextile", Angle: 30, Orb: 2, Symbol: "⚺", Nature: types.NatureNeutral, Class: "minor"},
			{Name: "Semi-Square", Angle: 45, Orb: 2, Symbol: "∠", Nature: types.NatureChallenging, Class: "minor"},
			{Name: "Quintile", Angle: 72, Orb: 2, Symbol: "Q", Nature: types.NatureHarmonious, Class: "minor"},
			{Name: "Sesquiquadrate", Angle: 135, Orb: 2, Symbol: "⚼", Nature: types.NatureChallenging, Class: "minor"},
			{Name: "Bi-Quintile", Angle: 144, Orb: 2, Symbol: "bQ", Nature: types.NatureHarmonious, Class: "minor"},
			{Name: "Quincunx", Angle: 150, Orb: 3, Symbol: "⚻", Nature: types.NatureChallenging, Class: "minor"},
			{Name: "Sextile", Angle: 60, Orb: 6, Symbol: "⚹", Nature: types.NatureHarmonious, Class: "major"},
			{Name: "Square", Angle: 90, Orb: 7, Symbol: "□", Nature: types.NatureChallenging, Class: "major"},
			{Name: "Conjunction", Angle: 0, Orb: 8, Symbol: "☌", Nature: types.NatureNeutral, Class: "major"},
			{Name: "Trine", Angle: 120, Orb: 8, Symbol: "△", Nature: types.NatureHarmonious, Class: "major"},
			{Name: "Opposition", Angle: 180, Orb: 8, Symbol: "☍", Nature: types.NatureChallenging, Class: "major"},
		},
		OrbMultipliers: map[string]float64{
			"Sun":             1.2,
			"Moon":            1.2,
			"Part_of_Fortune": 0.5,
		},
		HouseSystems: []HouseSystem{
			{Name: "Placidus", Code: "P", Description: "Time-based trisection of the diurnal and nocturnal semi-arcs"},
			{Name: "Equal", Code: "E", Description: "Twelve 30° houses from the ascendant"},
			{Name: "Whole Sign", Code: "W", Description: "The rising sign is the first house"},
			{Name: "Porphyry", Code: "O", Description: "Space-based trisection of the quadrants"},
		},
		DefaultHouseSystem: "Placidus",
		BodyGroups: []BodyGroup{
			{Name: "major_planets", Bodies: []string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"}},
			{Name: "nodes", Bodies: []string{"True_Node", "Mean_Node"}},
			{Name: "asteroids", Bodies: []string{"Lilith"}},
		},
		CalculatedPoints: []string{"Part_of_Fortune", "South_Node"},
		FixedStars: FixedStarSettings{
			Enabled: false,
			Stars:   []string{"Regulus", "Spica", "Algol", "Aldebaran", "Antares"},
		},
		Patterns: PatternSettings{
			GrandTrine: TrianglePattern{Enabled: true, Name: "Grand Trine", Aspect: "Trine", Strength: 90},
			TSquare:    TSquarePattern{Enabled: true, Name: "T-Square", Opposition: "Opposition", Square: "Square", Strength: 85},
			Stellium:   ClusterPattern{Enabled: true, Name: "Stellium", MinBodies: 3, Strength: 80},
		},
		Returns: ReturnSettings{
			SolarPrecision: 0.01,
			LunarPrecision: 0.1,
			SolarFineStep:  time.Minute,
			LunarFineStep:  5 * time.Minute,
		},
		TransitOrbScale: 0.8,
	}
}

// Default returns the built-in catalog
func Default() *Catalog {
	return MustNew(DefaultTables())
}
