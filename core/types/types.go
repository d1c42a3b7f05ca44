// Package types defines the chart record tree shared across all layers.
// This package contains NO calculation logic - only type definitions and
// accessors, so any renderer can traverse a chart without importing the core.
package types

import (
	"sort"
	"time"
)

// Nature classifies the quality of an aspect
type Nature string

const (
	NatureHarmonious  Nature = "harmonious"
	NatureChallenging Nature = "challenging"
	NatureNeutral     Nature = "neutral"
)

// IsValid checks if the nature is a known value
func (n Nature) IsValid() bool {
	switch n {
	case NatureHarmonious, NatureChallenging, NatureNeutral:
		return true
	default:
		return false
	}
}

// Location is a geographic location
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

// EventData describes the birth or event a chart is cast for
type EventData struct {
	// UTC is the event instant in UTC
	UTC time.Time `json:"datetime_utc"`

	// Location is where the event happened
	Location Location `json:"location"`

	// JulianDay is the UT Julian day of UTC
	JulianDay float64 `json:"julian_day"`

	// Timezone is the IANA zone the local time was given in, if any
	Timezone string `json:"timezone,omitempty"`

	// LocalTime is the wall-clock time as supplied, if any
	LocalTime *time.Time `json:"local_datetime,omitempty"`
}

// Position is a computed celestial body or point
type Position struct {
	Name       string  `json:"name"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Distance   float64 `json:"distance"`
	Speed      float64 `json:"speed"`
	Sign       string  `json:"sign"`
	SignSymbol string  `json:"sign_symbol"`
	Degree     float64 `json:"degree"`
	House      int     `json:"house"`
	Retrograde bool    `json:"retrograde"`
}

// Aspect is the classification of the angle between two bodies
type Aspect struct {
	Type     string  `json:"aspect_type"`
	Angle    float64 `json:"angle"`
	Orb      float64 `json:"orb"`
	Applying bool    `json:"applying"`
	Strength float64 `json:"strength"`
	Symbol   string  `json:"symbol"`
	Nature   Nature  `json:"nature"`
}

// AspectPair binds an aspect to the bodies forming it
type AspectPair struct {
	Body1  string `json:"body1"`
	Body2  string `json:"body2"`
	Aspect Aspect `json:"aspect"`
}

// Pattern is a multi-body configuration detected from positions and aspects
type Pattern struct {
	Type     string   `json:"pattern_type"`
	Bodies   []string `json:"bodies"`
	Sign     string   `json:"sign,omitempty"`
	Strength float64  `json:"strength"`
}

// Houses is a house cusp set with the angular points
type Houses struct {
	System              string      `json:"system"`
	Cusps               [12]float64 `json:"cusps"`
	Ascendant           float64     `json:"ascendant"`
	MC                  float64     `json:"mc"`
	Vertex              float64     `json:"vertex"`
	EquatorialAscendant *float64    `json:"equatorial_ascendant,omitempty"`
}

// Descendant returns the point opposite the ascendant
func (h Houses) Descendant() float64 {
	d := h.Ascendant + 180
	if d >= 360 {
		d -= 360
	}
	return d
}

// Omission records a body that could not be placed in a chart
type Omission struct {
	Body   string `json:"body"`
	Reason string `json:"reason"`
}

// Positions maps body identifiers to positions
type Positions map[string]Position

// Names returns the body identifiers in ascending order
func (p Positions) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ordered returns the positions sorted by identifier
func (p Positions) Ordered() []Position {
	out := make([]Position, 0, len(p))
	for _, name := range p.Names() {
		out = append(out, p[name])
	}
	return out
}
