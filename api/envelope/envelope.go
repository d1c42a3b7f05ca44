// Package envelope - Input normalization and envelope creation
// The engine never sees wire input, only normalized requests. Every
// normalized request is sealed with a deterministic hash that identifies
// the chart it produces.
package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"astrochart/core/engine"
	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// Birth is the wire form of a birth or event
type Birth struct {
	// Datetime is RFC 3339, or a wall-clock time read in Timezone
	Datetime     string  `json:"datetime"`
	Timezone     string  `json:"timezone,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name,omitempty"`
	HouseSystem  string  `json:"house_system,omitempty"`
}

// TransitInput is the wire form of a transit request
type TransitInput struct {
	Natal       Birth    `json:"natal"`
	Datetime    string   `json:"transit_datetime"`
	Timezone    string   `json:"transit_timezone,omitempty"`
	Latitude    *float64 `json:"transit_latitude,omitempty"`
	Longitude   *float64 `json:"transit_longitude,omitempty"`
	HouseSystem string   `json:"house_system,omitempty"`
}

// ProgressionInput is the wire form of a progression request
type ProgressionInput struct {
	Natal Birth `json:"natal"`

	// Date is a calendar date or a full instant
	Date        string `json:"progressed_date"`
	HouseSystem string `json:"house_system,omitempty"`
}

// SolarReturnInput is the wire form of a solar return request
type SolarReturnInput struct {
	Natal       Birth    `json:"natal"`
	Year        int      `json:"return_year"`
	Latitude    *float64 `json:"return_location_latitude,omitempty"`
	Longitude   *float64 `json:"return_location_longitude,omitempty"`
	HouseSystem string   `json:"house_system,omitempty"`
}

// LunarReturnInput is the wire form of a lunar return request
type LunarReturnInput struct {
	Natal       Birth    `json:"natal"`
	Approximate string   `json:"approximate_date"`
	Latitude    *float64 `json:"return_location_latitude,omitempty"`
	Longitude   *float64 `json:"return_location_longitude,omitempty"`
	HouseSystem string   `json:"house_system,omitempty"`
}

// FixedStarsInput is the wire form of a fixed-star report request
type FixedStarsInput struct {
	Date  string  `json:"calculation_date"`
	Natal *Birth  `json:"natal,omitempty"`
	Orb   float64 `json:"orb,omitempty"`
}

// Transit is a normalized transit request
type Transit struct {
	Natal       engine.NatalRequest
	Time        time.Time
	Location    *types.Location
	HouseSystem string
}

// Progression is a normalized progression request
type Progression struct {
	Natal       engine.NatalRequest
	Date        time.Time
	HouseSystem string
}

// SolarReturn is a normalized solar return request
type SolarReturn struct {
	Natal       engine.NatalRequest
	Year        int
	Location    *types.Location
	HouseSystem string
}

// LunarReturn is a normalized lunar return request
type LunarReturn struct {
	Natal       engine.NatalRequest
	Approx      time.Time
	Location    *types.Location
	HouseSystem string
}

// FixedStars is a normalized fixed-star report request
type FixedStars struct {
	Time  time.Time
	Natal *engine.NatalRequest
	Orb   float64
}

// Normalize resolves the datetime and builds the engine request
func (b Birth) Normalize() (engine.NatalRequest, error) {
	utc, local, zone, err := ParseInstant(b.Datetime, b.Timezone)
	if err != nil {
		return engine.NatalRequest{}, err
	}
	return engine.NatalRequest{
		Time:        utc,
		Location:    types.Location{Latitude: b.Latitude, Longitude: b.Longitude, Name: b.LocationName},
		HouseSystem: b.HouseSystem,
		Timezone:    zone,
		LocalTime:   local,
	}, nil
}

func (in TransitInput) Normalize() (Transit, error) {
	natal, err := in.Natal.Normalize()
	if err != nil {
		return Transit{}, err
	}
	t, _, _, err := ParseInstant(in.Datetime, in.Timezone)
	if err != nil {
		return Transit{}, err
	}
	loc, err := OptionalLocation(in.Latitude, in.Longitude)
	if err != nil {
		return Transit{}, err
	}
	return Transit{Natal: natal, Time: t, Location: loc, HouseSystem: in.HouseSystem}, nil
}

func (in ProgressionInput) Normalize() (Progression, error) {
	natal, err := in.Natal.Normalize()
	if err != nil {
		return Progression{}, err
	}
	date, err := ParseDate(in.Date, in.Natal.Timezone)
	if err != nil {
		return Progression{}, err
	}
	return Progression{Natal: natal, Date: date, HouseSystem: in.HouseSystem}, nil
}

func (in SolarReturnInput) Normalize() (SolarReturn, error) {
	natal, err := in.Natal.Normalize()
	if err != nil {
		return SolarReturn{}, err
	}
	loc, err := OptionalLocation(in.Latitude, in.Longitude)
	if err != nil {
		return SolarReturn{}, err
	}
	return SolarReturn{Natal: natal, Year: in.Year, Location: loc, HouseSystem: in.HouseSystem}, nil
}

func (in LunarReturnInput) Normalize() (LunarReturn, error) {
	natal, err := in.Natal.Normalize()
	if err != nil {
		return LunarReturn{}, err
	}
	approx, err := ParseDate(in.Approximate, in.Natal.Timezone)
	if err != nil {
		return LunarReturn{}, err
	}
	loc, err := OptionalLocation(in.Latitude, in.Longitude)
	if err != nil {
		return LunarReturn{}, err
	}
	return LunarReturn{Natal: natal, Approx: approx, Location: loc, HouseSystem: in.HouseSystem}, nil
}

func (in FixedStarsInput) Normalize() (FixedStars, error) {
	t, err := ParseDate(in.Date, "")
	if err != nil {
		return FixedStars{}, err
	}
	out := FixedStars{Time: t, Orb: in.Orb}
	if in.Natal != nil {
		natal, err := in.Natal.Normalize()
		if err != nil {
			return FixedStars{}, err
		}
		out.Natal = &natal
	}
	return out, nil
}

// Envelope identifies a normalized request
type Envelope struct {
	Operation    string    `json:"operation"`
	InputHash    string    `json:"input_hash"`
	NormalizedAt time.Time `json:"normalized_at"`
}

// Seal hashes a normalized request. Equal requests seal to equal hashes.
func Seal(operation string, normalized interface{}) (*Envelope, error) {
	data, err := json.Marshal(struct {
		Operation string
		Request   interface{}
	}{operation, normalized})
	if err != nil {
		return nil, apperrors.Internal("seal "+operation+" request", err)
	}
	hash := sha256.Sum256(data)
	return &Envelope{
		Operation:    operation,
		InputHash:    hex.EncodeToString(hash[:]),
		NormalizedAt: time.Now().UTC(),
	}, nil
}

// ShortHash returns first 12 characters of hash
func (e *Envelope) ShortHash() string {
	if len(e.InputHash) >= 12 {
		return e.InputHash[:12]
	}
	return e.InputHash
}
