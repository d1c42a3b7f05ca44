package api

import (
	"time"

	"astrochart/core/catalog"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ConfigResponse exposes the catalog the engine runs with
type ConfigResponse struct {
	Provider           string                     `json:"provider"`
	Aspects            []catalog.AspectDefinition `json:"aspects"`
	OrbMultipliers     map[string]float64         `json:"orb_multipliers"`
	HouseSystems       []catalog.HouseSystem      `json:"house_systems"`
	DefaultHouseSystem string                     `json:"default_house_system"`
	BodyGroups         []catalog.BodyGroup        `json:"body_groups"`
	CalculatedPoints   []string                   `json:"calculated_points"`
	FixedStars         catalog.FixedStarSettings  `json:"fixed_stars"`
	Patterns           catalog.PatternSettings    `json:"patterns"`
	Returns            ReturnsConfig              `json:"returns"`
	TransitOrbScale    float64                    `json:"transit_orb_scale"`
}

// ReturnsConfig is catalog.ReturnSettings with readable durations
type ReturnsConfig struct {
	SolarPrecision float64 `json:"solar_precision"`
	LunarPrecision float64 `json:"lunar_precision"`
	SolarFineStep  string  `json:"solar_fine_step"`
	LunarFineStep  string  `json:"lunar_fine_step"`
}

// HealthResponse reports liveness and dependency state
type HealthResponse struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Time     time.Time `json:"time"`
	Provider string    `json:"provider"`
	Cache    string    `json:"cache"`
}

// VersionResponse identifies the running build
type VersionResponse struct {
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	APIVersion string `json:"api_version"`
}
