package envelope

import (
	"strings"
	"time"
	_ "time/tzdata"

	"astrochart/core/types"
	apperrors "astrochart/internal/errors"
)

// wall-clock layouts accepted alongside RFC 3339
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseInstant converts a wire datetime into a UTC instant. RFC 3339 values
// carry their own offset; anything else is read as wall-clock time in tz,
// or in UTC when tz is empty. local and zone are set when tz was given.
func ParseInstant(value, tz string) (utc time.Time, local *time.Time, zone string, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil, "", apperrors.Input("datetime is required")
	}

	loc := time.UTC
	if tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, nil, "", apperrors.Wrap(apperrors.TypeInput, "unknown timezone "+tz, err)
		}
		zone = loc.String()
	}

	if t, perr := time.Parse(time.RFC3339Nano, value); perr == nil {
		if tz != "" {
			l := t.In(loc)
			local = &l
		}
		return t.UTC(), local, zone, nil
	}

	for _, layout := range localLayouts {
		t, perr := time.ParseInLocation(layout, value, loc)
		if perr != nil {
			continue
		}
		if tz != "" {
			local = &t
		}
		return t.UTC(), local, zone, nil
	}
	return time.Time{}, nil, "", apperrors.Inputf("datetime %q is neither RFC 3339 nor YYYY-MM-DDTHH:MM[:SS]", value)
}

// ParseDate accepts a calendar date (midnight in tz) or anything ParseInstant does
func ParseDate(value, tz string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) == len("2006-01-02") {
		loc := time.UTC
		if tz != "" {
			l, err := time.LoadLocation(tz)
			if err != nil {
				return time.Time{}, apperrors.Wrap(apperrors.TypeInput, "unknown timezone "+tz, err)
			}
			loc = l
		}
		t, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			return time.Time{}, apperrors.Inputf("date %q is not YYYY-MM-DD", value)
		}
		return t.UTC(), nil
	}
	t, _, _, err := ParseInstant(value, tz)
	return t, err
}

// OptionalLocation builds a location when both coordinates are given
func OptionalLocation(lat, lon *float64) (*types.Location, error) {
	switch {
	case lat == nil && lon == nil:
		return nil, nil
	case lat == nil || lon == nil:
		return nil, apperrors.Input("latitude and longitude must be given together")
	}
	return &types.Location{Latitude: *lat, Longitude: *lon}, nil
}
