package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/api/envelope"
	"astrochart/core/engine"
	"astrochart/core/types"
)

// birthFlags are the event flags shared by every chart command
type birthFlags struct {
	datetime    string
	timezone    string
	lat         float64
	lon         float64
	place       string
	houseSystem string
}

func (b *birthFlags) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVar(&b.datetime, "datetime", "", "birth datetime, RFC 3339 or YYYY-MM-DDTHH:MM[:SS] in --timezone")
	cmd.Flags().StringVar(&b.timezone, "timezone", "", "IANA timezone of a wall-clock --datetime")
	cmd.Flags().Float64Var(&b.lat, "lat", 0, "latitude in degrees, north positive")
	cmd.Flags().Float64Var(&b.lon, "lon", 0, "longitude in degrees, east positive")
	cmd.Flags().StringVar(&b.place, "place", "", "location name")
	cmd.Flags().StringVar(&b.houseSystem, "house-system", "", "house system name, or All")
	if required {
		_ = cmd.MarkFlagRequired("datetime")
	}
}

func (b *birthFlags) request() (engine.NatalRequest, error) {
	return envelope.Birth{
		Datetime:     b.datetime,
		Timezone:     b.timezone,
		Latitude:     b.lat,
		Longitude:    b.lon,
		LocationName: b.place,
		HouseSystem:  b.houseSystem,
	}.Normalize()
}

// optionalLocation reads a latitude/longitude flag pair
func optionalLocation(cmd *cobra.Command, latFlag, lonFlag string) (*types.Location, error) {
	var lat, lon *float64
	if cmd.Flags().Changed(latFlag) {
		v, _ := cmd.Flags().GetFloat64(latFlag)
		lat = &v
	}
	if cmd.Flags().Changed(lonFlag) {
		v, _ := cmd.Flags().GetFloat64(lonFlag)
		lon = &v
	}
	return envelope.OptionalLocation(lat, lon)
}

// dateOrNow parses value, defaulting to the current instant
func dateOrNow(value, tz string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	return envelope.ParseDate(value, tz)
}
