package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/engine"
	"astrochart/core/output"
)

var (
	transitFlags    birthFlags
	transitAt       string
	transitTimezone string
)

var transitCmd = &cobra.Command{
	Use:   "transit",
	Short: "Compare the sky at a moment with a natal chart",
	Args:  cobra.NoArgs,
	RunE:  runTransit,
}

func init() {
	transitFlags.register(transitCmd, true)
	transitCmd.Flags().StringVar(&transitAt, "at", "", "transit datetime (default now)")
	transitCmd.Flags().StringVar(&transitTimezone, "at-timezone", "", "IANA timezone of a wall-clock --at")
	transitCmd.Flags().Float64("at-lat", 0, "transit latitude (default natal)")
	transitCmd.Flags().Float64("at-lon", 0, "transit longitude (default natal)")
	rootCmd.AddCommand(transitCmd)
}

func runTransit(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	req, err := transitFlags.request()
	if err != nil {
		return err
	}
	at, err := dateOrNow(transitAt, transitTimezone)
	if err != nil {
		return err
	}
	loc, err := optionalLocation(cmd, "at-lat", "at-lon")
	if err != nil {
		return err
	}

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	natal, err := eng.Natal(ctx, req)
	if err != nil {
		return err
	}
	chart, err := eng.Transit(ctx, engine.TransitRequest{Natal: natal, Time: at, Location: loc})
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Chart: chart}, start)
}
