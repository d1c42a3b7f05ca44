package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/engine"
	"astrochart/core/output"
)

var (
	solarFlags birthFlags
	solarYear  int

	lunarFlags birthFlags
	lunarNear  string
)

var solarReturnCmd = &cobra.Command{
	Use:   "solar-return",
	Short: "Find the Sun's return to its natal longitude in a year",
	Args:  cobra.NoArgs,
	RunE:  runSolarReturn,
}

var lunarReturnCmd = &cobra.Command{
	Use:   "lunar-return",
	Short: "Find the Moon's return to its natal longitude near a date",
	Long: `Find the Moon's return to its natal longitude. The search covers two
days either side of --near, so pass a date close to the expected return.`,
	Args: cobra.NoArgs,
	RunE: runLunarReturn,
}

func init() {
	solarFlags.register(solarReturnCmd, true)
	solarReturnCmd.Flags().IntVar(&solarYear, "year", 0, "return year (default this year)")
	solarReturnCmd.Flags().Float64("return-lat", 0, "return latitude (default natal)")
	solarReturnCmd.Flags().Float64("return-lon", 0, "return longitude (default natal)")

	lunarFlags.register(lunarReturnCmd, true)
	lunarReturnCmd.Flags().StringVar(&lunarNear, "near", "", "approximate return date (default today)")
	lunarReturnCmd.Flags().Float64("return-lat", 0, "return latitude (default natal)")
	lunarReturnCmd.Flags().Float64("return-lon", 0, "return longitude (default natal)")

	rootCmd.AddCommand(solarReturnCmd)
	rootCmd.AddCommand(lunarReturnCmd)
}

func runSolarReturn(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	req, err := solarFlags.request()
	if err != nil {
		return err
	}
	loc, err := optionalLocation(cmd, "return-lat", "return-lon")
	if err != nil {
		return err
	}
	year := solarYear
	if year == 0 {
		year = time.Now().Year()
	}

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	natal, err := eng.Natal(ctx, req)
	if err != nil {
		return err
	}
	chart, err := eng.SolarReturn(ctx, engine.SolarReturnRequest{Natal: natal, Year: year, Location: loc})
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Chart: chart}, start)
}

func runLunarReturn(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	req, err := lunarFlags.request()
	if err != nil {
		return err
	}
	near, err := dateOrNow(lunarNear, lunarFlags.timezone)
	if err != nil {
		return err
	}
	loc, err := optionalLocation(cmd, "return-lat", "return-lon")
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
	chart, err := eng.LunarReturn(ctx, engine.LunarReturnRequest{Natal: natal, Approx: near, Location: loc})
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Chart: chart}, start)
}
