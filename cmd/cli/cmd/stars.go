package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/engine"
	"astrochart/core/output"
)

var (
	starsFlags birthFlags
	starsDate  string
	starsOrb   float64
)

var starsCmd = &cobra.Command{
	Use:   "stars",
	Short: "List fixed stars and their conjunctions with a natal chart",
	Long: `List the catalogued fixed stars and clusters precessed to --date.

When --datetime is given a natal chart is cast and every star within --orb
of a natal body is reported as a conjunction.`,
	Args: cobra.NoArgs,
	RunE: runStars,
}

func init() {
	starsFlags.register(starsCmd, false)
	starsCmd.Flags().StringVar(&starsDate, "date", "", "calculation date (default now)")
	starsCmd.Flags().Float64Var(&starsOrb, "orb", engine.DefaultStarOrb, "conjunction orb in degrees")
	rootCmd.AddCommand(starsCmd)
}

func runStars(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	date, err := dateOrNow(starsDate, "")
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}

	req := engine.FixedStarsRequest{Time: date, Orb: starsOrb}
	if starsFlags.datetime != "" {
		natalReq, err := starsFlags.request()
		if err != nil {
			return err
		}
		if req.Natal, err = eng.Natal(ctx, natalReq); err != nil {
			return err
		}
	}
	report, err := eng.FixedStars(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Stars: report}, start)
}
