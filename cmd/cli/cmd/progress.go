package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/engine"
	"astrochart/core/output"
)

var (
	progressFlags birthFlags
	progressTo    string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Compute secondary progressions",
	Long: `Compute the day-for-a-year progressed chart for a date and its
aspects to the natal chart.`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	progressFlags.register(progressCmd, true)
	progressCmd.Flags().StringVar(&progressTo, "to", "", "date to progress to (default today)")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	req, err := progressFlags.request()
	if err != nil {
		return err
	}
	to, err := dateOrNow(progressTo, progressFlags.timezone)
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
	chart, err := eng.Progressed(ctx, engine.ProgressionRequest{Natal: natal, Date: to})
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Chart: chart}, start)
}
