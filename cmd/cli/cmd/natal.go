package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/output"
)

var natalFlags birthFlags

var natalCmd = &cobra.Command{
	Use:   "natal",
	Short: "Compute a natal chart",
	Long: `Compute positions, houses, aspects and patterns for a birth or event.

Use --house-system All to include cusps for every catalogued house system.`,
	Args: cobra.NoArgs,
	RunE: runNatal,
}

func init() {
	natalFlags.register(natalCmd, true)
	rootCmd.AddCommand(natalCmd)
}

func runNatal(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	req, err := natalFlags.request()
	if err != nil {
		return err
	}
	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	chart, err := eng.Cast(ctx, req)
	if err != nil {
		return err
	}
	return render(cmd, eng, &output.Result{Chart: chart}, start)
}
