// Package cmd provides the CLI commands for astrochart.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"astrochart/core/engine"
	"astrochart/core/output"
	"astrochart/internal/app"
	"astrochart/internal/config"
	"astrochart/internal/logging"
)

// Version is the tool version
const Version = "0.1.0"

var (
	cfgFile      string
	catalogPath  string
	outputFormat string
	verbose      bool

	appConfig = config.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "astrochart",
	Short: "Compute astrological charts",
	Long: `astrochart computes natal, transit, progressed and return charts
from a configurable catalog of aspects, house systems and bodies.

Examples:
  astrochart natal --datetime 1990-06-15T09:45 --timezone Europe/London --lat 51.5074 --lon -0.1278
  astrochart transit --datetime 1990-06-15T08:45:00Z --lat 51.5 --lon -0.12 --at 2024-01-01T00:00:00Z
  astrochart solar-return --datetime 1990-06-15T08:45:00Z --lat 51.5 --lon -0.12 --year 2025 -f json`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI; an interrupt cancels the running calculation
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logging.Sync()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $"+config.EnvPath+")")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "HCL catalog file (default is the built-in catalog)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", string(output.FormatTable), "output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	appConfig = cfg
	return nil
}

// newEngine wires an engine from the loaded configuration
func newEngine(ctx context.Context) (*engine.Engine, error) {
	deps, _, err := app.Wire(ctx, appConfig, logging.Logger, app.Options{})
	if err != nil {
		return nil, err
	}
	return deps.Engine, nil
}

// render writes a result in the selected format
func render(cmd *cobra.Command, eng *engine.Engine, result *output.Result, start time.Time) error {
	f, err := output.DefaultRegistry().Get(output.Format(outputFormat))
	if err != nil {
		return err
	}
	result.Metadata = output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  time.Since(start).String(),
		Provider:  eng.Provider().Name(),
		Version:   Version,
	}
	return f.Render(cmd.OutOrStdout(), result)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "astrochart version %s\n", Version)
	},
}
