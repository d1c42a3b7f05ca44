package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"astrochart/core/catalog"
	"astrochart/internal/app"
	"astrochart/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate chart catalogs",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active catalog as JSON",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <catalog.hcl>",
	Short: "Validate an HCL catalog file",
	Long: `Parse and validate an HCL catalog.

Aspect definitions are matched first-wins in file order. Definitions whose
window overlaps an earlier, wider one are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogValidate,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}

// catalogView is the printable form of a catalog
type catalogView struct {
	Aspects            []catalog.AspectDefinition `json:"aspects"`
	OrbMultipliers     map[string]float64         `json:"orb_multipliers"`
	HouseSystems       []catalog.HouseSystem      `json:"house_systems"`
	DefaultHouseSystem string                     `json:"default_house_system"`
	BodyGroups         []catalog.BodyGroup        `json:"body_groups"`
	CalculatedPoints   []string                   `json:"calculated_points"`
	FixedStars         catalog.FixedStarSettings  `json:"fixed_stars"`
	Patterns           catalog.PatternSettings    `json:"patterns"`
	TransitOrbScale    float64                    `json:"transit_orb_scale"`
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	deps, _, err := app.Wire(cmd.Context(), appConfig, logging.Logger, app.Options{})
	if err != nil {
		return err
	}
	cat := deps.Catalog
	data, err := json.MarshalIndent(catalogView{
		Aspects:            cat.Aspects(),
		OrbMultipliers:     cat.OrbMultipliers(),
		HouseSystems:       cat.HouseSystems(),
		DefaultHouseSystem: cat.DefaultHouseSystem(),
		BodyGroups:         cat.BodyGroups(),
		CalculatedPoints:   cat.CalculatedPoints(),
		FixedStars:         cat.FixedStars(),
		Patterns:           cat.Patterns(),
		TransitOrbScale:    cat.TransitOrbScale(),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, scale := range []float64{1, cat.TransitOrbScale()} {
		for _, s := range cat.Shadows(scale) {
			fmt.Fprintf(out, "warning: %s is shadowed by the earlier, wider %s (orb scale %v)\n", s.Later, s.Earlier, scale)
		}
	}
	fmt.Fprintf(out, "%s: %d aspects, %d house systems, %d bodies\n",
		args[0], len(cat.Aspects()), len(cat.HouseSystems()), len(cat.Bodies()))
	return nil
}
