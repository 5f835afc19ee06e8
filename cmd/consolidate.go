package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"slot-aggregator/core/consolidate"
	"slot-aggregator/core/provider"
	"slot-aggregator/feature/availability"

	"github.com/spf13/cobra"
)

var (
	// Flags for the consolidate command
	consolidateSort        string
	consolidateLat         float64
	consolidateLon         float64
	consolidateNear        string
	consolidateSpecialties []string
	consolidateInsurances  []string
	consolidateCities      []string
	consolidateDays        int
)

// consolidateCmd prints the grouped view of the store.
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Print the consolidated availability view as JSON",
	Long: `Reads the store, groups providers that belong together, merges their slots and prints
the groups ordered by next availability, distance or name.

Examples:
  # Earliest availability first
  consolidate

  # Nearest first, origin looked up by address
  consolidate --sort distance --near "Klagenfurt Hauptplatz"

  # Dermatologists in Graz within the next two weeks
  consolidate --speciality Hautarzt --city Graz --days 14`,
	RunE: runConsolidate,
}

func init() {
	f := consolidateCmd.Flags()
	f.StringVar(&consolidateSort, "sort", "next", "Ordering: next, distance or name")
	f.Float64Var(&consolidateLat, "lat", 0, "Origin latitude for distance ordering")
	f.Float64Var(&consolidateLon, "lon", 0, "Origin longitude for distance ordering")
	f.StringVar(&consolidateNear, "near", "", "Origin address for distance ordering (geocoded)")
	f.StringSliceVar(&consolidateSpecialties, "speciality", nil, "Only these specialities")
	f.StringSliceVar(&consolidateInsurances, "insurance", nil, "Only these insurances")
	f.StringSliceVar(&consolidateCities, "city", nil, "Only these cities")
	f.IntVar(&consolidateDays, "days", 0, "Only slots within the next N days")
	consolidateCmd.MarkFlagsRequiredTogether("lat", "lon")
	consolidateCmd.MarkFlagsMutuallyExclusive("lat", "near")

	RootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	order, err := consolidate.ParseOrder(consolidateSort)
	if err != nil {
		return err
	}
	if consolidateDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	q := availability.Query{
		Filter: consolidate.Filter{
			Specialities: consolidateSpecialties,
			Insurances:   consolidateInsurances,
			Cities:       consolidateCities,
		},
		Order: order,
		Near:  consolidateNear,
	}
	if consolidateDays > 0 {
		now := time.Now()
		q.Filter.From = now
		q.Filter.To = now.AddDate(0, 0, consolidateDays)
	}
	if cmd.Flags().Changed("lat") {
		q.Origin = &provider.Coordinates{Lat: consolidateLat, Lon: consolidateLon}
	}

	svc := availability.NewService(e.store, e.logger, 0, nil, e.geocoder())
	groups, err := svc.Groups(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to consolidate: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}
