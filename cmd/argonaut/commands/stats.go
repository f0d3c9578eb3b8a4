// ABOUTME: CLI command for aggregate store statistics
// ABOUTME: Counts, unique floats, date span, and geographic coverage
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Long: `Show aggregate statistics over the stored profiles: totals,
unique floats, the covered date span, and the geographic extent.

Examples:
  argonaut stats
  argonaut stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	stats, err := store.Summary()
	if err != nil {
		return fmt.Errorf("computing statistics: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profiles:      %d\n", stats.TotalProfiles)
	fmt.Fprintf(out, "Measurements:  %d\n", stats.TotalMeasurements)
	fmt.Fprintf(out, "Unique floats: %d\n", stats.UniqueFloats)

	if stats.EarliestDate != nil && stats.LatestDate != nil {
		fmt.Fprintf(out, "Date span:     %s to %s\n",
			formatDate(*stats.EarliestDate), formatDate(*stats.LatestDate))
	}
	if stats.MinLat != nil && stats.MaxLat != nil {
		fmt.Fprintf(out, "Latitude:      %.3f to %.3f\n", *stats.MinLat, *stats.MaxLat)
	}
	if stats.MinLon != nil && stats.MaxLon != nil {
		fmt.Fprintf(out, "Longitude:     %.3f to %.3f\n", *stats.MinLon, *stats.MaxLon)
	}
	if verbose {
		fmt.Fprintf(out, "Database:      %s\n", store.Path())
	}

	return nil
}
