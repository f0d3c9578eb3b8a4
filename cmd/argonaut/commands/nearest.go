// ABOUTME: CLI command for geodesic profile search around a point
// ABOUTME: Great-circle distance, closest first, capped result set
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var nearestRadius float64

// NewNearestCmd creates the nearest command
func NewNearestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearest <latitude> <longitude>",
		Short: "Find profiles near a point",
		Long: `Find stored profiles within a radius of a point, closest first.

Distance is great-circle distance in kilometers. Profiles without a
recorded location never match. At most 50 results are returned.

Examples:
  argonaut nearest -10.5 75.2
  argonaut nearest --radius 200 0 0
  argonaut nearest --format json 36.7 -122.0`,
		Args: cobra.ExactArgs(2),
		RunE: runNearest,
	}

	cmd.Flags().Float64Var(&nearestRadius, "radius", 500, "Search radius in kilometers")

	return cmd
}

func runNearest(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude %q", args[1])
	}
	if nearestRadius <= 0 {
		return fmt.Errorf("radius must be positive, got %v", nearestRadius)
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	results, err := store.NearestProfiles(lat, lon, nearestRadius)
	if err != nil {
		return fmt.Errorf("searching by location: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No profiles within %.0f km of %.3f, %.3f\n",
				nearestRadius, lat, lon)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "DISTANCE\tID\tFLOAT\tCYCLE\tDATE\tLAT\tLON\n")
		for _, r := range results {
			fmt.Fprintf(w, "%.1f km\t%d\t%s\t%d\t%s\t%s\t%s\n",
				r.DistanceKm, r.ID, r.FloatID, r.CycleNumber,
				formatDate(r.MeasurementDate),
				formatCoord(r.Latitude), formatCoord(r.Longitude))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d profile(s) within %.0f km\n",
				len(results), nearestRadius)
		}
	}

	return nil
}
