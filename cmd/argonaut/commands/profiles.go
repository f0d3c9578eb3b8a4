// ABOUTME: CLI command to list stored profiles with structured filters
// ABOUTME: Float id, date range, and bounding box combined with AND
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oceanloop/argonaut/internal/models"
	"github.com/oceanloop/argonaut/internal/storage/sqlite"
)

var (
	profilesFloatID string
	profilesStart   string
	profilesEnd     string
	profilesBox     []float64
	profilesLimit   int
	profilesOffset  int
)

// NewProfilesCmd creates the profiles command
func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Long: `List stored profiles, newest first, with optional filters.

All filters combine with AND and all bounds are inclusive. Dates
accept RFC 3339 or YYYY-MM-DD.

Examples:
  argonaut profiles
  argonaut profiles --float 2902746
  argonaut profiles --start 2024-01-01 --end 2024-06-30
  argonaut profiles --box -20,20,60,90 --limit 10`,
		RunE: runProfiles,
	}

	cmd.Flags().StringVar(&profilesFloatID, "float", "", "Filter by exact float id")
	cmd.Flags().StringVar(&profilesStart, "start", "", "Inclusive start date")
	cmd.Flags().StringVar(&profilesEnd, "end", "", "Inclusive end date")
	cmd.Flags().Float64SliceVar(&profilesBox, "box", nil, "Bounding box: minLat,maxLat,minLon,maxLon")
	cmd.Flags().IntVar(&profilesLimit, "limit", 100, "Maximum rows to return")
	cmd.Flags().IntVar(&profilesOffset, "offset", 0, "Rows to skip")

	return cmd
}

func runProfiles(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(profilesLimit, "limit"); err != nil {
		return err
	}

	filter := sqlite.ProfileFilter{
		FloatID: profilesFloatID,
		Limit:   profilesLimit,
		Offset:  profilesOffset,
	}

	if profilesStart != "" {
		t, err := parseDateFlag(profilesStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		filter.StartDate = &t
	}
	if profilesEnd != "" {
		t, err := parseDateFlag(profilesEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		filter.EndDate = &t
	}
	if len(profilesBox) > 0 {
		if len(profilesBox) != 4 {
			return fmt.Errorf("--box needs minLat,maxLat,minLon,maxLon, got %d values", len(profilesBox))
		}
		filter.MinLat = models.Float(profilesBox[0])
		filter.MaxLat = models.Float(profilesBox[1])
		filter.MinLon = models.Float(profilesBox[2])
		filter.MaxLon = models.Float(profilesBox[3])
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	profiles, err := store.FilterProfiles(filter)
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}

	if len(profiles) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles match.")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(profiles, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tFLOAT\tCYCLE\tDATE\tLAT\tLON\tCENTER\n")
		for _, p := range profiles {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.FloatID, p.CycleNumber,
				formatDate(p.MeasurementDate),
				formatCoord(p.Latitude), formatCoord(p.Longitude),
				p.DataCenter)
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d profile(s)\n", len(profiles))
		}
	}

	return nil
}

// parseDateFlag accepts RFC 3339 or plain YYYY-MM-DD.
func parseDateFlag(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
