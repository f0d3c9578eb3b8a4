// ABOUTME: CLI command to show one profile with measurements and metadata
// ABOUTME: Looks up by the id assigned at ingestion
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profileShowMeasurements bool

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <id>",
		Short: "Show one stored profile",
		Long: `Show a stored profile by id, with its station parameters and,
optionally, every measurement level.

Examples:
  argonaut profile 42
  argonaut profile 42 --measurements
  argonaut profile 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runProfile,
	}

	cmd.Flags().BoolVar(&profileShowMeasurements, "measurements", false, "Show every measurement level")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid profile id %q", args[0])
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	p, err := store.GetProfile(id)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("profile %d not found", id)
	}

	metadata, err := store.MetadataForProfile(id)
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}
	measurements, err := store.MeasurementsForProfile(id)
	if err != nil {
		return fmt.Errorf("loading measurements: %w", err)
	}

	if outputFormat == "json" {
		payload := map[string]interface{}{
			"profile":  p,
			"metadata": metadata,
		}
		if profileShowMeasurements {
			payload["measurements"] = measurements
		} else {
			payload["measurement_count"] = len(measurements)
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile:    %d\n", p.ID)
	fmt.Fprintf(out, "Float:      %s (cycle %d)\n", p.FloatID, p.CycleNumber)
	fmt.Fprintf(out, "Location:   %s\n", locationString(*p))
	fmt.Fprintf(out, "Date:       %s\n", formatDate(p.MeasurementDate))
	fmt.Fprintf(out, "Center:     %s\n", p.DataCenter)
	fmt.Fprintf(out, "Digest:     %s\n", truncate(p.ContentDigest, 16))
	fmt.Fprintf(out, "Levels:     %d\n", len(measurements))

	if len(metadata) > 0 {
		fmt.Fprintf(out, "Parameters:")
		for _, e := range metadata {
			fmt.Fprintf(out, " %s", e.ParameterValue)
		}
		fmt.Fprintln(out)
	}

	if profileShowMeasurements && len(measurements) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "DEPTH\tPRES\tTEMP\tPSAL\tDOXY\tNITRATE\tPH\tCHLA\tQC\n")
		for _, m := range measurements {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				formatValue(m.Depth), formatValue(m.Pressure),
				formatValue(m.Temperature), formatValue(m.Salinity),
				formatValue(m.Oxygen), formatValue(m.Nitrate),
				formatValue(m.PH), formatValue(m.Chlorophyll),
				m.QualityFlag)
		}
		w.Flush()
	}

	return nil
}
