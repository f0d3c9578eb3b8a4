// ABOUTME: CLI command to validate and describe a profile file
// ABOUTME: Dry-run inspection, nothing is ingested or persisted
package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oceanloop/argonaut/internal/netcdf"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a profile file without ingesting it",
		Long: `Check whether a file is an ingestible Argo profile and describe
its contents: variables, extracted metadata, and level count.

Nothing is written; this is a dry run of the extraction stage.

Examples:
  argonaut validate profile_001.nc
  argonaut validate --format json profile_001.nc`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	processor := netcdf.NewProcessor()

	summary, err := processor.Describe(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s (%d bytes)\n", summary.Path, summary.SizeBytes)
	fmt.Fprintf(out, "Float:      %s (cycle %d)\n", summary.Profile.FloatID, summary.Profile.CycleNumber)
	fmt.Fprintf(out, "Location:   %s\n", locationString(summary.Profile))
	fmt.Fprintf(out, "Date:       %s\n", formatDate(summary.Profile.MeasurementDate))
	fmt.Fprintf(out, "Center:     %s\n", summary.Profile.DataCenter)
	fmt.Fprintf(out, "Levels:     %d\n", summary.Levels)

	vars := append([]string(nil), summary.Variables...)
	sort.Strings(vars)
	fmt.Fprintf(out, "Variables:  %s\n", strings.Join(vars, " "))

	if !quiet {
		fmt.Fprintln(out, "\nFile is a valid profile.")
	}
	return nil
}
