// ABOUTME: CLI command for free-text search over indexed profiles
// ABOUTME: Embeds the question and joins vector hits back to stored rows
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	queryLimit        int
	queryMeasurements bool
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Search profiles with a free-text question",
		Long: `Find the stored profiles most relevant to a free-text question.

The question is embedded and matched against indexed profile
summaries; the best candidates are joined back to the relational
store, so every result reflects stored data. Requires
OPENAI_API_KEY.

Examples:
  argonaut query "warm surface water near the equator"
  argonaut query --limit 3 "oxygen minimum zones"
  argonaut query --measurements "deep salinity in the Arabian Sea"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().IntVar(&queryLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().BoolVar(&queryMeasurements, "measurements", false, "Include each match's measurements")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(queryLimit, "limit"); err != nil {
		return err
	}

	pl, store, err := buildPipeline()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if queryMeasurements {
		matches, err := pl.QueryWithMeasurements(cmd.Context(), args[0], queryLimit)
		if err != nil {
			return fmt.Errorf("searching profiles: %w", err)
		}
		jsonData, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	matches, err := pl.Query(cmd.Context(), args[0], queryLimit)
	if err != nil {
		return fmt.Errorf("searching profiles: %w", err)
	}

	if len(matches) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No profiles found for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tID\tFLOAT\tDATE\tLOCATION\tSUMMARY\n")
		for _, m := range matches {
			fmt.Fprintf(w, "%.3f\t%d\t%s\t%s\t%s\t%s\n",
				m.Score,
				m.Profile.ID,
				m.Profile.FloatID,
				formatDate(m.Profile.MeasurementDate),
				locationString(m.Profile),
				truncate(m.Summary, 60))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(matches))
		}
	}

	return nil
}
