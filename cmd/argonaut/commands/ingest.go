// ABOUTME: CLI command to ingest profile files
// ABOUTME: Accepts files or directories, reports per-file and batch outcomes
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Ingest profile files",
		Long: `Ingest Argo profile files into the local store.

Each file is validated, hashed, and checked against already-ingested
content before extraction. Files whose bytes were seen before are
reported as duplicates and skipped. Directories are expanded to the
profile files they contain, non-recursively.

Examples:
  argonaut ingest profile_001.nc
  argonaut ingest data/incoming/
  argonaut ingest --format json a.nc b.nc`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no profile files found in %s", strings.Join(args, ", "))
	}

	pl, store, err := buildPipeline()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	batch := pl.IngestBatch(cmd.Context(), paths)

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "FILE\tSTATUS\tPROFILE\tLEVELS\tNOTE\n")
		for _, r := range batch.Results {
			profileCol := "-"
			if r.ProfileID > 0 {
				profileCol = fmt.Sprintf("%d", r.ProfileID)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				truncate(filepath.Base(r.Path), 40),
				r.Status, profileCol, r.MeasurementCount,
				truncate(r.Message, 50))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d stored, %d duplicates, %d failed\n",
				batch.Stored, batch.Duplicates, batch.Failed)
		}
	}

	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", batch.Failed, len(batch.Results))
	}
	return nil
}

// expandPaths flattens directory arguments into the profile files they
// directly contain.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext == ".nc" || ext == ".netcdf" {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	return paths, nil
}
