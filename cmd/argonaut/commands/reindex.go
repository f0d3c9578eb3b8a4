// ABOUTME: CLI command to rebuild the vector index from stored profiles
// ABOUTME: Clears the index first so the result mirrors the store exactly
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewReindexCmd creates the reindex command
func NewReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the store",
		Long: `Rebuild the embedding index from every stored profile.

The relational store is the source of truth; the index is derived.
Run this after deleting profiles, after index corruption, or when
switching embedding models. Requires OPENAI_API_KEY.

Examples:
  argonaut reindex`,
		RunE: runReindex,
	}

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	pl, store, err := buildPipeline()
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	n, err := pl.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d profile(s)\n", n)
	}
	return nil
}
