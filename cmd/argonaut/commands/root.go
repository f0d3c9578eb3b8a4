// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Holds the shared verbose/quiet/format state for all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 █████╗ ██████╗  ██████╗  ██████╗ ███╗   ██╗ █████╗ ██╗   ██╗████████╗
██╔══██╗██╔══██╗██╔════╝ ██╔═══██╗████╗  ██║██╔══██╗██║   ██║╚══██╔══╝
███████║██████╔╝██║  ███╗██║   ██║██╔██╗ ██║███████║██║   ██║   ██║
██╔══██║██╔══██╗██║   ██║██║   ██║██║╚██╗██║██╔══██║██║   ██║   ██║
██║  ██║██║  ██║╚██████╔╝╚██████╔╝██║ ╚████║██║  ██║╚██████╔╝   ██║
╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝    ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "argonaut",
		Short: "Ingest and search Argo ocean profiles",
		Long: banner + `
Argonaut ingests Argo float profile files into a local SQLite store,
deduplicates them by content, and indexes each profile for free-text
search over an embedding index.

Data lives under your XDG data directory by default; set
ARGONAUT_DB_PATH to override. Set OPENAI_API_KEY to enable the
semantic query and reindex commands.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewProfilesCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewNearestCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewReindexCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
