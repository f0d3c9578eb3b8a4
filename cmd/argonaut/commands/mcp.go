// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to ingest and query profiles via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/oceanloop/argonaut/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Argonaut as an MCP (Model Context Protocol) server over stdio,
exposing ingestion, retrieval, and statistics tools to LLM agents.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  argonaut mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "argonaut": {
  #       "command": "argonaut",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - semantic query tools will report search as unconfigured")
	}

	pl, store, err := buildPipeline()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	server := mcpserver.NewMCPServer(
		"Argonaut Ocean Profiles",
		"0.1.0",
	)

	mcp.RegisterTools(server, store, pl)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Argonaut MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: error closing storage: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
