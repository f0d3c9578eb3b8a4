// ABOUTME: Shared initialization for commands: storage, index, and embedder
// ABOUTME: Resolves paths from environment overrides or XDG defaults
package commands

import (
	"log"
	"os"
	"path/filepath"

	"github.com/oceanloop/argonaut/internal/llm"
	"github.com/oceanloop/argonaut/internal/pipeline"
	"github.com/oceanloop/argonaut/internal/storage/sqlite"
	"github.com/oceanloop/argonaut/internal/vector"
)

// dbPath resolves the SQLite database location.
func dbPath() string {
	if p := os.Getenv("ARGONAUT_DB_PATH"); p != "" {
		return p
	}
	return sqlite.DefaultDBPath()
}

// indexPath puts the vector snapshot next to the database.
func indexPath() string {
	return filepath.Join(filepath.Dir(dbPath()), "vectors.json")
}

// openStorage opens the relational store at the configured path.
func openStorage() (*sqlite.Storage, error) {
	return sqlite.NewStorage(dbPath())
}

// buildPipeline wires storage, the vector index, and the embedder into
// a pipeline. The embedder is optional: without OPENAI_API_KEY the
// pipeline still ingests and serves structured queries, and semantic
// operations report that search is not configured.
func buildPipeline() (*pipeline.Pipeline, *sqlite.Storage, error) {
	store, err := openStorage()
	if err != nil {
		return nil, nil, err
	}

	index, err := vector.OpenIndex(indexPath())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	var embedder vector.Embedder
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client, err := llm.NewOpenAIClient(apiKey)
		if err != nil {
			log.Printf("Warning: failed to initialize OpenAI client: %v", err)
		} else {
			embedder = client
			if verbose {
				log.Println("OpenAI embedding client initialized")
			}
		}
	} else if verbose {
		log.Println("OPENAI_API_KEY not set; semantic search disabled")
	}

	return pipeline.New(store, index, embedder), store, nil
}
