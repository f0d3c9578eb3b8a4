// ABOUTME: Embedder abstraction separating the index from the embedding backend
// ABOUTME: Satisfied by the OpenAI client in production and a fake in tests
package vector

import "context"

// Embedder turns text into an embedding vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}
