// ABOUTME: OpenAI client for profile summary embeddings
// ABOUTME: Uses text-embedding-3-small with retry and per-attempt timeouts
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oceanloop/argonaut/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	EmbeddingModel openai.EmbeddingModel
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	model := openai.EmbeddingModel(os.Getenv("ARGONAUT_EMBEDDING_MODEL"))
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &ClientConfig{
		APIKey:         apiKey,
		EmbeddingModel: model,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		embeddingModel: config.EmbeddingModel,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// GenerateEmbedding generates a 1536-dimensional embedding vector for a
// profile summary using text-embedding-3-small.
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

		resp, err := c.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		cancel()
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}
