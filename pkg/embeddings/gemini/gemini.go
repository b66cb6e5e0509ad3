// Package gemini implements pkg/embeddings' Embedder on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/papercomputeco/khata/pkg/embeddings"
	"github.com/papercomputeco/khata/pkg/utils"
)

const (
	// DefaultEmbeddingModel is the default model used for embeddings.
	DefaultEmbeddingModel = "gemini-embedding-001"
)

// Embedder wraps the Gemini embedding API.
type Embedder struct {
	client    *genai.Client
	model     string
	retryBase time.Duration
	logger    *zap.Logger
}

// EmbedderConfig holds configuration for the Gemini embedder.
type EmbedderConfig struct {
	// APIKey authenticates against the Gemini API. When empty the client
	// falls back to the GEMINI_API_KEY environment variable.
	APIKey string

	// Model is the embedding model to use.
	// Defaults to DefaultEmbeddingModel if empty.
	Model string

	// RetryBase is the initial backoff between attempts on transient
	// failures. Defaults to one second if zero.
	RetryBase time.Duration
}

// NewEmbedder creates a new embedder using the Gemini embedding API.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig, logger *zap.Logger) (*Embedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", embeddings.ErrEmbedding, err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	retryBase := cfg.RetryBase
	if retryBase == 0 {
		retryBase = 1 * time.Second
	}

	return &Embedder{
		client:    client,
		model:     model,
		retryBase: retryBase,
		logger:    logger,
	}, nil
}

// Embed converts text into a vector embedding. API failures retry with
// backoff before giving up.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := utils.RetryWithBackoff(ctx, e.logger, e.retryBase, func(ctx context.Context) error {
		resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
		if err != nil {
			return utils.Transient(fmt.Errorf("%w: embedding content: %v", embeddings.ErrEmbedding, err))
		}

		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return fmt.Errorf("%w: no embeddings returned", embeddings.ErrEmbedding)
		}

		embedding = resp.Embeddings[0].Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	// The genai client holds no connections that need explicit cleanup
	return nil
}

// Ensure Embedder implements embeddings.Embedder
var _ embeddings.Embedder = (*Embedder)(nil)
