// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/embeddings"
	"github.com/papercomputeco/khata/pkg/embeddings/gemini"
	"github.com/papercomputeco/khata/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	// ProviderType selects the backend: "ollama" or "gemini".
	// Empty defaults to ollama.
	ProviderType string

	// TargetURL is the server URL for the ollama provider.
	TargetURL string

	// APIKey authenticates the gemini provider. Empty falls back to
	// the GEMINI_API_KEY environment variable.
	APIKey string

	// Model overrides the provider's default embedding model.
	Model string

	Logger *zap.Logger
}

func NewEmbedder(ctx context.Context, o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "", "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		}, o.Logger)
	case "gemini":
		return gemini.NewEmbedder(ctx, gemini.EmbedderConfig{
			APIKey: o.APIKey,
			Model:  o.Model,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
