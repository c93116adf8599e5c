// Package embeddings turns note text into vectors for semantic search.
package embeddings

import (
	"context"
	"fmt"
	"os"
)

// Embedder generates text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// New builds an embedder for provider ("google", "openai", "ollama").
// An empty provider returns (nil, nil): search is disabled.
func New(provider, model string) (Embedder, error) {
	switch provider {
	case "":
		return nil, nil
	case "google":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("google embeddings require GEMINI_API_KEY or GOOGLE_API_KEY")
		}
		if model == "" {
			model = string(ModelTextEmbedding004)
		}
		return NewGoogleEmbedder(key, GoogleModel(model)), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("openai embeddings require OPENAI_API_KEY")
		}
		if model == "" {
			model = string(ModelTextEmbedding3Small)
		}
		return NewOpenAIEmbedder(key, OpenAIModel(model), os.Getenv("OPENAI_BASE_URL")), nil
	case "ollama":
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(model, 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
