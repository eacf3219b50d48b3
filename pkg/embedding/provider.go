package embedding

import (
	"context"
	"fmt"
	"math"
)

// Task types hint the model whether text is a query or an indexed passage.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

// NewProvider resolves the configured backend. All three speak the
// OpenAI embeddings protocol, only the endpoint and key differ.
func NewProvider(providerType, baseURL, model, apiKey string) (EmbeddingProvider, error) {
	switch providerType {
	case ProviderOllama:
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOpenAIProvider("ollama", baseURL, model), nil
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai embeddings require an API key")
		}
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIProvider(apiKey, baseURL, model), nil
	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("gemini embeddings require an API key")
		}
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
		}
		if model == "" {
			model = "text-embedding-004"
		}
		return NewOpenAIProvider(apiKey, baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// pgvector cosine distance assumes comparable magnitudes.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
