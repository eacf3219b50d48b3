package embedding

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider over the OpenAI embeddings API
type OpenAIProvider struct {
	client *goopenai.Client
	Model  string
}

func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		Model:  model,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	vectors, err := p.GenerateBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: vectors[0]},
	}, nil
}

func (p *OpenAIProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = p.withTaskPrefix(t, taskType)
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: inputs,
		Model: goopenai.EmbeddingModel(p.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings (%s): %w", p.Model, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = normalizeVector(d.Embedding)
	}
	return vectors, nil
}

// nomic-embed-text expects task prefixes, other models do not care.
func (p *OpenAIProvider) withTaskPrefix(text, taskType string) string {
	if !strings.Contains(p.Model, "nomic") {
		return text
	}
	switch taskType {
	case TaskRetrievalQuery:
		return "search_query: " + text
	case TaskRetrievalDocument:
		return "search_document: " + text
	}
	return text
}
