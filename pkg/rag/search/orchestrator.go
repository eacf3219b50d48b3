package search

import (
	"context"
	"fmt"
	"log"

	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/pkg/embedding"
	"interview-rag-be/pkg/store"
)

// VectorIndex is the similarity lookup the orchestrator queries
type VectorIndex interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error)
}

// Orchestrator embeds a query and fetches the nearest knowledge chunks
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	index             VectorIndex
	config            Config
	logger            *log.Logger
}

// Config encapsulates search parameters
type Config struct {
	TopK      int
	Threshold float64 // <= -1 disables the cut-off
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		TopK:      3,
		Threshold: -1,
	}
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, index VectorIndex, config Config, logger *log.Logger) *Orchestrator {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		index:             index,
		config:            config,
		logger:            logger,
	}
}

// Retrieve returns up to TopK chunks, most similar first, ranked from 1.
// An empty index yields an empty slice and no error.
func (o *Orchestrator) Retrieve(ctx context.Context, query string) ([]store.Document, error) {
	embeddingRes, err := o.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scoredResults, err := o.index.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, o.config.TopK, o.config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	o.logger.Printf("[DEBUG] Raw search results: %d documents", len(scoredResults))

	documents := make([]store.Document, 0, len(scoredResults))
	for i, res := range scoredResults {
		if res == nil || res.Chunk == nil {
			continue
		}
		documents = append(documents, store.Document{
			ID:      res.Chunk.Id,
			Content: res.Chunk.Document,
			Score:   float32(res.Similarity),
			Rank:    len(documents) + 1,
			Source:  res.Source,
			Metadata: map[string]interface{}{
				"page":        res.Page,
				"chunk_index": res.Chunk.ChunkIndex,
			},
		})
		o.logger.Printf("[DEBUG] Candidate %d: Score=%.4f Source=%s", i+1, res.Similarity, res.Source)
	}

	return documents, nil
}
