package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"interview-rag-be/pkg/ai/router"
	"interview-rag-be/pkg/embedding"
	"interview-rag-be/pkg/llm"
	"interview-rag-be/pkg/llm/factory"
	"interview-rag-be/pkg/rag/prompt"
	"interview-rag-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ollamaBaseURL = "http://localhost:11434"

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requireOllama(t *testing.T) {
	t.Helper()
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ollamaBaseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping: Ollama not reachable at %s", ollamaBaseURL)
	}
	resp.Body.Close()
}

func TestOllama_Embedding(t *testing.T) {
	requireOllama(t)

	provider, err := embedding.NewProvider(embedding.ProviderOllama, ollamaBaseURL+"/v1", getenv("OLLAMA_EMBED_MODEL", "nomic-embed-text"), "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	resp, err := provider.Generate(ctx, "When is the interview?", embedding.TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Len(t, resp.Embedding.Values, embeddingDim)

	batch, err := provider.GenerateBatch(ctx, []string{"one", "two"}, embedding.TaskRetrievalDocument)
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

// The model may still answer badly; only the contract with the parser is checked.
func TestOllama_OracleProducesParseableOutput(t *testing.T) {
	requireOllama(t)

	oracle, err := factory.NewLLMProvider(factory.ProviderOllama, getenv("OLLAMA_CHAT_MODEL", "llama3.2"), ollamaBaseURL+"/v1", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	docs := []store.Document{{Content: "Candidate John Doe, email john@example.com", Rank: 1}}
	messages := prompt.NewOracleBuilder(nil, docs, "What is John's email?").Build()
	raw, err := oracle.Chat(ctx, messages, llm.WithTemperature(0.1), llm.WithJSONMode())
	require.NoError(t, err)

	result := router.Parse(raw)
	if m, ok := result.(router.Malformed); ok {
		t.Logf("model produced malformed output: %v\n%s", m.Reason, m.Raw)
	}
}
