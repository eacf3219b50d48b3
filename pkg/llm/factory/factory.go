package factory

import (
	"fmt"

	"interview-rag-be/pkg/llm"
	"interview-rag-be/pkg/llm/openai"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderOpenRouter:
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	case ProviderOllama:
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1" // Default
		}
		// Ollama ignores the key but the client insists on one
		return openai.NewProvider("ollama", baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
