package openai

import (
	"context"
	"errors"
	"fmt"

	"interview-rag-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("llm returned no choices")

// Provider talks to any OpenAI-compatible chat completion API
// (OpenRouter, OpenAI, Ollama's /v1 endpoint).
type Provider struct {
	client    *goopenai.Client
	ModelName string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(apiKey, baseURL, modelName string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Provider{
		client:    goopenai.NewClientWithConfig(cfg),
		ModelName: modelName,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7}, opts...)

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    toOpenAIRole(msg.Role),
			Content: msg.Content,
		}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func toOpenAIRole(role string) string {
	switch role {
	case llm.RoleSystem:
		return goopenai.ChatMessageRoleSystem
	case llm.RoleAssistant, "model":
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}
