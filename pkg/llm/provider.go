package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONMode    bool
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithJSONMode asks the backend to constrain output to a JSON object.
// Backends that do not support it ignore the hint.
func WithJSONMode() Option {
	return func(o *Options) {
		o.JSONMode = true
	}
}

func ApplyOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
