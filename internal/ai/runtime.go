package ai

import (
	"context"
	"strings"
)

// Runtime is implemented by chat backends such as OpenRouter, OpenAI and a
// local Ollama.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used across the CLI for selection.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
	ProviderLocal      = "local"
)

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama, ProviderLocal:
		return "llama3.1:8b-instruct"
	default:
		return "openai/gpt-4o-mini"
	}
}

// NormalizeProvider maps aliases and casing variants onto a registered
// provider name. Unknown names are returned lowercased.
func NormalizeProvider(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", ProviderOpenRouter:
		return ProviderOpenRouter
	case ProviderOllama, ProviderLocal:
		return ProviderOllama
	default:
		return n
	}
}
