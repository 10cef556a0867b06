package ai

import "time"

// RuntimeConfig carries the transport knobs shared by every provider.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	APIKey  string // openrouter, openai
	BaseURL string // openrouter, openai; empty keeps the provider default
	Host    string // ollama
}

var runtimes = map[string]func(RuntimeConfig) Runtime{
	ProviderOpenRouter: func(c RuntimeConfig) Runtime {
		return NewClientWithBaseURL(c.APIKey, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay, c.BaseURL)
	},
	ProviderOpenAI: func(c RuntimeConfig) Runtime {
		return NewOpenAIClient(c.APIKey, c.BaseURL, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	},
	ProviderOllama: func(c RuntimeConfig) Runtime {
		return NewOllamaClient(c.Host, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	},
}

// GetRuntime builds the Runtime for provider (aliases allowed). The bool is
// false for unknown providers.
func GetRuntime(provider string, cfg RuntimeConfig) (Runtime, bool) {
	build, ok := runtimes[NormalizeProvider(provider)]
	if !ok {
		return nil, false
	}
	return build(cfg), true
}
