package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sales-analyzer/internal/utils"
)

// ErrEmptyCompletion is returned when the provider answers without any choice.
var ErrEmptyCompletion = errors.New("no content returned from model")

// CompletionOptions are the sampling knobs of a single completion.
// MaxTokens <= 0 leaves the length unbounded.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// Completer is the one capability the analyzers need from a chat model:
// a system instruction plus user content in, free text out.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)
}

// RuntimeCompleter adapts a Runtime and a model name to Completer.
type RuntimeCompleter struct {
	runtime  Runtime
	model    string
	provider string
	logger   *zap.Logger
}

// NewCompleter wraps rt. A nil logger disables logging.
func NewCompleter(rt Runtime, provider, model string, logger *zap.Logger) *RuntimeCompleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuntimeCompleter{runtime: rt, model: model, provider: provider, logger: logger}
}

// Model returns the model name sent with every request.
func (c *RuntimeCompleter) Model() string { return c.model }

func (c *RuntimeCompleter) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	req := GenerateRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	log := c.logger.With(
		zap.String("call_id", uuid.NewString()),
		zap.String("provider", c.provider),
		zap.String("model", c.model),
	)
	log.Debug("chat completion request",
		zap.Int("prompt_tokens_est", utils.CountTokens(system)+utils.CountTokens(user)),
		zap.Float64("temperature", req.Temperature),
		zap.Int("max_tokens", req.MaxTokens),
	)

	start := time.Now()
	resp, err := c.runtime.Generate(ctx, req)
	if err != nil {
		log.Debug("chat completion failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	log.Debug("chat completion response",
		zap.String("request_id", resp.RequestID),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("latency", time.Since(start)),
	)
	return resp.Choices[0].Message.Content, nil
}
