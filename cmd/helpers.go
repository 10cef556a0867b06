package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sales-analyzer/internal/ai"
	"github.com/KaramelBytes/sales-analyzer/internal/analyzer"
	"github.com/KaramelBytes/sales-analyzer/internal/chart"
	cfgpkg "github.com/KaramelBytes/sales-analyzer/internal/config"
	"github.com/KaramelBytes/sales-analyzer/internal/sales"
)

// newCompleter builds the chat collaborator from config; tests replace it.
var newCompleter = defaultNewCompleter

// newAnalyzer wires config, logger and completer for a routine command.
func newAnalyzer(cmd *cobra.Command) (*analyzer.Analyzer, error) {
	if cfg == nil {
		loadConfig()
	}
	if cfg == nil {
		return nil, fmt.Errorf("no configuration available")
	}
	logger, err := newLogger(debug)
	if err != nil {
		return nil, err
	}
	opts, err := analyzerOptions(cfg)
	if err != nil {
		return nil, err
	}
	completer, err := newCompleter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if needsAPIKey(cfg.Provider) && cfg.ResolvedAPIKey() == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no API key configured for %s; model output will be empty\n", ai.NormalizeProvider(cfg.Provider))
	}
	logger.Debug("analyzer ready",
		zap.String("csv", opts.CSVPath),
		zap.String("chart", opts.ChartPath),
		zap.Bool("strict", opts.Strict),
	)
	return analyzer.New(completer, opts, logger, cmd.OutOrStdout()), nil
}

func needsAPIKey(provider string) bool {
	return ai.NormalizeProvider(provider) != ai.ProviderOllama
}

// analyzerOptions maps config onto analyzer.Options.
func analyzerOptions(c *cfgpkg.Global) (analyzer.Options, error) {
	opts := analyzer.DefaultOptions()
	if c.CSVPath != "" {
		opts.CSVPath = c.CSVPath
	}
	if c.ChartPath != "" {
		opts.ChartPath = c.ChartPath
	}
	if c.ChartWidth > 0 && c.ChartHeight > 0 {
		opts.Chart = chart.Options{Width: c.ChartWidth, Height: c.ChartHeight}
	}
	if c.PreviewRows > 0 {
		opts.PreviewRows = c.PreviewRows
	}
	opts.Temperature = c.Temperature
	if c.TrendMaxTokens > 0 {
		opts.TrendMaxTokens = c.TrendMaxTokens
	}
	opts.MaxTokens = c.MaxTokens
	if len(c.PredictionLabels) > 0 {
		opts.PredictionLabels = c.PredictionLabels
	}
	if len(c.ForecastFallback) > 0 {
		fb, err := parseFallback(c.ForecastFallback)
		if err != nil {
			return opts, err
		}
		opts.ForecastFallback = fb
	}
	opts.Strict = c.StrictRemoteErrors
	return opts, nil
}

func parseFallback(vals []string) ([]decimal.Decimal, error) {
	if len(vals) != sales.ForecastHorizon {
		return nil, fmt.Errorf("forecast_fallback needs %d values, got %d", sales.ForecastHorizon, len(vals))
	}
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid forecast_fallback value %q: %w", v, err)
		}
		out[i] = d
	}
	return out, nil
}

func defaultNewCompleter(c *cfgpkg.Global, logger *zap.Logger) (ai.Completer, error) {
	rt, provider, err := buildRuntime(c)
	if err != nil {
		return nil, err
	}
	return ai.NewCompleter(rt, provider, selectModel(c, provider), logger), nil
}

func buildRuntime(c *cfgpkg.Global) (ai.Runtime, string, error) {
	httpTimeout := 60 * time.Second
	retryMax := 3
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	if c.HTTPTimeoutSec > 0 {
		httpTimeout = time.Duration(c.HTTPTimeoutSec) * time.Second
	}
	if c.RetryMaxAttempts > 0 {
		retryMax = c.RetryMaxAttempts
	}
	if c.RetryBaseDelayMs > 0 {
		baseDelay = time.Duration(c.RetryBaseDelayMs) * time.Millisecond
	}
	if c.RetryMaxDelayMs > 0 {
		maxDelay = time.Duration(c.RetryMaxDelayMs) * time.Millisecond
	}

	providerName := ai.NormalizeProvider(c.Provider)
	rc := ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		APIKey:      c.ResolvedAPIKey(),
		BaseURL:     c.BaseURL,
	}
	if providerName == ai.ProviderOllama {
		rc.Host = c.OllamaHost
		if c.OllamaTimeoutSec > 0 {
			rc.HTTPTimeout = time.Duration(c.OllamaTimeoutSec) * time.Second
		}
	}

	rt, ok := ai.GetRuntime(providerName, rc)
	if !ok {
		return nil, providerName, fmt.Errorf("provider not supported: %s (use openrouter, openai or ollama)", providerName)
	}
	return rt, providerName, nil
}

func selectModel(c *cfgpkg.Global, provider string) string {
	if c != nil && c.Model != "" {
		return c.Model
	}
	return ai.DefaultModel(provider)
}
