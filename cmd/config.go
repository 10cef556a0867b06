package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sales-analyzer/internal/ai"
	cfgpkg "github.com/KaramelBytes/sales-analyzer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Sales Analyzer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := applySetting(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func printConfig(w io.Writer, c *cfgpkg.Global) {
	fmt.Fprintf(w, "api_key: %s\n", mask(c.ResolvedAPIKey()))
	fmt.Fprintf(w, "provider: %s\n", c.Provider)
	fmt.Fprintf(w, "model: %s\n", selectModel(c, ai.NormalizeProvider(c.Provider)))
	if c.BaseURL != "" {
		fmt.Fprintf(w, "base_url: %s\n", c.BaseURL)
	}
	fmt.Fprintf(w, "temperature: %.3f\n", c.Temperature)
	fmt.Fprintf(w, "trend_max_tokens: %d\n", c.TrendMaxTokens)
	fmt.Fprintf(w, "max_tokens: %d\n", c.MaxTokens)
	if c.CSVPath != "" {
		fmt.Fprintf(w, "csv_path: %s\n", c.CSVPath)
	}
	fmt.Fprintf(w, "chart_path: %s\n", c.ChartPath)
	fmt.Fprintf(w, "chart_size: %dx%d\n", c.ChartWidth, c.ChartHeight)
	fmt.Fprintf(w, "preview_rows: %d\n", c.PreviewRows)
	fmt.Fprintf(w, "prediction_labels: %s\n", strings.Join(c.PredictionLabels, ","))
	fmt.Fprintf(w, "forecast_fallback: %s\n", strings.Join(c.ForecastFallback, ","))
	fmt.Fprintf(w, "strict_remote_errors: %t\n", c.StrictRemoteErrors)
	fmt.Fprintf(w, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
	fmt.Fprintf(w, "retry: max=%d base_ms=%d max_ms=%d\n", c.RetryMaxAttempts, c.RetryBaseDelayMs, c.RetryMaxDelayMs)
	if ai.NormalizeProvider(c.Provider) == ai.ProviderOllama {
		fmt.Fprintf(w, "ollama_host: %s\n", c.OllamaHost)
	}
}

// applySetting validates val and stores it under key.
func applySetting(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "api_key":
		c.APIKey = val
	case "provider":
		p := ai.NormalizeProvider(val)
		switch p {
		case ai.ProviderOpenRouter, ai.ProviderOpenAI, ai.ProviderOllama:
			c.Provider = p
		default:
			return fmt.Errorf("invalid provider: %s (use openrouter, openai or ollama)", val)
		}
	case "model":
		c.Model = val
	case "base_url":
		c.BaseURL = val
	case "temperature":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("invalid float for temperature (0-2): %v", val)
		}
		c.Temperature = f
	case "trend_max_tokens", "max_tokens", "chart_width", "chart_height", "preview_rows",
		"http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms", "ollama_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		setInt(c, key, i)
	case "csv_path":
		c.CSVPath = val
	case "chart_path":
		c.ChartPath = val
	case "prediction_labels":
		labels := splitList(val)
		if len(labels) == 0 {
			return fmt.Errorf("prediction_labels cannot be empty")
		}
		c.PredictionLabels = labels
	case "forecast_fallback":
		vals := splitList(val)
		if _, err := parseFallback(vals); err != nil {
			return err
		}
		c.ForecastFallback = vals
	case "strict_remote_errors":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for strict_remote_errors: %v", val)
		}
		c.StrictRemoteErrors = b
	case "ollama_host":
		c.OllamaHost = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setInt(c *cfgpkg.Global, key string, i int) {
	switch key {
	case "trend_max_tokens":
		c.TrendMaxTokens = i
	case "max_tokens":
		c.MaxTokens = i
	case "chart_width":
		c.ChartWidth = i
	case "chart_height":
		c.ChartHeight = i
	case "preview_rows":
		c.PreviewRows = i
	case "http_timeout_sec":
		c.HTTPTimeoutSec = i
	case "retry_max_attempts":
		c.RetryMaxAttempts = i
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs = i
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs = i
	case "ollama_timeout_sec":
		c.OllamaTimeoutSec = i
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
