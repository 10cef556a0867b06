package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sales-analyzer/internal/ai"
	"github.com/KaramelBytes/sales-analyzer/internal/utils"
)

const dirName = ".salesanalyzer"

// Global configuration structure.
type Global struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	Model    string `mapstructure:"model" yaml:"model"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	// Completion knobs. MaxTokens applies to the chart and anomaly calls; 0 leaves them unbounded.
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	TrendMaxTokens int     `mapstructure:"trend_max_tokens" yaml:"trend_max_tokens"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`

	// Input/output
	CSVPath          string   `mapstructure:"csv_path" yaml:"csv_path,omitempty"`
	ChartPath        string   `mapstructure:"chart_path" yaml:"chart_path"`
	ChartWidth       int      `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight      int      `mapstructure:"chart_height" yaml:"chart_height"`
	PreviewRows      int      `mapstructure:"preview_rows" yaml:"preview_rows"`
	PredictionLabels []string `mapstructure:"prediction_labels" yaml:"prediction_labels"`
	ForecastFallback []string `mapstructure:"forecast_fallback" yaml:"forecast_fallback"`

	// StrictRemoteErrors turns absorbed completion failures into command errors.
	StrictRemoteErrors bool `mapstructure:"strict_remote_errors" yaml:"strict_remote_errors"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
}

// DefaultPath returns ~/.salesanalyzer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salesanalyzer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESANALYZER")
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("provider", "openrouter")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("temperature", 0.3)
	v.SetDefault("trend_max_tokens", 1000)
	v.SetDefault("max_tokens", 0)
	v.SetDefault("csv_path", "")
	v.SetDefault("chart_path", "sales_chart.png")
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 600)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("prediction_labels", []string{"2024-01 (P)", "2024-02 (P)", "2024-03 (P)"})
	v.SetDefault("forecast_fallback", []string{"42000.00", "45000.00", "48000.00"})
	v.SetDefault("strict_remote_errors", false)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// ResolvedAPIKey returns api_key, or when it is unset the key variable the
// current provider documents. It is evaluated lazily so provider overrides
// applied after Load pick the matching key.
func (c *Global) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch ai.NormalizeProvider(c.Provider) {
	case ai.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ai.ProviderOpenRouter:
		return os.Getenv("OPENROUTER_API_KEY")
	}
	return ""
}
