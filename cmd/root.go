package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/KaramelBytes/sales-analyzer/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides applied on top of the loaded config when set
	flagCSVPath          string
	flagChartPath        string
	flagProvider         string
	flagModel            string
	flagOllamaHost       string
	flagStrict           bool
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "salesanalyzer",
	Short: "Sales Analyzer CLI: trends, forecast chart and anomalies from sales.csv",
	Long: `Sales Analyzer reads monthly sales from a CSV file, prints a preview, asks a chat model
for a trend analysis, renders a PNG chart with a three month forecast and reports
2-sigma anomalies. Run without a subcommand to execute all four routines in order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runAll is attached in init: newAnalyzer reads rootCmd's flags.
func runAll(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}
	return a.RunAll(cmd.Context())
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.RunE = runAll

	// Persistent global flags available to all subcommands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.salesanalyzer/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	pf.StringVar(&flagCSVPath, "csv", "", "sales CSV path (default: sales.csv next to the executable)")
	pf.StringVar(&flagChartPath, "chart-out", "", "chart PNG output path (overrides config)")
	pf.StringVar(&flagProvider, "provider", "", "chat provider: openrouter, openai or ollama (overrides config)")
	pf.StringVar(&flagModel, "model", "", "model name (overrides config)")
	pf.StringVar(&flagOllamaHost, "ollama-host", "", "Ollama host URL (overrides config)")
	pf.BoolVar(&flagStrict, "strict", false, "fail on model errors instead of using fallbacks")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	pf.IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	pf.IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyFlagOverrides(cfg)
}

// applyFlagOverrides copies explicitly set persistent flags into c.
func applyFlagOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("csv") && flagCSVPath != "" {
		c.CSVPath = flagCSVPath
	}
	if f.Changed("chart-out") && flagChartPath != "" {
		c.ChartPath = flagChartPath
	}
	if f.Changed("provider") && flagProvider != "" {
		c.Provider = flagProvider
	}
	if f.Changed("model") && flagModel != "" {
		c.Model = flagModel
	}
	if f.Changed("ollama-host") && flagOllamaHost != "" {
		c.OllamaHost = flagOllamaHost
	}
	if f.Changed("strict") {
		c.StrictRemoteErrors = flagStrict
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// newLogger returns a warn-level console logger on stderr, or zap's
// development logger with --debug. Every entry carries the run id.
func newLogger(debug bool) (*zap.Logger, error) {
	var zc zap.Config
	if debug {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.DisableStacktrace = true
		zc.Sampling = nil
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("run_id", uuid.NewString())), nil
}
