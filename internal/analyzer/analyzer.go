// Package analyzer runs the four sales routines: load, trends, chart and
// anomalies. Each routine re-reads the CSV and talks to the chat model through
// an injected ai.Completer.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sales-analyzer/internal/ai"
	"github.com/KaramelBytes/sales-analyzer/internal/chart"
	"github.com/KaramelBytes/sales-analyzer/internal/sales"
)

// errSkipped marks a routine that already reported a recoverable input problem.
var errSkipped = errors.New("routine skipped")

// Options configures every routine.
type Options struct {
	CSVPath   string
	ChartPath string
	Chart     chart.Options

	PreviewRows int

	Temperature    float64
	TrendMaxTokens int
	// MaxTokens bounds the forecast and anomaly calls; <= 0 is unbounded.
	MaxTokens int

	PredictionLabels []string
	ForecastFallback []decimal.Decimal

	// Strict surfaces completion failures instead of degrading to fallbacks.
	Strict bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		CSVPath:          sales.DefaultCSVPath(),
		ChartPath:        chart.DefaultFileName,
		Chart:            chart.DefaultOptions(),
		PreviewRows:      5,
		Temperature:      0.3,
		TrendMaxTokens:   1000,
		PredictionLabels: chart.DefaultPredictionLabels,
		ForecastFallback: sales.DefaultForecastFallback,
	}
}

// Analyzer holds the collaborators shared by the routines.
type Analyzer struct {
	completer ai.Completer
	opts      Options
	log       *zap.Logger
	out       io.Writer
}

// New wires an Analyzer. A nil logger disables logging and a nil out writes to stdout.
func New(completer ai.Completer, opts Options, logger *zap.Logger, out io.Writer) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	def := DefaultOptions()
	if opts.CSVPath == "" {
		opts.CSVPath = def.CSVPath
	}
	if opts.ChartPath == "" {
		opts.ChartPath = def.ChartPath
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = def.PreviewRows
	}
	if len(opts.ForecastFallback) != sales.ForecastHorizon {
		opts.ForecastFallback = def.ForecastFallback
	}
	if opts.PredictionLabels == nil {
		opts.PredictionLabels = def.PredictionLabels
	}
	return &Analyzer{completer: completer, opts: opts, log: logger, out: out}
}

// Options returns the effective options after defaults were applied.
func (a *Analyzer) Options() Options { return a.opts }

// RunAll runs load, trends, chart and anomalies in order, each under its banner.
// It stops at the first hard failure.
func (a *Analyzer) RunAll(ctx context.Context) error {
	steps := []struct {
		banner string
		run    func(context.Context) error
	}{
		{"Example 1: Load Sales Data", a.LoadSalesData},
		{"\nExample 2: Analyze Sales Trends", a.AnalyzeTrends},
		{"\nExample 3: Generate Sales Chart", a.GenerateChart},
		{"\nExample 4: Detect Sales Anomalies", a.DetectAnomalies},
	}
	for _, s := range steps {
		fmt.Fprintln(a.out, s.banner)
		if err := s.run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// LoadSalesData prints a preview of the CSV and the record count.
func (a *Analyzer) LoadSalesData(ctx context.Context) error {
	records, err := a.load()
	if err != nil {
		return ignoreSkipped(err)
	}
	n := min(a.opts.PreviewRows, len(records))
	fmt.Fprintf(a.out, "Loaded Sales Data (First %d records):\n", a.opts.PreviewRows)
	fmt.Fprintln(a.out, "Date\t\tSales")
	fmt.Fprintln(a.out, "----\t\t-----")
	for _, r := range records[:n] {
		fmt.Fprintf(a.out, "%s\t%s\n", r.Date, sales.FormatCurrency(r.Sales))
	}
	fmt.Fprintf(a.out, "\nTotal records loaded: %d\n", len(records))
	return nil
}

// AnalyzeTrends summarizes the data locally and prints the model's narrative.
func (a *Analyzer) AnalyzeTrends(ctx context.Context) error {
	records, err := a.load()
	if err != nil {
		return ignoreSkipped(err)
	}
	summary, err := sales.Summarize(records)
	if err != nil {
		return a.reportEmpty(err)
	}
	reply, err := a.complete(ctx, "trend analysis", sales.TrendPrompt(records, summary), a.opts.TrendMaxTokens)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sales Trends Analysis:\n%s\n", reply)
	return nil
}

// GenerateChart asks the model for a three month forecast and renders it
// next to the historical series.
func (a *Analyzer) GenerateChart(ctx context.Context) error {
	records, err := a.load()
	if err != nil {
		return ignoreSkipped(err)
	}
	if len(records) == 0 {
		return a.reportEmpty(sales.ErrEmptyDataset)
	}
	reply, err := a.complete(ctx, "sales forecast", sales.ForecastPrompt(records), a.opts.MaxTokens)
	if err != nil {
		return err
	}
	forecast := a.opts.ForecastFallback
	if reply != "" {
		forecast = sales.ParseForecast(reply)
	} else {
		a.log.Warn("using fallback forecast", zap.Strings("forecast", decimalStrings(forecast)))
	}
	a.log.Debug("forecast", zap.Strings("values", decimalStrings(forecast)))

	layout := chart.BuildLayout(records, forecast, a.opts.PredictionLabels)
	if err := chart.Render(a.opts.ChartPath, layout, a.opts.Chart); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	fmt.Fprintf(a.out, "Sales chart with predictions generated and saved as '%s'\n", a.opts.ChartPath)
	return nil
}

// DetectAnomalies flags 2-sigma outliers locally and prints the model's report.
func (a *Analyzer) DetectAnomalies(ctx context.Context) error {
	records, err := a.load()
	if err != nil {
		return ignoreSkipped(err)
	}
	rep, err := sales.DetectAnomalies(records)
	if err != nil {
		return a.reportEmpty(err)
	}
	a.log.Debug("anomaly scan",
		zap.String("mean", rep.Mean.StringFixed(2)),
		zap.Float64("stddev", rep.StdDev),
		zap.Float64("threshold", rep.Threshold),
		zap.Int("anomalies", len(rep.Anomalies)),
	)
	reply, err := a.complete(ctx, "anomaly report", sales.AnomalyPrompt(records, rep), a.opts.MaxTokens)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sales Anomalies Detection Report:\n%s\n", reply)
	return nil
}

// load reads the CSV, printing the not-found message itself.
func (a *Analyzer) load() ([]sales.Record, error) {
	records, err := sales.Load(a.opts.CSVPath)
	if errors.Is(err, sales.ErrNotFound) {
		fmt.Fprintln(a.out, "✗ Error: sales.csv file not found in the application directory.")
		fmt.Fprintf(a.out, "  Expected at: %s\n", a.opts.CSVPath)
		a.log.Debug("csv missing", zap.String("path", a.opts.CSVPath))
		return nil, errSkipped
	}
	if err != nil {
		return nil, fmt.Errorf("load sales data: %w", err)
	}
	a.log.Debug("csv loaded", zap.String("path", a.opts.CSVPath), zap.Int("records", len(records)))
	return records, nil
}

func (a *Analyzer) reportEmpty(err error) error {
	if !errors.Is(err, sales.ErrEmptyDataset) {
		return err
	}
	fmt.Fprintf(a.out, "⚠ Warning: %s contains no sales records.\n", a.opts.CSVPath)
	return nil
}

// complete calls the model. Failures and blank replies become "" unless the
// analyzer is strict or ctx is done.
func (a *Analyzer) complete(ctx context.Context, purpose string, p sales.Prompt, maxTokens int) (string, error) {
	reply, err := a.completer.Complete(ctx, p.System, p.User, ai.CompletionOptions{
		Temperature: a.opts.Temperature,
		MaxTokens:   maxTokens,
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ai.ErrEmptyCompletion
	}
	if err != nil {
		if a.opts.Strict || ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", purpose, err)
		}
		a.log.Warn("completion failed; continuing without model output", zap.String("purpose", purpose), zap.Error(err))
		return "", nil
	}
	return reply, nil
}

func ignoreSkipped(err error) error {
	if errors.Is(err, errSkipped) {
		return nil
	}
	return err
}

func decimalStrings(ds []decimal.Decimal) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.StringFixed(2)
	}
	return out
}
