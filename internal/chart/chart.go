// Package chart renders historical sales and the model's forecast as a PNG.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/sales-analyzer/internal/sales"
	"github.com/KaramelBytes/sales-analyzer/internal/utils"
)

// DefaultFileName is where the chart is written when no path is configured.
const DefaultFileName = "sales_chart.png"

// dpi used by gonum's PNG backend; lengths are converted so pixel sizes are exact.
const dpi = 96

// DefaultPredictionLabels tick the three forecast months.
var DefaultPredictionLabels = []string{"2024-01 (P)", "2024-02 (P)", "2024-03 (P)"}

var (
	historicalColor = color.RGBA{B: 255, A: 255}
	predictedColor  = color.RGBA{R: 255, A: 255}
)

// Options controls the rendered figure.
type Options struct {
	Width  int // pixels
	Height int // pixels
}

// DefaultOptions returns an 800x600 figure.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

// Layout is the plotted data: historical points at x=0..n-1 followed by the
// forecast at x=n.., with one tick label per x position.
type Layout struct {
	Historical plotter.XYs
	Predicted  plotter.XYs
	Ticks      []plot.Tick
}

// BuildLayout places records and forecast on a shared index axis. Labels for
// forecast ticks come from predLabels; missing labels fall back to "+k (P)".
func BuildLayout(records []sales.Record, forecast []decimal.Decimal, predLabels []string) Layout {
	n := len(records)
	l := Layout{
		Historical: make(plotter.XYs, n),
		Predicted:  make(plotter.XYs, len(forecast)),
		Ticks:      make([]plot.Tick, 0, n+len(forecast)),
	}
	for i, r := range records {
		l.Historical[i] = plotter.XY{X: float64(i), Y: r.Sales.InexactFloat64()}
		l.Ticks = append(l.Ticks, plot.Tick{Value: float64(i), Label: r.Date})
	}
	for i, f := range forecast {
		x := float64(n + i)
		l.Predicted[i] = plotter.XY{X: x, Y: f.InexactFloat64()}
		label := fmt.Sprintf("+%d (P)", i+1)
		if i < len(predLabels) {
			label = predLabels[i]
		}
		l.Ticks = append(l.Ticks, plot.Tick{Value: x, Label: label})
	}
	return l
}

// Plot builds the gonum figure for l without writing it.
func Plot(l Layout) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Monthly Sales Data with Predictions"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Sales ($)"
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Width = vg.Points(1)
	grid.Horizontal.Width = vg.Points(1)
	p.Add(grid)

	if len(l.Historical) > 0 {
		line, points, err := plotter.NewLinePoints(l.Historical)
		if err != nil {
			return nil, fmt.Errorf("historical series: %w", err)
		}
		line.Color = historicalColor
		line.Width = vg.Points(2)
		points.Color = historicalColor
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(5) / 2
		p.Add(line, points)
		p.Legend.Add("Historical Sales", line, points)
	}
	if len(l.Predicted) > 0 {
		line, points, err := plotter.NewLinePoints(l.Predicted)
		if err != nil {
			return nil, fmt.Errorf("predicted series: %w", err)
		}
		line.Color = predictedColor
		line.Width = vg.Points(2)
		points.Color = predictedColor
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(10) / 2
		p.Add(line, points)
		p.Legend.Add("Predicted Sales", line, points)
	}

	p.X.Tick.Marker = plot.ConstantTicks(l.Ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	if n := len(l.Ticks); n > 0 {
		p.X.Min = l.Ticks[0].Value - 0.5
		p.X.Max = l.Ticks[n-1].Value + 0.5
	}
	return p, nil
}

// Render draws l and writes it as a PNG to path, replacing any existing file.
func Render(path string, l Layout, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	p, err := Plot(l)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pixels(opts.Width), pixels(opts.Height), "png")
	if err != nil {
		return fmt.Errorf("prepare png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}
