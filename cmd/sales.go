package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sales-analyzer/internal/analyzer"
)

func routineCommand(use, short string, run func(*analyzer.Analyzer, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(cmd)
			if err != nil {
				return err
			}
			return run(a, cmd.Context())
		},
	}
}

var (
	loadCmd = routineCommand("load", "Print the first rows of the sales CSV and the record count",
		(*analyzer.Analyzer).LoadSalesData)
	trendsCmd = routineCommand("trends", "Ask the model for a sales trend analysis",
		(*analyzer.Analyzer).AnalyzeTrends)
	chartCmd = routineCommand("chart", "Forecast three months and render the sales chart as PNG",
		(*analyzer.Analyzer).GenerateChart)
	anomaliesCmd = routineCommand("anomalies", "Flag 2-sigma outliers and ask the model to explain them",
		(*analyzer.Analyzer).DetectAnomalies)
)

func init() {
	rootCmd.AddCommand(loadCmd, trendsCmd, chartCmd, anomaliesCmd)
}
