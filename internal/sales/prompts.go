package sales

import (
	"fmt"
	"strings"
)

// Prompt is a system instruction plus user content for one chat completion.
type Prompt struct {
	System string
	User   string
}

const (
	trendSystem = "You are a professional sales analyst. Analyze sales data, identify trends, calculate metrics, and provide insights clearly and concisely."

	anomalySystem = "You are a data analyst specializing in sales anomaly detection. Provide a detailed report on detected anomalies, including possible causes, impacts on business, and recommendations."

	forecastSystem = "You are a sales forecasting expert. Your ONLY goal is to output three comma-separated decimal sales numbers for the next three months. DO NOT include any introductory text, explanation, thoughts, currency symbols, or trailing punctuation. The output must be PURELY the three numbers separated by commas."
)

// TrendPrompt asks for a prose trend analysis of records and their summary.
func TrendPrompt(records []Record, s Summary) Prompt {
	user := fmt.Sprintf("Analyze this sales data: [%s]. Total sales: %s, Average: %s, Max: %s, Min: %s. Identify trends, peak periods, and provide business insights.",
		joinRecords(records), FormatCurrency(s.Total), FormatCurrency(s.Mean), FormatCurrency(s.Max), FormatCurrency(s.Min))
	return Prompt{System: trendSystem, User: user}
}

// AnomalyPrompt asks the model to explain the anomalies found in rep.
func AnomalyPrompt(records []Record, rep AnomalyReport) Prompt {
	user := fmt.Sprintf("Sales Data: [%s]. Mean Sales: %s, Standard Deviation: %.2f. Detected Anomalies: [%s]. Analyze these anomalies, explain potential reasons, assess business impact, and suggest actions.",
		joinRecords(records), FormatCurrency(rep.Mean), rep.StdDev, joinRecords(rep.Anomalies))
	return Prompt{System: anomalySystem, User: user}
}

// ForecastPrompt asks for the next ForecastHorizon months wrapped in
// <SALES_PREDICTIONS> tags; see ParseForecast for the reading side.
func ForecastPrompt(records []Record) Prompt {
	dates := make([]string, len(records))
	amounts := make([]string, len(records))
	for i, r := range records {
		dates[i] = r.Date
		amounts[i] = r.Sales.StringFixed(2)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Historical Dates: [%s]\n", strings.Join(dates, ", "))
	fmt.Fprintf(&b, "Historical Sales Amounts: [%s]\n\n", strings.Join(amounts, ", "))
	fmt.Fprintf(&b, "Based on this historical sales data, provide the next %d months of sales.\n", ForecastHorizon)
	fmt.Fprintf(&b, "OUTPUT FORMAT: %sNUMBER1,NUMBER2,NUMBER3%s\n", forecastOpenTag, forecastCloseTag)
	fmt.Fprintf(&b, "Please provide ONLY the content inside the %s tags.", forecastOpenTag)
	return Prompt{System: forecastSystem, User: b.String()}
}
