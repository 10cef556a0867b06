package sales

import (
	"math"

	"github.com/shopspring/decimal"
)

// AnomalySigma is how many standard deviations a point must exceed to be flagged.
const AnomalySigma = 2.0

// AnomalyReport is the local half of anomaly detection; the narrative comes
// from the chat model.
type AnomalyReport struct {
	Mean      decimal.Decimal
	StdDev    float64
	Threshold float64
	Anomalies []Record
}

// DetectAnomalies flags records whose distance from the mean is strictly
// greater than AnomalySigma population standard deviations.
func DetectAnomalies(records []Record) (AnomalyReport, error) {
	mean, err := Mean(records)
	if err != nil {
		return AnomalyReport{}, err
	}
	std := PopulationStdDev(records, mean)
	rep := AnomalyReport{
		Mean:      mean,
		StdDev:    std,
		Threshold: AnomalySigma * std,
	}
	for _, r := range records {
		if math.Abs(r.Sales.Sub(mean).InexactFloat64()) > rep.Threshold {
			rep.Anomalies = append(rep.Anomalies, r)
		}
	}
	return rep, nil
}
