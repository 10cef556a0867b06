package sales

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrEmptyDataset is returned by statistics that are undefined for zero records.
var ErrEmptyDataset = errors.New("sales dataset is empty")

// Summary holds the aggregate figures quoted in the trend prompt.
type Summary struct {
	Count int
	Total decimal.Decimal
	Mean  decimal.Decimal
	Max   decimal.Decimal
	Min   decimal.Decimal
}

// Summarize computes count, total, mean, max and min over records.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	s := Summary{
		Count: len(records),
		Max:   records[0].Sales,
		Min:   records[0].Sales,
	}
	for _, r := range records {
		s.Total = s.Total.Add(r.Sales)
		if r.Sales.GreaterThan(s.Max) {
			s.Max = r.Sales
		}
		if r.Sales.LessThan(s.Min) {
			s.Min = r.Sales
		}
	}
	s.Mean = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	return s, nil
}

// Mean returns the arithmetic mean of the sales amounts.
func Mean(records []Record) (decimal.Decimal, error) {
	if len(records) == 0 {
		return decimal.Zero, ErrEmptyDataset
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Sales)
	}
	return total.Div(decimal.NewFromInt(int64(len(records)))), nil
}

// PopulationStdDev returns sqrt(sum((x-mean)^2)/n). The divisor is n, not n-1.
// It returns 0 for an empty slice.
func PopulationStdDev(records []Record, mean decimal.Decimal) float64 {
	if len(records) == 0 {
		return 0
	}
	var sumSq float64
	for _, r := range records {
		d := r.Sales.Sub(mean).InexactFloat64()
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(records)))
}
