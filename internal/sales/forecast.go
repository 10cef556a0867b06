package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ForecastHorizon is the number of future months requested from the model.
const ForecastHorizon = 3

const (
	forecastOpenTag  = "<SALES_PREDICTIONS>"
	forecastCloseTag = "</SALES_PREDICTIONS>"
)

// DefaultForecastFallback is used when the model call fails or returns nothing.
var DefaultForecastFallback = []decimal.Decimal{
	decimal.RequireFromString("42000.00"),
	decimal.RequireFromString("45000.00"),
	decimal.RequireFromString("48000.00"),
}

// ParseForecast recovers ForecastHorizon numbers from a model reply.
//
// Text between <SALES_PREDICTIONS> tags (case-insensitive) wins; otherwise the
// whole reply is used with newlines flattened. Pieces are comma separated and
// any piece that is not a plain decimal (exponents included) becomes 0. The
// result is padded with zeros or truncated to exactly ForecastHorizon values.
// It never fails; malformed replies degrade to zeros.
func ParseForecast(reply string) []decimal.Decimal {
	candidate := extractTagged(reply)
	pieces := strings.Split(candidate, ",")

	out := make([]decimal.Decimal, 0, ForecastHorizon)
	for _, p := range pieces {
		if len(out) == ForecastHorizon {
			break
		}
		out = append(out, parsePiece(p))
	}
	for len(out) < ForecastHorizon {
		out = append(out, decimal.Zero)
	}
	return out
}

// parsePiece reads one plain decimal. Exponent notation is not a sales
// figure and reads as 0, like any other unparseable piece.
func parsePiece(p string) decimal.Decimal {
	p = strings.TrimSpace(p)
	if strings.ContainsAny(p, "eE") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(p)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func extractTagged(reply string) string {
	start := indexFold(reply, forecastOpenTag)
	end := indexFold(reply, forecastCloseTag)
	if start != -1 && end != -1 && end > start {
		return strings.TrimSpace(reply[start+len(forecastOpenTag) : end])
	}
	return strings.TrimSpace(strings.ReplaceAll(reply, "\n", " "))
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
