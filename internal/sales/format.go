package sales

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as US dollars with grouping, e.g. $12,345.60.
func FormatCurrency(d decimal.Decimal) string {
	s := currencyPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// joinRecords renders records as "date: $amount" separated by ", ".
func joinRecords(records []Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Date + ": " + FormatCurrency(r.Sales)
	}
	return strings.Join(parts, ", ")
}
