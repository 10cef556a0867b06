package sales

import "github.com/shopspring/decimal"

// Record is one row of the sales CSV. Date is an opaque label echoed back
// in prompts and chart ticks; rows keep their file order.
type Record struct {
	Date  string
	Sales decimal.Decimal
}
