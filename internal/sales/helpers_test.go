package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T, amounts ...string) []Record {
	t.Helper()
	out := make([]Record, len(amounts))
	for i, a := range amounts {
		d, err := decimal.NewFromString(a)
		require.NoError(t, err)
		out[i] = Record{Date: "2023-" + string(rune('A'+i)), Sales: d}
	}
	return out
}

func requireDecimals(t *testing.T, want []string, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		require.Truef(t, decimal.RequireFromString(w).Equal(got[i]), "index %d: want %s, got %s", i, w, got[i])
	}
}
