package sales

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadPreservesRowOrder(t *testing.T) {
	p := writeCSV(t, "Date,Sales\n2023-03,300.50\n2023-01,100\n2023-02,200.25\n")

	recs, err := Load(p)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"2023-03", "2023-01", "2023-02"}, []string{recs[0].Date, recs[1].Date, recs[2].Date})
	assert.Equal(t, "300.5", recs[0].Sales.String())
	assert.Equal(t, "200.25", recs[2].Sales.String())
}

func TestLoadMatchesHeadersByName(t *testing.T) {
	p := writeCSV(t, "\ufeffsales, date\n 1500.75 ,Jan\n")

	recs, err := Load(p)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Jan", recs[0].Date)
	assert.Equal(t, "1500.75", recs[0].Sales.String())
}

func TestLoadMissingFile(t *testing.T) {
	recs, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, recs)
}

func TestLoadMalformedAmountIsFatal(t *testing.T) {
	p := writeCSV(t, "Date,Sales\n2023-01,100\n2023-02,$2,000\n")

	_, err := Load(p)
	require.Error(t, err)
	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre), "got %T", err)
	assert.Equal(t, 3, mre.Line)
}

func TestLoadBadAmountReportsColumn(t *testing.T) {
	p := writeCSV(t, "Date,Sales\n2023-01,abc\n")

	_, err := Load(p)
	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 2, mre.Line)
	assert.Equal(t, "Sales", mre.Column)
	assert.Equal(t, "abc", mre.Value)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseRequiresBothColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("Date,Revenue\n2023-01,1\n"))
	var mre *MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Line)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseHeaderOnlyYieldsNoRecords(t *testing.T) {
	recs, err := Parse(strings.NewReader("Date,Sales\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDefaultCSVPathEndsWithName(t *testing.T) {
	assert.Equal(t, DefaultCSVName, filepath.Base(DefaultCSVPath()))
}
