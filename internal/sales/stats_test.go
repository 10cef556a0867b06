package sales

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanIsSumOverN(t *testing.T) {
	recs := records(t, "10", "20", "30", "40")
	m, err := Mean(recs)
	require.NoError(t, err)
	assert.Equal(t, "25", m.String())
}

func TestMeanEmpty(t *testing.T) {
	_, err := Mean(nil)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestPopulationStdDevDividesByN(t *testing.T) {
	// Classic example: population stddev 2, sample stddev ~2.138.
	recs := records(t, "2", "4", "4", "4", "5", "5", "7", "9")
	m, err := Mean(recs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, PopulationStdDev(recs, m), 1e-12)
	assert.NotEqual(t, math.Sqrt(32.0/7.0), PopulationStdDev(recs, m))
}

func TestSummarize(t *testing.T) {
	recs := records(t, "150.50", "99.50", "250")
	s, err := Summarize(recs)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "500", s.Total.String())
	assert.InDelta(t, 500.0/3.0, s.Mean.InexactFloat64(), 1e-9)
	assert.Equal(t, "250", s.Max.String())
	assert.Equal(t, "99.5", s.Min.String())
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize([]Record{})
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}
