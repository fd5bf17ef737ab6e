package features

import (
	"math"
	"testing"
	"time"

	"fjacquet/spendcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(start models.Month, totals ...float64) *models.MonthlySeries {
	return &models.MonthlySeries{
		Category:       "test",
		Start:          start,
		Totals:         totals,
		ObservedMonths: len(totals),
	}
}

func TestBuildDropsMonthsWithoutAllLags(t *testing.T) {
	s := series(models.Month{Year: 2024, Month: time.January}, 10, 20, 30, 40, 50)
	rows := NewBuilder().Build(s, make([]float64, 5))

	// The first three months can never have lag_3 defined.
	require.Len(t, rows, 2)
	assert.Equal(t, models.Month{Year: 2024, Month: time.April}, rows[0].Month)
	assert.Equal(t, models.Month{Year: 2024, Month: time.May}, rows[1].Month)
}

func TestBuildLagAlignment(t *testing.T) {
	s := series(models.Month{Year: 2024, Month: time.January}, 10, 20, 30, 40, 50)
	rows := NewBuilder().Build(s, make([]float64, 5))
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 30.0, first.Lag1)
	assert.Equal(t, 20.0, first.Lag2)
	assert.Equal(t, 10.0, first.Lag3)
	assert.InDelta(t, 20.0, first.Rolling3, 1e-9)
	assert.Equal(t, 40.0, first.Target)

	second := rows[1]
	assert.Equal(t, 40.0, second.Lag1)
	assert.Equal(t, 30.0, second.Lag2)
	assert.Equal(t, 20.0, second.Lag3)
	assert.InDelta(t, 30.0, second.Rolling3, 1e-9)
	assert.Equal(t, 50.0, second.Target)
}

func TestBuildSeasonalEncoding(t *testing.T) {
	s := series(models.Month{Year: 2024, Month: time.January}, 1, 1, 1, 1)
	rows := NewBuilder().Build(s, make([]float64, 4))
	require.Len(t, rows, 1)

	// Row is for April (month 4).
	angle := 2 * math.Pi * 4 / 12
	assert.InDelta(t, math.Sin(angle), rows[0].MonthSin, 1e-9)
	assert.InDelta(t, math.Cos(angle), rows[0].MonthCos, 1e-9)
}

func TestBuildTrendPassthrough(t *testing.T) {
	s := series(models.Month{Year: 2024, Month: time.January}, 1, 1, 1, 1, 1)
	trend := []float64{0, 0.5, -0.25, 0.1, 0.2}
	rows := NewBuilder().Build(s, trend)
	require.Len(t, rows, 2)

	assert.Equal(t, 0.1, rows[0].Trend)
	assert.Equal(t, 0.2, rows[1].Trend)
}

func TestBuildShortSeries(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
	}{
		{"empty", nil},
		{"one month", []float64{5}},
		{"three months", []float64{5, 6, 7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := series(models.Month{Year: 2024, Month: time.January}, tc.totals...)
			rows := NewBuilder().Build(s, make([]float64, len(tc.totals)))
			assert.Empty(t, rows)
		})
	}
}

func TestSchemaMatchesVectorOrder(t *testing.T) {
	row := models.FeatureRow{
		Lag1: 1, Lag2: 2, Lag3: 3, Rolling3: 4,
		MonthSin: 5, MonthCos: 6, Trend: 7,
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, row.Vector())
	assert.Len(t, Schema(), len(row.Vector()))
}
