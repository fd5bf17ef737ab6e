package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/spendcast/internal/config"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"
	"fjacquet/spendcast/internal/modelstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.ForecastConfig {
	return config.ForecastConfig{
		Horizon:             3,
		MajorShareThreshold: 0.05,
		MinHistoryMonths:    6,
		CVFolds:             5,
		Booster: config.BoosterConfig{
			Trees:        100,
			MaxDepth:     4,
			LearningRate: 0.1,
			MinLeaf:      1,
			Subsample:    1.0,
			Seed:         42,
		},
	}
}

func quietLogger() logging.Logger {
	return logging.NewLogrusAdapter("error", "text")
}

// monthlyLedger builds an ascending ledger with one expense per category
// per month. A zero amount skips that category for the month.
func monthlyLedger(start models.Month, amounts map[string][]float64) []models.TransactionRecord {
	categories := make([]string, 0, len(amounts))
	months := 0
	for category, values := range amounts {
		categories = append(categories, category)
		if len(values) > months {
			months = len(values)
		}
	}
	// Deterministic intra-month order by giving each category its own day.
	days := make(map[string]int, len(categories))
	for i, category := range categories {
		days[category] = (i % 25) + 1
	}

	var records []models.TransactionRecord
	for i := 0; i < months; i++ {
		m := start.Add(i)
		for day := 1; day <= 28; day++ {
			for _, category := range categories {
				if days[category] != day {
					continue
				}
				values := amounts[category]
				if i >= len(values) || values[i] == 0 {
					continue
				}
				records = append(records, models.TransactionRecord{
					Date:      time.Date(m.Year, m.Month, day, 12, 0, 0, 0, time.UTC),
					Category:  category,
					NetAmount: decimal.NewFromFloat(-values[i]),
				})
			}
		}
	}
	return records
}

var start = models.Month{Year: 2024, Month: time.January}

func TestRunConstantCategory(t *testing.T) {
	records := monthlyLedger(start, map[string][]float64{
		"Groceries": {100, 100, 100, 100, 100, 100, 100, 100},
	})

	result, err := New(testConfig(), quietLogger()).Run(context.Background(), records)
	require.NoError(t, err)

	require.Contains(t, result.HorizonForecasts, "Groceries")
	forecast := result.HorizonForecasts["Groceries"]
	require.Len(t, forecast, 3)
	for i, v := range forecast {
		assert.InDelta(t, 100.0, v, 5.0, "step %d", i+1)
	}
	assert.Equal(t, forecast[0], result.NextMonthForecasts["Groceries"])

	assert.Equal(t, []string{"Groceries"}, result.MajorCategories)
	assert.Empty(t, result.UnmodeledCategories)
	assert.Equal(t, models.StatusModeled, result.Outcomes["Groceries"].Status)
	require.True(t, result.AvgMAEKnown)
	assert.InDelta(t, 0.0, result.AvgMAE, 1e-6)
}

func TestRunMajorMinorSplit(t *testing.T) {
	// A is exactly 6% of total spend, B exactly 4%, C the remaining 90%.
	records := monthlyLedger(start, map[string][]float64{
		"A": {7.5, 7.5, 7.5, 7.5, 7.5, 7.5, 7.5, 7.5},
		"B": {5, 5, 5, 5, 5, 5, 5, 5},
		"C": {112.5, 112.5, 112.5, 112.5, 112.5, 112.5, 112.5, 112.5},
	})

	result, err := New(testConfig(), quietLogger()).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Contains(t, result.MajorCategories, "A")
	assert.Contains(t, result.MajorCategories, "C")
	assert.NotContains(t, result.MajorCategories, "B")

	assert.Equal(t, models.StatusModeled, result.Outcomes["A"].Status)
	assert.Equal(t, models.StatusFallback, result.Outcomes["B"].Status)
	assert.Contains(t, result.UnmodeledCategories, "B")
	assert.NotContains(t, result.UnmodeledCategories, "A")

	// The minor category still gets a trailing-mean forecast.
	require.Contains(t, result.HorizonForecasts, "B")
	for _, v := range result.HorizonForecasts["B"] {
		assert.InDelta(t, 5.0, v, 1e-9)
	}
}

func TestRunInsufficientHistory(t *testing.T) {
	records := monthlyLedger(start, map[string][]float64{
		"Stable": {100, 100, 100, 100, 100, 100, 100, 100},
		"New":    {0, 0, 0, 0, 80, 80, 80, 80},
	})

	result, err := New(testConfig(), quietLogger()).Run(context.Background(), records)
	require.NoError(t, err)

	outcome := result.Outcomes["New"]
	assert.Equal(t, models.StatusExcluded, outcome.Status)
	assert.NotContains(t, result.HorizonForecasts, "New")
	assert.NotContains(t, result.NextMonthForecasts, "New")
	assert.Contains(t, result.UnmodeledCategories, "New")
	assert.NotEmpty(t, outcome.Reason)
}

func TestRunZeroEligibleCategories(t *testing.T) {
	records := monthlyLedger(start, map[string][]float64{
		"Short": {50, 50, 50},
	})

	result, err := New(testConfig(), quietLogger()).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Empty(t, result.HorizonForecasts)
	assert.Empty(t, result.NextMonthForecasts)
	assert.Equal(t, []string{"Short"}, result.UnmodeledCategories)
	assert.False(t, result.AvgMAEKnown)
}

func TestRunCancelledContext(t *testing.T) {
	records := monthlyLedger(start, map[string][]float64{
		"Groceries": {100, 100, 100, 100, 100, 100, 100, 100},
		"Rent":      {900, 900, 900, 900, 900, 900, 900, 900},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(testConfig(), &logging.MockLogger{}).Run(ctx, records)
	require.NoError(t, err)

	// Skipped, not silently omitted.
	for _, category := range []string{"Groceries", "Rent"} {
		outcome := result.Outcomes[category]
		assert.Equal(t, models.StatusSkipped, outcome.Status, category)
		assert.Contains(t, result.UnmodeledCategories, category)
	}
	assert.Empty(t, result.HorizonForecasts)
}

func TestRunDeterministic(t *testing.T) {
	records := monthlyLedger(start, map[string][]float64{
		"Groceries": {110, 95, 130, 120, 105, 140, 90, 125, 115, 135},
		"Transport": {40, 55, 35, 60, 45, 50, 42, 58, 47, 52},
		"Dining":    {20, 25, 15, 30, 22, 28, 18, 26, 24, 21},
	})

	p := New(testConfig(), quietLogger())
	a, err := p.Run(context.Background(), records)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, a.HorizonForecasts, b.HorizonForecasts)
	assert.Equal(t, a.NextMonthForecasts, b.NextMonthForecasts)
	assert.Equal(t, a.AvgMAE, b.AvgMAE)
	assert.Equal(t, a.MajorCategories, b.MajorCategories)
	assert.Equal(t, a.UnmodeledCategories, b.UnmodeledCategories)
}

func TestRunForecastsNonNegative(t *testing.T) {
	// Steeply declining spend tempts the regressor below zero.
	records := monthlyLedger(start, map[string][]float64{
		"Winding down": {500, 400, 300, 200, 100, 50, 20, 5},
	})

	result, err := New(testConfig(), quietLogger()).Run(context.Background(), records)
	require.NoError(t, err)

	for category, forecast := range result.HorizonForecasts {
		for i, v := range forecast {
			assert.GreaterOrEqual(t, v, 0.0, "%s step %d", category, i+1)
		}
	}
}

func TestRunRejectsContractViolations(t *testing.T) {
	valid := monthlyLedger(start, map[string][]float64{"A": {10, 10}})

	t.Run("zero date", func(t *testing.T) {
		records := append([]models.TransactionRecord{}, valid...)
		records[0].Date = time.Time{}
		_, err := New(testConfig(), &logging.MockLogger{}).Run(context.Background(), records)
		assert.Error(t, err)
	})

	t.Run("descending dates", func(t *testing.T) {
		records := []models.TransactionRecord{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Category: "A", NetAmount: decimal.NewFromInt(-10)},
			{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Category: "A", NetAmount: decimal.NewFromInt(-10)},
		}
		_, err := New(testConfig(), &logging.MockLogger{}).Run(context.Background(), records)
		assert.Error(t, err)
	})
}

func TestRunWithStorePersistsAndReuses(t *testing.T) {
	dir := t.TempDir()
	store, err := modelstore.NewStore(dir, quietLogger())
	require.NoError(t, err)

	records := monthlyLedger(start, map[string][]float64{
		"Groceries": {110, 95, 130, 120, 105, 140, 90, 125},
	})

	first, err := New(testConfig(), quietLogger(), WithStore(store)).Run(context.Background(), records)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gbt_groceries.yaml", entries[0].Name())

	second, err := New(testConfig(), quietLogger(), WithStore(store)).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first.HorizonForecasts, second.HorizonForecasts)
	assert.Equal(t, first.AvgMAE, second.AvgMAE)
}

func TestRunCorruptArtifactForcesRetraining(t *testing.T) {
	dir := t.TempDir()
	store, err := modelstore.NewStore(dir, quietLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "gbt_groceries.yaml"),
		[]byte("not: [valid: yaml"), 0o644))

	records := monthlyLedger(start, map[string][]float64{
		"Groceries": {110, 95, 130, 120, 105, 140, 90, 125},
	})

	result, err := New(testConfig(), quietLogger(), WithStore(store)).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, models.StatusModeled, result.Outcomes["Groceries"].Status)
	require.Contains(t, result.HorizonForecasts, "Groceries")
}

func TestRunManyCategoriesConcurrently(t *testing.T) {
	amounts := make(map[string][]float64)
	for i := 0; i < 12; i++ {
		values := make([]float64, 9)
		for j := range values {
			values[j] = 50 + float64((i*7+j*13)%40)
		}
		amounts[fmt.Sprintf("cat-%02d", i)] = values
	}

	result, err := New(testConfig(), quietLogger(), WithWorkers(4)).Run(context.Background(), monthlyLedger(start, amounts))
	require.NoError(t, err)

	assert.Len(t, result.Outcomes, 12)
	for category, outcome := range result.Outcomes {
		assert.NotEqual(t, models.StatusExcluded, outcome.Status, category)
		require.Contains(t, result.HorizonForecasts, category)
	}
}
