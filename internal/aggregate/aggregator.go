// Package aggregate collapses a categorized transaction stream into
// per-category monthly expense series.
package aggregate

import (
	"sort"

	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"
)

// Dataset is the aggregated view of one transaction set: every category's
// monthly series reindexed onto the same contiguous month range, plus the
// combined totals the trend feature is derived from.
type Dataset struct {
	Start  models.Month
	Months int
	Series map[string]*models.MonthlySeries
	// Combined holds the all-category monthly expense totals.
	Combined []float64
	// Spend holds each category's total expense over the whole range.
	Spend map[string]float64
	// Total is the overall expense across all categories.
	Total float64
}

// Categories returns the category names in sorted order.
func (d *Dataset) Categories() []string {
	names := make([]string, 0, len(d.Series))
	for name := range d.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trend returns the month-over-month percentage change of the combined
// expense total. The first month is 0, as is any month following a zero
// total (the change is undefined there).
func (d *Dataset) Trend() []float64 {
	trend := make([]float64, len(d.Combined))
	for i := 1; i < len(d.Combined); i++ {
		prev := d.Combined[i-1]
		if prev != 0 {
			trend[i] = (d.Combined[i] - prev) / prev
		}
	}
	return trend
}

// Aggregator builds Datasets from transaction streams.
type Aggregator struct {
	logger logging.Logger
}

// New creates an Aggregator.
func New(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups expense transactions by (category, month), sums their
// absolute amounts, and reindexes every category onto the full month range
// spanned by the dataset, filling absent months with zero. Income rows are
// ignored: forecasting targets spending only.
func (a *Aggregator) Aggregate(records []models.TransactionRecord) *Dataset {
	type cell struct {
		category string
		month    models.Month
	}

	cells := make(map[cell]float64)
	var first, last models.Month
	seen := false

	for _, rec := range records {
		if !rec.IsExpense() {
			continue
		}
		m := models.MonthOf(rec.Date)
		cells[cell{rec.Category, m}] += rec.ExpenseAmount()
		if !seen {
			first, last, seen = m, m, true
		} else {
			if m.Before(first) {
				first = m
			}
			if last.Before(m) {
				last = m
			}
		}
	}

	ds := &Dataset{
		Start:  first,
		Series: make(map[string]*models.MonthlySeries),
		Spend:  make(map[string]float64),
	}
	if !seen {
		a.logger.Warn("No expense transactions to aggregate")
		return ds
	}
	ds.Months = last.Sub(first) + 1
	ds.Combined = make([]float64, ds.Months)

	for c, total := range cells {
		series, ok := ds.Series[c.category]
		if !ok {
			series = &models.MonthlySeries{
				Category: c.category,
				Start:    first,
				Totals:   make([]float64, ds.Months),
			}
			ds.Series[c.category] = series
		}
		i := c.month.Sub(first)
		series.Totals[i] = total
		series.ObservedMonths++
		ds.Combined[i] += total
		ds.Spend[c.category] += total
		ds.Total += total
	}

	a.logger.Info("Aggregated expense transactions",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "categories", Value: len(ds.Series)},
		logging.Field{Key: logging.FieldMonths, Value: ds.Months})

	return ds
}
