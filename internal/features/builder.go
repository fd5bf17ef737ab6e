// Package features derives the fixed feature vector for each month of a
// category's series: lags, a rolling mean, a cyclic seasonal encoding and
// the combined spending trend.
package features

import (
	"fjacquet/spendcast/internal/models"

	"gonum.org/v1/gonum/stat"
)

// MinLags is the number of prior months a row needs before it can be
// materialized. Rows without all lags are dropped, which keeps months with
// insufficient history out of training entirely.
const MinLags = 3

// Schema returns the ordered feature names rows are built against.
func Schema() []string {
	return models.FeatureNames
}

// Builder turns monthly series into trainable feature rows.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build produces one FeatureRow per month that has all three lags defined.
// trend is the combined all-category monthly trend, indexed like the
// series; it is the only cross-category input.
func (b *Builder) Build(series *models.MonthlySeries, trend []float64) []models.FeatureRow {
	n := series.Len()
	if n <= MinLags {
		return nil
	}

	rows := make([]models.FeatureRow, 0, n-MinLags)
	for i := MinLags; i < n; i++ {
		month := series.MonthAt(i)
		sin, cos := month.Seasonal()
		rows = append(rows, models.FeatureRow{
			Month:    month,
			Lag1:     series.Totals[i-1],
			Lag2:     series.Totals[i-2],
			Lag3:     series.Totals[i-3],
			Rolling3: stat.Mean(series.Totals[i-3:i], nil),
			MonthSin: sin,
			MonthCos: cos,
			Trend:    trend[i],
			Target:   series.Totals[i],
		})
	}
	return rows
}
