// Package forecaster produces multi-step spending forecasts by feeding
// each step's prediction back in as the next step's lag input.
package forecaster

import (
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Forecaster generates recursive H-step forecasts.
type Forecaster struct {
	horizon int
	logger  logging.Logger
}

// New creates a Forecaster for the given horizon.
func New(horizon int, logger logging.Logger) *Forecaster {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Forecaster{horizon: horizon, logger: logger}
}

// Forecast predicts the next horizon months for one modeled category.
//
// Step 1 is built purely from observed history. Every later step shifts
// the lags down and substitutes the previous prediction for lag 1, with
// the rolling mean recomputed over the three most recent values
// (predictions included). Seasonal features follow the advancing calendar
// month; the combined-spend trend is held at lastTrend since future
// combined totals are unknown. Error therefore compounds with the step
// index, which is accepted over this short horizon. Predictions are
// clamped to zero from below: spending cannot be negative.
func (f *Forecaster) Forecast(model *models.CategoryModel, series *models.MonthlySeries, lastTrend float64) []float64 {
	n := series.Len()
	lag1 := series.Totals[n-1]
	lag2 := series.Totals[n-2]
	lag3 := series.Totals[n-3]
	month := series.LastMonth()

	out := make([]float64, 0, f.horizon)
	for step := 0; step < f.horizon; step++ {
		month = month.Next()
		sin, cos := month.Seasonal()
		rolling := (lag1 + lag2 + lag3) / 3

		pred := model.Booster.Predict([]float64{lag1, lag2, lag3, rolling, sin, cos, lastTrend})
		if pred < 0 {
			pred = 0
		}
		out = append(out, pred)

		lag3, lag2, lag1 = lag2, lag1, pred
	}

	f.logger.Debug("Generated recursive forecast",
		logging.Field{Key: logging.FieldCategory, Value: model.Category},
		logging.Field{Key: logging.FieldHorizon, Value: f.horizon})

	return out
}

// Fallback forecasts a constant trailing 3-month mean for a category
// without a trained model. Distinguished from model-based forecasts by the
// category's fallback status in the result.
func (f *Forecaster) Fallback(series *models.MonthlySeries) []float64 {
	mean := stat.Mean(series.Tail(3), nil)
	if mean < 0 {
		mean = 0
	}

	out := make([]float64, f.horizon)
	for i := range out {
		out[i] = mean
	}
	return out
}
