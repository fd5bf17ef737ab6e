package models

// CategoryStatus describes how a category came out of a pipeline run.
type CategoryStatus string

const (
	// StatusModeled means a trained regressor produced the forecast.
	StatusModeled CategoryStatus = "modeled"
	// StatusFallback means the forecast is the trailing 3-month mean,
	// either because the category is below the major spend share or
	// because it had too few trainable rows.
	StatusFallback CategoryStatus = "fallback"
	// StatusExcluded means the category had under the minimum months of
	// history and was not forecast at all.
	StatusExcluded CategoryStatus = "excluded"
	// StatusSkipped means the run was cancelled before the category was
	// processed.
	StatusSkipped CategoryStatus = "skipped"
)

// CategoryOutcome is the per-category record of a pipeline run.
type CategoryOutcome struct {
	Category string         `json:"category"`
	Status   CategoryStatus `json:"status"`
	// Forecast holds one value per horizon step. Empty for excluded and
	// skipped categories.
	Forecast []float64 `json:"forecast,omitempty"`
	MAE      float64   `json:"-"`
	MAEKnown bool      `json:"-"`
	Reason   string    `json:"reason,omitempty"`
}

// ForecastResult is the output contract of one pipeline run.
type ForecastResult struct {
	// NextMonthForecasts maps each forecast category to step 1 of the
	// horizon.
	NextMonthForecasts map[string]float64
	// HorizonForecasts maps each forecast category to all horizon steps.
	HorizonForecasts map[string][]float64
	// AvgMAE averages the cross-validated MAE of the categories that
	// underwent full model training. Meaningless when AvgMAEKnown is
	// false (no category had a CV metric).
	AvgMAE      float64
	AvgMAEKnown bool
	// MajorCategories lists the categories above the spend-share
	// threshold. A spend-share fact, independent of modeling outcome.
	MajorCategories []string
	// UnmodeledCategories lists every category that did not get a
	// model-based forecast: fallback, excluded and skipped ones.
	UnmodeledCategories []string
	// Outcomes carries the per-category status detail.
	Outcomes map[string]CategoryOutcome
}
