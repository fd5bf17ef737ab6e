package models

// FeatureNames is the ordered feature schema every trained model is bound
// to. Rows expose their values in exactly this order; a persisted model
// whose recorded schema differs is invalid.
var FeatureNames = []string{
	"lag_1",
	"lag_2",
	"lag_3",
	"rolling_3m_mean",
	"month_sin",
	"month_cos",
	"trend",
}

// FeatureRow is one month's engineered feature vector plus its target.
// A row is only materialized when all three lags are defined, so the first
// three months of any series never produce trainable rows.
type FeatureRow struct {
	Month    Month
	Lag1     float64
	Lag2     float64
	Lag3     float64
	Rolling3 float64
	MonthSin float64
	MonthCos float64
	Trend    float64
	Target   float64
}

// Vector returns the feature values in FeatureNames order.
func (r FeatureRow) Vector() []float64 {
	return []float64{r.Lag1, r.Lag2, r.Lag3, r.Rolling3, r.MonthSin, r.MonthCos, r.Trend}
}
