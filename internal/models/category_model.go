package models

import (
	"time"

	"fjacquet/spendcast/internal/gbt"
)

// CategoryModel is a trained regressor bound to one category together with
// the feature schema it was trained on and its cross-validated error.
// Models are created fresh per pipeline run and never shared between
// categories; they survive a run only through explicit persistence.
type CategoryModel struct {
	Category string
	Schema   []string
	Booster  *gbt.Regressor
	// MAE is the forward-chaining cross-validation mean absolute error.
	// When too few folds were feasible the value is meaningless and
	// MAEKnown is false; the error is "unknown", never zero.
	MAE       float64
	MAEKnown  bool
	FoldMAEs  []float64
	Rows      int
	TrainedAt time.Time
}

// SchemaMatches reports whether the model's recorded feature schema is
// identical, in order, to the given one.
func (m *CategoryModel) SchemaMatches(schema []string) bool {
	if len(m.Schema) != len(schema) {
		return false
	}
	for i, name := range m.Schema {
		if name != schema[i] {
			return false
		}
	}
	return true
}
