// Package evaluator aggregates per-category validation metrics and decides
// which categories are material contributors to total spend.
package evaluator

import (
	"sort"

	"fjacquet/spendcast/internal/models"

	"gonum.org/v1/gonum/stat"
)

// MajorCategories returns, sorted, the categories whose spend share
// strictly exceeds threshold. This is a spend-share fact only; whether a
// category's model trained successfully does not change the list.
func MajorCategories(spend map[string]float64, total, threshold float64) []string {
	var majors []string
	if total <= 0 {
		return majors
	}
	for category, amount := range spend {
		if amount/total > threshold {
			majors = append(majors, category)
		}
	}
	sort.Strings(majors)
	return majors
}

// AvgMAE averages the cross-validated MAE across the categories that
// underwent full model training. Fallback categories and models whose CV
// was infeasible carry no metric and are excluded. The second return is
// false when no category contributed a metric.
func AvgMAE(outcomes map[string]models.CategoryOutcome) (float64, bool) {
	var maes []float64
	for _, outcome := range outcomes {
		if outcome.Status == models.StatusModeled && outcome.MAEKnown {
			maes = append(maes, outcome.MAE)
		}
	}
	if len(maes) == 0 {
		return 0, false
	}
	return stat.Mean(maes, nil), true
}
