// Package trainer fits one gradient-boosted regressor per category and
// estimates its generalization error with forward-chaining time-series
// cross-validation.
package trainer

import (
	"math"
	"time"

	"fjacquet/spendcast/internal/forecasterror"
	"fjacquet/spendcast/internal/gbt"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"

	"gonum.org/v1/gonum/stat"
)

// MinTrainRows is the smallest number of feature rows a category needs
// before a model is fit at all. Below it the category falls back to
// trailing-mean forecasting.
const MinTrainRows = 3

// MinFolds is the smallest usable cross-validation fold count. With fewer
// feasible folds CV is skipped and the MAE reported as unknown.
const MinFolds = 2

// Trainer fits and validates category models.
type Trainer struct {
	folds  int
	params gbt.Params
	logger logging.Logger
}

// New creates a Trainer. folds is the requested fold count; it is reduced
// automatically when a category has too few rows.
func New(folds int, params gbt.Params, logger logging.Logger) *Trainer {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Trainer{folds: folds, params: params, logger: logger}
}

// Train fits a model for one category from its feature rows.
//
// Validation walks an expanding window: each fold trains on all rows before
// one held-out month and tests on that month alone, so a training fold
// never contains a row from the future. The final model is then refit on
// every row. Returns an InsufficientRowsError when the category has fewer
// than MinTrainRows rows.
func (t *Trainer) Train(category string, rows []models.FeatureRow) (*models.CategoryModel, error) {
	n := len(rows)
	if n < MinTrainRows {
		return nil, &forecasterror.InsufficientRowsError{
			Category: category,
			Rows:     n,
			Required: MinTrainRows,
		}
	}

	x := make([][]float64, n)
	y := make([]float64, n)
	for i, row := range rows {
		x[i] = row.Vector()
		y[i] = row.Target
	}

	model := &models.CategoryModel{
		Category:  category,
		Schema:    models.FeatureNames,
		Rows:      n,
		TrainedAt: time.Now().UTC(),
	}

	folds := t.folds
	if n-1 < folds {
		folds = n - 1
	}
	if folds >= MinFolds {
		foldMAEs, err := t.crossValidate(x, y, folds)
		if err != nil {
			return nil, err
		}
		model.FoldMAEs = foldMAEs
		model.MAE = stat.Mean(foldMAEs, nil)
		model.MAEKnown = true
	} else {
		t.logger.Warn("Too few rows for cross-validation, error is unknown",
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: logging.FieldRows, Value: n})
	}

	booster, err := gbt.Fit(x, y, t.params)
	if err != nil {
		return nil, err
	}
	model.Booster = booster

	t.logger.Info("Trained category model",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldRows, Value: n},
		logging.Field{Key: logging.FieldFolds, Value: len(model.FoldMAEs)},
		logging.Field{Key: logging.FieldMAE, Value: model.MAE})

	return model, nil
}

// crossValidate runs the expanding-window folds: the last `folds` rows each
// serve once as a single-month test set, trained on everything before it.
func (t *Trainer) crossValidate(x [][]float64, y []float64, folds int) ([]float64, error) {
	n := len(y)
	maes := make([]float64, 0, folds)

	for test := n - folds; test < n; test++ {
		booster, err := gbt.Fit(x[:test], y[:test], t.params)
		if err != nil {
			return nil, err
		}
		maes = append(maes, math.Abs(y[test]-booster.Predict(x[test])))
	}

	return maes, nil
}
