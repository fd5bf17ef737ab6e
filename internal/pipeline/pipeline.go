// Package pipeline orchestrates one forecasting run: aggregation, feature
// engineering, per-category training and recursive forecasting, and the
// final evaluation summary. Categories are independent and processed on a
// bounded worker pool; a single merge step collects the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"

	"fjacquet/spendcast/internal/aggregate"
	"fjacquet/spendcast/internal/config"
	"fjacquet/spendcast/internal/evaluator"
	"fjacquet/spendcast/internal/features"
	"fjacquet/spendcast/internal/forecaster"
	"fjacquet/spendcast/internal/forecasterror"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"
	"fjacquet/spendcast/internal/trainer"

	"golang.org/x/sync/errgroup"
)

// ModelStore is the optional persistence collaborator. Load must fail with
// os.ErrNotExist semantics for absent artifacts and with a typed error for
// corrupt or schema-mismatched ones; both are treated as cache misses.
type ModelStore interface {
	Load(category string, schema []string) (*models.CategoryModel, error)
	Save(model *models.CategoryModel) error
}

// Pipeline runs the forecasting core over one transaction set.
type Pipeline struct {
	cfg        config.ForecastConfig
	aggregator *aggregate.Aggregator
	builder    *features.Builder
	trainer    *trainer.Trainer
	forecaster *forecaster.Forecaster
	store      ModelStore
	workers    int
	logger     logging.Logger
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithStore enables model persistence through the given store.
func WithStore(store ModelStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithWorkers overrides the worker pool size.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New creates a Pipeline from the forecast configuration.
func New(cfg config.ForecastConfig, logger logging.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	p := &Pipeline{
		cfg:        cfg,
		aggregator: aggregate.New(logger),
		builder:    features.NewBuilder(),
		trainer:    trainer.New(cfg.CVFolds, cfg.Booster.Params(), logger),
		forecaster: forecaster.New(cfg.Horizon, logger),
		workers:    runtime.NumCPU(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one forecasting run. The input must honor the upstream
// contract (resolved dates, ascending order); violations are the only
// errors Run returns. Everything that goes wrong per category degrades to
// a status in the result instead. When ctx is cancelled mid-run, the
// categories already processed are returned and the rest are reported as
// skipped rather than silently omitted.
func (p *Pipeline) Run(ctx context.Context, records []models.TransactionRecord) (*models.ForecastResult, error) {
	if err := validateInput(records); err != nil {
		return nil, err
	}

	ds := p.aggregator.Aggregate(records)
	trend := ds.Trend()
	var lastTrend float64
	if len(trend) > 0 {
		lastTrend = trend[len(trend)-1]
	}

	majors := evaluator.MajorCategories(ds.Spend, ds.Total, p.cfg.MajorShareThreshold)
	majorSet := make(map[string]bool, len(majors))
	for _, category := range majors {
		majorSet[category] = true
	}

	outcomes := make(map[string]models.CategoryOutcome, len(ds.Series))
	var eligible []string
	for _, category := range ds.Categories() {
		series := ds.Series[category]
		if series.ObservedMonths < p.cfg.MinHistoryMonths {
			err := &forecasterror.InsufficientHistoryError{
				Category: category,
				Months:   series.ObservedMonths,
				Required: p.cfg.MinHistoryMonths,
			}
			p.logger.Warn("Category excluded from forecasting",
				logging.Field{Key: logging.FieldCategory, Value: category},
				logging.Field{Key: logging.FieldReason, Value: err.Error()})
			outcomes[category] = models.CategoryOutcome{
				Category: category,
				Status:   models.StatusExcluded,
				Reason:   err.Error(),
			}
			continue
		}
		eligible = append(eligible, category)
	}

	results := make(chan models.CategoryOutcome, len(eligible))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for _, category := range eligible {
		// Cooperative cancellation between category iterations: once the
		// context is done, remaining categories are skipped.
		if ctx.Err() != nil {
			outcomes[category] = models.CategoryOutcome{
				Category: category,
				Status:   models.StatusSkipped,
				Reason:   ctx.Err().Error(),
			}
			continue
		}
		category := category
		series := ds.Series[category]
		isMajor := majorSet[category]
		g.Go(func() error {
			results <- p.processCategory(category, series, trend, lastTrend, isMajor)
			return nil
		})
	}

	// Merge step: workers only ever produce their own category's entry;
	// this goroutine is the sole writer of the shared maps.
	_ = g.Wait()
	close(results)
	for outcome := range results {
		outcomes[outcome.Category] = outcome
	}

	return p.assemble(outcomes, majors), nil
}

// processCategory takes one eligible category from features to forecast.
func (p *Pipeline) processCategory(category string, series *models.MonthlySeries, trend []float64, lastTrend float64, isMajor bool) models.CategoryOutcome {
	if !isMajor {
		return models.CategoryOutcome{
			Category: category,
			Status:   models.StatusFallback,
			Forecast: p.forecaster.Fallback(series),
			Reason:   "spend share below major threshold",
		}
	}

	rows := p.builder.Build(series, trend)

	model := p.loadPersisted(category)
	if model == nil {
		trained, err := p.trainer.Train(category, rows)
		if err != nil {
			var rowsErr *forecasterror.InsufficientRowsError
			if !errors.As(err, &rowsErr) {
				p.logger.WithError(err).Error("Training failed, falling back to trailing mean",
					logging.Field{Key: logging.FieldCategory, Value: category})
			}
			return models.CategoryOutcome{
				Category: category,
				Status:   models.StatusFallback,
				Forecast: p.forecaster.Fallback(series),
				Reason:   err.Error(),
			}
		}
		model = trained
		p.savePersisted(model)
	}

	return models.CategoryOutcome{
		Category: category,
		Status:   models.StatusModeled,
		Forecast: p.forecaster.Forecast(model, series, lastTrend),
		MAE:      model.MAE,
		MAEKnown: model.MAEKnown,
	}
}

// loadPersisted returns a reusable persisted model, or nil when there is
// none. Corrupt and schema-mismatched artifacts are cache misses.
func (p *Pipeline) loadPersisted(category string) *models.CategoryModel {
	if p.store == nil {
		return nil
	}
	model, err := p.store.Load(category, features.Schema())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.WithError(err).Warn("Ignoring unusable model artifact",
				logging.Field{Key: logging.FieldCategory, Value: category})
		}
		return nil
	}
	p.logger.Info("Reusing persisted model",
		logging.Field{Key: logging.FieldCategory, Value: category})
	return model
}

func (p *Pipeline) savePersisted(model *models.CategoryModel) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(model); err != nil {
		p.logger.WithError(err).Warn("Failed to persist model",
			logging.Field{Key: logging.FieldCategory, Value: model.Category})
	}
}

// assemble builds the result from the merged per-category outcomes.
func (p *Pipeline) assemble(outcomes map[string]models.CategoryOutcome, majors []string) *models.ForecastResult {
	result := &models.ForecastResult{
		NextMonthForecasts: make(map[string]float64),
		HorizonForecasts:   make(map[string][]float64),
		MajorCategories:    majors,
		Outcomes:           outcomes,
	}

	for category, outcome := range outcomes {
		if len(outcome.Forecast) > 0 {
			result.NextMonthForecasts[category] = outcome.Forecast[0]
			result.HorizonForecasts[category] = outcome.Forecast
		}
		if outcome.Status != models.StatusModeled {
			result.UnmodeledCategories = append(result.UnmodeledCategories, category)
		}
	}
	sort.Strings(result.UnmodeledCategories)

	result.AvgMAE, result.AvgMAEKnown = evaluator.AvgMAE(outcomes)

	p.logger.Info("Forecast run complete",
		logging.Field{Key: "forecast_categories", Value: len(result.HorizonForecasts)},
		logging.Field{Key: "unmodeled_categories", Value: len(result.UnmodeledCategories)},
		logging.Field{Key: logging.FieldMAE, Value: result.AvgMAE})

	return result
}

// validateInput enforces the upstream contract at the pipeline boundary.
func validateInput(records []models.TransactionRecord) error {
	for i, rec := range records {
		if rec.Date.IsZero() {
			return fmt.Errorf("transaction %d has no resolved date", i)
		}
		if i > 0 && rec.Date.Before(records[i-1].Date) {
			return fmt.Errorf("transactions out of order at index %d: %s before %s",
				i, rec.Date.Format("2006-01-02"), records[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
