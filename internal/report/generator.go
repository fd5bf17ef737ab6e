// Package report renders forecast results for the CLI in JSON or CSV form.
package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"

	"github.com/gocarina/gocsv"
)

// jsonReport mirrors the output contract. Unknown MAEs render as null,
// never as zero.
type jsonReport struct {
	NextMonthForecasts  map[string]float64     `json:"next_month_forecasts"`
	HorizonForecasts    map[string][]float64   `json:"horizon_forecasts"`
	AvgMAE              *float64               `json:"avg_mae"`
	MajorCategories     []string               `json:"major_categories"`
	UnmodeledCategories []string               `json:"unmodeled_categories"`
	Categories          []jsonCategoryOutcome  `json:"categories"`
}

type jsonCategoryOutcome struct {
	Category string    `json:"category"`
	Status   string    `json:"status"`
	Forecast []float64 `json:"forecast,omitempty"`
	MAE      *float64  `json:"mae"`
	Reason   string    `json:"reason,omitempty"`
}

// csvRow is one line of the CSV rendering, one category per row.
type csvRow struct {
	Category string   `csv:"Category"`
	Status   string   `csv:"Status"`
	Step1    *float64 `csv:"Month1"`
	Step2    *float64 `csv:"Month2"`
	Step3    *float64 `csv:"Month3"`
	MAE      *float64 `csv:"MAE"`
	Reason   string   `csv:"Reason"`
}

// Generator renders ForecastResults.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Generator{logger: logger}
}

// Generate renders the result in the given format ("json" or "csv").
func (g *Generator) Generate(result *models.ForecastResult, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(result)
	case "csv":
		return g.generateCSV(result)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(result *models.ForecastResult) ([]byte, error) {
	out := jsonReport{
		NextMonthForecasts:  result.NextMonthForecasts,
		HorizonForecasts:    result.HorizonForecasts,
		MajorCategories:     result.MajorCategories,
		UnmodeledCategories: result.UnmodeledCategories,
	}
	if result.AvgMAEKnown {
		mae := result.AvgMAE
		out.AvgMAE = &mae
	}
	for _, outcome := range sortedOutcomes(result) {
		entry := jsonCategoryOutcome{
			Category: outcome.Category,
			Status:   string(outcome.Status),
			Forecast: outcome.Forecast,
			Reason:   outcome.Reason,
		}
		if outcome.MAEKnown {
			mae := outcome.MAE
			entry.MAE = &mae
		}
		out.Categories = append(out.Categories, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *Generator) generateCSV(result *models.ForecastResult) ([]byte, error) {
	rows := make([]csvRow, 0, len(result.Outcomes))
	for _, outcome := range sortedOutcomes(result) {
		row := csvRow{
			Category: outcome.Category,
			Status:   string(outcome.Status),
			Reason:   outcome.Reason,
		}
		steps := []**float64{&row.Step1, &row.Step2, &row.Step3}
		for i, value := range outcome.Forecast {
			if i >= len(steps) {
				break
			}
			v := value
			*steps[i] = &v
		}
		if outcome.MAEKnown {
			mae := outcome.MAE
			row.MAE = &mae
		}
		rows = append(rows, row)
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return []byte(data), nil
}

func sortedOutcomes(result *models.ForecastResult) []models.CategoryOutcome {
	outcomes := make([]models.CategoryOutcome, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Category < outcomes[j].Category
	})
	return outcomes
}
