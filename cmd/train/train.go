// Package train implements the train subcommand: fit and persist category
// models without rendering a forecast report.
package train

import (
	"context"

	"fjacquet/spendcast/cmd/root"
	"fjacquet/spendcast/internal/ingest"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"
	"fjacquet/spendcast/internal/modelstore"
	"fjacquet/spendcast/internal/pipeline"

	"github.com/spf13/cobra"
)

// Cmd represents the train command.
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train and persist per-category models from a ledger CSV",
	Long: `Runs the training half of the pipeline and stores one model artifact
per major category, so later forecast runs can reuse them.`,
	Run: trainFunc,
}

func trainFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input file given, use --input")
	}
	if root.Cfg.Models.Directory == "" {
		root.Log.Fatal("No model directory configured, use --models")
	}

	loader := ingest.NewLoader(root.Cfg.Ingest.DateFormat, root.Log)
	records, err := loader.LoadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatal("Failed to load ledger",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	store, err := modelstore.NewStore(root.Cfg.Models.Directory, root.Log)
	if err != nil {
		root.Log.Fatal("Failed to open model store",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	p := pipeline.New(root.Cfg.Forecast, root.Log, pipeline.WithStore(store))
	result, err := p.Run(context.Background(), records)
	if err != nil {
		root.Log.Fatal("Training run failed",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	trained := 0
	for _, outcome := range result.Outcomes {
		if outcome.Status == models.StatusModeled {
			trained++
		}
	}
	root.Log.Info("Training complete",
		logging.Field{Key: "trained", Value: trained},
		logging.Field{Key: "unmodeled", Value: len(result.UnmodeledCategories)},
		logging.Field{Key: logging.FieldMAE, Value: result.AvgMAE})
}
