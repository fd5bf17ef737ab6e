// Package forecast implements the forecast subcommand: ledger in,
// forecast report out.
package forecast

import (
	"context"
	"os"

	"fjacquet/spendcast/cmd/root"
	"fjacquet/spendcast/internal/ingest"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/modelstore"
	"fjacquet/spendcast/internal/pipeline"
	"fjacquet/spendcast/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the forecast command.
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast per-category spending from a ledger CSV",
	Long: `Reads a categorized transaction ledger, trains one model per major
category and writes the per-category forecast report.`,
	Run: forecastFunc,
}

func forecastFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input file given, use --input")
	}

	loader := ingest.NewLoader(root.Cfg.Ingest.DateFormat, root.Log)
	records, err := loader.LoadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatal("Failed to load ledger",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	opts := []pipeline.Option{}
	if dir := root.Cfg.Models.Directory; dir != "" {
		store, err := modelstore.NewStore(dir, root.Log)
		if err != nil {
			root.Log.Fatal("Failed to open model store",
				logging.Field{Key: logging.FieldError, Value: err})
		}
		opts = append(opts, pipeline.WithStore(store))
	}

	p := pipeline.New(root.Cfg.Forecast, root.Log, opts...)
	result, err := p.Run(context.Background(), records)
	if err != nil {
		root.Log.Fatal("Forecast run failed",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	data, err := report.NewGenerator(root.Log).Generate(result, root.SharedFlags.Format)
	if err != nil {
		root.Log.Fatal("Failed to render report",
			logging.Field{Key: logging.FieldError, Value: err})
	}

	if root.SharedFlags.Output == "" {
		cmd.Println(string(data))
		return
	}
	if err := os.WriteFile(root.SharedFlags.Output, data, 0o644); err != nil {
		root.Log.Fatal("Failed to write report",
			logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
			logging.Field{Key: logging.FieldError, Value: err})
	}
	root.Log.Info("Forecast report written",
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output})
}
