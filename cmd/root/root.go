// Package root contains the root command for the application.
package root

import (
	"fjacquet/spendcast/internal/config"
	"fjacquet/spendcast/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by the subcommands.
type CommonFlags struct {
	Input     string
	Output    string
	Format    string
	ModelsDir string
	Horizon   int
}

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// SharedFlags holds flag values common to the subcommands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "spendcast",
		Short: "Forecast monthly spending per category from a transaction ledger.",
		Long: `spendcast ingests a categorized transaction ledger and produces a
short-horizon forecast of future spending per category, using one
gradient-boosted model per sufficiently large category validated with
time-series cross-validation.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to spendcast!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatal("Failed to initialize configuration",
					logging.Field{Key: logging.FieldError, Value: err})
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

			// Flags override configuration where provided.
			if SharedFlags.ModelsDir != "" {
				Cfg.Models.Directory = SharedFlags.ModelsDir
			}
			if SharedFlags.Horizon > 0 {
				Cfg.Forecast.Horizon = SharedFlags.Horizon
			}
		},
	}
)

// Init initializes the root command and all flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input ledger CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (stdout when empty)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "json", "Report format (json or csv)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ModelsDir, "models", "m", "", "Directory for persisted model artifacts")
	Cmd.PersistentFlags().IntVar(&SharedFlags.Horizon, "horizon", 0, "Forecast horizon in months (overrides config)")
}
