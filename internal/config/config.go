// Package config provides Viper-based hierarchical configuration
// management for the forecasting pipeline.
package config

import (
	"fmt"
	"strings"

	"fjacquet/spendcast/internal/gbt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Ingest struct {
		DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	} `mapstructure:"ingest" yaml:"ingest"`

	Forecast ForecastConfig `mapstructure:"forecast" yaml:"forecast"`

	Models struct {
		// Directory for persisted model artifacts. Persistence is
		// disabled when empty.
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"models" yaml:"models"`
}

// ForecastConfig is the tunable surface of the forecasting core.
type ForecastConfig struct {
	Horizon             int           `mapstructure:"horizon" yaml:"horizon"`
	MajorShareThreshold float64       `mapstructure:"major_share_threshold" yaml:"major_share_threshold"`
	MinHistoryMonths    int           `mapstructure:"min_history_months" yaml:"min_history_months"`
	CVFolds             int           `mapstructure:"cv_folds" yaml:"cv_folds"`
	Booster             BoosterConfig `mapstructure:"booster" yaml:"booster"`
}

// BoosterConfig holds the regressor hyperparameters.
type BoosterConfig struct {
	Trees        int     `mapstructure:"trees" yaml:"trees"`
	MaxDepth     int     `mapstructure:"max_depth" yaml:"max_depth"`
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	MinLeaf      int     `mapstructure:"min_leaf" yaml:"min_leaf"`
	Subsample    float64 `mapstructure:"subsample" yaml:"subsample"`
	Seed         int64   `mapstructure:"seed" yaml:"seed"`
}

// Params converts the configuration into booster parameters.
func (b BoosterConfig) Params() gbt.Params {
	return gbt.Params{
		Trees:        b.Trees,
		MaxDepth:     b.MaxDepth,
		LearningRate: b.LearningRate,
		MinLeaf:      b.MinLeaf,
		Subsample:    b.Subsample,
		Seed:         b.Seed,
	}
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then environment
// variables with the SPENDCAST prefix.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.spendcast")
	v.AddConfigPath(".spendcast")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPENDCAST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars on a broken file.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ingest.date_format", "2006-01-02")

	v.SetDefault("forecast.horizon", 3)
	v.SetDefault("forecast.major_share_threshold", 0.05)
	v.SetDefault("forecast.min_history_months", 6)
	v.SetDefault("forecast.cv_folds", 5)

	v.SetDefault("forecast.booster.trees", 200)
	v.SetDefault("forecast.booster.max_depth", 6)
	v.SetDefault("forecast.booster.learning_rate", 0.1)
	v.SetDefault("forecast.booster.min_leaf", 1)
	v.SetDefault("forecast.booster.subsample", 1.0)
	v.SetDefault("forecast.booster.seed", 42)

	v.SetDefault("models.directory", "")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	f := config.Forecast
	if f.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be at least 1, got: %d", f.Horizon)
	}
	if f.MajorShareThreshold < 0 || f.MajorShareThreshold >= 1 {
		return fmt.Errorf("forecast.major_share_threshold must be in [0,1), got: %f", f.MajorShareThreshold)
	}
	if f.MinHistoryMonths < 1 {
		return fmt.Errorf("forecast.min_history_months must be at least 1, got: %d", f.MinHistoryMonths)
	}
	if f.CVFolds < 2 {
		return fmt.Errorf("forecast.cv_folds must be at least 2, got: %d", f.CVFolds)
	}

	b := f.Booster
	if b.Trees < 1 || b.MaxDepth < 1 {
		return fmt.Errorf("forecast.booster needs at least 1 tree of depth 1, got trees=%d depth=%d", b.Trees, b.MaxDepth)
	}
	if b.LearningRate <= 0 || b.LearningRate > 1 {
		return fmt.Errorf("forecast.booster.learning_rate must be in (0,1], got: %f", b.LearningRate)
	}
	if b.Subsample <= 0 || b.Subsample > 1 {
		return fmt.Errorf("forecast.booster.subsample must be in (0,1], got: %f", b.Subsample)
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger based on the
// Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
