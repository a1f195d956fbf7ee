// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"datasweep/pkg/model"
)

// Config represents the application configuration
type Config struct {
	// Input/output
	DataPath   string // Whitespace-delimited dataset, no header row
	OutputPath string // Cleaned-table CSV destination; empty means no file is written

	// Missing-value governance
	Threshold           float64
	NumericStrategy     string
	CategoricalStrategy string
	DropConstant        bool

	// Visualization
	PlotDir  string
	HistBins int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DataPath:            getEnv("DATA_PATH", ""),
		OutputPath:          getEnv("OUTPUT_PATH", ""),
		Threshold:           getEnvAsFloat("MISSING_THRESHOLD", 0.07),
		NumericStrategy:     getEnv("NUMERIC_STRATEGY", model.StrategyMedian),
		CategoricalStrategy: getEnv("CATEGORICAL_STRATEGY", model.StrategyMode),
		DropConstant:        getEnvAsBool("DROP_CONSTANT", true),
		PlotDir:             getEnv("PLOT_DIR", "plots"),
		HistBins:            getEnvAsInt("HIST_BINS", 30),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable. DataPath is not required
// here; commands that need it check for it themselves, so configuration
// loading stays usable for commands taking explicit path arguments.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("missing threshold must be in [0, 1], got %g", c.Threshold)
	}

	switch c.NumericStrategy {
	case model.StrategyMedian, model.StrategyMean, model.StrategyConstant:
	default:
		return fmt.Errorf("unknown numeric strategy: %q", c.NumericStrategy)
	}

	switch c.CategoricalStrategy {
	case model.StrategyMode, model.StrategyConstant:
	default:
		return fmt.Errorf("unknown categorical strategy: %q", c.CategoricalStrategy)
	}

	if c.HistBins <= 0 {
		return errors.New("histogram bin count must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
