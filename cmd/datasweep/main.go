// Package main provides the datasweep CLI: a tabular-data cleaning pipeline
// with threshold-gated missing-value imputation and per-column figures.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"datasweep/pkg/config"
)

var (
	// Flags overriding the environment configuration
	flagDataPath     string
	flagOutputPath   string
	flagThreshold    float64
	flagNumericStrat string
	flagCatStrat     string
	flagDropConstant bool
	flagPlotDir      string
	flagHistBins     int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "datasweep",
	Short: "Clean whitespace-delimited datasets with missing-value governance",
	Long: `datasweep loads a whitespace-delimited dataset, normalizes column names,
drops empty and duplicate data, coerces numeric-looking text columns, then
imputes missing values under a per-column missing-rate threshold. Columns
above the threshold reject the whole run with an itemized diagnostic.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagDataPath, "data", "", "path to the dataset (overrides DATA_PATH)")
	f.StringVar(&flagOutputPath, "output", "", "write the cleaned table as CSV (overrides OUTPUT_PATH)")
	f.Float64Var(&flagThreshold, "threshold", 0, "missing-rate threshold in [0,1] (overrides MISSING_THRESHOLD)")
	f.StringVar(&flagNumericStrat, "numeric-strategy", "", "median, mean, or constant (overrides NUMERIC_STRATEGY)")
	f.StringVar(&flagCatStrat, "categorical-strategy", "", "mode or constant (overrides CATEGORICAL_STRATEGY)")
	f.BoolVar(&flagDropConstant, "drop-constant", true, "drop zero-variance columns after imputation")
	f.StringVar(&flagPlotDir, "plot-dir", "", "directory for figures (overrides PLOT_DIR)")
	f.IntVar(&flagHistBins, "bins", 0, "histogram bin count (overrides HIST_BINS)")
}

// setup loads .env, the environment configuration, and applies flag
// overrides before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	// Missing .env is fine; the environment may be set directly
	_ = godotenv.Load()

	c, err := config.Load()
	if err != nil {
		return err
	}

	f := cmd.Root().PersistentFlags()
	if f.Changed("data") {
		c.DataPath = flagDataPath
	}
	if f.Changed("output") {
		c.OutputPath = flagOutputPath
	}
	if f.Changed("threshold") {
		c.Threshold = flagThreshold
	}
	if f.Changed("numeric-strategy") {
		c.NumericStrategy = flagNumericStrat
	}
	if f.Changed("categorical-strategy") {
		c.CategoricalStrategy = flagCatStrat
	}
	if f.Changed("drop-constant") {
		c.DropConstant = flagDropConstant
	}
	if f.Changed("plot-dir") {
		c.PlotDir = flagPlotDir
	}
	if f.Changed("bins") {
		c.HistBins = flagHistBins
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	logger, err = newLogger(c.LogLevel, c.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	return nil
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// requireDataPath fails early when no dataset was configured
func requireDataPath() error {
	if cfg.DataPath == "" {
		return fmt.Errorf("no dataset configured: set DATA_PATH or pass --data")
	}
	return nil
}
