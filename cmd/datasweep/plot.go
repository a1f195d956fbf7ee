package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"datasweep/pkg/cleaner"
	"datasweep/pkg/loader"
	"datasweep/pkg/visual"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render histogram and boxplot figures for every numeric column",
	Long: `plot loads and normalizes the dataset, then writes one PNG per numeric
column: a histogram with mean and median reference lines beside a horizontal
boxplot annotated with the IQR outlier count. Empty and constant columns are
skipped. Imputation is not applied; figures show the data as loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDataPath(); err != nil {
			return err
		}

		t, err := loader.Load(cfg.DataPath)
		if err != nil {
			return err
		}
		normalizer, err := cleaner.NewNormalizer(logger)
		if err != nil {
			return err
		}
		cleaned := normalizer.Normalize(t)

		plotter, err := visual.NewPlotter(cfg.PlotDir, cfg.HistBins, logger)
		if err != nil {
			return err
		}
		paths, err := plotter.PlotTable(cleaned)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Wrote %d figures to %s\n", len(paths), cfg.PlotDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
}
