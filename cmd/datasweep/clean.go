package main

import (
	"os"

	"github.com/spf13/cobra"

	"datasweep/pkg/pipeline"
	"datasweep/pkg/report"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pipeline and print the imputation report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDataPath(); err != nil {
			return err
		}

		p, err := pipeline.New(cfg, logger, os.Stdout)
		if err != nil {
			return err
		}
		res, err := p.Run()
		if err != nil {
			return err
		}

		// Rejection already printed its diagnostic; nothing more to do
		if res.Rejection != nil {
			return nil
		}

		printer, err := report.NewPrinter(os.Stdout, logger)
		if err != nil {
			return err
		}
		printer.PrintSummaries(res.Table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
