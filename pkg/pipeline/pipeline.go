// pkg/pipeline/pipeline.go
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"datasweep/pkg/cleaner"
	"datasweep/pkg/config"
	"datasweep/pkg/loader"
	"datasweep/pkg/model"
	"datasweep/pkg/report"
)

// Result is the outcome of one cleaning run. Exactly one of Report or
// Rejection is set: Rejection carries the threshold diagnostic, in which
// case Table is the normalized but unimputed table.
type Result struct {
	Table     *model.Table
	Report    *model.ImputationReport
	Rejection *cleaner.TooManyMissingError
}

// Pipeline wires the loader, normalizer, imputation engine, and reporting
// into the end-to-end cleaning run
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// New creates a Pipeline writing its console report to out
func New(cfg *config.Config, logger *zap.Logger, out io.Writer) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if out == nil {
		return nil, errors.New("output writer cannot be nil")
	}
	return &Pipeline{cfg: cfg, logger: logger, out: out}, nil
}

// Run executes load -> normalize -> impute -> report. A threshold rejection
// is not an error: the diagnostic is printed, the normalized table is left
// unimputed, and the rejection is returned in the Result. Configuration
// errors (unknown strategy names) and I/O failures propagate as errors.
func (p *Pipeline) Run() (*Result, error) {
	raw, err := loader.Load(p.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Loaded dataset",
		zap.String("path", p.cfg.DataPath),
		zap.Int("rows", raw.NumRows()),
		zap.Int("columns", raw.NumCols()))

	normalizer, err := cleaner.NewNormalizer(p.logger)
	if err != nil {
		return nil, err
	}
	cleaned := normalizer.Normalize(raw)
	fmt.Fprintf(p.out, "After initial cleaning: %d rows, %d columns\n", cleaned.NumRows(), cleaned.NumCols())

	engine, err := cleaner.NewEngine(p.logger)
	if err != nil {
		return nil, err
	}
	printer, err := report.NewPrinter(p.out, p.logger)
	if err != nil {
		return nil, err
	}

	imputed, rep, err := engine.Impute(cleaned, cleaner.Options{
		Threshold:           p.cfg.Threshold,
		NumericStrategy:     p.cfg.NumericStrategy,
		CategoricalStrategy: p.cfg.CategoricalStrategy,
		DropConstant:        p.cfg.DropConstant,
	})
	if err != nil {
		var rejection *cleaner.TooManyMissingError
		if errors.As(err, &rejection) {
			printer.PrintRejection(rejection)
			return &Result{Table: cleaned, Rejection: rejection}, nil
		}
		return nil, err
	}

	printer.PrintImputation(rep)

	if p.cfg.OutputPath != "" {
		if err := loader.SaveCSV(p.cfg.OutputPath, imputed); err != nil {
			return nil, err
		}
		p.logger.Info("Saved cleaned dataset", zap.String("path", p.cfg.OutputPath))
	}

	return &Result{Table: imputed, Report: rep}, nil
}
