// pkg/cleaner/impute.go
package cleaner

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"datasweep/pkg/model"
	"datasweep/pkg/stats"
)

// Options configures one imputation run
type Options struct {
	// Threshold is the maximum tolerated missing fraction per column.
	// A column exactly at the threshold is imputed; above it, the whole
	// run is rejected.
	Threshold float64

	// NumericStrategy is "median", "mean", or "constant"
	NumericStrategy string

	// CategoricalStrategy is "mode" or "constant"
	CategoricalStrategy string

	// DropConstant prunes columns with at most one distinct non-missing
	// value after imputation
	DropConstant bool
}

// DefaultOptions mirror the pipeline defaults: 7% threshold, median for
// numeric columns, mode for categorical, constant-column pruning on
func DefaultOptions() Options {
	return Options{
		Threshold:           0.07,
		NumericStrategy:     model.StrategyMedian,
		CategoricalStrategy: model.StrategyMode,
		DropConstant:        true,
	}
}

// Engine performs threshold-gated missing-value imputation
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an imputation Engine
func NewEngine(logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Engine{logger: logger}, nil
}

// Impute returns an imputed copy of the table together with the per-column
// audit report. The gate is all-or-nothing: when any column's missing rate
// exceeds opts.Threshold, Impute fails with TooManyMissingError before any
// mutation, and the caller's table is untouched. Columns dropped for being
// constant remain in the report with DroppedConstant set.
func (e *Engine) Impute(t *model.Table, opts Options) (*model.Table, *model.ImputationReport, error) {
	rates := MissingRates(t)

	var exceeding []string
	for _, name := range t.ColumnNames() {
		if rates[name] > opts.Threshold {
			exceeding = append(exceeding, name)
		}
	}
	if len(exceeding) > 0 {
		offending := make(map[string]float64, len(exceeding))
		for _, name := range exceeding {
			offending[name] = rates[name]
		}
		return nil, nil, NewTooManyMissingError(exceeding, offending)
	}

	out := t.Clone()
	report := model.NewImputationReport()

	for i, col := range out.Columns() {
		rate := rates[col.Name()]
		if rate == 0 {
			report.Add(model.ImputationRecord{
				Column:   col.Name(),
				Dtype:    col.Kind().String(),
				Strategy: model.StrategyNone,
			})
			continue
		}

		strategy := opts.NumericStrategy
		if col.Kind() == model.KindCategorical {
			strategy = opts.CategoricalStrategy
		}

		imputed, rec, err := ImputeColumn(col, strategy)
		if err != nil {
			return nil, nil, err
		}
		out.ReplaceColumn(i, imputed)
		report.Add(rec)

		e.logger.Info("Imputed column",
			zap.String("column", rec.Column),
			zap.String("dtype", rec.Dtype),
			zap.String("strategy", rec.Strategy),
			zap.Int("missing_before", rec.MissingBefore),
			zap.Int("missing_after", rec.MissingAfter))
	}

	if opts.DropConstant {
		e.dropConstantColumns(out, report)
	}

	e.logger.Info("Imputation run complete",
		zap.String("run_id", report.RunID),
		zap.Int("columns", report.Len()))
	return out, report, nil
}

// ImputeColumn fills the missing cells of a single column according to the
// named strategy and returns the filled column with its audit record. It is
// the shared imputer behind both the numeric and categorical paths.
func ImputeColumn(col model.Column, strategy string) (model.Column, model.ImputationRecord, error) {
	switch c := col.(type) {
	case *model.NumericColumn:
		return imputeNumeric(c, strategy)
	case *model.CategoricalColumn:
		return imputeCategorical(c, strategy)
	default:
		return nil, model.ImputationRecord{}, errors.New("unsupported column variant")
	}
}

func imputeNumeric(col *model.NumericColumn, strategy string) (model.Column, model.ImputationRecord, error) {
	var fill float64
	switch strategy {
	case model.StrategyMedian:
		fill = stats.Median(col.Values)
	case model.StrategyMean:
		fill = stats.Mean(col.Values)
	case model.StrategyConstant:
		fill = 0
	default:
		return nil, model.ImputationRecord{}, &InvalidStrategyError{Strategy: strategy, Kind: model.KindNumeric}
	}

	rec := model.ImputationRecord{
		Column:        col.Name(),
		Dtype:         col.Kind().String(),
		Strategy:      strategy,
		MissingBefore: col.MissingCount(),
		FillValue:     fill,
	}

	out := col.Clone().(*model.NumericColumn)
	// A NaN fill (wholly empty column) leaves the cells missing
	if !math.IsNaN(fill) {
		for i, v := range out.Values {
			if math.IsNaN(v) {
				out.Values[i] = fill
			}
		}
	}
	rec.MissingAfter = out.MissingCount()
	return out, rec, nil
}

func imputeCategorical(col *model.CategoricalColumn, strategy string) (model.Column, model.ImputationRecord, error) {
	var fill string
	switch strategy {
	case model.StrategyMode:
		fill = modeOrDefault(col, "missing")
	case model.StrategyConstant:
		fill = "missing"
	default:
		return nil, model.ImputationRecord{}, &InvalidStrategyError{Strategy: strategy, Kind: model.KindCategorical}
	}

	rec := model.ImputationRecord{
		Column:        col.Name(),
		Dtype:         col.Kind().String(),
		Strategy:      strategy,
		MissingBefore: col.MissingCount(),
		FillValue:     fill,
	}

	out := col.Clone().(*model.CategoricalColumn)
	for i := range out.Values {
		if out.Nulls[i] {
			out.Values[i] = fill
			out.Nulls[i] = false
		}
	}
	rec.MissingAfter = out.MissingCount()
	return out, rec, nil
}

// modeOrDefault returns the most frequent non-missing value, breaking ties
// by first appearance in the column; def when the column is wholly missing
func modeOrDefault(col *model.CategoricalColumn, def string) string {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, v := range col.Values {
		if col.Nulls[i] {
			continue
		}
		if _, seen := counts[v]; !seen {
			first[v] = i
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return def
	}

	best := ""
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && first[v] < first[best]) {
			best = v
			bestCount = c
		}
	}
	return best
}

func (e *Engine) dropConstantColumns(t *model.Table, report *model.ImputationReport) {
	type constant struct {
		name  string
		dtype string
	}
	var constants []constant
	for _, col := range t.Columns() {
		if col.DistinctNonMissing() <= 1 {
			constants = append(constants, constant{name: col.Name(), dtype: col.Kind().String()})
		}
	}
	for _, c := range constants {
		t.DropColumn(c.name)
		report.MarkDroppedConstant(c.name, c.dtype)
		e.logger.Info("Dropped constant column", zap.String("column", c.name))
	}
}
