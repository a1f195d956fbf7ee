package cleaner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datasweep/pkg/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(zap.NewNop())
	require.NoError(t, err)
	return e
}

func optsWith(threshold float64) Options {
	o := DefaultOptions()
	o.Threshold = threshold
	return o
}

func TestImpute_MedianFillsMissing(t *testing.T) {
	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, math.NaN(), 3, math.NaN(), 5}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, optsWith(0.5))
	require.NoError(t, err)

	col, _ := out.Column("v")
	assert.Equal(t, []float64{1, 3, 3, 3, 5}, col.(*model.NumericColumn).Values)

	rec, ok := rep.Get("v")
	require.True(t, ok)
	assert.Equal(t, model.StrategyMedian, rec.Strategy)
	assert.Equal(t, "numeric", rec.Dtype)
	assert.Equal(t, 2, rec.MissingBefore)
	assert.Equal(t, 0, rec.MissingAfter)
	assert.Equal(t, 3.0, rec.FillValue)
}

func TestImpute_MeanAndConstantStrategies(t *testing.T) {
	opts := optsWith(0.5)
	opts.NumericStrategy = model.StrategyMean
	opts.DropConstant = false

	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{2, math.NaN(), 4}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, opts)
	require.NoError(t, err)
	col, _ := out.Column("v")
	assert.Equal(t, []float64{2, 3, 4}, col.(*model.NumericColumn).Values)
	rec, _ := rep.Get("v")
	assert.Equal(t, 3.0, rec.FillValue)

	opts.NumericStrategy = model.StrategyConstant
	out, rep, err = newEngine(t).Impute(tab, opts)
	require.NoError(t, err)
	col, _ = out.Column("v")
	assert.Equal(t, []float64{2, 0, 4}, col.(*model.NumericColumn).Values)
	rec, _ = rep.Get("v")
	assert.Equal(t, 0.0, rec.FillValue)
}

func TestImpute_ModeFillsCategorical(t *testing.T) {
	opts := optsWith(0.5)
	opts.DropConstant = false

	tab, err := model.NewTable(
		model.NewCategoricalColumn("c", []string{"x", "x", ""}, []bool{false, false, true}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, opts)
	require.NoError(t, err)

	col, _ := out.Column("c")
	assert.Equal(t, []string{"x", "x", "x"}, col.(*model.CategoricalColumn).Values)
	assert.Equal(t, 0, col.MissingCount())

	rec, _ := rep.Get("c")
	assert.Equal(t, model.StrategyMode, rec.Strategy)
	assert.Equal(t, "x", rec.FillValue)
}

func TestImpute_ModeOnWhollyMissingColumnUsesLiteralMissing(t *testing.T) {
	opts := optsWith(1.0)
	opts.DropConstant = false

	tab, err := model.NewTable(
		model.NewCategoricalColumn("c", []string{"", ""}, []bool{true, true}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, opts)
	require.NoError(t, err)
	col, _ := out.Column("c")
	assert.Equal(t, []string{"missing", "missing"}, col.(*model.CategoricalColumn).Values)
	rec, _ := rep.Get("c")
	assert.Equal(t, "missing", rec.FillValue)
}

func TestImpute_CategoricalConstant(t *testing.T) {
	opts := optsWith(0.5)
	opts.CategoricalStrategy = model.StrategyConstant
	opts.DropConstant = false

	tab, err := model.NewTable(
		model.NewCategoricalColumn("c", []string{"a", "b", ""}, []bool{false, false, true}),
	)
	require.NoError(t, err)

	out, _, err := newEngine(t).Impute(tab, opts)
	require.NoError(t, err)
	col, _ := out.Column("c")
	assert.Equal(t, []string{"a", "b", "missing"}, col.(*model.CategoricalColumn).Values)
}

func TestImpute_NoOpRecordForCompleteColumn(t *testing.T) {
	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, 2, 3}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, optsWith(0.07))
	require.NoError(t, err)

	col, _ := out.Column("v")
	assert.Equal(t, []float64{1, 2, 3}, col.(*model.NumericColumn).Values)

	rec, ok := rep.Get("v")
	require.True(t, ok)
	assert.Equal(t, model.StrategyNone, rec.Strategy)
	assert.Equal(t, 0, rec.MissingBefore)
	assert.Equal(t, 0, rec.MissingAfter)
	assert.Nil(t, rec.FillValue)
}

func TestImpute_RateAtThresholdIsImputedNotRejected(t *testing.T) {
	// 1 of 4 missing: rate exactly 0.25
	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, 2, 3, math.NaN()}),
	)
	require.NoError(t, err)

	_, rep, err := newEngine(t).Impute(tab, optsWith(0.25))
	require.NoError(t, err)
	rec, _ := rep.Get("v")
	assert.Equal(t, 0, rec.MissingAfter)
}

func TestImpute_RateAboveThresholdRejects(t *testing.T) {
	// 1 of 5 missing: rate 0.2, threshold 0.07
	tab, err := model.NewTable(
		model.NewNumericColumn("ok", []float64{1, 2, 3, 4, 5}),
		model.NewNumericColumn("bad", []float64{1, math.NaN(), 3, 4, 5}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, optsWith(0.07))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Nil(t, rep)

	var rejection *TooManyMissingError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, []string{"bad"}, rejection.Columns())
	rate, ok := rejection.Rate("bad")
	require.True(t, ok)
	assert.Equal(t, 0.2, rate)
	assert.Contains(t, rejection.Error(), "bad: 20.00%")

	// All-or-nothing gate: the caller's table is untouched
	col, _ := tab.Column("bad")
	assert.Equal(t, 1, col.MissingCount())
}

func TestImpute_DropConstantColumn(t *testing.T) {
	// "c" has one missing cell; mode imputation makes it constant
	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, 2, 3, 4}),
		model.NewCategoricalColumn("c", []string{"x", "x", "x", ""}, []bool{false, false, false, true}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, optsWith(0.25))
	require.NoError(t, err)

	_, exists := out.Column("c")
	assert.False(t, exists, "constant column must be dropped from the table")

	rec, ok := rep.Get("c")
	require.True(t, ok, "dropped column must stay in the report")
	assert.True(t, rec.DroppedConstant)
	assert.Equal(t, model.StrategyMode, rec.Strategy)
}

func TestImpute_DropConstantCoversUntouchedColumns(t *testing.T) {
	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, 2, 3}),
		model.NewNumericColumn("flat", []float64{7, 7, 7}),
	)
	require.NoError(t, err)

	out, rep, err := newEngine(t).Impute(tab, optsWith(0.07))
	require.NoError(t, err)

	_, exists := out.Column("flat")
	assert.False(t, exists)

	rec, ok := rep.Get("flat")
	require.True(t, ok)
	assert.True(t, rec.DroppedConstant)
	assert.Equal(t, model.StrategyNone, rec.Strategy, "no-op record is merged, not replaced")
}

func TestImpute_DropConstantDisabled(t *testing.T) {
	opts := optsWith(0.07)
	opts.DropConstant = false

	tab, err := model.NewTable(
		model.NewNumericColumn("flat", []float64{7, 7, 7}),
	)
	require.NoError(t, err)

	out, _, err := newEngine(t).Impute(tab, opts)
	require.NoError(t, err)
	_, exists := out.Column("flat")
	assert.True(t, exists)
}

func TestImpute_UnknownNumericStrategy(t *testing.T) {
	opts := optsWith(0.5)
	opts.NumericStrategy = "mystery"

	tab, err := model.NewTable(
		model.NewNumericColumn("v", []float64{1, math.NaN()}),
	)
	require.NoError(t, err)

	_, _, err = newEngine(t).Impute(tab, opts)
	var invalid *InvalidStrategyError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "mystery", invalid.Strategy)
	assert.Equal(t, model.KindNumeric, invalid.Kind)
}

func TestImpute_UnknownCategoricalStrategy(t *testing.T) {
	opts := optsWith(0.5)
	opts.CategoricalStrategy = "mystery"

	tab, err := model.NewTable(
		model.NewCategoricalColumn("c", []string{"a", ""}, []bool{false, true}),
	)
	require.NoError(t, err)

	_, _, err = newEngine(t).Impute(tab, opts)
	var invalid *InvalidStrategyError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, model.KindCategorical, invalid.Kind)
}

func TestModeBreaksTiesByFirstAppearance(t *testing.T) {
	col := model.NewCategoricalColumn("c", []string{"b", "a", "a", "b", ""}, []bool{false, false, false, false, true})

	imputed, _, err := ImputeColumn(col, model.StrategyMode)
	require.NoError(t, err)
	assert.Equal(t, "b", imputed.(*model.CategoricalColumn).Values[4])
}

func TestImputeColumn_RecordCountsMatchColumn(t *testing.T) {
	col := model.NewNumericColumn("v", []float64{math.NaN(), 2, math.NaN(), 4})

	imputed, rec, err := ImputeColumn(col, model.StrategyMedian)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.MissingBefore)
	assert.Equal(t, 0, rec.MissingAfter)
	assert.Equal(t, 0, imputed.MissingCount())
	// The input column itself is untouched
	assert.Equal(t, 2, col.MissingCount())
}
