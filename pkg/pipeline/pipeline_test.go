package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datasweep/pkg/config"
	"datasweep/pkg/model"
)

const sampleData = `1.0 10 a
1.0 10 a
2.0 NA b
3.0 30 a
4.0 40 b
5.0 50 a
6.0 60 b
7.0 70 a
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleData), 0o644))
	return path
}

func testConfig(dataPath string, threshold float64) *config.Config {
	return &config.Config{
		DataPath:            dataPath,
		Threshold:           threshold,
		NumericStrategy:     model.StrategyMedian,
		CategoricalStrategy: model.StrategyMode,
		DropConstant:        true,
		HistBins:            30,
	}
}

func TestRun_Success(t *testing.T) {
	var out bytes.Buffer
	p, err := New(testConfig(writeSample(t), 0.2), zap.NewNop(), &out)
	require.NoError(t, err)

	res, err := p.Run()
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.Nil(t, res.Rejection)

	// The duplicate first row is dropped during normalization
	assert.Contains(t, out.String(), "After initial cleaning: 7 rows, 3 columns")

	// Column "1" had one missing cell of seven; median of the rest is 45
	col, ok := res.Table.Column("1")
	require.True(t, ok)
	num, ok := col.(*model.NumericColumn)
	require.True(t, ok, "numeric-looking text column was coerced")
	assert.Equal(t, 0, num.MissingCount())

	rec, ok := res.Report.Get("1")
	require.True(t, ok)
	assert.Equal(t, model.StrategyMedian, rec.Strategy)
	assert.Equal(t, 1, rec.MissingBefore)
	assert.Equal(t, 0, rec.MissingAfter)
	assert.Equal(t, 45.0, rec.FillValue)

	// Complete columns get no-op entries
	rec, ok = res.Report.Get("0")
	require.True(t, ok)
	assert.Equal(t, model.StrategyNone, rec.Strategy)

	assert.Contains(t, out.String(), rec.Column)
}

func TestRun_RejectionPrintsDiagnosticAndLeavesTableUnimputed(t *testing.T) {
	var out bytes.Buffer
	p, err := New(testConfig(writeSample(t), 0.07), zap.NewNop(), &out)
	require.NoError(t, err)

	res, err := p.Run()
	require.NoError(t, err, "a threshold rejection is a diagnostic, not a pipeline error")
	require.NotNil(t, res.Rejection)
	assert.Nil(t, res.Report)

	assert.Equal(t, []string{"1"}, res.Rejection.Columns())
	assert.Contains(t, out.String(), " - 1: 14.29%")

	// Normalized but unimputed: the missing cell is still there
	col, ok := res.Table.Column("1")
	require.True(t, ok)
	assert.Equal(t, 1, col.MissingCount())
}

func TestRun_WritesOutputWhenConfigured(t *testing.T) {
	cfg := testConfig(writeSample(t), 0.2)
	cfg.OutputPath = filepath.Join(t.TempDir(), "cleaned.csv")

	var out bytes.Buffer
	p, err := New(cfg, zap.NewNop(), &out)
	require.NoError(t, err)

	_, err = p.Run()
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "0,1,2")
}

func TestRun_MissingDataFile(t *testing.T) {
	var out bytes.Buffer
	p, err := New(testConfig(filepath.Join(t.TempDir(), "nope.txt"), 0.2), zap.NewNop(), &out)
	require.NoError(t, err)

	_, err = p.Run()
	assert.Error(t, err)
}

func TestRun_InvalidStrategyPropagates(t *testing.T) {
	cfg := testConfig(writeSample(t), 0.2)
	cfg.NumericStrategy = "mystery"

	var out bytes.Buffer
	p, err := New(cfg, zap.NewNop(), &out)
	require.NoError(t, err)

	_, err = p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestNew_Validation(t *testing.T) {
	var out bytes.Buffer
	_, err := New(nil, zap.NewNop(), &out)
	assert.Error(t, err)
	_, err = New(testConfig("x", 0.1), nil, &out)
	assert.Error(t, err)
	_, err = New(testConfig("x", 0.1), zap.NewNop(), nil)
	assert.Error(t, err)
}
