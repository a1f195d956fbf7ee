// pkg/report/report.go
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"datasweep/pkg/cleaner"
	"datasweep/pkg/model"
	"datasweep/pkg/stats"
)

// Printer renders human-readable cleaning output to a writer
type Printer struct {
	w      io.Writer
	logger *zap.Logger
}

// NewPrinter creates a Printer
func NewPrinter(w io.Writer, logger *zap.Logger) (*Printer, error) {
	if w == nil {
		return nil, errors.New("writer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Printer{w: w, logger: logger}, nil
}

// PrintImputation renders the per-column audit trail of an imputation run
func (p *Printer) PrintImputation(rep *model.ImputationReport) {
	fmt.Fprintf(p.w, "Imputation completed (run %s). Summary:\n", rep.RunID)

	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"COLUMN", "DTYPE", "STRATEGY", "MISSING BEFORE", "MISSING AFTER", "FILL VALUE", "DROPPED"})

	for _, rec := range rep.Records() {
		fill := ""
		if rec.FillValue != nil {
			fill = cast.ToString(rec.FillValue)
		}
		dropped := ""
		if rec.DroppedConstant {
			dropped = "constant"
		}
		t.AppendRow(table.Row{rec.Column, rec.Dtype, rec.Strategy, rec.MissingBefore, rec.MissingAfter, fill, dropped})
	}
	t.Render()

	p.logger.Info("Printed imputation report",
		zap.String("run_id", rep.RunID),
		zap.Int("columns", rep.Len()))
}

// PrintRejection renders the itemized diagnostic for a rejected run:
// one "column: percentage" line per offending column
func (p *Printer) PrintRejection(err *cleaner.TooManyMissingError) {
	fmt.Fprintln(p.w, "Error: columns with too many missing values:")
	for _, col := range err.Columns() {
		rate, _ := err.Rate(col)
		fmt.Fprintf(p.w, " - %s: %.2f%%\n", col, rate*100)
	}
}

// PrintSummaries renders descriptive statistics for every numeric column
func (p *Printer) PrintSummaries(tab *model.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"COLUMN", "COUNT", "MEAN", "MEDIAN", "STD", "MIN", "Q1", "Q3", "MAX", "SKEW", "OUTLIERS"})

	numeric := 0
	for _, col := range tab.Columns() {
		num, ok := col.(*model.NumericColumn)
		if !ok {
			continue
		}
		numeric++
		s := stats.Describe(num.Values)
		t.AppendRow(table.Row{
			num.Name(), s.Count,
			formatStat(s.Mean), formatStat(s.Median), formatStat(s.Std),
			formatStat(s.Min), formatStat(s.Q1), formatStat(s.Q3), formatStat(s.Max),
			formatStat(s.Skew),
			stats.OutlierCount(num.Values),
		})
	}
	if numeric == 0 {
		fmt.Fprintln(p.w, "(no numeric columns)")
		return
	}
	t.Render()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
