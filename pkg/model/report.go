// pkg/model/report.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Strategy names shared by the imputation engine and configuration
const (
	StrategyNone     = "none"
	StrategyMedian   = "median"
	StrategyMean     = "mean"
	StrategyMode     = "mode"
	StrategyConstant = "constant"
)

// ImputationRecord is the audit entry for a single column
type ImputationRecord struct {
	Column          string      // Normalized column name
	Dtype           string      // "numeric" or "categorical"
	Strategy        string      // Fill policy applied ("none" for untouched columns)
	MissingBefore   int         // Missing cells before imputation
	MissingAfter    int         // Missing cells after imputation
	FillValue       interface{} // float64 for numeric fills, string for categorical; nil for no-ops
	DroppedConstant bool        // Column was pruned for having <= 1 distinct value
}

// ImputationReport collects per-column records in table column order,
// forming the audit trail for one imputation run
type ImputationReport struct {
	RunID     string
	CreatedAt time.Time

	order   []string
	records map[string]*ImputationRecord
}

// NewImputationReport creates an empty report with a fresh run identifier
func NewImputationReport() *ImputationReport {
	return &ImputationReport{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now(),
		records:   make(map[string]*ImputationRecord),
	}
}

// Add appends a record, keeping insertion order. Adding a column twice
// overwrites the earlier record in place.
func (r *ImputationReport) Add(rec ImputationRecord) {
	if _, exists := r.records[rec.Column]; !exists {
		r.order = append(r.order, rec.Column)
	}
	stored := rec
	r.records[rec.Column] = &stored
}

// Get returns the record for a column, or false if absent
func (r *ImputationReport) Get(column string) (*ImputationRecord, bool) {
	rec, ok := r.records[column]
	return rec, ok
}

// MarkDroppedConstant flags a column as pruned, merging into any existing
// record and creating one when the column was never imputed
func (r *ImputationReport) MarkDroppedConstant(column, dtype string) {
	if rec, ok := r.records[column]; ok {
		rec.DroppedConstant = true
		return
	}
	r.Add(ImputationRecord{Column: column, Dtype: dtype, DroppedConstant: true})
}

// Records returns the records in insertion order
func (r *ImputationReport) Records() []*ImputationRecord {
	out := make([]*ImputationRecord, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name])
	}
	return out
}

// Len returns the number of recorded columns
func (r *ImputationReport) Len() int { return len(r.order) }
