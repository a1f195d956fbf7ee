// pkg/cleaner/errors.go
package cleaner

import (
	"fmt"
	"strings"

	"datasweep/pkg/model"
)

// TooManyMissingError reports columns whose missing-value rate exceeded the
// threshold at gate time. The snapshot is taken at construction and never
// mutated; the engine performs no imputation when it is returned.
type TooManyMissingError struct {
	columns []string
	rates   map[string]float64
}

// NewTooManyMissingError snapshots the offending columns and their rates.
// columns carries the table order used for deterministic formatting.
func NewTooManyMissingError(columns []string, rates map[string]float64) *TooManyMissingError {
	cols := make([]string, len(columns))
	copy(cols, columns)
	snapshot := make(map[string]float64, len(rates))
	for c, p := range rates {
		snapshot[c] = p
	}
	return &TooManyMissingError{columns: cols, rates: snapshot}
}

// Columns returns the offending column names in table order
func (e *TooManyMissingError) Columns() []string {
	cols := make([]string, len(e.columns))
	copy(cols, e.columns)
	return cols
}

// Rate returns the missing rate recorded for a column
func (e *TooManyMissingError) Rate(column string) (float64, bool) {
	p, ok := e.rates[column]
	return p, ok
}

// Error lists every offending column with its missing percentage
func (e *TooManyMissingError) Error() string {
	var sb strings.Builder
	sb.WriteString("columns with too many missing values (above threshold):")
	for _, c := range e.columns {
		sb.WriteString(fmt.Sprintf("\n - %s: %.2f%%", c, e.rates[c]*100))
	}
	return sb.String()
}

// InvalidStrategyError reports an unrecognized strategy name for a column
// type. It is a configuration error, not a data error.
type InvalidStrategyError struct {
	Strategy string
	Kind     model.ColumnKind
}

// Error implements the error interface
func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("unknown %s strategy: %q", e.Kind, e.Strategy)
}
