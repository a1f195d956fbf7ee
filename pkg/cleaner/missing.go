// pkg/cleaner/missing.go
package cleaner

import (
	"math"

	"datasweep/pkg/model"
)

// MissingRates computes, for each column, the fraction of missing cells
// in [0, 1]. It is a pure function and recomputes fresh on every call.
// A table with zero rows yields a rate of 0.0 for every column, so the
// empty-denominator case never divides by zero.
func MissingRates(t *model.Table) map[string]float64 {
	rates := make(map[string]float64, t.NumCols())
	rows := t.NumRows()
	for _, col := range t.Columns() {
		if rows == 0 {
			rates[col.Name()] = 0.0
			continue
		}
		rates[col.Name()] = float64(col.MissingCount()) / float64(rows)
	}
	return rates
}

func nan() float64 { return math.NaN() }
