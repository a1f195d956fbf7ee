// pkg/cleaner/normalizer.go
package cleaner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"datasweep/pkg/model"
)

// coerceRatio is the minimum fraction of rows that must parse as numbers
// for a text column to be adopted as numeric
const coerceRatio = 0.5

// Normalizer applies the initial cleaning pass: name normalization,
// empty-column pruning, numeric coercion of text columns, and exact
// duplicate-row removal
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer
func NewNormalizer(logger *zap.Logger) (*Normalizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Normalizer{logger: logger}, nil
}

// Normalize returns a cleaned copy of the table. The caller's table is
// never mutated. Normalize is idempotent on its own output.
func (n *Normalizer) Normalize(t *model.Table) *model.Table {
	out := t.Clone()

	n.normalizeNames(out)
	n.dropEmptyColumns(out)
	n.coerceNumericColumns(out)
	out = n.dropDuplicateRows(out)

	return out
}

// normalizeNames trims, lowercases, and underscores every column name.
// Names that collide after normalization are disambiguated with a numeric
// suffix in column order rather than silently shadowed.
func (n *Normalizer) normalizeNames(t *model.Table) {
	taken := make(map[string]struct{}, t.NumCols())
	for i, col := range t.Columns() {
		name := NormalizeName(col.Name())
		if _, clash := taken[name]; clash {
			base := name
			for k := 2; ; k++ {
				name = fmt.Sprintf("%s_%d", base, k)
				if _, used := taken[name]; !used {
					break
				}
			}
			n.logger.Warn("Column name collision after normalization",
				zap.String("name", base),
				zap.String("renamed_to", name))
		}
		taken[name] = struct{}{}
		t.RenameColumn(i, name)
	}
}

// NormalizeName applies the column-name transform: trim surrounding
// whitespace, lowercase, replace internal spaces with underscores
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// dropEmptyColumns removes columns whose cells are all missing.
// Zero-row columns are kept: with no rows there are no missing cells,
// matching the zero-rate convention of MissingRates.
func (n *Normalizer) dropEmptyColumns(t *model.Table) {
	var empty []string
	for _, col := range t.Columns() {
		if col.Len() > 0 && col.MissingCount() == col.Len() {
			empty = append(empty, col.Name())
		}
	}
	for _, name := range empty {
		t.DropColumn(name)
		n.logger.Info("Dropped fully empty column", zap.String("column", name))
	}
}

// coerceNumericColumns attempts numeric coercion of every categorical
// column. The coerced column is adopted when the fraction of rows that
// parse is at least coerceRatio; residual unparsable cells become missing.
// Columns below the ratio are left untouched.
func (n *Normalizer) coerceNumericColumns(t *model.Table) {
	rows := t.NumRows()
	if rows == 0 {
		return
	}

	for i, col := range t.Columns() {
		cat, ok := col.(*model.CategoricalColumn)
		if !ok {
			continue
		}

		values := make([]float64, cat.Len())
		parsed := 0
		for j := range cat.Values {
			if cat.Nulls[j] {
				values[j] = nan()
				continue
			}
			v, err := ParseNumber(cat.Values[j])
			if err != nil {
				values[j] = nan()
				continue
			}
			values[j] = v
			parsed++
		}

		if ratio := float64(parsed) / float64(rows); ratio >= coerceRatio {
			t.ReplaceColumn(i, model.NewNumericColumn(cat.Name(), values))
			n.logger.Info("Coerced text column to numeric",
				zap.String("column", cat.Name()),
				zap.Float64("parsed_ratio", ratio))
		}
	}
}

// ParseNumber parses a numeric-looking cell, stripping thousands-separator
// commas and surrounding whitespace
func ParseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, errors.New("empty string")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// dropDuplicateRows removes rows that are exact duplicates across all
// columns, keeping the first occurrence in stable order
func (n *Normalizer) dropDuplicateRows(t *model.Table) *model.Table {
	rows := t.NumRows()
	if rows == 0 {
		return t
	}

	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	if len(keep) == rows {
		return t
	}
	n.logger.Info("Dropped duplicate rows", zap.Int("count", rows-len(keep)))
	return t.FilterRows(keep)
}
