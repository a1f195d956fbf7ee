// pkg/loader/writer.go
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"datasweep/pkg/model"
)

// WriteCSV writes the table as CSV with a header row of column names.
// Missing cells are written as empty fields.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c, col := range t.Columns() {
			v, ok := col.CellString(r)
			if !ok {
				v = ""
			}
			record[c] = v
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a CSV file, creating or truncating it
func SaveCSV(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return err
	}
	return f.Sync()
}
