// pkg/loader/loader.go
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"datasweep/pkg/model"
)

// naValues are the cell spellings treated as missing on load
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"?":    {},
}

// IsNA reports whether a raw cell spelling counts as missing
func IsNA(s string) bool {
	_, ok := naValues[s]
	return ok
}

// Load reads a whitespace-delimited table from a file. See Read.
func Load(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return t, nil
}

// Read parses a whitespace-delimited table with no header row. Fields are
// separated by runs of spaces or tabs; blank lines are skipped. Columns
// receive positional names ("0", "1", ...) and are loaded as categorical;
// numeric resolution happens later, in the Normalizer. Every row must have
// the same field count as the first.
func Read(r io.Reader) (*model.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records [][]string
	width := -1
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if width == -1 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("line %d has %d fields, expected %d", line, len(fields), width)
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan input: %w", err)
	}
	if width == -1 {
		return nil, fmt.Errorf("input contains no data rows")
	}

	cols := make([]model.Column, width)
	for c := 0; c < width; c++ {
		values := make([]string, len(records))
		nulls := make([]bool, len(records))
		for r, record := range records {
			cell := record[c]
			if IsNA(cell) {
				nulls[r] = true
				continue
			}
			values[r] = cell
		}
		cols[c] = model.NewCategoricalColumn(strconv.Itoa(c), values, nulls)
	}

	return model.NewTable(cols...)
}
