package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const bom = "\ufeff"

// readRecords reads every delimited record, tolerating ragged rows and stray
// quotes as bank exports often contain both.
func readRecords(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], bom)
	}
	return records, nil
}

// cell returns the trimmed field at i, or "" when the row is shorter.
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// hasPrefixCells reports whether row starts with the cells of want.
func hasPrefixCells(row, want []string) bool {
	if len(row) < len(want) {
		return false
	}
	for i, w := range want {
		if cell(row, i) != w {
			return false
		}
	}
	return true
}

func snippet(records [][]string) string {
	if len(records) == 0 {
		return ""
	}
	return strings.Join(records[0], ",")
}
