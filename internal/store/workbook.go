package store

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fjacquet/fillcash/internal/dateutils"
)

// BillsSheet is the worksheet written for a bills workbook. Reading takes
// the first sheet, whatever its name.
const BillsSheet = "Bills"

// billColumns is the header of a bills workbook. Reading matches headers by
// name, so columns may be reordered or extra ones added.
var billColumns = []string{"bank", "name", "last_digits", "due_day", "month", "due_date", "amount"}

func encodeWorkbook(w io.Writer, records []BillRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), BillsSheet); err != nil {
		return fmt.Errorf("error naming bills sheet: %w", err)
	}

	header := make([]interface{}, len(billColumns))
	for i, name := range billColumns {
		header[i] = name
	}
	if err := f.SetSheetRow(BillsSheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing bills header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Bank,
			r.Name,
			r.LastDigits,
			r.DueDay,
			r.Month,
			r.DueDate,
			r.Amount.InexactFloat64(),
		}
		if err := f.SetSheetRow(BillsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing bill row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}

func decodeWorkbook(data []byte) ([]BillRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a readable workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []BillRecord{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"bank", "name", "last_digits", "amount"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	get := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]BillRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		line := n + 2
		amount, err := ParseMoney(get(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, BillRecord{
			Bank:       get(row, "bank"),
			Name:       get(row, "name"),
			LastDigits: cellInteger(get(row, "last_digits")),
			DueDay:     cellDay(get(row, "due_day")),
			Month:      cellDate(get(row, "month"), dateutils.MonthLayout),
			DueDate:    cellDate(get(row, "due_date"), dateutils.DateLayoutISO),
			Amount:     amount,
		})
	}
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellInteger turns a number stored as float ("1234.0") back into its digits.
// Text cells such as "0042" are returned unchanged.
func cellInteger(v string) string {
	if strings.HasSuffix(v, ".0") {
		return strings.TrimSuffix(v, ".0")
	}
	return v
}

// cellDay parses a day-of-month cell. Anything unreadable becomes 0, which
// the bill validation rejects unless an explicit due date is present.
func cellDay(v string) int {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// cellDate converts a date serial number to layout. Text dates are kept as
// typed and parsed later.
func cellDate(v, layout string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(layout)
}
