// Package render writes the ledger sheet to disk: the silver CSV with the
// raw ledger columns and the cash-flow workbook whose balance column is made
// of live formulas.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fjacquet/fillcash/internal/common"
	"fjacquet/fillcash/internal/fileutils"
	"fjacquet/fillcash/internal/formula"
	"fjacquet/fillcash/internal/logging"
)

// SheetName is the worksheet holding the cash flow.
const SheetName = "Cashflow"

// SilverRecords returns the sheet without its balance column, header first.
func SilverRecords(s *formula.Sheet) [][]string {
	records := s.Records()
	for i, rec := range records {
		if n := len(rec); n > 0 && (i > 0 || rec[n-1] == formula.ColumnBalance) {
			records[i] = rec[:n-1]
		}
	}
	return records
}

// Outputs locates and shapes the files of one run.
type Outputs struct {
	SilverPath string
	SheetPath  string
	Delimiter  rune
	// CardColors maps a card column to its header, even-row and odd-row
	// fills, as #RRGGBB.
	CardColors map[string][]string
}

// WriteAll writes the silver CSV and the workbook. Both are rendered before
// either is moved into place, so a failure leaves the previous outputs as
// they were.
func WriteAll(out Outputs, s *formula.Sheet, logger logging.Logger) error {
	records := SilverRecords(s)
	silver, err := fileutils.Stage(out.SilverPath, func(w io.Writer) error {
		return common.WriteRecords(w, records, out.Delimiter)
	})
	if err != nil {
		return fmt.Errorf("error writing silver ledger: %w", err)
	}

	book, err := stageWorkbook(out.SheetPath, s, out.CardColors)
	if err != nil {
		silver.Discard()
		return err
	}

	if err := fileutils.CommitAll(silver, book); err != nil {
		return fmt.Errorf("error saving outputs: %w", err)
	}

	logger.Info("Saved silver ledger",
		logging.F(logging.FieldOutputFile, out.SilverPath),
		logging.F(logging.FieldCount, len(records)-1),
		logging.F(logging.FieldDelimiter, string(out.Delimiter)))
	logger.Info("Saved cash-flow workbook",
		logging.F(logging.FieldOutputFile, out.SheetPath),
		logging.F(logging.FieldCount, len(s.Rows)))
	return nil
}

// NewWorkbook lays the sheet out on a fresh workbook. Numbers are written
// as numbers and balance cells as formulas. Card columns listed in colors
// are painted.
func NewWorkbook(s *formula.Sheet, colors map[string][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	if err := fillSheet(f, s); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := paintCards(f, s, colors); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, s *formula.Sheet) error {
	for i, name := range s.Header {
		ref := formula.Ref{Col: i + 1, Row: formula.HeaderRow}
		if err := f.SetCellValue(SheetName, ref.String(), name); err != nil {
			return fmt.Errorf("error writing header %s: %w", ref, err)
		}
	}

	for i, row := range s.Rows {
		for j, c := range row {
			ref := formula.Ref{Col: j + 1, Row: formula.FirstDataRow + i}.String()
			var err error
			switch c.Kind {
			case formula.CellNumber:
				err = f.SetCellFloat(SheetName, ref, c.Number.InexactFloat64(), 2, 64)
			case formula.CellFormula:
				err = f.SetCellFormula(SheetName, ref, strings.TrimPrefix(c.Text, "="))
			default:
				err = f.SetCellValue(SheetName, ref, c.Text)
			}
			if err != nil {
				return fmt.Errorf("error writing cell %s: %w", ref, err)
			}
		}
	}

	return nil
}

// paintCards fills each colored card column: the header with the first
// color, then data rows alternating the second (even sheet rows) and third
// (odd sheet rows).
func paintCards(f *excelize.File, s *formula.Sheet, colors map[string][]string) error {
	for i, name := range s.Header {
		palette, ok := colors[name]
		if !ok {
			continue
		}
		if len(palette) != 3 {
			return fmt.Errorf("card %s: want 3 colors, got %d", name, len(palette))
		}
		styles := make([]int, len(palette))
		for j, c := range palette {
			id, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(c, "#")}},
			})
			if err != nil {
				return fmt.Errorf("card %s: invalid color %s: %w", name, c, err)
			}
			styles[j] = id
		}

		col := i + 1
		last := formula.FirstDataRow + len(s.Rows) - 1
		for row := formula.HeaderRow; row <= last; row++ {
			style := styles[0]
			if row != formula.HeaderRow {
				style = styles[1+row%2]
			}
			ref := formula.Ref{Col: col, Row: row}.String()
			if err := f.SetCellStyle(SheetName, ref, ref, style); err != nil {
				return fmt.Errorf("error styling cell %s: %w", ref, err)
			}
		}
	}
	return nil
}

func stageWorkbook(path string, s *formula.Sheet, colors map[string][]string) (*fileutils.StagedFile, error) {
	f, err := NewWorkbook(s, colors)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	staged, err := fileutils.Stage(path, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return staged, nil
}
