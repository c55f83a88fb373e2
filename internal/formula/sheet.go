package formula

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/projection"
)

// CellKind tells the renderer how to write a cell.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
	CellFormula
)

// Cell is one value of the output table.
type Cell struct {
	Kind    CellKind
	Text    string // text value, or the formula including its leading '='
	Number  decimal.Decimal
	Balance *Balance // set on formula cells
}

// Sheet is the output table: header plus one row per ledger day.
type Sheet struct {
	Header []string
	Rows   [][]Cell
}

// BuildSheet generates the balance chain and lays the ledger out as a sheet:
// date, inflow, outflow, card columns in ledger order, balance.
func BuildSheet(l *projection.Ledger) (*Sheet, error) {
	balances, err := Generate(l)
	if err != nil {
		return nil, err
	}
	if len(balances) != len(l.Rows) {
		return nil, fmt.Errorf("%w: %d balances for %d rows", ErrBrokenChain, len(balances), len(l.Rows))
	}

	lay := NewLayout(l)
	sheet := &Sheet{Header: lay.Header, Rows: make([][]Cell, len(l.Rows))}
	for i, row := range l.Rows {
		cells := make([]Cell, 0, len(lay.Header))
		cells = append(cells,
			Cell{Kind: CellText, Text: dateutils.ToISODate(row.Date)},
			Cell{Kind: CellNumber, Number: row.Inflow},
			Cell{Kind: CellNumber, Number: row.Outflow},
		)
		for _, key := range l.Columns {
			cells = append(cells, Cell{Kind: CellNumber, Number: row.Card(key)})
		}
		b := balances[i]
		cells = append(cells, Cell{Kind: CellFormula, Text: b.String(), Balance: &b})
		sheet.Rows[i] = cells
	}
	return sheet, nil
}

// Records flattens the sheet to strings, header first. Numbers use two
// decimal places and formula cells keep their formula text.
func (s *Sheet) Records() [][]string {
	records := make([][]string, 0, len(s.Rows)+1)
	records = append(records, append([]string(nil), s.Header...))
	for _, row := range s.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			if c.Kind == CellNumber {
				rec[i] = c.Number.StringFixed(2)
			} else {
				rec[i] = c.Text
			}
		}
		records = append(records, rec)
	}
	return records
}

// cell returns the cell at a 1-based sheet coordinate.
func (s *Sheet) cell(ref Ref) (Cell, error) {
	i := ref.Row - FirstDataRow
	if i < 0 || i >= len(s.Rows) || ref.Col < 1 || ref.Col > len(s.Rows[i]) {
		return Cell{}, fmt.Errorf("reference %s is outside the data area", ref)
	}
	return s.Rows[i][ref.Col-1], nil
}
