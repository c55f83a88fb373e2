// Package formula turns a numeric ledger into the spreadsheet table handed to
// the renderer: one header row, one row per day, and a balance column whose
// cells are running-balance formulas in A1 notation rather than numbers.
//
// The balance of data row i is
//
//	=<balance of row i-1>+<inflow i>-<outflow i>[-(<card cells due on row i>)]
//
// with the literal 0 standing in for the predecessor of the first data row.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/projection"
)

// Sheet coordinates
const (
	HeaderRow    = 1
	FirstDataRow = 2

	ColumnBalance = "balance"
)

// ErrBrokenChain reports a balance chain that cannot be expressed consistently.
var ErrBrokenChain = errors.New("balance chain broken")

// Ref is a 1-based cell coordinate.
type Ref struct {
	Col int
	Row int
}

// String renders the reference in A1 notation.
func (r Ref) String() string {
	name, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return fmt.Sprintf("#REF(%d,%d)", r.Col, r.Row)
	}
	return name
}

// Balance is the symbolic running balance of one data row.
type Balance struct {
	Cell       Ref
	Prev       *Ref // nil on the first data row
	Inflow     Ref
	Outflow    Ref
	Deductions []Ref
}

// Expr renders the formula without the leading '='.
func (b Balance) Expr() string {
	var sb strings.Builder
	if b.Prev == nil {
		sb.WriteString("0")
	} else {
		sb.WriteString(b.Prev.String())
	}
	sb.WriteString("+" + b.Inflow.String())
	sb.WriteString("-" + b.Outflow.String())
	if len(b.Deductions) > 0 {
		cells := make([]string, len(b.Deductions))
		for i, d := range b.Deductions {
			cells[i] = d.String()
		}
		sb.WriteString("-(" + strings.Join(cells, "+") + ")")
	}
	return sb.String()
}

// String renders the formula as written into the sheet.
func (b Balance) String() string {
	return "=" + b.Expr()
}

// Layout maps ledger column names to sheet column numbers.
type Layout struct {
	Header  []string
	columns map[string]int
}

// NewLayout places the ledger columns in order and appends the balance column.
func NewLayout(l *projection.Ledger) Layout {
	header := append(l.Header(), ColumnBalance)
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i + 1
	}
	return Layout{Header: header, columns: cols}
}

// Column returns the 1-based sheet column of name.
func (lay Layout) Column(name string) (int, bool) {
	c, ok := lay.columns[name]
	return c, ok
}

// Generate walks the ledger once, front to back, and builds each row's balance
// from its predecessor. Any gap between consecutive dates, or a card column the
// layout does not know, aborts the whole chain.
func Generate(l *projection.Ledger) ([]Balance, error) {
	if l == nil || len(l.Rows) == 0 {
		return nil, fmt.Errorf("%w: empty ledger", ErrBrokenChain)
	}
	lay := NewLayout(l)
	inflowCol, _ := lay.Column(projection.ColumnInflow)
	outflowCol, _ := lay.Column(projection.ColumnOutflow)
	balanceCol, _ := lay.Column(ColumnBalance)

	balances := make([]Balance, 0, len(l.Rows))
	for i, row := range l.Rows {
		sheetRow := FirstDataRow + i
		b := Balance{
			Cell:    Ref{Col: balanceCol, Row: sheetRow},
			Inflow:  Ref{Col: inflowCol, Row: sheetRow},
			Outflow: Ref{Col: outflowCol, Row: sheetRow},
		}

		if i > 0 {
			prevDate := l.Rows[i-1].Date
			if !row.Date.Equal(prevDate.AddDate(0, 0, 1)) {
				return nil, fmt.Errorf("%w: row %d (%s) does not follow %s", ErrBrokenChain,
					sheetRow, dateutils.ToISODate(row.Date), dateutils.ToISODate(prevDate))
			}
			prev := balances[i-1].Cell
			if prev.Row != sheetRow-1 || prev.Col != balanceCol {
				return nil, fmt.Errorf("%w: row %d has no predecessor balance", ErrBrokenChain, sheetRow)
			}
			b.Prev = &prev
		}

		for _, key := range row.Due {
			col, ok := lay.Column(key)
			if !ok || col <= outflowCol || col >= balanceCol {
				return nil, fmt.Errorf("%w: row %d charges unknown card column %q", ErrBrokenChain, sheetRow, key)
			}
			b.Deductions = append(b.Deductions, Ref{Col: col, Row: sheetRow})
		}
		balances = append(balances, b)
	}
	return balances, nil
}
