package projection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/fillcash/internal/models"
)

// Fixed leading columns of every ledger, before the card columns.
const (
	ColumnDate    = "date"
	ColumnInflow  = "inflow"
	ColumnOutflow = "outflow"
)

// Row is one calendar day of the ledger.
type Row struct {
	Date    time.Time
	Kind    DayKind
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Cards   map[string]decimal.Decimal
	// Due lists the card columns with at least one bill due this day, in
	// ledger column order, each column once.
	Due []string
}

// Card returns the amount charged to column key on this row.
func (r Row) Card(key string) decimal.Decimal {
	if v, ok := r.Cards[key]; ok {
		return v
	}
	return decimal.Zero
}

// Ledger is the assembled day-by-day table.
type Ledger struct {
	// Columns are the card column keys in configuration order.
	Columns []string
	Rows    []Row

	rowIndex map[time.Time]int
	colIndex map[string]int
}

// Header returns the numeric column order: date, inflow, outflow, cards.
func (l *Ledger) Header() []string {
	header := make([]string, 0, 3+len(l.Columns))
	header = append(header, ColumnDate, ColumnInflow, ColumnOutflow)
	return append(header, l.Columns...)
}

// RowAt returns the index of the row dated d.
func (l *Ledger) RowAt(d time.Time) (int, bool) {
	i, ok := l.rowIndex[d]
	return i, ok
}

// HasColumn reports whether key is a registered card column.
func (l *Ledger) HasColumn(key string) bool {
	_, ok := l.colIndex[key]
	return ok
}

// CardColumns derives the card column keys from the configured cards,
// keeping configuration order and the first occurrence of a repeated key.
func CardColumns(cards []models.CardDefinition) []string {
	seen := make(map[string]bool, len(cards))
	cols := make([]string, 0, len(cards))
	for _, c := range cards {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		cols = append(cols, key)
	}
	return cols
}

// Assemble builds one row per calendar day from the merged flows, with every
// card column initialised to zero.
func Assemble(cal Calendar, cards []models.CardDefinition, flows []Flow, states DayStates) (*Ledger, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if len(flows) != len(cal) || len(states.Kinds) != len(cal) {
		return nil, fmt.Errorf("%w: %d flows and %d day states for %d calendar days",
			ErrInvariant, len(flows), len(states.Kinds), len(cal))
	}

	cols := CardColumns(cards)
	l := &Ledger{
		Columns:  cols,
		Rows:     make([]Row, len(cal)),
		rowIndex: make(map[time.Time]int, len(cal)),
		colIndex: make(map[string]int, len(cols)),
	}
	for i, key := range cols {
		l.colIndex[key] = i
	}
	for i, d := range cal {
		row := Row{
			Date:    d,
			Kind:    states.Kinds[i],
			Inflow:  flows[i].Inflow,
			Outflow: flows[i].Outflow,
			Cards:   make(map[string]decimal.Decimal, len(cols)),
		}
		for _, key := range cols {
			row.Cards[key] = decimal.Zero
		}
		l.Rows[i] = row
		l.rowIndex[d] = i
	}
	return l, nil
}
