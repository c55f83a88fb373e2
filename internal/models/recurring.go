package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecurringKind tells whether a recurring item adds to inflow or outflow.
type RecurringKind string

const (
	KindIncome  RecurringKind = "income"
	KindExpense RecurringKind = "expense"
)

// RecurringItem is a fixed monthly income or expense on a given day of month.
// Days past the end of a short month simply do not occur that month.
type RecurringItem struct {
	Day         int
	Amount      decimal.Decimal
	Kind        RecurringKind
	Description string
}

// Validate checks day range, amount sign and kind.
func (r RecurringItem) Validate() error {
	if r.Day < 1 || r.Day > 31 {
		return fmt.Errorf("recurring %s %q: day %d out of range 1-31", r.Kind, r.Description, r.Day)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("recurring %s %q: amount must be positive, got %s", r.Kind, r.Description, r.Amount)
	}
	switch r.Kind {
	case KindIncome, KindExpense:
		return nil
	default:
		return fmt.Errorf("recurring item %q: unknown kind %q", r.Description, r.Kind)
	}
}
