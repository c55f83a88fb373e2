package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a canonical bank transaction as produced by statement extraction.
// Inflow and Outflow are the non-negative halves of Amount.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Inflow      decimal.Decimal
	Outflow     decimal.Decimal
}

// NewTransaction builds a Transaction and derives Inflow/Outflow from the sign of amount.
func NewTransaction(date time.Time, description string, amount decimal.Decimal) Transaction {
	tx := Transaction{
		Date:        Day(date),
		Description: description,
		Amount:      amount,
		Inflow:      decimal.Zero,
		Outflow:     decimal.Zero,
	}
	if amount.IsPositive() {
		tx.Inflow = amount
	} else if amount.IsNegative() {
		tx.Outflow = amount.Neg()
	}
	return tx
}

// NewTransactionFromFlows builds a Transaction from separate credit and debit
// columns, as some statements report them. Amount is inflow minus outflow.
func NewTransactionFromFlows(date time.Time, description string, inflow, outflow decimal.Decimal) Transaction {
	return Transaction{
		Date:        Day(date),
		Description: description,
		Amount:      inflow.Sub(outflow),
		Inflow:      inflow,
		Outflow:     outflow,
	}
}

// Validate checks the structural rules of a canonical transaction.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %q has no date", t.Description)
	}
	if t.Inflow.IsNegative() || t.Outflow.IsNegative() {
		return fmt.Errorf("transaction %q on %s has a negative inflow or outflow", t.Description, t.Date.Format(DateLayout))
	}
	return nil
}

// LastDate returns the most recent transaction date, and false for an empty set.
func LastDate(txs []Transaction) (time.Time, bool) {
	var last time.Time
	found := false
	for _, tx := range txs {
		d := Day(tx.Date)
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	return last, found
}
