package projection

import (
	"time"

	"fjacquet/fillcash/internal/models"
)

// Input gathers everything one projection run consumes.
type Input struct {
	Now          time.Time
	Transactions []models.Transaction
	Recurring    []models.RecurringItem
	Cards        []models.CardDefinition
	Bills        []models.CardBill
}

// Project runs calendar building, day classification, recurring projection,
// actual overlay, row assembly and bill allocation in that order.
func Project(in Input) (*Ledger, error) {
	cal := BuildCalendar(in.Now)
	states := ClassifyDays(cal, in.Transactions)

	projected := ProjectRecurring(cal, in.Recurring, states)
	merged, err := OverlayActuals(cal, projected, AggregateByDate(in.Transactions))
	if err != nil {
		return nil, err
	}

	ledger, err := Assemble(cal, in.Cards, merged, states)
	if err != nil {
		return nil, err
	}
	AllocateBills(ledger, in.Bills)
	return ledger, nil
}
