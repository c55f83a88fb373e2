package projection

import (
	"time"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/models"
)

// DayKind is the source a day's inflow/outflow comes from.
type DayKind int

const (
	DayProjected DayKind = iota
	DayActual
)

func (k DayKind) String() string {
	if k == DayActual {
		return "actual"
	}
	return "projected"
}

// DayStates holds the per-day classification of a calendar and the last date
// with actual data. It is computed once per run.
type DayStates struct {
	Kinds      []DayKind // aligned with the calendar
	LastActual time.Time // zero when HasActual is false
	HasActual  bool

	actual map[time.Time]struct{}
}

// ClassifyDays marks every calendar day that has at least one transaction as
// actual. The last actual date considers every transaction, including those
// outside the calendar window.
func ClassifyDays(cal Calendar, txs []models.Transaction) DayStates {
	states := DayStates{
		Kinds:  make([]DayKind, len(cal)),
		actual: make(map[time.Time]struct{}, len(txs)),
	}
	for _, tx := range txs {
		states.actual[dateutils.Normalize(tx.Date)] = struct{}{}
	}
	states.LastActual, states.HasActual = models.LastDate(txs)

	for i, d := range cal {
		if _, ok := states.actual[d]; ok {
			states.Kinds[i] = DayActual
		}
	}
	return states
}

// IsActual reports whether any transaction falls on d.
func (s DayStates) IsActual(d time.Time) bool {
	_, ok := s.actual[dateutils.Normalize(d)]
	return ok
}

// Projectable reports whether recurring items may land on d: d must be strictly
// after the last actual date and must itself carry no actual data. Both
// conditions are checked even though the first implies the second.
func (s DayStates) Projectable(d time.Time) bool {
	afterActuals := !s.HasActual || d.After(s.LastActual)
	return afterActuals && !s.IsActual(d)
}
