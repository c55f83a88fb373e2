// Package projection builds the day-by-day cash flow ledger.
//
// A run classifies every calendar day as actual (at least one real transaction
// that day) or projected, projects recurring income and expenses onto projected
// days after the last actual date, overlays the real per-day totals, and then
// charges scheduled card bills into per-card columns. The package is purely
// numeric: it knows nothing about spreadsheet cells or formulas, and it never
// logs. Conditions the caller can fix by editing inputs (unknown cards, bills
// outside the window) are absorbed silently; broken internal invariants are
// returned as errors wrapping ErrInvariant.
package projection

import "errors"

// ErrInvariant reports a ledger that cannot be trusted, e.g. a calendar with gaps.
var ErrInvariant = errors.New("ledger invariant violated")
